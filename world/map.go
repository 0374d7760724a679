// Package world implements the map of loaded chunks: their load and unload lifecycle, cube edits that cross chunk
// boundaries, and the collision and ray queries run against them.
package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/peterhenryd/herbolution-sub001/define"
	"github.com/peterhenryd/herbolution-sub001/world/chunk"
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
	"github.com/peterhenryd/herbolution-sub001/world/palette"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// ErrUnknownMaterial is returned by SetCubeByKey for keys missing from the registry.
var ErrUnknownMaterial = errors.New("world: unknown material")

// Map is the spatial index of loaded chunks. A chunk position is either absent, pending (being loaded or
// generated on a worker) or present exactly once.
// Methods of Map are safe for concurrent use, but Update is expected to be called from a single goroutine.
type Map struct {
	conf Config
	log  *logrus.Logger
	pool pond.Pool

	mu      deadlock.RWMutex
	chunks  map[cube.ChunkPos]*chunkEntry
	pending map[cube.ChunkPos]uint64
	token   uint64

	results chan result

	unloadMu sync.Mutex
	unloads  []cube.ChunkPos

	closed *atomic.Bool
	stale  *atomic.Int64
}

// result is the outcome of a load job.
type result struct {
	pos   cube.ChunkPos
	token uint64
	c     *chunk.Mesh
	err   error
}

// QueueLoad schedules the chunk at pos to be loaded from the provider, or generated if the provider does not
// hold it. It does nothing if the chunk is already loaded or pending. A queued unload of the same chunk is
// cancelled.
func (m *Map) QueueLoad(pos cube.ChunkPos) {
	if m.closed.Load() {
		return
	}
	m.unloadMu.Lock()
	for i, p := range m.unloads {
		if p == pos {
			m.unloads = append(m.unloads[:i], m.unloads[i+1:]...)
			break
		}
	}
	m.unloadMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.chunks[pos]; ok {
		return
	}
	if _, ok := m.pending[pos]; ok {
		return
	}
	m.token++
	token := m.token
	m.pending[pos] = token
	m.pool.Submit(func() {
		c, err := m.produce(pos)
		m.results <- result{pos: pos, token: token, c: c, err: err}
	})
}

// QueueUnload schedules the chunk at pos to be removed during the next Update. A chunk that is still pending is
// dropped once its job finishes.
func (m *Map) QueueUnload(pos cube.ChunkPos) {
	m.unloadMu.Lock()
	defer m.unloadMu.Unlock()
	for _, p := range m.unloads {
		if p == pos {
			return
		}
	}
	m.unloads = append(m.unloads, pos)
}

// Update inserts the chunks finished loading since the previous call, applies queued unloads, and hands every
// palette addition and changed cube to h. It never blocks on pending jobs.
func (m *Map) Update(h define.Handle) {
	if h == nil {
		h = define.NopHandle{}
	}
drain:
	for {
		select {
		case r := <-m.results:
			m.insert(r, h)
		default:
			break drain
		}
	}

	m.unloadMu.Lock()
	unloads := m.unloads
	m.unloads = nil
	m.unloadMu.Unlock()
	for _, pos := range unloads {
		m.unload(pos, h)
	}

	for _, c := range m.loaded() {
		pos := c.Position()
		c.Palette().Update(publisher{pos: pos, h: h})

		c.Lock()
		updates := c.Flush()
		c.Unlock()
		if len(updates) > 0 {
			h.HandleCubesUpdated(pos, updates)
		}
	}
}

// produce loads the chunk at pos from the provider, falling back to the generator.
func (m *Map) produce(pos cube.ChunkPos) (*chunk.Mesh, error) {
	if m.conf.Provider != nil {
		c, found, err := m.conf.Provider.LoadChunk(pos)
		if err != nil {
			m.log.WithField("chunk", pos).Errorf("load chunk: %v", err)
		}
		if found && err == nil {
			return c, nil
		}
	}
	if m.conf.Generator == nil {
		return chunk.New(pos), nil
	}
	c, err := m.conf.Generator.Generate(pos)
	if err != nil {
		return nil, fmt.Errorf("generate chunk %v: %w", pos, err)
	}
	if c == nil {
		return nil, fmt.Errorf("generate chunk %v: no chunk produced", pos)
	}
	return c, nil
}

// insert adds a finished chunk to the map if it is still wanted and schedules culling against its loaded
// neighbours.
func (m *Map) insert(r result, h define.Handle) {
	m.mu.Lock()
	if token, ok := m.pending[r.pos]; !ok || token != r.token {
		m.mu.Unlock()
		m.stale.Inc()
		m.log.WithField("chunk", r.pos).Debug("discarding chunk no longer wanted")
		return
	}
	delete(m.pending, r.pos)
	if r.err != nil {
		m.mu.Unlock()
		m.log.WithField("chunk", r.pos).Errorf("load chunk: %v", r.err)
		return
	}
	if r.c.Position() != r.pos {
		m.mu.Unlock()
		m.log.WithField("chunk", r.pos).Errorf("load chunk: got chunk at %v", r.c.Position())
		return
	}
	c := &chunkEntry{Mesh: r.c}
	m.chunks[r.pos] = c
	neighbours := m.neighbours(r.pos)
	m.mu.Unlock()

	h.HandleChunkLoaded(r.pos)
	for _, n := range neighbours {
		n := n
		m.pool.Submit(func() {
			m.cull(c, n.c)
		})
	}
}

// cull hides the faces shared by two neighbouring chunks, unless either has been unloaded meanwhile.
func (m *Map) cull(a, b *chunkEntry) {
	unlock := lockPair(a, b)
	defer unlock()
	if a.unloaded || b.unloaded {
		return
	}
	a.CullShared(b.Mesh)
}

// unload removes the chunk at pos, storing it through the provider and rendering the faces its neighbours had
// hidden against it.
func (m *Map) unload(pos cube.ChunkPos, h define.Handle) {
	m.mu.Lock()
	if _, ok := m.pending[pos]; ok {
		delete(m.pending, pos)
		m.mu.Unlock()
		return
	}
	c, ok := m.chunks[pos]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.chunks, pos)
	neighbours := m.neighbours(pos)
	m.mu.Unlock()

	c.Lock()
	c.unloaded = true
	c.Flush()
	c.Unlock()
	m.save(c)

	for _, n := range neighbours {
		n.c.Lock()
		n.c.ResetBoundary(n.face.Opposite())
		n.c.Unlock()
	}
	h.HandleChunkUnloaded(pos)
}

// save stores the chunk through the provider, if there is one.
func (m *Map) save(c *chunkEntry) {
	if m.conf.Provider == nil {
		return
	}
	c.RLock()
	err := m.conf.Provider.SaveChunk(c.Mesh)
	c.RUnlock()
	if err != nil {
		m.log.WithField("chunk", c.Position()).Errorf("save chunk: %v", err)
	}
}

// neighbour is a loaded chunk across the face of another chunk.
type neighbour struct {
	face cube.Face
	c    *chunkEntry
}

// neighbours returns the loaded chunks adjacent to pos. m.mu must be held.
func (m *Map) neighbours(pos cube.ChunkPos) []neighbour {
	var n []neighbour
	for _, f := range cube.Faces() {
		if c, ok := m.chunks[pos.Side(f)]; ok {
			n = append(n, neighbour{face: f, c: c})
		}
	}
	return n
}

// chunk returns the loaded chunk at pos.
func (m *Map) chunk(pos cube.ChunkPos) (*chunkEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.chunks[pos]
	return c, ok
}

// loaded returns all loaded chunks ordered by position.
func (m *Map) loaded() []*chunkEntry {
	m.mu.RLock()
	chunks := make([]*chunkEntry, 0, len(m.chunks))
	for _, c := range m.chunks {
		chunks = append(chunks, c)
	}
	m.mu.RUnlock()
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Position().Less(chunks[j].Position())
	})
	return chunks
}

// SetCube sets the cube at pos to the material passed, or empties it if mat is nil. Faces shared with loaded
// neighbouring chunks are updated on both sides. Setting a cube in a chunk that is not loaded does nothing.
func (m *Map) SetCube(pos cube.Pos, mat *material.Material) error {
	cp, l := pos.Chunk(), pos.Local()
	c, ok := m.chunk(cp)
	if !ok {
		return nil
	}
	c.Lock()
	if c.unloaded {
		c.Unlock()
		return nil
	}
	err := c.Set(l, mat)
	c.Unlock()
	if err != nil {
		return err
	}

	for _, f := range cube.Faces() {
		if !l.Boundary(f) {
			continue
		}
		n, ok := m.chunk(cp.Side(f))
		if !ok {
			continue
		}
		nl, _ := l.Neighbour(f)
		unlock := lockPair(c, n)
		if !c.unloaded && !n.unloaded {
			c.SetNeighbour(l, f, n.Material(nl))
			n.SetNeighbour(nl, f.Opposite(), c.Material(l))
		}
		unlock()
	}
	return nil
}

// SetCubeByKey is like SetCube, but looks the material up in the registry of the Map. ErrUnknownMaterial is
// returned if the key is not registered.
func (m *Map) SetCubeByKey(pos cube.Pos, k material.Key) error {
	mat, ok := m.conf.Registry.Lookup(k)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownMaterial, k)
	}
	return m.SetCube(pos, mat)
}

// Material returns the material of the cube at pos, or nil if the cube is empty or its chunk is not loaded.
func (m *Map) Material(pos cube.Pos) *material.Material {
	c, ok := m.chunk(pos.Chunk())
	if !ok {
		return nil
	}
	c.RLock()
	defer c.RUnlock()
	return c.Material(pos.Local())
}

// View calls fn with the mesh of the chunk at pos while holding its read lock. fn must not keep the mesh. View
// returns false if the chunk is not loaded.
func (m *Map) View(pos cube.ChunkPos, fn func(c *chunk.Mesh)) bool {
	c, ok := m.chunk(pos)
	if !ok {
		return false
	}
	c.RLock()
	defer c.RUnlock()
	fn(c.Mesh)
	return true
}

// Loaded reports if the chunk at pos is loaded.
func (m *Map) Loaded(pos cube.ChunkPos) bool {
	_, ok := m.chunk(pos)
	return ok
}

// Len returns the amount of loaded chunks.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// Close waits for running jobs to finish, stores every loaded chunk through the provider and closes it. Loads
// still pending are dropped.
func (m *Map) Close() error {
	if !m.closed.CAS(false, true) {
		return nil
	}
	done := make(chan struct{})
	go func() {
		m.pool.StopAndWait()
		close(done)
	}()
	for waiting := true; waiting; {
		select {
		case <-m.results:
		case <-done:
			waiting = false
		}
	}

	for _, c := range m.loaded() {
		m.save(c)
	}
	m.mu.Lock()
	m.chunks = make(map[cube.ChunkPos]*chunkEntry)
	m.pending = make(map[cube.ChunkPos]uint64)
	m.mu.Unlock()

	if m.conf.Provider != nil {
		if err := m.conf.Provider.Close(); err != nil {
			return fmt.Errorf("close provider: %w", err)
		}
	}
	return nil
}

// publisher hands palette additions of one chunk to a Handle.
type publisher struct {
	pos cube.ChunkPos
	h   define.Handle
}

// Publish implements palette.Sink.
func (p publisher) Publish(id palette.ID, m *material.Material) {
	p.h.HandleMaterial(p.pos, id, m)
}
