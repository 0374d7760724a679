package world

import (
	"errors"
	"io/ioutil"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/peterhenryd/herbolution-sub001/define"
	"github.com/peterhenryd/herbolution-sub001/world/chunk"
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
	"github.com/peterhenryd/herbolution-sub001/world/palette"
	"github.com/peterhenryd/herbolution-sub001/world/physics"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

var (
	stone = &material.Material{Key: material.Key{Group: "core", Name: "stone"}, Collider: true, Cull: cube.AllFaces}
	dirt  = &material.Material{Key: material.Key{Group: "core", Name: "dirt"}, Collider: true, Cull: cube.AllFaces}
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.Out = ioutil.Discard
	return log
}

// filled generates every chunk filled with the material passed.
func filled(m *material.Material) define.Generator {
	return define.GeneratorFunc(func(pos cube.ChunkPos) (*chunk.Mesh, error) {
		c := chunk.New(pos)
		return c, c.Fill(m)
	})
}

// recorder is a Handle remembering everything it was told.
type recorder struct {
	mu        sync.Mutex
	loaded    []cube.ChunkPos
	unloaded  []cube.ChunkPos
	updates   map[cube.ChunkPos][]chunk.Update
	materials map[cube.ChunkPos][]palette.ID
}

func newRecorder() *recorder {
	return &recorder{updates: map[cube.ChunkPos][]chunk.Update{}, materials: map[cube.ChunkPos][]palette.ID{}}
}

func (r *recorder) HandleChunkLoaded(pos cube.ChunkPos) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = append(r.loaded, pos)
}

func (r *recorder) HandleChunkUnloaded(pos cube.ChunkPos) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unloaded = append(r.unloaded, pos)
}

func (r *recorder) HandleCubesUpdated(pos cube.ChunkPos, updates []chunk.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates[pos] = append(r.updates[pos], updates...)
}

func (r *recorder) HandleMaterial(pos cube.ChunkPos, id palette.ID, _ *material.Material) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.materials[pos] = append(r.materials[pos], id)
}

// load queues the chunks passed and updates the map until all of them are loaded.
func load(t *testing.T, m *Map, h define.Handle, positions ...cube.ChunkPos) {
	t.Helper()
	for _, pos := range positions {
		m.QueueLoad(pos)
	}
	require.Eventually(t, func() bool {
		m.Update(h)
		for _, pos := range positions {
			if !m.Loaded(pos) {
				return false
			}
		}
		return true
	}, 5*time.Second, 5*time.Millisecond)
}

func exposed(m *Map, pos cube.ChunkPos) cube.FaceSet {
	var faces cube.FaceSet
	m.View(pos, func(c *chunk.Mesh) {
		faces = c.Exposed()
	})
	return faces
}

func faces(m *Map, pos cube.Pos) cube.FaceSet {
	var faces cube.FaceSet
	m.View(pos.Chunk(), func(c *chunk.Mesh) {
		faces = c.Cube(pos.Local()).Flags.Faces()
	})
	return faces
}

func TestLoadCullsNeighbours(t *testing.T) {
	m := Config{Log: quietLog(), Generator: filled(stone), Workers: 2}.New()
	defer m.Close()
	h := newRecorder()

	a, b := cube.ChunkPos{0, 0, 0}, cube.ChunkPos{1, 0, 0}
	load(t, m, h, a, b)
	assert.Equal(t, 2, m.Len())
	assert.ElementsMatch(t, []cube.ChunkPos{a, b}, h.loaded)

	require.Eventually(t, func() bool {
		return !exposed(m, a).Has(cube.FaceEast) && !exposed(m, b).Has(cube.FaceWest)
	}, 5*time.Second, 5*time.Millisecond)
	assert.True(t, exposed(m, a).Has(cube.FaceWest))
	assert.Equal(t, stone, m.Material(cube.Pos{31, 4, 4}))

	// The culled faces reach the handle with the palette of each chunk.
	require.Eventually(t, func() bool {
		m.Update(h)
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.updates[a]) == chunk.Size*chunk.Size && len(h.updates[b]) == chunk.Size*chunk.Size
	}, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, []palette.ID{1}, h.materials[a])
}

func TestQueueLoadTwice(t *testing.T) {
	calls := atomic.NewInt64(0)
	gen := define.GeneratorFunc(func(pos cube.ChunkPos) (*chunk.Mesh, error) {
		calls.Inc()
		return chunk.New(pos), nil
	})
	m := Config{Log: quietLog(), Generator: gen}.New()
	defer m.Close()

	pos := cube.ChunkPos{3, 0, -2}
	m.QueueLoad(pos)
	m.QueueLoad(pos)
	load(t, m, nil, pos)
	m.QueueLoad(pos)
	m.Update(nil)
	assert.Equal(t, int64(1), calls.Load())
}

func TestStaleResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	gen := define.GeneratorFunc(func(pos cube.ChunkPos) (*chunk.Mesh, error) {
		<-release
		return chunk.New(pos), nil
	})
	m := Config{Log: quietLog(), Generator: gen}.New()
	defer m.Close()
	h := newRecorder()

	pos := cube.ChunkPos{0, 0, 0}
	m.QueueLoad(pos)
	m.QueueUnload(pos)
	m.Update(h)
	close(release)

	require.Eventually(t, func() bool {
		m.Update(h)
		return m.stale.Load() == 1
	}, 5*time.Second, 5*time.Millisecond)
	assert.False(t, m.Loaded(pos))
	assert.Empty(t, h.loaded)
	assert.Empty(t, h.unloaded)
}

func TestQueueLoadCancelsUnload(t *testing.T) {
	m := Config{Log: quietLog()}.New()
	defer m.Close()

	pos := cube.ChunkPos{0, 0, 0}
	load(t, m, nil, pos)
	m.QueueUnload(pos)
	m.QueueLoad(pos)
	m.Update(nil)
	assert.True(t, m.Loaded(pos))
}

func TestUnloadRestoresNeighbourFaces(t *testing.T) {
	m := Config{Log: quietLog(), Generator: filled(stone)}.New()
	defer m.Close()
	h := newRecorder()

	a, b := cube.ChunkPos{0, 0, 0}, cube.ChunkPos{0, 1, 0}
	load(t, m, h, a, b)
	require.Eventually(t, func() bool {
		return !exposed(m, a).Has(cube.FaceUp)
	}, 5*time.Second, 5*time.Millisecond)

	m.QueueUnload(b)
	m.Update(h)
	assert.False(t, m.Loaded(b))
	assert.Equal(t, []cube.ChunkPos{b}, h.unloaded)
	assert.True(t, exposed(m, a).Has(cube.FaceUp))
	assert.True(t, faces(m, cube.Pos{7, 31, 7}).Has(cube.FaceUp))
	assert.Nil(t, m.Material(cube.Pos{7, 33, 7}))
}

func TestSetCubeAcrossChunks(t *testing.T) {
	m := Config{Log: quietLog()}.New()
	defer m.Close()
	h := newRecorder()

	a, b := cube.ChunkPos{0, 0, 0}, cube.ChunkPos{1, 0, 0}
	load(t, m, h, a, b)

	left, right := cube.Pos{31, 0, 0}, cube.Pos{32, 0, 0}
	require.NoError(t, m.SetCube(left, stone))
	assert.Equal(t, cube.AllFaces, faces(m, left))
	assert.True(t, exposed(m, a).Has(cube.FaceEast))

	require.NoError(t, m.SetCube(right, dirt))
	assert.False(t, faces(m, left).Has(cube.FaceEast))
	assert.False(t, faces(m, right).Has(cube.FaceWest))
	assert.False(t, exposed(m, a).Has(cube.FaceEast))
	assert.False(t, exposed(m, b).Has(cube.FaceWest))
	assert.Equal(t, dirt, m.Material(right))

	m.Update(h)
	assert.Len(t, h.updates[a], 1)
	assert.Len(t, h.updates[b], 1)

	require.NoError(t, m.SetCube(right, nil))
	assert.True(t, faces(m, left).Has(cube.FaceEast))
	assert.True(t, exposed(m, a).Has(cube.FaceEast))
	assert.Nil(t, m.Material(right))
}

func TestSetCubeUnloaded(t *testing.T) {
	reg, err := material.NewRegistry(stone)
	require.NoError(t, err)
	m := Config{Log: quietLog(), Registry: reg}.New()
	defer m.Close()

	assert.NoError(t, m.SetCube(cube.Pos{100, 0, 0}, stone))
	assert.NoError(t, m.SetCubeByKey(cube.Pos{100, 0, 0}, stone.Key))
	assert.Nil(t, m.Material(cube.Pos{100, 0, 0}))

	err = m.SetCubeByKey(cube.Pos{}, material.Key{Group: "core", Name: "missing"})
	assert.True(t, errors.Is(err, ErrUnknownMaterial))
}

func TestSetCubeByKey(t *testing.T) {
	reg, err := material.NewRegistry(stone)
	require.NoError(t, err)
	m := Config{Log: quietLog(), Registry: reg}.New()
	defer m.Close()

	load(t, m, nil, cube.ChunkPos{0, 0, 0})
	require.NoError(t, m.SetCubeByKey(cube.Pos{1, 2, 3}, stone.Key))
	assert.Equal(t, stone, m.Material(cube.Pos{1, 2, 3}))
}

func TestNearColliders(t *testing.T) {
	m := Config{Log: quietLog()}.New()
	defer m.Close()
	load(t, m, nil, cube.ChunkPos{0, 0, 0})

	require.NoError(t, m.SetCube(cube.Pos{5, 5, 5}, stone))
	require.NoError(t, m.SetCube(cube.Pos{20, 5, 5}, stone))

	bb := physics.NewAABB(mgl64.Vec3{5.2, 6, 5.2}, mgl64.Vec3{5.8, 7.8, 5.8})
	colliders := m.NearColliders(bb, nil)
	require.Len(t, colliders, 1)
	assert.Equal(t, mgl64.Vec3{5, 5, 5}, colliders[0].Min())
	assert.Equal(t, mgl64.Vec3{6, 6, 6}, colliders[0].Max())

	// Boxes reaching into chunks that are not loaded find nothing there.
	bb = physics.NewAABB(mgl64.Vec3{-3, 5, 5}, mgl64.Vec3{-2, 6, 6})
	assert.Empty(t, m.NearColliders(bb, nil))
}

func TestCastRay(t *testing.T) {
	m := Config{Log: quietLog()}.New()
	defer m.Close()
	load(t, m, nil, cube.ChunkPos{0, 0, 0})
	require.NoError(t, m.SetCube(cube.Pos{5, 5, 5}, stone))

	hit, ok := m.CastRay(mgl64.Vec3{5.5, 10, 5.5}, mgl64.Vec3{0, -1, 0}, 10)
	require.True(t, ok)
	assert.Equal(t, cube.Pos{5, 5, 5}, hit.Pos)
	assert.Equal(t, cube.FaceUp, hit.Face)
	assert.InDelta(t, 6, hit.Point.Y(), 1e-9)
	assert.InDelta(t, 5.5, hit.Point.X(), 1e-9)

	hit, ok = m.CastRay(mgl64.Vec3{0.5, 5.5, 5.5}, mgl64.Vec3{1, 0, 0}, 10)
	require.True(t, ok)
	assert.Equal(t, cube.FaceWest, hit.Face)
	assert.InDelta(t, 5, hit.Point.X(), 1e-9)

	_, ok = m.CastRay(mgl64.Vec3{5.5, 10, 5.5}, mgl64.Vec3{0, -1, 0}, 3)
	assert.False(t, ok)
	_, ok = m.CastRay(mgl64.Vec3{5.5, 10, 5.5}, mgl64.Vec3{0, 1, 0}, 10)
	assert.False(t, ok)

	origin := mgl64.Vec3{5.5, 5.5, 5.5}
	hit, ok = m.CastRay(origin, mgl64.Vec3{0, -1, 0}, 10)
	require.True(t, ok)
	assert.Equal(t, cube.Pos{5, 5, 5}, hit.Pos)
	assert.Equal(t, cube.FaceUp, hit.Face)
	assert.Equal(t, origin, hit.Point)
}

// memProvider keeps chunks in memory.
type memProvider struct {
	mu     sync.Mutex
	saved  map[cube.ChunkPos][]byte
	closed bool
}

func (p *memProvider) LoadChunk(pos cube.ChunkPos) (*chunk.Mesh, bool, error) {
	return nil, false, nil
}

func (p *memProvider) SaveChunk(c *chunk.Mesh) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved[c.Position()] = c.Encode()
	return nil
}

func (p *memProvider) Close() error {
	p.closed = true
	return nil
}

func TestProviderSavesOnUnloadAndClose(t *testing.T) {
	p := &memProvider{saved: map[cube.ChunkPos][]byte{}}
	m := Config{Log: quietLog(), Generator: filled(dirt), Provider: p}.New()

	a, b := cube.ChunkPos{0, 0, 0}, cube.ChunkPos{5, 0, 0}
	load(t, m, nil, a, b)
	m.QueueUnload(a)
	m.Update(nil)
	p.mu.Lock()
	assert.Contains(t, p.saved, a)
	assert.NotContains(t, p.saved, b)
	p.mu.Unlock()

	require.NoError(t, m.Close())
	assert.Contains(t, p.saved, b)
	assert.True(t, p.closed)
	assert.Equal(t, 0, m.Len())
	require.NoError(t, m.Close())
}
