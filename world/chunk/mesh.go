// Package chunk implements the dense cube grid of a single chunk together with the face culling that decides
// which cube faces are visible.
package chunk

import (
	"fmt"

	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
	"github.com/peterhenryd/herbolution-sub001/world/palette"
	"github.com/willf/bitset"
)

// Size is the length of a chunk along each axis.
const Size = cube.ChunkSize

// Cube is a single cell of a chunk: an optional material and its visibility flags.
type Cube struct {
	Material palette.ID
	Flags    cube.Flags
}

// Update is a changed cube handed out by Mesh.Flush.
type Update struct {
	Pos  cube.LocalPos
	Cube Cube
}

// Mesh is the cube grid of one chunk. It holds 32x32x32 cubes in x | z<<5 | y<<10 order, the palette their
// materials resolve through, a log of positions whose data changed since the last Flush, and the set of boundary
// faces that still have a rendered cube face touching them.
// A Mesh is not safe for concurrent use; callers guard it with a lock.
type Mesh struct {
	pos     cube.ChunkPos
	data    [cube.ChunkVolume]Cube
	palette *palette.Palette

	updated []cube.LocalPos
	logged  *bitset.BitSet

	exposed cube.FaceSet
}

// New returns an empty Mesh at the chunk position passed.
func New(pos cube.ChunkPos) *Mesh {
	return &Mesh{
		pos:     pos,
		palette: palette.New(),
		logged:  bitset.New(cube.ChunkVolume),
	}
}

// Position returns the chunk position of the mesh.
func (c *Mesh) Position() cube.ChunkPos {
	return c.pos
}

// Palette returns the palette the cube materials of the mesh resolve through.
func (c *Mesh) Palette() *palette.Palette {
	return c.palette
}

// Cube returns the cube at the local position passed.
func (c *Mesh) Cube(l cube.LocalPos) Cube {
	return c.data[l.Index()]
}

// Material returns the material of the cube at the local position passed, or nil if the cube is empty.
func (c *Mesh) Material(l cube.LocalPos) *material.Material {
	return c.material(c.data[l.Index()].Material)
}

// Exposed returns the boundary directions that currently have at least one rendered face touching them.
func (c *Mesh) Exposed() cube.FaceSet {
	return c.exposed
}

// Updated returns the positions changed since the last call to Flush, in the order they first changed.
func (c *Mesh) Updated() []cube.LocalPos {
	return append([]cube.LocalPos(nil), c.updated...)
}

// Flush returns the positions changed since the previous Flush together with their current cube data, and
// clears the log.
func (c *Mesh) Flush() []Update {
	if len(c.updated) == 0 {
		return nil
	}
	updates := make([]Update, len(c.updated))
	for i, l := range c.updated {
		updates[i] = Update{Pos: l, Cube: c.data[l.Index()]}
	}
	c.clearLog()
	return updates
}

// Set changes the material of the cube at the local position passed. A nil material empties the cube. The faces
// of the cube and of its neighbours within this chunk are updated: a face shared by two culling cubes is hidden on
// both sides, any other face of an opaque cube is rendered. Faces on the chunk boundary are left rendered; the
// owner of the neighbouring chunk reconciles them through SetNeighbour.
// Setting the material a cube already holds does nothing.
func (c *Mesh) Set(l cube.LocalPos, m *material.Material) error {
	id, err := c.palette.Insert(m)
	if err != nil {
		return fmt.Errorf("set %v in chunk %v: %w", l, c.pos, err)
	}
	c.SetID(l, id)
	return nil
}

// SetID is like Set, but takes an ID already present in the palette of the mesh. IDs unknown to the palette are
// treated as an empty cube for culling purposes.
func (c *Mesh) SetID(l cube.LocalPos, id palette.ID) {
	i := l.Index()
	if c.data[i].Material == id {
		return
	}
	c.data[i].Material = id
	m := c.material(id)

	flags := cube.Translucent(c.data[i].Flags.Light())
	if m.Culls() {
		flags = cube.Opaque(cube.AllFaces)
	}
	for _, f := range cube.Faces() {
		n, inside := l.Neighbour(f)
		if !inside {
			continue
		}
		hidden := material.Hidden(m, c.Material(n), f)
		if hidden {
			flags.RemoveFaces(cube.FaceSetOf(f))
		}
		c.setFace(n, f.Opposite(), !hidden)
	}
	c.data[i].Flags = flags
	c.log(l)

	for _, f := range cube.Faces() {
		if l.Boundary(f) {
			c.refreshExposed(f)
		}
	}
}

// SetNeighbour reconciles the face f of the cube at l, which must lie on the boundary f of the chunk, with the
// material n of the cube across that face in the neighbouring chunk.
func (c *Mesh) SetNeighbour(l cube.LocalPos, f cube.Face, n *material.Material) {
	if !l.Boundary(f) {
		return
	}
	c.setFace(l, f, !material.Hidden(c.Material(l), n, f))
	c.refreshExposed(f)
}

// SetLight sets the light levels of an empty or translucent cube. It does nothing for opaque cubes.
func (c *Mesh) SetLight(l cube.LocalPos, light cube.Light) {
	cb := &c.data[l.Index()]
	if cb.Flags.Opaque() || cb.Flags.Light() == light {
		return
	}
	cb.Flags.SetTranslucent(light)
	c.log(l)
}

// Fill sets every cube of the mesh to the material passed and recomputes all faces. Faces on the chunk boundary
// are rendered, faces between two cubes are hidden where both sides cull. The update log is cleared.
func (c *Mesh) Fill(m *material.Material) error {
	id, err := c.palette.Insert(m)
	if err != nil {
		return fmt.Errorf("fill chunk %v: %w", c.pos, err)
	}
	for i := range c.data {
		c.data[i] = Cube{Material: id}
	}
	c.recompute()
	return nil
}

// Generate sets every cube of the mesh to the material returned by fn for its position and recomputes all faces,
// like Fill.
func (c *Mesh) Generate(fn func(l cube.LocalPos) *material.Material) error {
	for i := range c.data {
		l := cube.LocalFromIndex(i)
		id, err := c.palette.Insert(fn(l))
		if err != nil {
			return fmt.Errorf("generate chunk %v at %v: %w", c.pos, l, err)
		}
		c.data[i] = Cube{Material: id}
	}
	c.recompute()
	return nil
}

// material resolves an ID through the palette, returning nil for None and unknown IDs.
func (c *Mesh) material(id palette.ID) *material.Material {
	m, _ := c.palette.Material(id)
	return m
}

// setFace renders or hides the face f of the cube at l if it is opaque, logging the position if it changed.
func (c *Mesh) setFace(l cube.LocalPos, f cube.Face, rendered bool) {
	flags := &c.data[l.Index()].Flags
	if !flags.Opaque() || flags.Faces().Has(f) == rendered {
		return
	}
	if rendered {
		flags.InsertFaces(cube.FaceSetOf(f))
	} else {
		flags.RemoveFaces(cube.FaceSetOf(f))
	}
	c.log(l)
}

// log records a changed position once per flush.
func (c *Mesh) log(l cube.LocalPos) {
	if c.logged.Test(uint(l.Index())) {
		return
	}
	c.logged.Set(uint(l.Index()))
	c.updated = append(c.updated, l)
}

func (c *Mesh) clearLog() {
	c.updated = c.updated[:0]
	c.logged.ClearAll()
}
