package chunk

import (
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
	"github.com/peterhenryd/herbolution-sub001/world/palette"
)

// CullShared hides the faces on the boundary shared by c and other wherever the cubes on both sides cull each
// other, logging every cube changed and recomputing the exposed faces of both meshes for that boundary.
// CullShared returns false and does nothing if the two meshes are not face-adjacent.
// Both meshes are mutated: the caller must hold the locks of both chunks, acquired in cube.ChunkPos.Less order.
func (c *Mesh) CullShared(other *Mesh) bool {
	f, ok := c.pos.Adjacent(other.pos)
	if !ok {
		return false
	}
	a, b := c.palette.Snapshot(), other.palette.Snapshot()
	opposite := f.Opposite()

	var exposedA, exposedB bool
	for u := uint8(0); u < Size; u++ {
		for v := uint8(0); v < Size; v++ {
			la, lb := cube.Plane(f, u, v), cube.Plane(opposite, u, v)
			if material.Hidden(resolve(a, c.data[la.Index()].Material), resolve(b, other.data[lb.Index()].Material), f) {
				c.setFace(la, f, false)
				other.setFace(lb, opposite, false)
			}
			exposedA = exposedA || c.data[la.Index()].Flags.Faces().Has(f)
			exposedB = exposedB || other.data[lb.Index()].Flags.Faces().Has(opposite)
		}
	}
	c.setExposed(f, exposedA)
	other.setExposed(opposite, exposedB)
	return true
}

// ResetBoundary renders the face f of every opaque cube on the boundary f again. It undoes CullShared once the
// neighbouring chunk across f is gone.
func (c *Mesh) ResetBoundary(f cube.Face) {
	for u := uint8(0); u < Size; u++ {
		for v := uint8(0); v < Size; v++ {
			c.setFace(cube.Plane(f, u, v), f, true)
		}
	}
	c.refreshExposed(f)
}

// refreshExposed recomputes the exposed bit of the boundary f by scanning its plane.
func (c *Mesh) refreshExposed(f cube.Face) {
	for u := uint8(0); u < Size; u++ {
		for v := uint8(0); v < Size; v++ {
			if c.data[cube.Plane(f, u, v).Index()].Flags.Faces().Has(f) {
				c.setExposed(f, true)
				return
			}
		}
	}
	c.setExposed(f, false)
}

func (c *Mesh) setExposed(f cube.Face, exposed bool) {
	if exposed {
		c.exposed = c.exposed.With(f)
	} else {
		c.exposed = c.exposed.Without(f)
	}
}

// recompute derives the flags of every cube and the exposed faces from the materials alone, treating every
// boundary face as rendered, and clears the update log.
func (c *Mesh) recompute() {
	mats := c.palette.Snapshot()
	for i := range c.data {
		l := cube.LocalFromIndex(i)
		m := resolve(mats, c.data[i].Material)
		if !m.Culls() {
			c.data[i].Flags = cube.Flags{}
			continue
		}
		faces := cube.AllFaces
		for _, f := range cube.Faces() {
			n, inside := l.Neighbour(f)
			if inside && material.Hidden(m, resolve(mats, c.data[n.Index()].Material), f) {
				faces = faces.Without(f)
			}
		}
		c.data[i].Flags = cube.Opaque(faces)
	}
	c.exposed = cube.NoFaces
	for _, f := range cube.Faces() {
		c.refreshExposed(f)
	}
	c.clearLog()
}

// resolve looks an ID up in a palette snapshot.
func resolve(mats []*material.Material, id palette.ID) *material.Material {
	if int(id) >= len(mats) {
		return nil
	}
	return mats[id]
}
