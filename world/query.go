package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/physics"
	"github.com/peterhenryd/herbolution-sub001/world/trace"
)

// NearColliders appends to out the collision box of every cube with a collider that overlaps bb grown by one in
// every direction, and returns the result. Cubes in chunks that are not loaded have no collider.
func (m *Map) NearColliders(bb physics.AABB, out []physics.AABB) []physics.AABB {
	grown := bb.Grow(1)
	min, max := grown.Min(), grown.Max()
	minX, minY, minZ := int(math.Floor(min[0])), int(math.Floor(min[1])), int(math.Floor(min[2]))
	maxX, maxY, maxZ := int(math.Floor(max[0])), int(math.Floor(max[1])), int(math.Floor(max[2]))

	var (
		c       *chunkEntry
		at      cube.ChunkPos
		fetched bool
	)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			for z := minZ; z <= maxZ; z++ {
				pos := cube.Pos{x, y, z}
				if cp := pos.Chunk(); !fetched || cp != at {
					c, _ = m.chunk(cp)
					at, fetched = cp, true
				}
				if c == nil {
					continue
				}
				c.RLock()
				mat := c.Material(pos.Local())
				c.RUnlock()
				if box, ok := mat.AABB(pos); ok {
					out = append(out, box)
				}
			}
		}
	}
	return out
}

// Hit is the result of a ray cast that struck a cube.
type Hit struct {
	// Pos is the position of the cube struck.
	Pos cube.Pos
	// Face is the face of the cube the ray entered through.
	Face cube.Face
	// Point is the exact point at which the ray touched the cube.
	Point mgl64.Vec3
}

// CastRay walks the cubes along the segment from origin to origin+dir*r, in order, and returns the first one
// whose material has a collider. If origin itself lies in such a cube, that cube is hit at origin, on the face
// pointing back along the ray.
func (m *Map) CastRay(origin, dir mgl64.Vec3, r float64) (Hit, bool) {
	if r <= 0 || dir.Len() == 0 {
		return Hit{}, false
	}
	end := origin.Add(dir.Mul(r))

	var (
		hit   Hit
		found bool
	)
	trace.TraverseCubes(origin, end, func(s trace.Step) bool {
		box, ok := m.Material(s.Pos).AABB(s.Pos)
		if !ok {
			return true
		}
		found = true
		hit = Hit{Pos: s.Pos, Face: s.Face, Point: origin.Add(end.Sub(origin).Mul(s.T))}
		if s.First && box.Vec3Within(origin) {
			res, _ := trace.BBoxIntercept(box, origin, end)
			hit.Face, hit.Point = res.Face, origin
			return false
		}
		if res, ok := trace.BBoxIntercept(box, origin, end); ok {
			hit.Point = res.Position
			if s.First {
				hit.Face = res.Face
			}
		} else if s.First {
			hit.Point = origin
		}
		return false
	})
	return hit, found
}
