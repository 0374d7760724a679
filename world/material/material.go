// Package material holds the shared material records referenced by chunk palettes.
package material

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/physics"
)

// Key is the globally unique, stable identifier of a Material.
type Key struct {
	Group string
	Name  string
}

// ParseKey parses a key in the form "group:name". A key without a group is placed in the "core" group.
func ParseKey(s string) Key {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return Key{Group: s[:i], Name: s[i+1:]}
	}
	return Key{Group: "core", Name: s}
}

// String ...
func (k Key) String() string {
	return k.Group + ":" + k.Name
}

// Material is the description of a kind of cube. Materials are shared between all chunks that reference them and
// must not be modified after being registered.
type Material struct {
	Key Key
	// Collider specifies if entities collide with cubes of this material.
	Collider bool
	// Cull is the set of faces of this material that hide, and are hidden by, an adjoining culling face.
	Cull cube.FaceSet
	// Color is the flat colour used to draw the material when no texture is available.
	Color colorful.Color
	// Texture is the texture descriptor handed to the renderer.
	Texture string
	// Toughness is the time in seconds it takes to dig a cube of this material.
	Toughness float64
}

// Culls reports if m is culling-eligible at all. A nil material never culls.
func (m *Material) Culls() bool {
	return m != nil && !m.Cull.Empty()
}

// CullsFace reports if the face f of m can hide, and be hidden by, its neighbour.
func (m *Material) CullsFace(f cube.Face) bool {
	return m != nil && m.Cull.Has(f)
}

// HasCollider reports if entities collide with m. A nil material has no collider.
func (m *Material) HasCollider() bool {
	return m != nil && m.Collider
}

// AABB returns the collision box of a cube of this material at the position passed, and false if m has no
// collider.
func (m *Material) AABB(pos cube.Pos) (physics.AABB, bool) {
	if !m.HasCollider() {
		return physics.AABB{}, false
	}
	return physics.NewAABB(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}).Translate(pos.Vec3()), true
}

// Hidden reports if the face f of a cube of material a is hidden by a cube of material b across that face.
func Hidden(a, b *Material, f cube.Face) bool {
	return a.CullsFace(f) && b.CullsFace(f.Opposite())
}

// String ...
func (m *Material) String() string {
	if m == nil {
		return "<none>"
	}
	return fmt.Sprintf("%v(collider=%v, cull=%v)", m.Key, m.Collider, m.Cull)
}
