package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func unit(x, y, z float64) AABB {
	return NewAABB(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}).Translate(mgl64.Vec3{x, y, z})
}

func TestNewAABBSwaps(t *testing.T) {
	bb := NewAABB(mgl64.Vec3{1, 0, 3}, mgl64.Vec3{0, 2, 1})
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, bb.Min())
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, bb.Max())
}

func TestExtend(t *testing.T) {
	bb := unit(0, 0, 0).Extend(mgl64.Vec3{-2, 0, 3})
	assert.Equal(t, mgl64.Vec3{-2, 0, 0}, bb.Min())
	assert.Equal(t, mgl64.Vec3{1, 1, 4}, bb.Max())
}

func TestGrow(t *testing.T) {
	bb := unit(0, 0, 0).Grow(1)
	assert.Equal(t, mgl64.Vec3{-1, -1, -1}, bb.Min())
	assert.Equal(t, mgl64.Vec3{2, 2, 2}, bb.Max())
}

func TestVec3Within(t *testing.T) {
	assert.True(t, unit(0, 0, 0).Vec3Within(mgl64.Vec3{0.5, 0.5, 0.5}))
	assert.False(t, unit(0, 0, 0).Vec3Within(mgl64.Vec3{1, 0.5, 0.5}))
	assert.False(t, unit(0, 0, 0).Vec3Within(mgl64.Vec3{0.5, -2, 0.5}))
}

func TestIntersects(t *testing.T) {
	assert.True(t, unit(0, 0, 0).IntersectsWith(unit(0.5, 0.5, 0.5)))
	assert.False(t, unit(0, 0, 0).IntersectsWith(unit(1, 0, 0)))
}

func TestCalculateYOffsetFalling(t *testing.T) {
	ground := unit(0, 0, 0)
	entity := NewAABB(mgl64.Vec3{0.2, 1, 0.2}, mgl64.Vec3{0.8, 2.8, 0.8})

	assert.Equal(t, 0.0, ground.CalculateYOffset(entity, -0.5))
	assert.Equal(t, 0.5, ground.CalculateYOffset(entity, 0.5))

	hovering := entity.Translate(mgl64.Vec3{0, 0.25, 0})
	assert.InDelta(t, -0.25, ground.CalculateYOffset(hovering, -1), 1e-9)

	// No overlap on X, so no clip.
	aside := entity.Translate(mgl64.Vec3{2, 0, 0})
	assert.Equal(t, -0.5, ground.CalculateYOffset(aside, -0.5))
}

func TestCalculateXZOffset(t *testing.T) {
	wall := unit(2, 0, 0)
	entity := NewAABB(mgl64.Vec3{0.5, 0, 0.2}, mgl64.Vec3{1.5, 1, 0.8})
	assert.InDelta(t, 0.5, wall.CalculateXOffset(entity, 2), 1e-9)
	assert.Equal(t, -2.0, wall.CalculateXOffset(entity, -2))

	wallZ := unit(0, 0, 2)
	entityZ := NewAABB(mgl64.Vec3{0.2, 0, 0.5}, mgl64.Vec3{0.8, 1, 1.5})
	assert.InDelta(t, 0.5, wallZ.CalculateZOffset(entityZ, 1), 1e-9)
}
