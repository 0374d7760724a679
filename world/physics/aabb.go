// Package physics implements axis-aligned bounding boxes and the per-axis clipping used to move entities through
// a world of colliders.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an Axis Aligned Bounding Box in a 3D space. It is defined as two Vec3s, of which one is the
// minimum and one is the maximum.
type AABB struct {
	min, max mgl64.Vec3
}

// NewAABB creates a new axis aligned bounding box with the minimum and maximum coordinates provided. The
// coordinates are swapped per axis where min exceeds max.
func NewAABB(min, max mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}
	return AABB{min: min, max: max}
}

// Min returns the minimum coordinate of the bounding box.
func (aabb AABB) Min() mgl64.Vec3 {
	return aabb.min
}

// Max returns the maximum coordinate of the bounding box.
func (aabb AABB) Max() mgl64.Vec3 {
	return aabb.max
}

// Width returns the width of the AABB along the X axis.
func (aabb AABB) Width() float64 {
	return aabb.max[0] - aabb.min[0]
}

// Height returns the height of the AABB along the Y axis.
func (aabb AABB) Height() float64 {
	return aabb.max[1] - aabb.min[1]
}

// Length returns the length of the AABB along the Z axis.
func (aabb AABB) Length() float64 {
	return aabb.max[2] - aabb.min[2]
}

// Grow grows the bounding box in all directions by x and returns the new bounding box.
func (aabb AABB) Grow(x float64) AABB {
	add := mgl64.Vec3{x, x, x}
	return AABB{min: aabb.min.Sub(add), max: aabb.max.Add(add)}
}

// Extend expands the AABB in the direction of the vector passed, so that the result contains every position the
// box passes while moving by v.
func (aabb AABB) Extend(v mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if v[i] < 0 {
			aabb.min[i] += v[i]
		} else {
			aabb.max[i] += v[i]
		}
	}
	return aabb
}

// Translate moves the entire AABB with the Vec3 given. The (minimum and maximum) x, y and z coordinates are
// moved by those in the Vec3 passed.
func (aabb AABB) Translate(v mgl64.Vec3) AABB {
	return AABB{min: aabb.min.Add(v), max: aabb.max.Add(v)}
}

// IntersectsWith checks if the AABB intersects with another AABB, returning true if this is the case. Touching
// boxes do not intersect.
func (aabb AABB) IntersectsWith(other AABB) bool {
	for i := 0; i < 3; i++ {
		if other.max[i] <= aabb.min[i] || other.min[i] >= aabb.max[i] {
			return false
		}
	}
	return true
}

// Vec3Within checks if the AABB has a Vec3 within it, returning true if it does.
func (aabb AABB) Vec3Within(vec mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if vec[i] <= aabb.min[i] || vec[i] >= aabb.max[i] {
			return false
		}
	}
	return true
}

// CalculateXOffset calculates the offset on the X axis between two bounding boxes, returning a delta always
// smaller than or equal to deltaX if deltaX is bigger than 0, or always bigger than or equal to deltaX if it
// is smaller than 0. moving is the box that moves by deltaX.
func (aabb AABB) CalculateXOffset(moving AABB, deltaX float64) float64 {
	return aabb.offset(moving, deltaX, 0)
}

// CalculateYOffset calculates the offset on the Y axis between two bounding boxes, returning a delta always
// smaller than or equal to deltaY if deltaY is bigger than 0, or always bigger than or equal to deltaY if it
// is smaller than 0. moving is the box that moves by deltaY.
func (aabb AABB) CalculateYOffset(moving AABB, deltaY float64) float64 {
	return aabb.offset(moving, deltaY, 1)
}

// CalculateZOffset calculates the offset on the Z axis between two bounding boxes, returning a delta always
// smaller than or equal to deltaZ if deltaZ is bigger than 0, or always bigger than or equal to deltaZ if it
// is smaller than 0. moving is the box that moves by deltaZ.
func (aabb AABB) CalculateZOffset(moving AABB, deltaZ float64) float64 {
	return aabb.offset(moving, deltaZ, 2)
}

// offset clips delta along axis so that moving does not enter aabb.
func (aabb AABB) offset(moving AABB, delta float64, axis int) float64 {
	// Bail out if the boxes do not overlap on both other axes.
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		if moving.max[i] <= aabb.min[i] || moving.min[i] >= aabb.max[i] {
			return delta
		}
	}
	if delta > 0 && moving.max[axis] <= aabb.min[axis] {
		delta = math.Min(delta, aabb.min[axis]-moving.max[axis])
	} else if delta < 0 && moving.min[axis] >= aabb.max[axis] {
		delta = math.Max(delta, aabb.max[axis]-moving.min[axis])
	}
	return delta
}
