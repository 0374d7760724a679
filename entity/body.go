// Package entity implements the physics of moving bodies colliding with the cubes of the world.
package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/peterhenryd/herbolution-sub001/world/physics"
)

// ColliderSource provides the collision boxes near a box. *world.Map implements it.
type ColliderSource interface {
	NearColliders(bb physics.AABB, out []physics.AABB) []physics.AABB
}

// Attributes are the movement properties of a single body.
type Attributes struct {
	// Acceleration is the acceleration applied for full movement input, in cubes per second squared.
	Acceleration float64
	// TerminalVelocity is the highest falling speed, in cubes per second.
	TerminalVelocity float64
	// Gravity specifies if the body falls. Bodies without gravity fly and move vertically through input.
	Gravity bool
	// JumpVelocity is the upwards velocity a jump starts with.
	JumpVelocity float64
}

// Physics holds the constants of the world a body moves in.
type Physics struct {
	// Gravity is the downwards acceleration of falling bodies.
	Gravity float64
	// GroundFriction and AirFriction are the exponential decay rates of velocity per second, on the ground and
	// in the air respectively.
	GroundFriction, AirFriction float64
	// AirControl scales movement input of bodies that fall and are not on the ground.
	AirControl float64
}

// DefaultPhysics returns Physics resembling walking on solid ground.
func DefaultPhysics() Physics {
	return Physics{Gravity: 32, GroundFriction: 10, AirFriction: 1, AirControl: 0.2}
}

// Input is the movement requested for a body during one tick. Forward and Strafe range from -1 to 1 relative to
// the yaw of the body, Vertical is only used by bodies without gravity.
type Input struct {
	Forward, Strafe, Vertical float64
	Jump                      bool
}

// Body is the physical state of an entity.
type Body struct {
	ID uuid.UUID

	Pos, Vel mgl64.Vec3
	// Yaw and Pitch are in degrees. A yaw of 0 faces +Z, 90 faces -X.
	Yaw, Pitch float64
	// Box is the bounding box of the body relative to Pos.
	Box physics.AABB

	Attributes Attributes
	Physics    Physics

	onGround  bool
	colliders []physics.AABB
}

// NewBody returns a body at pos with the bounding box and attributes passed and a new random ID.
func NewBody(pos mgl64.Vec3, box physics.AABB, attr Attributes, p Physics) *Body {
	return &Body{ID: uuid.New(), Pos: pos, Box: box, Attributes: attr, Physics: p}
}

// Result describes what happened to a body during a tick.
type Result struct {
	// Movement is the distance the body moved.
	Movement mgl64.Vec3
	// CollideX, CollideY and CollideZ report the axes on which movement was clipped.
	CollideX, CollideY, CollideZ bool
	OnGround                     bool
}

// Tick advances the body by dt seconds. Movement is resolved against the colliders of src one axis at a time, Y
// first, then X, then Z, each against the box as moved by the axes before it. Velocity on clipped axes is reset.
// The body is on the ground for the next tick if downward movement was clipped.
func (b *Body) Tick(src ColliderSource, in Input, dt float64) Result {
	a, p := b.Attributes, b.Physics

	accel := b.direction(in).Mul(a.Acceleration)
	if !a.Gravity {
		accel[1] += clamp(in.Vertical) * a.Acceleration
	} else if !b.onGround {
		accel = accel.Mul(p.AirControl)
	}
	b.Vel = b.Vel.Add(accel.Mul(dt))

	if a.Gravity {
		if in.Jump && b.onGround {
			b.Vel[1] = a.JumpVelocity
		}
		b.Vel[1] -= p.Gravity * dt
	}

	friction := p.AirFriction
	if b.onGround {
		friction = p.GroundFriction
	}
	b.Vel = b.Vel.Mul(math.Exp(-friction * dt))
	if a.TerminalVelocity > 0 && b.Vel[1] < -a.TerminalVelocity {
		b.Vel[1] = -a.TerminalVelocity
	}

	delta := b.Vel.Mul(dt)
	bb := b.BBox()
	b.colliders = src.NearColliders(bb.Extend(delta), b.colliders[:0])

	dy := delta[1]
	for _, c := range b.colliders {
		dy = c.CalculateYOffset(bb, dy)
	}
	bb = bb.Translate(mgl64.Vec3{0, dy, 0})

	dx := delta[0]
	for _, c := range b.colliders {
		dx = c.CalculateXOffset(bb, dx)
	}
	bb = bb.Translate(mgl64.Vec3{dx, 0, 0})

	dz := delta[2]
	for _, c := range b.colliders {
		dz = c.CalculateZOffset(bb, dz)
	}

	res := Result{
		Movement: mgl64.Vec3{dx, dy, dz},
		CollideX: dx != delta[0],
		CollideY: dy != delta[1],
		CollideZ: dz != delta[2],
	}
	if res.CollideX {
		b.Vel[0] = 0
	}
	if res.CollideY {
		b.Vel[1] = 0
	}
	if res.CollideZ {
		b.Vel[2] = 0
	}
	b.onGround = res.CollideY && delta[1] < 0
	res.OnGround = b.onGround

	b.Pos = b.Pos.Add(res.Movement)
	return res
}

// direction returns the horizontal world space direction of the movement input, no longer than 1.
func (b *Body) direction(in Input) mgl64.Vec3 {
	yaw := mgl64.DegToRad(b.Yaw)
	forward := mgl64.Vec3{-math.Sin(yaw), 0, math.Cos(yaw)}
	right := forward.Cross(mgl64.Vec3{0, 1, 0})

	dir := forward.Mul(in.Forward).Add(right.Mul(in.Strafe))
	if l := dir.Len(); l > 1 {
		dir = dir.Mul(1 / l)
	}
	return dir
}

// OnGround reports if the body stood on a collider at the end of the previous tick.
func (b *Body) OnGround() bool {
	return b.onGround
}

// BBox returns the bounding box of the body in world space.
func (b *Body) BBox() physics.AABB {
	return b.Box.Translate(b.Pos)
}

// Eye returns the position of the eyes of the body, at nine tenths of its height.
func (b *Body) Eye() mgl64.Vec3 {
	return b.Pos.Add(mgl64.Vec3{0, b.Box.Max()[1] * 0.9, 0})
}

// Look returns the direction the body looks in, as a unit vector.
func (b *Body) Look() mgl64.Vec3 {
	yaw, pitch := mgl64.DegToRad(b.Yaw), mgl64.DegToRad(b.Pitch)
	return mgl64.Vec3{-math.Sin(yaw) * math.Cos(pitch), -math.Sin(pitch), math.Cos(yaw) * math.Cos(pitch)}
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
