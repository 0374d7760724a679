package cube

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// ChunkSize is the length of a chunk along each axis, in cubes.
	ChunkSize = 32
	// ChunkVolume is the amount of cubes held by a single chunk.
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize

	chunkShift = 5
	chunkMask  = ChunkSize - 1
)

// Pos holds the position of a cube in the world. The position is represented of an array with an x, y and z
// value.
type Pos [3]int

// PosFromVec3 returns the position of the cube that contains the vector passed.
func PosFromVec3(v mgl64.Vec3) Pos {
	return Pos{floor(v[0]), floor(v[1]), floor(v[2])}
}

// X returns the X coordinate of the cube position.
func (p Pos) X() int {
	return p[0]
}

// Y returns the Y coordinate of the cube position.
func (p Pos) Y() int {
	return p[1]
}

// Z returns the Z coordinate of the cube position.
func (p Pos) Z() int {
	return p[2]
}

// Add adds two cube positions together and returns a new one with the combined values.
func (p Pos) Add(pos Pos) Pos {
	return Pos{p[0] + pos[0], p[1] + pos[1], p[2] + pos[2]}
}

// Subtract subtracts two cube positions together and returns a new one with the combined values.
func (p Pos) Subtract(pos Pos) Pos {
	return Pos{p[0] - pos[0], p[1] - pos[1], p[2] - pos[2]}
}

// Side returns the position on the side of this position, across the face passed.
func (p Pos) Side(f Face) Pos {
	return p.Add(f.Offset())
}

// Vec3 returns the minimum corner of the cube as a vector.
func (p Pos) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
}

// Chunk returns the position of the chunk holding the cube.
func (p Pos) Chunk() ChunkPos {
	return ChunkPos{int32(p[0] >> chunkShift), int32(p[1] >> chunkShift), int32(p[2] >> chunkShift)}
}

// Local returns the position of the cube relative to the chunk holding it.
func (p Pos) Local() LocalPos {
	return Local(uint8(p[0]&chunkMask), uint8(p[1]&chunkMask), uint8(p[2]&chunkMask))
}

// String ...
func (p Pos) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p[0], p[1], p[2])
}

// ChunkPos holds the position of a chunk, in chunk units.
type ChunkPos [3]int32

// X returns the X coordinate of the chunk position.
func (p ChunkPos) X() int32 {
	return p[0]
}

// Y returns the Y coordinate of the chunk position.
func (p ChunkPos) Y() int32 {
	return p[1]
}

// Z returns the Z coordinate of the chunk position.
func (p ChunkPos) Z() int32 {
	return p[2]
}

// Side returns the chunk position across the face passed.
func (p ChunkPos) Side(f Face) ChunkPos {
	o := f.Offset()
	return ChunkPos{p[0] + int32(o[0]), p[1] + int32(o[1]), p[2] + int32(o[2])}
}

// Origin returns the world position of the cube at local (0, 0, 0) of the chunk.
func (p ChunkPos) Origin() Pos {
	return Pos{int(p[0]) << chunkShift, int(p[1]) << chunkShift, int(p[2]) << chunkShift}
}

// Cube returns the world position of the local position passed within this chunk.
func (p ChunkPos) Cube(l LocalPos) Pos {
	return p.Origin().Add(Pos{int(l.X()), int(l.Y()), int(l.Z())})
}

// Less orders chunk positions by X, then Y, then Z. Any two-chunk lock is acquired in this order.
func (p ChunkPos) Less(o ChunkPos) bool {
	if p[0] != o[0] {
		return p[0] < o[0]
	}
	if p[1] != o[1] {
		return p[1] < o[1]
	}
	return p[2] < o[2]
}

// Adjacent returns the face of p that touches o, and false if the two chunks are not face-adjacent.
func (p ChunkPos) Adjacent(o ChunkPos) (Face, bool) {
	for _, f := range Faces() {
		if p.Side(f) == o {
			return f, true
		}
	}
	return 0, false
}

// String ...
func (p ChunkPos) String() string {
	return fmt.Sprintf("[%d, %d, %d]", p[0], p[1], p[2])
}

// LocalPos is the position of a cube within a chunk. It packs x, y and z into a single index, x | z<<5 | y<<10,
// and cannot represent a position outside the chunk.
type LocalPos uint16

// Local returns the LocalPos of x, y and z. Each coordinate is wrapped to the chunk size.
func Local(x, y, z uint8) LocalPos {
	return LocalPos(uint16(x&chunkMask) | uint16(z&chunkMask)<<chunkShift | uint16(y&chunkMask)<<(2*chunkShift))
}

// LocalFromIndex returns the LocalPos for a linear index into chunk data.
func LocalFromIndex(i int) LocalPos {
	return LocalPos(i & (ChunkVolume - 1))
}

// X ...
func (l LocalPos) X() uint8 {
	return uint8(l & chunkMask)
}

// Y ...
func (l LocalPos) Y() uint8 {
	return uint8(l>>(2*chunkShift)) & chunkMask
}

// Z ...
func (l LocalPos) Z() uint8 {
	return uint8(l>>chunkShift) & chunkMask
}

// Index returns the linear index of the position in chunk data.
func (l LocalPos) Index() int {
	return int(l) & (ChunkVolume - 1)
}

// coord returns the coordinate of the position along the axis passed.
func (l LocalPos) coord(a Axis) uint8 {
	switch a {
	case X:
		return l.X()
	case Y:
		return l.Y()
	}
	return l.Z()
}

// Boundary reports if the position touches the chunk boundary in the direction of the face passed.
func (l LocalPos) Boundary(f Face) bool {
	c := l.coord(f.Axis())
	if f.Positive() {
		return c == chunkMask
	}
	return c == 0
}

// Neighbour returns the position across the face passed. If that position lies in another chunk, the wrapped
// position within that chunk is returned along with false.
func (l LocalPos) Neighbour(f Face) (LocalPos, bool) {
	o := f.Offset()
	n := Local(uint8(int(l.X())+o[0]), uint8(int(l.Y())+o[1]), uint8(int(l.Z())+o[2]))
	return n, !l.Boundary(f)
}

// Plane returns the position on the boundary plane of face f at plane coordinates u and v. u and v are the two
// coordinates of the remaining axes, in X, Y, Z order.
func Plane(f Face, u, v uint8) LocalPos {
	var c uint8
	if f.Positive() {
		c = chunkMask
	}
	switch f.Axis() {
	case X:
		return Local(c, u, v)
	case Y:
		return Local(u, c, v)
	}
	return Local(u, v, c)
}

// String ...
func (l LocalPos) String() string {
	return fmt.Sprintf("<%d, %d, %d>", l.X(), l.Y(), l.Z())
}

func floor(v float64) int {
	i := int(v)
	if float64(i) > v {
		i--
	}
	return i
}
