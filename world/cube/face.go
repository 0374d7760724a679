package cube

import "strings"

// Face represents one of the six axis-aligned faces of a cube.
type Face uint8

const (
	// FaceDown represents the bottom face of a cube, facing -Y.
	FaceDown Face = iota
	// FaceUp represents the top face of a cube, facing +Y.
	FaceUp
	// FaceNorth represents the north face of a cube, facing -Z.
	FaceNorth
	// FaceSouth represents the south face of a cube, facing +Z.
	FaceSouth
	// FaceWest represents the west face of a cube, facing -X.
	FaceWest
	// FaceEast represents the east face of a cube, facing +X.
	FaceEast
)

// Axis represents one of the three axes of the world.
type Axis uint8

const (
	// Y represents the vertical axis.
	Y Axis = iota
	// Z represents the north-south axis.
	Z
	// X represents the west-east axis.
	X
)

// Faces returns all six faces in order.
func Faces() []Face {
	return []Face{FaceDown, FaceUp, FaceNorth, FaceSouth, FaceWest, FaceEast}
}

// Opposite returns the face on the other side of the cube.
func (f Face) Opposite() Face {
	return f ^ 1
}

// Axis returns the axis the face is perpendicular to.
func (f Face) Axis() Axis {
	return Axis(f >> 1)
}

// Positive reports if the face points towards the positive end of its axis.
func (f Face) Positive() bool {
	return f&1 == 1
}

// Offset returns the unit offset pointing out of the face.
func (f Face) Offset() Pos {
	var p Pos
	d := -1
	if f.Positive() {
		d = 1
	}
	switch f.Axis() {
	case X:
		p[0] = d
	case Y:
		p[1] = d
	case Z:
		p[2] = d
	}
	return p
}

// FaceOf returns the face pointing along the axis passed in the direction of sign.
func FaceOf(a Axis, positive bool) Face {
	f := Face(a << 1)
	if positive {
		f |= 1
	}
	return f
}

// String ...
func (f Face) String() string {
	switch f {
	case FaceDown:
		return "down"
	case FaceUp:
		return "up"
	case FaceNorth:
		return "north"
	case FaceSouth:
		return "south"
	case FaceWest:
		return "west"
	case FaceEast:
		return "east"
	}
	return "unknown"
}

// FaceSet is a bitmask holding one bit per Face.
type FaceSet uint8

const (
	// NoFaces is the empty FaceSet.
	NoFaces FaceSet = 0
	// AllFaces is the FaceSet holding all six faces.
	AllFaces FaceSet = 0x3f
)

// FaceSetOf returns a FaceSet holding the faces passed.
func FaceSetOf(faces ...Face) FaceSet {
	var s FaceSet
	for _, f := range faces {
		s |= 1 << f
	}
	return s
}

// Has checks if the face is in the set.
func (s FaceSet) Has(f Face) bool {
	return s&(1<<f) != 0
}

// With returns the set with f added.
func (s FaceSet) With(f Face) FaceSet {
	return s | 1<<f
}

// Without returns the set with f removed.
func (s FaceSet) Without(f Face) FaceSet {
	return s &^ (1 << f)
}

// Empty checks if no face is in the set.
func (s FaceSet) Empty() bool {
	return s&AllFaces == 0
}

// Len returns the amount of faces in the set.
func (s FaceSet) Len() int {
	n := 0
	for _, f := range Faces() {
		if s.Has(f) {
			n++
		}
	}
	return n
}

// String ...
func (s FaceSet) String() string {
	names := make([]string, 0, 6)
	for _, f := range Faces() {
		if s.Has(f) {
			names = append(names, f.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// ParseFace returns the face with the name passed, as returned by Face.String.
func ParseFace(s string) (Face, bool) {
	for _, f := range Faces() {
		if f.String() == strings.ToLower(s) {
			return f, true
		}
	}
	return 0, false
}
