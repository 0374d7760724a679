package cube

// MaxLight is the highest light level a face can carry.
const MaxLight = 31

// Light holds one light level per Face, indexed by Face.
type Light [6]uint8

// Flags holds the visibility data of a single cube. A cube is either opaque, in which case it carries the set of
// faces currently rendered, or translucent, in which case it carries per-face light levels. The two are mutually
// exclusive: reading faces of a translucent cube yields no faces and reading light of an opaque cube yields zero.
// Flags is converted to its packed storage form through Pack and UnpackFlags.
type Flags struct {
	opaque bool
	faces  FaceSet
	light  Light
}

// Opaque returns opaque Flags with the faces passed rendered.
func Opaque(faces FaceSet) Flags {
	return Flags{opaque: true, faces: faces & AllFaces}
}

// Translucent returns translucent Flags carrying the light levels passed.
func Translucent(l Light) Flags {
	var f Flags
	f.SetTranslucent(l)
	return f
}

// Opaque reports if the cube currently uses the opaque encoding.
func (f Flags) Opaque() bool {
	return f.opaque
}

// Faces returns the faces rendered. It is always empty for translucent flags.
func (f Flags) Faces() FaceSet {
	if !f.opaque {
		return NoFaces
	}
	return f.faces
}

// InsertFaces marks the faces passed as rendered. It does nothing for translucent flags.
func (f *Flags) InsertFaces(s FaceSet) {
	if f.opaque {
		f.faces |= s & AllFaces
	}
}

// RemoveFaces marks the faces passed as hidden. It does nothing for translucent flags.
func (f *Flags) RemoveFaces(s FaceSet) {
	if f.opaque {
		f.faces &^= s
	}
}

// SetOpaque switches the flags to the opaque encoding with the faces passed rendered.
func (f *Flags) SetOpaque(s FaceSet) {
	*f = Opaque(s)
}

// Light returns the per-face light levels. It is always zero for opaque flags.
func (f Flags) Light() Light {
	if f.opaque {
		return Light{}
	}
	return f.light
}

// SetTranslucent switches the flags to the translucent encoding with the light levels passed. Levels above
// MaxLight are clamped.
func (f *Flags) SetTranslucent(l Light) {
	for i, v := range l {
		if v > MaxLight {
			l[i] = MaxLight
		}
	}
	*f = Flags{light: l}
}

// Pack returns the packed form of the flags. Bit 0 selects the encoding: when set, bits 1-6 hold the rendered
// face mask; when clear, bits 1-30 hold six 5-bit light levels.
func (f Flags) Pack() uint32 {
	if f.opaque {
		return 1 | uint32(f.faces&AllFaces)<<1
	}
	var v uint32
	for i, l := range f.light {
		v |= uint32(l&MaxLight) << (1 + 5*uint(i))
	}
	return v
}

// UnpackFlags decodes flags previously packed using Flags.Pack.
func UnpackFlags(v uint32) Flags {
	if v&1 == 1 {
		return Flags{opaque: true, faces: FaceSet(v>>1) & AllFaces}
	}
	var f Flags
	for i := range f.light {
		f.light[i] = uint8(v>>(1+5*uint(i))) & MaxLight
	}
	return f
}
