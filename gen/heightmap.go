package gen

import (
	"math"

	"github.com/peterhenryd/herbolution-sub001/define"
	"github.com/peterhenryd/herbolution-sub001/world/chunk"
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
)

// Heightmap generates rolling terrain from value noise over a square lattice. Heights are sampled from world
// coordinates only, so neighbouring chunks always line up.
type Heightmap struct {
	Seed uint32
	// Base is the mean surface height and Amplitude the largest deviation from it.
	Base, Amplitude int
	// Scale is the spacing of the noise lattice in cubes.
	Scale int

	Surface, Soil, Rock *material.Material
	// SoilDepth is the amount of Soil cubes below the Surface cube of every column.
	SoilDepth int
}

// Compile time check to make sure Heightmap implements define.Generator.
var _ define.Generator = Heightmap{}

// Generate ...
func (h Heightmap) Generate(pos cube.ChunkPos) (*chunk.Mesh, error) {
	origin := pos.Origin()
	var heights [chunk.Size][chunk.Size]int
	for x := 0; x < chunk.Size; x++ {
		for z := 0; z < chunk.Size; z++ {
			heights[x][z] = h.Height(origin.X()+x, origin.Z()+z)
		}
	}
	c := chunk.New(pos)
	return c, c.Generate(func(l cube.LocalPos) *material.Material {
		return h.at(origin.Y()+int(l.Y()), heights[l.X()][l.Z()])
	})
}

// Height returns the height of the surface cube of the column at x, z.
func (h Heightmap) Height(x, z int) int {
	scale := h.Scale
	if scale <= 0 {
		scale = 1
	}
	cx, cz := floorDiv(x, scale), floorDiv(z, scale)
	fx := smooth(float64(x-cx*scale) / float64(scale))
	fz := smooth(float64(z-cz*scale) / float64(scale))

	v00, v10 := h.lattice(cx, cz), h.lattice(cx+1, cz)
	v01, v11 := h.lattice(cx, cz+1), h.lattice(cx+1, cz+1)
	v := lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fz)
	return h.Base + int(math.Round((v*2-1)*float64(h.Amplitude)))
}

// at returns the material at height y of a column with its surface at height.
func (h Heightmap) at(y, height int) *material.Material {
	switch {
	case y > height:
		return nil
	case y == height:
		return h.Surface
	case y >= height-h.SoilDepth:
		return h.Soil
	}
	return h.Rock
}

// lattice returns the noise value at a lattice point, between 0 and 1.
func (h Heightmap) lattice(x, z int) float64 {
	v := h.Seed ^ uint32(x)*0x9e3779b1 ^ uint32(z)*0x85ebca6b
	return float64(scramble(v)) / math.MaxUint32
}

// scramble spreads every input bit over the whole word so that neighbouring lattice points are unrelated.
func scramble(v uint32) uint32 {
	v ^= v >> 16
	v *= 0x7feb352d
	v ^= v >> 15
	v *= 0x846ca68b
	return v ^ v>>16
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
