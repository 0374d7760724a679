package gen

import (
	"testing"

	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	grass = &material.Material{Key: material.ParseKey("grass"), Collider: true, Cull: cube.AllFaces}
	dirt  = &material.Material{Key: material.ParseKey("dirt"), Collider: true, Cull: cube.AllFaces}
	stone = &material.Material{Key: material.ParseKey("stone"), Collider: true, Cull: cube.AllFaces}
)

func TestFlat(t *testing.T) {
	f := Flat{Layers: []Layer{{stone, 3}, {dirt, 2}, {grass, 1}}}
	assert.Equal(t, stone, f.At(-40))
	assert.Equal(t, stone, f.At(2))
	assert.Equal(t, dirt, f.At(3))
	assert.Equal(t, grass, f.At(5))
	assert.Nil(t, f.At(6))

	c, err := f.Generate(cube.ChunkPos{4, 0, -1})
	require.NoError(t, err)
	assert.Equal(t, grass, c.Material(cube.Local(9, 5, 9)))
	assert.Nil(t, c.Material(cube.Local(9, 6, 9)))
	assert.True(t, c.Cube(cube.Local(9, 5, 9)).Flags.Faces().Has(cube.FaceUp))
	assert.False(t, c.Cube(cube.Local(9, 4, 9)).Flags.Faces().Has(cube.FaceUp))

	c, err = f.Generate(cube.ChunkPos{0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Palette().Len())
	assert.Equal(t, cube.NoFaces, c.Exposed())
}

func TestHeightmapDeterministic(t *testing.T) {
	h := Heightmap{Seed: 42, Base: 16, Amplitude: 8, Scale: 16, Surface: grass, Soil: dirt, Rock: stone, SoilDepth: 3}

	a, err := h.Generate(cube.ChunkPos{-1, 0, 2})
	require.NoError(t, err)
	b, err := h.Generate(cube.ChunkPos{-1, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, a.IDs(), b.IDs())

	for x := -40; x < 40; x += 3 {
		for z := -40; z < 40; z += 5 {
			height := h.Height(x, z)
			assert.GreaterOrEqual(t, height, 8)
			assert.LessOrEqual(t, height, 24)
		}
	}
}

func TestHeightmapColumns(t *testing.T) {
	h := Heightmap{Seed: 7, Base: 16, Amplitude: 8, Scale: 8, Surface: grass, Soil: dirt, Rock: stone, SoilDepth: 2}
	pos := cube.ChunkPos{1, 0, 1}
	c, err := h.Generate(pos)
	require.NoError(t, err)

	origin := pos.Origin()
	for _, col := range [][2]uint8{{0, 0}, {5, 17}, {31, 31}} {
		x, z := col[0], col[1]
		height := h.Height(origin.X()+int(x), origin.Z()+int(z))
		assert.Equal(t, grass, c.Material(cube.Local(x, uint8(height), z)))
		assert.Equal(t, dirt, c.Material(cube.Local(x, uint8(height-2), z)))
		assert.Equal(t, stone, c.Material(cube.Local(x, uint8(height-3), z)))
		assert.Nil(t, c.Material(cube.Local(x, uint8(height+1), z)))
	}
}

func TestHeightmapSeamless(t *testing.T) {
	h := Heightmap{Seed: 3, Base: 0, Amplitude: 20, Scale: 16}
	// Neighbouring columns never jump by more than the lattice allows.
	for x := -64; x < 64; x++ {
		d := h.Height(x+1, 5) - h.Height(x, 5)
		if d < 0 {
			d = -d
		}
		assert.LessOrEqual(t, d, 5, "x=%v", x)
	}
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, -1, floorDiv(-1, 16))
	assert.Equal(t, -1, floorDiv(-16, 16))
	assert.Equal(t, -2, floorDiv(-17, 16))
	assert.Equal(t, 0, floorDiv(15, 16))
}
