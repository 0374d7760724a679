// Package gen holds simple chunk generators: flat layered worlds and hash based rolling terrain.
package gen

import (
	"github.com/peterhenryd/herbolution-sub001/define"
	"github.com/peterhenryd/herbolution-sub001/world/chunk"
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
)

// Layer is a horizontal slab of a single material.
type Layer struct {
	Material *material.Material
	Height   int
}

// Flat generates a world of horizontal layers stacked upwards from y=0. Everything below y=0 is made of the
// bottom layer, everything above the top layer is empty.
type Flat struct {
	Layers []Layer
}

// Compile time check to make sure Flat implements define.Generator.
var _ define.Generator = Flat{}

// Generate ...
func (f Flat) Generate(pos cube.ChunkPos) (*chunk.Mesh, error) {
	c := chunk.New(pos)
	y0 := pos.Origin().Y()
	return c, c.Generate(func(l cube.LocalPos) *material.Material {
		return f.At(y0 + int(l.Y()))
	})
}

// At returns the material at the world height passed.
func (f Flat) At(y int) *material.Material {
	if len(f.Layers) == 0 {
		return nil
	}
	if y < 0 {
		return f.Layers[0].Material
	}
	for _, layer := range f.Layers {
		if y < layer.Height {
			return layer.Material
		}
		y -= layer.Height
	}
	return nil
}
