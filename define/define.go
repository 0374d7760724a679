// Package define holds the interfaces through which the world talks to its collaborators.
package define

import (
	"github.com/peterhenryd/herbolution-sub001/world/chunk"
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
	"github.com/peterhenryd/herbolution-sub001/world/palette"
)

// Handle receives the changes the world applies during an update. Its methods are called from the goroutine
// calling Map.Update and must not call back into the Map.
type Handle interface {
	// HandleChunkLoaded is called once a chunk has been inserted into the world.
	HandleChunkLoaded(pos cube.ChunkPos)
	// HandleChunkUnloaded is called once a chunk has been removed from the world.
	HandleChunkUnloaded(pos cube.ChunkPos)
	// HandleCubesUpdated is called with the cubes of a chunk that changed since the previous update.
	HandleCubesUpdated(pos cube.ChunkPos, updates []chunk.Update)
	// HandleMaterial is called once for every material added to the palette of a chunk.
	HandleMaterial(pos cube.ChunkPos, id palette.ID, m *material.Material)
}

// NopHandle implements Handle and does nothing.
type NopHandle struct{}

// Compile time check to make sure NopHandle implements Handle.
var _ Handle = NopHandle{}

func (NopHandle) HandleChunkLoaded(cube.ChunkPos)                              {}
func (NopHandle) HandleChunkUnloaded(cube.ChunkPos)                            {}
func (NopHandle) HandleCubesUpdated(cube.ChunkPos, []chunk.Update)             {}
func (NopHandle) HandleMaterial(cube.ChunkPos, palette.ID, *material.Material) {}

// Generator produces the contents of chunks that are not stored anywhere. Generate is called concurrently from
// worker goroutines.
type Generator interface {
	Generate(pos cube.ChunkPos) (*chunk.Mesh, error)
}

// Provider loads and stores chunks. LoadChunk returns false if no chunk is stored at the position passed. If an
// error is returned, exists is always assumed to be true.
type Provider interface {
	LoadChunk(pos cube.ChunkPos) (c *chunk.Mesh, exists bool, err error)
	SaveChunk(c *chunk.Mesh) error
	Close() error
}

// GeneratorFunc implements Generator with a plain function.
type GeneratorFunc func(pos cube.ChunkPos) (*chunk.Mesh, error)

// Generate ...
func (f GeneratorFunc) Generate(pos cube.ChunkPos) (*chunk.Mesh, error) {
	return f(pos)
}
