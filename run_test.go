package main

import (
	"testing"

	"github.com/peterhenryd/herbolution-sub001/config"
	"github.com/peterhenryd/herbolution-sub001/gen"
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	conf := config.Default()
	reg, err := conf.Registry()
	require.NoError(t, err)

	conf.World.Generator = "flat"
	g, err := newGenerator(conf, reg)
	require.NoError(t, err)
	flat, ok := g.(gen.Flat)
	require.True(t, ok)
	assert.Equal(t, "grass", flat.At(15).Key.Name)

	conf.World.Generator = "heightmap"
	g, err = newGenerator(conf, reg)
	require.NoError(t, err)
	c, err := g.Generate(cube.ChunkPos{0, 0, 0})
	require.NoError(t, err)
	assert.NotNil(t, c.Material(cube.Local(0, 0, 0)))

	conf.World.Generator = "caves"
	_, err = newGenerator(conf, reg)
	assert.Error(t, err)
}

func TestNewGeneratorMissingMaterial(t *testing.T) {
	conf := config.Default()
	reg, err := material.NewRegistry()
	require.NoError(t, err)
	_, err = newGenerator(conf, reg)
	assert.Error(t, err)
}

func TestRunThenInspect(t *testing.T) {
	conf := config.Default()
	conf.World.Generator = "flat"
	conf.World.Radius = 0
	conf.World.TickRate = 1000
	conf.World.Workers = 2
	conf.Storage.Folder = t.TempDir()
	conf.Log.Level = "warn"

	require.NoError(t, run(conf, 50))
	require.NoError(t, inspect(conf))
}

func TestInspectWithoutFolder(t *testing.T) {
	conf := config.Default()
	conf.Storage.Folder = ""
	assert.Error(t, inspect(conf))
}
