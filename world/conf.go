package world

import (
	"runtime"

	"github.com/alitto/pond/v2"
	"github.com/peterhenryd/herbolution-sub001/define"
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Config holds the settings of a Map. The zero value is valid: chunks are then created empty, nothing is stored
// and SetCubeByKey fails for every key.
type Config struct {
	// Log is the logger background failures are reported to. If nil, a coloured text logger at info level is
	// used.
	Log *logrus.Logger
	// Generator produces chunks the Provider does not hold. If nil, such chunks are left empty.
	Generator define.Generator
	// Provider loads chunks before they are generated and stores chunks when they are unloaded. It may be nil.
	Provider define.Provider
	// Registry resolves the material keys passed to SetCubeByKey.
	Registry *material.Registry
	// Workers is the amount of goroutines generating and culling chunks. Values of zero or less use the amount
	// of CPUs.
	Workers int
}

// New creates a Map using the settings of the Config.
func (conf Config) New() *Map {
	if conf.Log == nil {
		conf.Log = logrus.New()
		conf.Log.Formatter = &logrus.TextFormatter{ForceColors: true}
	}
	if conf.Workers <= 0 {
		conf.Workers = runtime.NumCPU()
	}
	if conf.Registry == nil {
		conf.Registry, _ = material.NewRegistry()
	}
	return &Map{
		conf:    conf,
		log:     conf.Log,
		pool:    pond.NewPool(conf.Workers),
		chunks:  make(map[cube.ChunkPos]*chunkEntry),
		pending: make(map[cube.ChunkPos]uint64),
		results: make(chan result, conf.Workers*16),
		closed:  atomic.NewBool(false),
		stale:   atomic.NewInt64(0),
	}
}
