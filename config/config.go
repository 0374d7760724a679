// Package config holds the settings of the engine, read from a YAML file.
package config

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/peterhenryd/herbolution-sub001/entity"
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
	"github.com/peterhenryd/herbolution-sub001/world/provider"
	"github.com/sirupsen/logrus"
)

type WorldConfig struct {
	Seed uint32 `yaml:"seed"`
	// Generator is either "flat" or "heightmap".
	Generator string `yaml:"generator"`
	// Workers is the size of the generation and culling pool. 0 uses the amount of CPUs.
	Workers int `yaml:"workers"`
	// Radius is the distance in chunks around the origin loaded by the run command.
	Radius int `yaml:"radius"`
	// TickRate is the amount of updates per second.
	TickRate int `yaml:"tick_rate"`
}

type StorageConfig struct {
	// Folder is the directory chunks are stored in. Chunks are not stored if it is empty.
	Folder string `yaml:"folder"`
	// Compression is one of "none", "zstd" or "brotli".
	Compression string `yaml:"compression"`
}

type PhysicsConfig struct {
	Gravity        float64 `yaml:"gravity"`
	GroundFriction float64 `yaml:"ground_friction"`
	AirFriction    float64 `yaml:"air_friction"`
	AirControl     float64 `yaml:"air_control"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type MaterialConfig struct {
	// Name is the key of the material, "group:name" or just "name" for the core group.
	Name     string `yaml:"name"`
	Collider bool   `yaml:"collider,omitempty"`
	// Cull lists the faces that hide and are hidden by their neighbours. "all" stands for every face.
	Cull      []string `yaml:"cull,omitempty"`
	Color     string   `yaml:"color,omitempty"`
	Texture   string   `yaml:"texture,omitempty"`
	Toughness float64  `yaml:"toughness,omitempty"`
}

type Config struct {
	World     WorldConfig      `yaml:"world"`
	Storage   StorageConfig    `yaml:"storage"`
	Physics   PhysicsConfig    `yaml:"physics"`
	Log       LogConfig        `yaml:"log"`
	Materials []MaterialConfig `yaml:"materials"`
}

// Material converts the MaterialConfig to a Material.
func (m MaterialConfig) Material() (*material.Material, error) {
	if m.Name == "" {
		return nil, fmt.Errorf("material without name")
	}
	mat := &material.Material{
		Key:       material.ParseKey(m.Name),
		Collider:  m.Collider,
		Texture:   m.Texture,
		Toughness: m.Toughness,
	}
	for _, name := range m.Cull {
		if strings.EqualFold(name, "all") {
			mat.Cull = cube.AllFaces
			continue
		}
		f, ok := cube.ParseFace(name)
		if !ok {
			return nil, fmt.Errorf("material %v: unknown face %q", m.Name, name)
		}
		mat.Cull = mat.Cull.With(f)
	}
	if m.Color != "" {
		c, err := colorful.Hex(m.Color)
		if err != nil {
			return nil, fmt.Errorf("material %v: %w", m.Name, err)
		}
		mat.Color = c
	}
	return mat, nil
}

// Registry builds a material registry holding every configured material.
func (c *Config) Registry() (*material.Registry, error) {
	reg, _ := material.NewRegistry()
	for _, mc := range c.Materials {
		m, err := mc.Material()
		if err != nil {
			return nil, err
		}
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// EntityPhysics returns the physics constants bodies move with.
func (c *Config) EntityPhysics() entity.Physics {
	return entity.Physics{
		Gravity:        c.Physics.Gravity,
		GroundFriction: c.Physics.GroundFriction,
		AirFriction:    c.Physics.AirFriction,
		AirControl:     c.Physics.AirControl,
	}
}

// Compression returns the configured compression of stored chunks.
func (c *Config) Compression() (provider.Compression, error) {
	return provider.ParseCompression(c.Storage.Compression)
}

// Logger returns a coloured text logger at the configured level.
func (c *Config) Logger() (*logrus.Logger, error) {
	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	if c.Log.Level != "" {
		lvl, err := logrus.ParseLevel(c.Log.Level)
		if err != nil {
			return nil, err
		}
		log.Level = lvl
	}
	return log, nil
}
