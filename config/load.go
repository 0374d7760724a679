package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/peterhenryd/herbolution-sub001/entity"
	"gopkg.in/yaml.v3"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	p := entity.DefaultPhysics()
	return &Config{
		World: WorldConfig{
			Seed:      1,
			Generator: "heightmap",
			Radius:    2,
			TickRate:  20,
		},
		Storage: StorageConfig{
			Compression: "zstd",
		},
		Physics: PhysicsConfig{
			Gravity:        p.Gravity,
			GroundFriction: p.GroundFriction,
			AirFriction:    p.AirFriction,
			AirControl:     p.AirControl,
		},
		Log: LogConfig{Level: "info"},
		Materials: []MaterialConfig{
			{Name: "stone", Collider: true, Cull: []string{"all"}, Color: "#7d7d7d", Texture: "stone.png", Toughness: 1.5},
			{Name: "dirt", Collider: true, Cull: []string{"all"}, Color: "#866043", Texture: "dirt.png", Toughness: 0.5},
			{Name: "grass", Collider: true, Cull: []string{"all"}, Color: "#5b8731", Texture: "grass.png", Toughness: 0.6},
			{Name: "glass", Collider: true, Color: "#c0f5fe", Texture: "glass.png", Toughness: 0.3},
		},
	}
}

// Load reads the configuration from the YAML file at path. Fields missing from the file keep their default
// value. If the file does not exist, the default configuration is written to it and returned.
func Load(path string) (*Config, error) {
	conf := Default()
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return conf, conf.Save(path)
	} else if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(conf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config %v: %w", path, err)
	}
	return conf, nil
}

// Save writes the configuration to the file at path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
