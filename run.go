package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/peterhenryd/herbolution-sub001/config"
	"github.com/peterhenryd/herbolution-sub001/define"
	"github.com/peterhenryd/herbolution-sub001/entity"
	"github.com/peterhenryd/herbolution-sub001/gen"
	"github.com/peterhenryd/herbolution-sub001/world"
	"github.com/peterhenryd/herbolution-sub001/world/chunk"
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
	"github.com/peterhenryd/herbolution-sub001/world/palette"
	"github.com/peterhenryd/herbolution-sub001/world/physics"
	"github.com/peterhenryd/herbolution-sub001/world/provider"
	"github.com/sirupsen/logrus"
)

// run loads the chunks around the origin and drops a body onto the terrain. Every time the body lands, the cube
// below it is dug out.
func run(conf *config.Config, ticks int) error {
	log, err := conf.Logger()
	if err != nil {
		return err
	}
	reg, err := conf.Registry()
	if err != nil {
		return err
	}
	g, err := newGenerator(conf, reg)
	if err != nil {
		return err
	}
	wc := world.Config{Log: log, Generator: g, Registry: reg, Workers: conf.World.Workers}
	if conf.Storage.Folder != "" {
		c, err := conf.Compression()
		if err != nil {
			return err
		}
		p, err := provider.New(conf.Storage.Folder, reg, c)
		if err != nil {
			return err
		}
		wc.Provider = p
	}
	m := wc.New()

	r := int32(conf.World.Radius)
	for x := -r; x <= r; x++ {
		for z := -r; z <= r; z++ {
			for y := int32(-1); y <= 1; y++ {
				m.QueueLoad(cube.ChunkPos{x, y, z})
			}
		}
	}

	body := entity.NewBody(
		mgl64.Vec3{0.5, 80, 0.5},
		physics.NewAABB(mgl64.Vec3{-0.3, 0, -0.3}, mgl64.Vec3{0.3, 1.8, 0.3}),
		entity.Attributes{Acceleration: 40, TerminalVelocity: 60, Gravity: true, JumpVelocity: 9},
		conf.EntityPhysics(),
	)
	body.Pitch = 90
	h := &logHandle{log: log}
	color.Blue("Simulating body %v...", body.ID)

	rate := conf.World.TickRate
	if rate <= 0 {
		rate = 20
	}
	dt := 1 / float64(rate)
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	grounded := false
	for tick := 1; ticks == 0 || tick <= ticks; tick++ {
		select {
		case s := <-sig:
			log.Infof("Got signal: %v", s)
			return closeMap(m, h)
		case <-ticker.C:
		}
		m.Update(h)
		// Hold the body until the ground below it exists.
		if cp := cube.PosFromVec3(body.Pos).Chunk(); !m.Loaded(cp) || !m.Loaded(cp.Side(cube.FaceDown)) {
			continue
		}
		res := body.Tick(m, entity.Input{}, dt)
		if res.OnGround && !grounded {
			dig(log, m, body, tick)
		}
		grounded = res.OnGround
	}
	return closeMap(m, h)
}

// dig removes the cube the body looks at, which is the one it stands on as it looks straight down.
func dig(log *logrus.Logger, m *world.Map, body *entity.Body, tick int) {
	hit, ok := m.CastRay(body.Eye(), body.Look(), 4)
	if !ok {
		return
	}
	log.WithField("tick", tick).Infof("Body landed at %.2f on %v, digging %v (%v face)", body.Pos, m.Material(hit.Pos), hit.Pos, hit.Face)
	if err := m.SetCube(hit.Pos, nil); err != nil {
		log.Errorf("dig %v: %v", hit.Pos, err)
	}
}

func closeMap(m *world.Map, h *logHandle) error {
	color.Blue("Saving %v chunks...", m.Len())
	if err := m.Close(); err != nil {
		return err
	}
	color.Green("Done! %v chunks loaded, %v cube updates, %v materials published", h.loaded, h.updates, h.materials)
	return nil
}

// newGenerator returns the generator named in the configuration, built from the materials of reg.
func newGenerator(conf *config.Config, reg *material.Registry) (define.Generator, error) {
	lookup := func(name string) (*material.Material, error) {
		m, ok := reg.Lookup(material.ParseKey(name))
		if !ok {
			return nil, fmt.Errorf("generator %v needs material %v", conf.World.Generator, name)
		}
		return m, nil
	}
	stone, err := lookup("stone")
	if err != nil {
		return nil, err
	}
	dirt, err := lookup("dirt")
	if err != nil {
		return nil, err
	}
	grass, err := lookup("grass")
	if err != nil {
		return nil, err
	}

	switch conf.World.Generator {
	case "flat":
		return gen.Flat{Layers: []gen.Layer{{Material: stone, Height: 12}, {Material: dirt, Height: 3}, {Material: grass, Height: 1}}}, nil
	case "heightmap", "":
		return gen.Heightmap{
			Seed:      conf.World.Seed,
			Base:      16,
			Amplitude: 10,
			Scale:     24,
			Surface:   grass,
			Soil:      dirt,
			Rock:      stone,
			SoilDepth: 3,
		}, nil
	}
	return nil, fmt.Errorf("unknown generator %q", conf.World.Generator)
}

// logHandle logs the changes applied to the world.
type logHandle struct {
	log                         *logrus.Logger
	loaded, updates, materials int
}

func (h *logHandle) HandleChunkLoaded(pos cube.ChunkPos) {
	h.loaded++
	h.log.WithField("chunk", pos).Debug("chunk loaded")
}

func (h *logHandle) HandleChunkUnloaded(pos cube.ChunkPos) {
	h.log.WithField("chunk", pos).Debug("chunk unloaded")
}

func (h *logHandle) HandleCubesUpdated(pos cube.ChunkPos, updates []chunk.Update) {
	h.updates += len(updates)
	h.log.WithField("chunk", pos).Debugf("%v cubes updated", len(updates))
}

func (h *logHandle) HandleMaterial(pos cube.ChunkPos, id palette.ID, m *material.Material) {
	h.materials++
	h.log.WithField("chunk", pos).Debugf("material %v is %v", id, m.Key)
}

// inspect lists the chunks stored in the world folder with a summary of their contents.
func inspect(conf *config.Config) error {
	if conf.Storage.Folder == "" {
		return fmt.Errorf("no storage folder configured")
	}
	reg, err := conf.Registry()
	if err != nil {
		return err
	}
	c, err := conf.Compression()
	if err != nil {
		return err
	}
	p, err := provider.New(conf.Storage.Folder, reg, c)
	if err != nil {
		return err
	}
	defer p.Close()

	positions, err := p.Positions()
	if err != nil {
		return err
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Less(positions[j])
	})
	color.Blue("%v chunks stored in %v", len(positions), conf.Storage.Folder)
	for _, pos := range positions {
		mesh, _, err := p.LoadChunk(pos)
		if err != nil {
			color.Red("%v: %v", pos, err)
			continue
		}
		solid := 0
		for _, id := range mesh.IDs() {
			if id != palette.None {
				solid++
			}
		}
		fmt.Printf("%v %v cubes, materials %v, exposed %v\n", color.CyanString("%v", pos), solid, mesh.Palette().Keys(), mesh.Exposed())
	}
	return nil
}
