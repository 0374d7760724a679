package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/peterhenryd/herbolution-sub001/config"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "herbolution",
		Usage: "voxel world engine: chunk generation, face culling, storage and physics",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "config file path, created with defaults if missing",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "load the chunks around the origin and simulate a falling body",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "ticks", Usage: "stop after this many ticks, 0 runs until interrupted"},
				},
				Action: func(c *cli.Context) error {
					conf, err := loadConfig(c)
					if err != nil {
						return err
					}
					return run(conf, c.Int("ticks"))
				},
			},
			{
				Name:  "inspect",
				Usage: "list the chunks stored in the world folder",
				Action: func(c *cli.Context) error {
					conf, err := loadConfig(c)
					if err != nil {
						return err
					}
					return inspect(conf)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(color.New(color.FgRed).Sprint(err))
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	color.Blue("Loading config from %v...", c.String("config"))
	conf, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	color.Green("Config loaded!")
	return conf, nil
}
