package main

import (
	"io"
	"os"

	"github.com/chazu/octreeview/pkg/cloud"
	"github.com/chazu/octreeview/pkg/config"
	"github.com/chazu/octreeview/pkg/scene"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	flagConfig = "config"
	flagPoints = "points"
	flagSeed   = "seed"
	flagScript = "script"
	flagX      = "x"
	flagY      = "y"
	flagZ      = "z"
	flagRadius = "radius"
	flagOutput = "output"
	flagLeaves = "leaves"
	flagIndent = "indent"
)

func newApp() *cli.App {
	return &cli.App{
		Name:            "octreectl",
		Usage:           "build and inspect octree scenes",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.IntFlag{
				Name:    flagPoints,
				Aliases: []string{"n"},
				Usage:   "number of uniform points, overrides the configuration",
			},
			&cli.Int64Flag{
				Name:  flagSeed,
				Usage: "random seed, overrides the configuration",
			},
			&cli.StringFlag{
				Name:  flagScript,
				Usage: "build from the point script in `FILE`",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "print point, cube, leaf and depth counts",
				Action: statsAction,
			},
			{
				Name:  "export",
				Usage: "write the scene buffers as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    flagOutput,
						Aliases: []string{"o"},
						Usage:   "write to `FILE` instead of stdout",
					},
					&cli.BoolFlag{
						Name:  flagLeaves,
						Usage: "emit leaf cubes only",
					},
					&cli.BoolFlag{
						Name:  flagIndent,
						Usage: "indent the JSON output",
					},
				},
				Action: exportAction,
			},
			{
				Name:  "query",
				Usage: "print the indices of the points inside a probe sphere",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: flagX, Usage: "probe center x"},
					&cli.Float64Flag{Name: flagY, Usage: "probe center y"},
					&cli.Float64Flag{Name: flagZ, Usage: "probe center z"},
					&cli.Float64Flag{Name: flagRadius, Aliases: []string{"r"}, Usage: "probe radius, defaults to the configured radius"},
				},
				Action: queryAction,
			},
		},
	}
}

// loadConfig reads the configuration named by --config and applies the
// global overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return nil, err
		}
		if _, err := cfg.SetupLogging(); err != nil {
			return nil, err
		}
	}
	if c.IsSet(flagPoints) {
		cfg.Points.Count = c.Int(flagPoints)
	}
	if c.IsSet(flagSeed) {
		cfg.Points.Seed = c.Int64(flagSeed)
	}
	if c.IsSet(flagScript) {
		cfg.Points.Script = c.String(flagScript)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildScene builds the scene the configuration describes.
func buildScene(cfg *config.Config) (*scene.Snapshot, error) {
	d := cfg.RootDomain()
	if cfg.Points.Script == "" {
		return scene.Build(cloud.Uniform(cfg.Points.Count, d.Box(), cfg.Points.Seed), d, scene.SourceUniform)
	}

	source, err := os.ReadFile(cfg.Points.Script)
	if err != nil {
		return nil, errors.Wrap(err, "point script")
	}
	pc, evalErrs, err := cfg.NewEngine().Evaluate(string(source))
	if err != nil {
		return nil, errors.Wrap(err, cfg.Points.Script)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs[1:] {
			log.Errorf("%s: %s", cfg.Points.Script, e.Error())
		}
		return nil, errors.Wrap(evalErrs[0], cfg.Points.Script)
	}
	return scene.Build(pc, d, scene.SourceScript)
}

func loadScene(c *cli.Context) (*config.Config, *scene.Snapshot, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	s, err := buildScene(cfg)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range s.Findings {
		log.Warning(f.Error())
	}
	return cfg, s, nil
}

func output(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}
