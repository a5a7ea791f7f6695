// Package config is the octreeview configuration, read from a TOML file.
package config

import (
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/chazu/octreeview/pkg/engine"
	"github.com/chazu/octreeview/pkg/probe"
	"github.com/chazu/octreeview/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("octreeview:config")

var format = logging.MustStringFormatter(
	"%{color}%{time:15:04:05.000} %{module} ▶ %{level:.4s} %{id:03x} %{message}%{color:reset}",
)

// Vec is a point in config files, written as [x, y, z].
type Vec [3]float64

// Vec3 converts v to a vector.
func (v Vec) Vec3() v3.Vec {
	return v3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// Logging is one log backend.
type Logging struct {
	Output string `toml:"output"`
	Level  string `toml:"level"`
}

// Config is the central type all configuration is unmarshalled to.
type Config struct {
	toml.MetaData

	Domain struct {
		Center Vec     `toml:"center"`
		Size   float64 `toml:"size"`
	} `toml:"domain"`

	Points struct {
		Count int   `toml:"count"`
		Seed  int64 `toml:"seed"`
		// Script is the path of a point script. When set it replaces the
		// uniform generator.
		Script string `toml:"script"`
	} `toml:"points"`

	Probe struct {
		Center    Vec     `toml:"center"`
		Radius    float64 `toml:"radius"`
		MeshCells int     `toml:"mesh_cells"`
	} `toml:"probe"`

	Engine struct {
		Timeout Delay `toml:"timeout"`
	} `toml:"engine"`

	Logging []Logging `toml:"logging"`
}

// Default returns the configuration used when no file is given: a thousand
// points in [-1,1]^3, as the viewer starts up.
func Default() *Config {
	c := &Config{}
	c.Domain.Size = scene.DefaultDomain.Size
	c.Points.Count = 1000
	c.Points.Seed = 1
	c.Probe.Radius = 0.25
	c.Probe.MeshCells = probe.DefaultMeshCells
	c.Engine.Timeout = Delay(engine.EvalTimeout)
	return c
}

// Load decodes a TOML configuration from r over the values already in c.
func (c *Config) Load(r io.Reader) error {
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return errors.Wrap(err, "config: decode")
	}
	c.MetaData = md

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Warningf("unknown configuration keys: %v", undecoded)
	}
	return c.Validate()
}

// LoadFile reads the configuration at path on top of the defaults.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	defer f.Close()

	c := Default()
	if err := c.Load(f); err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return c, nil
}

// Validate checks that c describes a buildable scene.
func (c *Config) Validate() error {
	if err := c.RootDomain().Validate(); err != nil {
		return errors.Wrap(err, "config: [domain]")
	}
	if c.Points.Count < 0 || c.Points.Count > engine.MaxPoints {
		return errors.Errorf("config: [points] count %d out of range [0, %d]", c.Points.Count, engine.MaxPoints)
	}
	if err := c.ProbeSphere().Validate(); err != nil {
		return errors.Wrap(err, "config: [probe]")
	}
	if c.Probe.MeshCells <= 0 {
		return errors.Errorf("config: [probe] mesh_cells must be positive, got %d", c.Probe.MeshCells)
	}
	if c.Engine.Timeout.Duration() <= 0 {
		return errors.Errorf("config: [engine] timeout must be positive, got %s", c.Engine.Timeout.Duration())
	}
	for _, l := range c.Logging {
		if _, err := logging.LogLevel(l.Level); err != nil {
			return errors.Wrapf(err, "config: [[logging]] level %q", l.Level)
		}
	}
	return nil
}

// RootDomain returns the index root cube.
func (c *Config) RootDomain() scene.Domain {
	return scene.Domain{Center: c.Domain.Center.Vec3(), Size: c.Domain.Size}
}

// ProbeSphere returns the initial probe.
func (c *Config) ProbeSphere() probe.Probe {
	return probe.Probe{Center: c.Probe.Center.Vec3(), Radius: c.Probe.Radius}
}

// NewEngine returns a script engine sampling the configured domain.
func (c *Config) NewEngine() *engine.Engine {
	e := engine.NewEngine()
	e.Domain = c.RootDomain().Box()
	e.Seed = c.Points.Seed
	e.Timeout = c.Engine.Timeout.Duration()
	return e
}

// Delay is a duration written as a string such as "5s".
type Delay time.Duration

// Duration returns d as a time.Duration.
func (d Delay) Duration() time.Duration {
	return time.Duration(d)
}

// UnmarshalText parses a duration string.
func (d *Delay) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		log.Errorf("Error parsing duration (%s): %s", text, err.Error())
		return err
	}
	*d = Delay(v)
	return nil
}
