package bodies

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes the simulated world.
type Config struct {
	World  WorldConfig  `yaml:"world"`
	Bodies []BodyConfig `yaml:"bodies"`
}

// WorldConfig is the arena extent, 0 means unbounded.
type WorldConfig struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// BodyConfig describes one body.
type BodyConfig struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Heading  float64 `yaml:"heading"`   // degrees
	Speed    float64 `yaml:"speed"`     // units/s
	TurnRate float64 `yaml:"turn_rate"` // degrees/s
	Radius   float64 `yaml:"radius"`
}

// Defaults
const (
	DefaultBodyType   = "body"
	DefaultBodyRadius = 50.0
)

// LoadConfig reads and validates a world config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&conf); err != nil {
		return nil, fmt.Errorf("parse %s: %v", path, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %v", path, err)
	}
	return &conf, nil
}

// Validate checks the config and fills in defaults.
func (c *Config) Validate() error {
	if len(c.Bodies) == 0 {
		return fmt.Errorf("at least one body is required")
	}
	if c.World.W < 0 || c.World.H < 0 {
		return fmt.Errorf("world extent must not be negative")
	}
	names := make(map[string]bool)
	for i := range c.Bodies {
		b := &c.Bodies[i]
		if b.Name == "" {
			return fmt.Errorf("bodies[%d]: name is required", i)
		}
		if names[b.Name] {
			return fmt.Errorf("bodies[%d]: duplicate name %q", i, b.Name)
		}
		names[b.Name] = true
		if b.Type == "" {
			b.Type = DefaultBodyType
		}
		if b.Radius == 0 {
			b.Radius = DefaultBodyRadius
		}
		if b.Radius < 0 {
			return fmt.Errorf("bodies[%d]: radius must be positive", i)
		}
	}
	return nil
}
