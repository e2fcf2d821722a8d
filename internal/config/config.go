package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"chaoslab/internal/dynamo"
	"chaoslab/internal/section"
)

const (
	DefaultStepHint  = 0.01
	DefaultRelTol    = 1e-8
	DefaultAbsTol    = 1e-10
	DefaultTransient = 100.0
	DefaultSample    = 100.0
)

type Config struct {
	System    string             `yaml:"system"`
	Params    map[string]float64 `yaml:"params"`
	Initial   []float64          `yaml:"initial"`
	StepHint  float64            `yaml:"step_hint"`
	RelTol    float64            `yaml:"rel_tol"`
	AbsTol    float64            `yaml:"abs_tol"`
	Transient float64            `yaml:"transient"`
	Sample    float64            `yaml:"sample"`
	Plane     PlaneConfig        `yaml:"plane"`
	Sweep     SweepConfig        `yaml:"sweep"`
}

type PlaneConfig struct {
	Coord     string  `yaml:"coord"`
	Value     float64 `yaml:"value"`
	Direction string  `yaml:"direction"`
}

type SweepConfig struct {
	Param   string  `yaml:"param"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Steps   int     `yaml:"steps"`
	Report  string  `yaml:"report"`
	Workers int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		System:    "lorenz",
		StepHint:  DefaultStepHint,
		RelTol:    DefaultRelTol,
		AbsTol:    DefaultAbsTol,
		Transient: DefaultTransient,
		Sample:    DefaultSample,
		Plane: PlaneConfig{
			Coord:     "y",
			Value:     0.0,
			Direction: "positive",
		},
		Sweep: SweepConfig{
			Param:  "rho",
			Min:    0.0,
			Max:    50.0,
			Steps:  300,
			Report: "z",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CoordIndex maps a coordinate name ("x", "y", "z") to a state index.
func CoordIndex(name string) (int, error) {
	switch name {
	case "x", "0":
		return 0, nil
	case "y", "1":
		return 1, nil
	case "z", "2":
		return 2, nil
	default:
		return 0, fmt.Errorf("coordinate %q: %w", name, dynamo.ErrInvalidConfig)
	}
}

// GetPlane converts the declarative plane block into a section.Plane.
func (c *Config) GetPlane() (section.Plane, error) {
	coord, err := CoordIndex(c.Plane.Coord)
	if err != nil {
		return section.Plane{}, err
	}
	dir, err := section.ParseDirection(c.Plane.Direction)
	if err != nil {
		return section.Plane{}, err
	}
	return section.Plane{Coord: coord, Threshold: c.Plane.Value, Direction: dir}, nil
}

// GetOptions converts solver-related fields into integration options.
func (c *Config) GetOptions() dynamo.Options {
	opts := dynamo.DefaultOptions()
	if c.StepHint > 0 {
		opts.StepHint = c.StepHint
	}
	if c.RelTol > 0 {
		opts.RelTol = c.RelTol
	}
	if c.AbsTol > 0 {
		opts.AbsTol = c.AbsTol
	}
	return opts
}

// SweepValues expands the sweep block into an inclusive value grid.
func (c *Config) SweepValues() []float64 {
	steps := c.Sweep.Steps
	if steps < 2 {
		steps = 2
	}
	values := make([]float64, steps)
	delta := (c.Sweep.Max - c.Sweep.Min) / float64(steps-1)
	for i := range values {
		values[i] = c.Sweep.Min + float64(i)*delta
	}
	return values
}
