// Package scenario defines benchmark scenarios for the reactive runtime:
// YAML-described dependency graph shapes that the bench command builds,
// mutates, and times.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind names a graph shape.
type Kind string

const (
	// KindChain is Width independent chains of Depth computed nodes each,
	// every chain ending in a watcher.
	KindChain Kind = "chain"

	// KindFanout is Width watchers all reading one source field.
	KindFanout Kind = "fanout"

	// KindDiamond is Width computed nodes reading one source, joined by a
	// single watcher reading all of them plus the source.
	KindDiamond Kind = "diamond"

	// KindDeep is a nested object tree Depth levels down with one deep
	// watcher at the root.
	KindDeep Kind = "deep"
)

// Config is the top-level benchmark configuration file.
type Config struct {
	// Iterations is how many timed writes each scenario performs.
	Iterations int `yaml:"iterations"`

	// Scenarios lists the graphs to build and time.
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario describes one dependency graph to benchmark.
type Scenario struct {
	// Name identifies the scenario in reports.
	Name string `yaml:"name"`

	// Kind selects the graph shape.
	Kind Kind `yaml:"kind"`

	// Width is the fan-out factor; meaning depends on Kind.
	Width int `yaml:"width,omitempty"`

	// Depth is the chain or nesting depth; meaning depends on Kind.
	Depth int `yaml:"depth,omitempty"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		Iterations: 1000,
		Scenarios: []Scenario{
			{Name: "chain 1x100", Kind: KindChain, Width: 1, Depth: 100},
			{Name: "chain 10x10", Kind: KindChain, Width: 10, Depth: 10},
			{Name: "fanout 100", Kind: KindFanout, Width: 100},
			{Name: "diamond 10", Kind: KindDiamond, Width: 10},
			{Name: "deep 10", Kind: KindDeep, Depth: 10},
		},
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Iterations <= 0 {
		c.Iterations = 1000
	}
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("no scenarios defined")
	}
	for i := range c.Scenarios {
		if err := c.Scenarios[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		s.Name = fmt.Sprintf("%s %dx%d", s.Kind, s.Width, s.Depth)
	}
	switch s.Kind {
	case KindChain:
		if s.Width <= 0 {
			s.Width = 1
		}
		if s.Depth <= 0 {
			return fmt.Errorf("scenario %q: chain needs depth > 0", s.Name)
		}
	case KindFanout:
		if s.Width <= 0 {
			return fmt.Errorf("scenario %q: fanout needs width > 0", s.Name)
		}
	case KindDiamond:
		if s.Width <= 0 {
			return fmt.Errorf("scenario %q: diamond needs width > 0", s.Name)
		}
	case KindDeep:
		if s.Depth <= 0 {
			return fmt.Errorf("scenario %q: deep needs depth > 0", s.Name)
		}
	default:
		return fmt.Errorf("scenario %q: unknown kind %q", s.Name, s.Kind)
	}
	return nil
}
