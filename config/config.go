// Package config defines the YAML configuration schema for reverse-Life
// runs: simulation parameters, solver selection and limits, and encoding
// flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rverge/retrolife/life"
)

// ErrConfig indicates an invalid configuration value.
var ErrConfig = errors.New("config: invalid configuration")

// Backend names accepted for solver.backend.
const (
	BackendSingleThreaded = "single_threaded"
	BackendParallel       = "parallel"
)

// ThreadCount is a worker count that also accepts the string "auto"
// (decoded as 0, meaning one worker per CPU).
type ThreadCount int

// UnmarshalYAML accepts either an integer or the string "auto".
func (t *ThreadCount) UnmarshalYAML(value *yaml.Node) error {
	var n int
	if err := value.Decode(&n); err == nil {
		*t = ThreadCount(n)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("%w: num_threads: %v", ErrConfig, err)
	}
	if strings.EqualFold(strings.TrimSpace(s), "auto") {
		*t = 0
		return nil
	}
	return fmt.Errorf("%w: num_threads must be a positive integer or \"auto\", got %q", ErrConfig, s)
}

// Value returns the configured count; 0 means auto.
func (t ThreadCount) Value() int { return int(t) }

// Simulation holds the forward-model parameters.
type Simulation struct {
	Generations       int    `yaml:"generations"`
	BoundaryCondition string `yaml:"boundary_condition"`
}

// Solver selects and bounds the SAT backend.
type Solver struct {
	Backend        string      `yaml:"backend"`
	MaxSolutions   int         `yaml:"max_solutions"`
	TimeoutSeconds int         `yaml:"timeout_seconds"`
	NumThreads     ThreadCount `yaml:"num_threads"`
	// EnablePreprocessing is advisory; the bundled backends always run
	// their simplification pass.
	EnablePreprocessing bool `yaml:"enable_preprocessing"`
	Verbosity           int  `yaml:"verbosity"`
}

// Encoding holds CNF-generation flags.
type Encoding struct {
	SymmetryBreaking bool `yaml:"symmetry_breaking"`
}

// Config is the full configuration tree.
type Config struct {
	Simulation Simulation `yaml:"simulation"`
	Solver     Solver     `yaml:"solver"`
	Encoding   Encoding   `yaml:"encoding"`
}

// Default returns the configuration used when no file is given: one
// generation back, dead boundary, single-threaded solver, a single
// solution, and a 60-second budget.
func Default() *Config {
	return &Config{
		Simulation: Simulation{
			Generations:       1,
			BoundaryCondition: "dead",
		},
		Solver: Solver{
			Backend:             BackendSingleThreaded,
			MaxSolutions:        1,
			TimeoutSeconds:      60,
			NumThreads:          0,
			EnablePreprocessing: true,
			Verbosity:           0,
		},
	}
}

// Load decodes a YAML configuration. Fields missing from the input keep
// their defaults. The result is validated.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and decodes a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Validate checks every field against its declared range.
func (c *Config) Validate() error {
	if c.Simulation.Generations < 1 {
		return fmt.Errorf("%w: simulation.generations must be >= 1, got %d", ErrConfig, c.Simulation.Generations)
	}
	if _, err := life.ParseBoundary(c.Simulation.BoundaryCondition); err != nil {
		return fmt.Errorf("%w: simulation.boundary_condition: %v", ErrConfig, err)
	}
	switch strings.ToLower(c.Solver.Backend) {
	case BackendSingleThreaded, BackendParallel:
	default:
		return fmt.Errorf("%w: solver.backend must be %q or %q, got %q",
			ErrConfig, BackendSingleThreaded, BackendParallel, c.Solver.Backend)
	}
	if c.Solver.MaxSolutions < 1 {
		return fmt.Errorf("%w: solver.max_solutions must be >= 1, got %d", ErrConfig, c.Solver.MaxSolutions)
	}
	if c.Solver.TimeoutSeconds < 1 {
		return fmt.Errorf("%w: solver.timeout_seconds must be >= 1, got %d", ErrConfig, c.Solver.TimeoutSeconds)
	}
	if c.Solver.NumThreads < 0 {
		return fmt.Errorf("%w: solver.num_threads must be positive or \"auto\"", ErrConfig)
	}
	if c.Solver.Verbosity < 0 || c.Solver.Verbosity > 2 {
		return fmt.Errorf("%w: solver.verbosity must be 0, 1, or 2, got %d", ErrConfig, c.Solver.Verbosity)
	}
	return nil
}
