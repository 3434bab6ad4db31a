// Package experiment runs batches of independent simulation replications and
// aggregates their results.
package experiment

import (
	"errors"
	"fmt"
	"os"

	"github.com/sarchlab/washsim/carwash"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidReplications is returned when the replication count is not a
	// positive integer.
	ErrInvalidReplications = errors.New(
		"replications must be a positive integer")

	// ErrInvalidSamplingPeriod is returned when the sampling period is
	// negative.
	ErrInvalidSamplingPeriod = errors.New(
		"sampling period must be non-negative")
)

// A Config describes an experiment: a number of replications of one scenario,
// each replication seeded independently.
type Config struct {
	Name               string  `yaml:"name"`
	Replications       int     `yaml:"replications"`
	ServiceTime        int64   `yaml:"service_time"`
	ArrivalProbability float64 `yaml:"arrival_probability"`
	Horizon            int64   `yaml:"horizon"`
	BaseSeed           int64   `yaml:"base_seed"`
	SamplingPeriod     int64   `yaml:"sampling_period"`
	Output             string  `yaml:"output"`
}

// Default returns the scenario the simulator was written for: 10000
// replications of a 6000-second day where a 150-second wash serves cars that
// arrive with probability 0.004 each second.
func Default() Config {
	return Config{
		Name:               "carwash",
		Replications:       10000,
		ServiceTime:        150,
		ArrivalProbability: 0.004,
		Horizon:            6000,
	}
}

// Validate checks the batch parameters together with the embedded scenario
// parameters.
func (c Config) Validate() error {
	scenario := carwash.Config{
		ServiceTime: c.ServiceTime,
		ArrivalProb: c.ArrivalProbability,
		Horizon:     c.Horizon,
	}
	if err := scenario.Validate(); err != nil {
		return err
	}

	if c.Replications <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidReplications, c.Replications)
	}

	if c.SamplingPeriod < 0 {
		return fmt.Errorf("%w: got %d",
			ErrInvalidSamplingPeriod, c.SamplingPeriod)
	}

	return nil
}

// Parse decodes a Config from YAML text. Omitted fields keep their defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse experiment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load reads a Config from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read experiment config: %w", err)
	}

	return Parse(data)
}
