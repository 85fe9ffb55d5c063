// SPDX-License-Identifier: MIT

// Package config loads swclust settings from YAML.
//
// Values missing from a file keep their Default(); unknown keys are rejected
// so a misspelt setting never goes unnoticed.
//
//	sampler:
//	  iterations: 2000
//	  seed: 7
//	driver:
//	  max_levels: 4
//	  include_ocr: false
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/swclust/affinity"
	"github.com/katalvlaran/swclust/energy"
	"github.com/katalvlaran/swclust/multilevel"
	"github.com/katalvlaran/swclust/segment"
	"github.com/katalvlaran/swclust/swcut"
)

// ErrInvalid indicates a setting outside its domain.
var ErrInvalid = errors.New("config: invalid value")

// Config is the full set of tunables.
type Config struct {
	Sampler  Sampler  `yaml:"sampler"`
	Affinity Affinity `yaml:"affinity"`
	Energy   Energy   `yaml:"energy"`
	Driver   Driver   `yaml:"driver"`
	Segment  Segment  `yaml:"segment"`
}

// Sampler configures the SW-cut sampler.
type Sampler struct {
	Iterations int   `yaml:"iterations"`
	Seed       int64 `yaml:"seed"`
	KeepBest   bool  `yaml:"keep_best"`
}

// Affinity configures edge probabilities and pruning.
type Affinity struct {
	Decay float64 `yaml:"decay"`
	// ThresholdPerLevel is the slope of the linear pruning threshold.
	ThresholdPerLevel float64 `yaml:"threshold_per_level"`
}

// Energy configures the clustering energy.
type Energy struct {
	Weights [3]float64 `yaml:"weights"` // NP1, VP, NP2
	Cooling Cooling    `yaml:"cooling"`
}

// Cooling mirrors energy.Cooling.
type Cooling struct {
	Start  float64 `yaml:"start"`
	Period int     `yaml:"period"`
	Step   float64 `yaml:"step"`
	Floor  float64 `yaml:"floor"`
}

// Driver configures the multi-level driver.
type Driver struct {
	// MaxLevels of 0 disables the level limit.
	MaxLevels  int  `yaml:"max_levels"`
	IncludeOCR bool `yaml:"include_ocr"`
}

// Segment configures sequence segmentation.
type Segment struct {
	Temperature float64 `yaml:"temperature"`
}

// Default returns the built-in settings.
func Default() Config {
	c := energy.DefaultCooling()

	return Config{
		Sampler: Sampler{
			Iterations: swcut.DefaultIterations,
			KeepBest:   swcut.DefaultKeepBest,
		},
		Affinity: Affinity{
			Decay:             affinity.DefaultDecay,
			ThresholdPerLevel: 0.8,
		},
		Energy: Energy{
			Weights: [3]float64{1, 1, 1},
			Cooling: Cooling{Start: c.Start, Period: c.Period, Step: c.Step, Floor: c.Floor},
		},
		Driver: Driver{
			MaxLevels:  multilevel.DefaultMaxLevels,
			IncludeOCR: true,
		},
		Segment: Segment{Temperature: segment.DefaultTemperature},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes r over Default and validates the result. An empty document
// yields Default.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first invalid setting as ErrInvalid wrapped with the
// field's YAML path.
func (c Config) Validate() error {
	bad := func(field string, v any) error {
		return fmt.Errorf("%w: %s = %v", ErrInvalid, field, v)
	}
	switch {
	case c.Sampler.Iterations < 1:
		return bad("sampler.iterations", c.Sampler.Iterations)
	case !(c.Affinity.Decay > 0) || math.IsInf(c.Affinity.Decay, 0):
		return bad("affinity.decay", c.Affinity.Decay)
	case c.Affinity.ThresholdPerLevel < 0 || math.IsNaN(c.Affinity.ThresholdPerLevel):
		return bad("affinity.threshold_per_level", c.Affinity.ThresholdPerLevel)
	case c.Driver.MaxLevels < 0:
		return bad("driver.max_levels", c.Driver.MaxLevels)
	case !(c.Segment.Temperature > 0) || math.IsInf(c.Segment.Temperature, 0):
		return bad("segment.temperature", c.Segment.Temperature)
	}
	var sum float64
	for _, w := range c.Energy.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return bad("energy.weights", c.Energy.Weights)
		}
		sum += w
	}
	if sum == 0 {
		return bad("energy.weights", c.Energy.Weights)
	}
	if err := c.Energy.Cooling.cooling().Validate(); err != nil {
		return fmt.Errorf("%w: energy.cooling: %w", ErrInvalid, err)
	}

	return nil
}

func (c Cooling) cooling() energy.Cooling {
	return energy.Cooling{Start: c.Start, Period: c.Period, Step: c.Step, Floor: c.Floor}
}

// SamplerOptions converts the sampler section.
func (c Config) SamplerOptions() []swcut.Option {
	return []swcut.Option{
		swcut.WithIterations(c.Sampler.Iterations),
		swcut.WithSeed(c.Sampler.Seed),
		swcut.WithKeepBest(c.Sampler.KeepBest),
	}
}

// DriverOptions converts the affinity, energy and driver sections.
func (c Config) DriverOptions() []multilevel.Option {
	slope := c.Affinity.ThresholdPerLevel
	stop := multilevel.StopWhenCollapsed()
	if c.Driver.MaxLevels > 0 {
		stop = multilevel.AnyOf(stop, multilevel.StopAfterLevels(c.Driver.MaxLevels))
	}

	return []multilevel.Option{
		multilevel.WithStopPolicy(stop),
		multilevel.WithIncludeOCR(c.Driver.IncludeOCR),
		multilevel.WithAffinityOptions(
			affinity.WithDecay(c.Affinity.Decay),
			affinity.WithThreshold(func(level int) float64 { return slope * float64(level) }),
		),
		multilevel.WithEnergyOptions(
			energy.WithWeights(c.Energy.Weights),
			energy.WithCooling(c.Energy.Cooling.cooling()),
		),
	}
}

// SegmentOptions converts the segment section.
func (c Config) SegmentOptions() []segment.Option {
	return []segment.Option{segment.WithTemperature(c.Segment.Temperature)}
}
