package flock

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"gopkg.in/gcfg.v1"
)

// ErrInvalidConfig marks configuration faults detected before allocation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Rules holds the interaction radius and weight of each flocking rule.
type Rules struct {
	CohesionRadius   float32
	SeparationRadius float32
	AlignmentRadius  float32

	CohesionScale   float32
	SeparationScale float32
	AlignmentScale  float32
}

// MaxRadius returns the largest of the three interaction radii.
func (r Rules) MaxRadius() float32 {
	return max(r.CohesionRadius, r.SeparationRadius, r.AlignmentRadius)
}

// Config controls the flock size, rules and scene extent.
type Config struct {
	Count int
	Seed  int64

	Rules Rules

	MaxSpeed   float32
	SceneScale float32 // half-extent of the toroidal scene cube
	DT         float32

	// Workers bounds the goroutines used by each parallel phase.
	Workers int
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		Count: 5000,
		Seed:  1337,
		Rules: Rules{
			CohesionRadius:   5,
			SeparationRadius: 3,
			AlignmentRadius:  5,
			CohesionScale:    0.01,
			SeparationScale:  0.1,
			AlignmentScale:   0.1,
		},
		MaxSpeed:   1,
		SceneScale: 100,
		DT:         0.2,
		Workers:    runtime.GOMAXPROCS(0),
	}
}

// Validate rejects counts, radii and extents that cannot describe a flock.
func (c Config) Validate() error {
	switch {
	case c.Count <= 0:
		return fmt.Errorf("%w: agent count must be positive, got %d", ErrInvalidConfig, c.Count)
	case !(c.Rules.CohesionRadius > 0):
		return fmt.Errorf("%w: cohesion radius must be positive, got %g", ErrInvalidConfig, c.Rules.CohesionRadius)
	case !(c.Rules.SeparationRadius > 0):
		return fmt.Errorf("%w: separation radius must be positive, got %g", ErrInvalidConfig, c.Rules.SeparationRadius)
	case !(c.Rules.AlignmentRadius > 0):
		return fmt.Errorf("%w: alignment radius must be positive, got %g", ErrInvalidConfig, c.Rules.AlignmentRadius)
	case !(c.SceneScale > 0):
		return fmt.Errorf("%w: scene scale must be positive, got %g", ErrInvalidConfig, c.SceneScale)
	case !(c.MaxSpeed > 0):
		return fmt.Errorf("%w: max speed must be positive, got %g", ErrInvalidConfig, c.MaxSpeed)
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	return DefaultConfig().WithOverrides(cfg)
}

// WithOverrides returns c with the recognized keys of cfg applied. Values that
// do not parse or are out of range are ignored.
func (c Config) WithOverrides(cfg map[string]string) Config {
	if cfg == nil {
		return c
	}
	if v, ok := cfg["n"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Count = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	setPositive := func(key string, dst *float32) {
		v, ok := cfg[key]
		if !ok {
			return
		}
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed > 0 {
			*dst = float32(parsed)
		}
	}
	setNonNegative := func(key string, dst *float32) {
		v, ok := cfg[key]
		if !ok {
			return
		}
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed >= 0 {
			*dst = float32(parsed)
		}
	}
	setPositive("cohesion_radius", &c.Rules.CohesionRadius)
	setPositive("separation_radius", &c.Rules.SeparationRadius)
	setPositive("alignment_radius", &c.Rules.AlignmentRadius)
	setNonNegative("cohesion_scale", &c.Rules.CohesionScale)
	setNonNegative("separation_scale", &c.Rules.SeparationScale)
	setNonNegative("alignment_scale", &c.Rules.AlignmentScale)
	setPositive("max_speed", &c.MaxSpeed)
	setPositive("scene_scale", &c.SceneScale)
	setPositive("dt", &c.DT)
	return c
}

// fileConfig mirrors the sections of a flock config file.
type fileConfig struct {
	Simulation struct {
		Count      int
		Seed       int64
		Workers    int
		MaxSpeed   float64 `gcfg:"max-speed"`
		SceneScale float64 `gcfg:"scene-scale"`
		Dt         float64
	}
	Rules struct {
		CohesionRadius   float64 `gcfg:"cohesion-radius"`
		SeparationRadius float64 `gcfg:"separation-radius"`
		AlignmentRadius  float64 `gcfg:"alignment-radius"`
		CohesionScale    float64 `gcfg:"cohesion-scale"`
		SeparationScale  float64 `gcfg:"separation-scale"`
		AlignmentScale   float64 `gcfg:"alignment-scale"`
	}
}

func newFileConfig(c Config) *fileConfig {
	fc := &fileConfig{}
	fc.Simulation.Count = c.Count
	fc.Simulation.Seed = c.Seed
	fc.Simulation.Workers = c.Workers
	fc.Simulation.MaxSpeed = float64(c.MaxSpeed)
	fc.Simulation.SceneScale = float64(c.SceneScale)
	fc.Simulation.Dt = float64(c.DT)
	fc.Rules.CohesionRadius = float64(c.Rules.CohesionRadius)
	fc.Rules.SeparationRadius = float64(c.Rules.SeparationRadius)
	fc.Rules.AlignmentRadius = float64(c.Rules.AlignmentRadius)
	fc.Rules.CohesionScale = float64(c.Rules.CohesionScale)
	fc.Rules.SeparationScale = float64(c.Rules.SeparationScale)
	fc.Rules.AlignmentScale = float64(c.Rules.AlignmentScale)
	return fc
}

func (fc *fileConfig) config() Config {
	return Config{
		Count:   fc.Simulation.Count,
		Seed:    fc.Simulation.Seed,
		Workers: fc.Simulation.Workers,
		Rules: Rules{
			CohesionRadius:   float32(fc.Rules.CohesionRadius),
			SeparationRadius: float32(fc.Rules.SeparationRadius),
			AlignmentRadius:  float32(fc.Rules.AlignmentRadius),
			CohesionScale:    float32(fc.Rules.CohesionScale),
			SeparationScale:  float32(fc.Rules.SeparationScale),
			AlignmentScale:   float32(fc.Rules.AlignmentScale),
		},
		MaxSpeed:   float32(fc.Simulation.MaxSpeed),
		SceneScale: float32(fc.Simulation.SceneScale),
		DT:         float32(fc.Simulation.Dt),
	}
}

// ReadConfigFile loads a config file on top of DefaultConfig and validates it.
//
//	[simulation]
//	count = 20000
//	scene-scale = 100
//
//	[rules]
//	separation-radius = 3
func ReadConfigFile(fname string) (Config, error) {
	fc := newFileConfig(DefaultConfig())
	if err := gcfg.ReadFileInto(fc, fname); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", fname, err)
	}
	c := fc.config()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", fname, err)
	}
	return c, nil
}

// ReadConfigString is ReadConfigFile for in-memory config text.
func ReadConfigString(text string) (Config, error) {
	fc := newFileConfig(DefaultConfig())
	if err := gcfg.ReadStringInto(fc, text); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	c := fc.config()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
