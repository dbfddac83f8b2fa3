package app

import (
	"flag"
	"fmt"
	"strings"

	"boids/internal/core"
	"boids/internal/flock"
)

// KVList collects repeatable key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

// Set appends one key=value pair.
func (l *KVList) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("override %q is not key=value", value)
	}
	*l = append(*l, value)
	return nil
}

// Map converts the list into the map form flock.Config.WithOverrides takes.
// Later pairs win.
func (l KVList) Map() map[string]string {
	m := make(map[string]string, len(l))
	for _, kv := range l {
		k, v, _ := strings.Cut(kv, "=")
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return m
}

// Config represents the command-line parameters shared by the viewers.
type Config struct {
	File     string
	Strategy string
	Count    int
	Seed     int64
	Scale    int
	TPS      int
	Set      KVList
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Strategy: string(core.StrategyCoherent), Scale: 2, TPS: 60}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.File, "config", c.File, "flock config file (gcfg format)")
	fs.StringVar(&c.Strategy, "strategy", c.Strategy, "neighbor search: naive, scattered or coherent")
	fs.IntVar(&c.Count, "n", c.Count, "number of agents (overrides config)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the initial flock (overrides config)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.Var(&c.Set, "set", "flock parameter override in key=value form (repeatable)")
}

// Flock resolves the flock configuration and strategy: defaults, then the
// config file, then -set overrides, then -n and -seed.
func (c *Config) Flock() (flock.Config, core.Strategy, error) {
	strategy, err := core.ParseStrategy(c.Strategy)
	if err != nil {
		return flock.Config{}, "", err
	}
	cfg := flock.DefaultConfig()
	if c.File != "" {
		if cfg, err = flock.ReadConfigFile(c.File); err != nil {
			return flock.Config{}, "", err
		}
	}
	cfg = cfg.WithOverrides(c.Set.Map())
	if c.Count > 0 {
		cfg.Count = c.Count
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return flock.Config{}, "", err
	}
	return cfg, strategy, nil
}
