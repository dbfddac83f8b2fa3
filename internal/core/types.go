package core

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy names one of the neighbor-search pipelines a simulation step can run.
type Strategy string

const (
	// StrategyNaive checks every agent against every other agent.
	StrategyNaive Strategy = "naive"
	// StrategyScattered searches the uniform grid through the sorted index array.
	StrategyScattered Strategy = "scattered"
	// StrategyCoherent searches the uniform grid over agent data reordered by cell.
	StrategyCoherent Strategy = "coherent"
)

// ErrUnknownStrategy is returned when a strategy name cannot be parsed.
var ErrUnknownStrategy = errors.New("unknown strategy")

var strategies = []Strategy{StrategyNaive, StrategyScattered, StrategyCoherent}

// Strategies lists the available strategies in display order.
func Strategies() []Strategy {
	return append([]Strategy(nil), strategies...)
}

// ParseStrategy resolves a strategy name case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	want := Strategy(strings.ToLower(strings.TrimSpace(name)))
	for _, s := range strategies {
		if s == want {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownStrategy, name)
}

// UsesGrid reports whether the strategy needs the per-frame reindex.
func (s Strategy) UsesGrid() bool {
	return s == StrategyScattered || s == StrategyCoherent
}

// Next cycles through the strategies, wrapping after the last one.
func (s Strategy) Next() Strategy {
	for i, candidate := range strategies {
		if candidate == s {
			return strategies[(i+1)%len(strategies)]
		}
	}
	return strategies[0]
}

// Sim is the contract front-ends use to drive a flock.
type Sim interface {
	Name() string
	Count() int
	Reset(seed int64)
	Step(dt float32, strategy Strategy)
	CopyState(pos, vel []Vec3)
}
