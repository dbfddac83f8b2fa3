package flock

import (
	"testing"

	"boids/internal/core"
)

// testPhases runs phases on a small-grained pool so tests with a few hundred
// agents still split work across goroutines.
func testPhases(t *testing.T, workers int) *phases {
	t.Helper()
	return &phases{
		pool:  &pool{workers: workers, grain: 16},
		stats: &Stats{},
		fault: func(err *PhaseError) { t.Fatalf("unexpected fault: %v", err) },
	}
}

func randomPositions(n int, scale float32, seed int64) []core.Vec3 {
	pos := make([]core.Vec3, n)
	core.NewRNG(seed).FillCube(pos, scale)
	return pos
}

func smallConfig(n int) Config {
	cfg := DefaultConfig()
	cfg.Count = n
	cfg.SceneScale = 50
	cfg.Workers = 4
	return cfg
}
