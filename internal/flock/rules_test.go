package flock

import (
	"testing"

	"boids/internal/core"

	"github.com/stretchr/testify/assert"
)

func assertVecInDelta(t *testing.T, want, got core.Vec3, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, delta, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, delta, msgAndArgs...)
}

func TestVelocityDeltaIsolated(t *testing.T) {
	rules := DefaultConfig().Rules
	assert.Equal(t, core.Vec3{}, rules.VelocityDelta(core.Vec3{X: 1}, nil))

	far := []Agent{
		{Pos: core.Vec3{X: 50}, Vel: core.Vec3{Y: 1}},
		{Pos: core.Vec3{X: 1, Y: 6}, Vel: core.Vec3{Z: 1}},
	}
	assert.Equal(t, core.Vec3{}, rules.VelocityDelta(core.Vec3{X: 1}, far))
}

func TestVelocityDeltaSingleNeighbor(t *testing.T) {
	rules := DefaultConfig().Rules
	got := rules.VelocityDelta(core.Vec3{}, []Agent{{Pos: core.Vec3{X: 1}, Vel: core.Vec3{Y: 1}}})
	// cohesion (1,0,0)*0.01, separation (-1,0,0)/1*0.1, alignment (0,1,0)*0.1
	assertVecInDelta(t, core.Vec3{X: 0.01 - 0.1, Y: 0.1}, got, 1e-6)
}

func TestVelocityDeltaSeparationInverseSquare(t *testing.T) {
	rules := Rules{SeparationRadius: 3, CohesionRadius: 5, AlignmentRadius: 5, SeparationScale: 1}
	near := rules.VelocityDelta(core.Vec3{}, []Agent{{Pos: core.Vec3{X: 0.5}}})
	far := rules.VelocityDelta(core.Vec3{}, []Agent{{Pos: core.Vec3{X: 2}}})
	assertVecInDelta(t, core.Vec3{X: -2}, near, 1e-5)
	assertVecInDelta(t, core.Vec3{X: -0.5}, far, 1e-6)
}

func TestVelocityDeltaRadiiAreStrict(t *testing.T) {
	rules := DefaultConfig().Rules
	// distance 3 is outside separation but inside cohesion and alignment
	atSeparation := rules.VelocityDelta(core.Vec3{}, []Agent{{Pos: core.Vec3{Y: 3}, Vel: core.Vec3{X: 1}}})
	assertVecInDelta(t, core.Vec3{X: 0.1, Y: 0.03}, atSeparation, 1e-6)

	// distance 5 is outside every radius
	atCohesion := rules.VelocityDelta(core.Vec3{}, []Agent{{Pos: core.Vec3{Z: 5}, Vel: core.Vec3{X: 1}}})
	assert.Equal(t, core.Vec3{}, atCohesion)
}

func TestVelocityDeltaAverages(t *testing.T) {
	rules := Rules{CohesionRadius: 5, SeparationRadius: 0.1, AlignmentRadius: 5, CohesionScale: 1, AlignmentScale: 1}
	got := rules.VelocityDelta(core.Vec3{}, []Agent{
		{Pos: core.Vec3{X: 2}, Vel: core.Vec3{X: 1}},
		{Pos: core.Vec3{X: -1, Y: 3}, Vel: core.Vec3{Y: 1}},
	})
	// cohesion (0.5, 1.5, 0), alignment (0.5, 0.5, 0)
	assertVecInDelta(t, core.Vec3{X: 1, Y: 2}, got, 1e-6)
}

func TestClampSpeed(t *testing.T) {
	fast := ClampSpeed(core.Vec3{X: 3, Y: 4}, 1)
	assertVecInDelta(t, core.Vec3{X: 0.6, Y: 0.8}, fast, 1e-6)
	assert.InDelta(t, 1, fast.Len(), 1e-6)

	slow := core.Vec3{X: 0.3, Z: -0.2}
	assert.Equal(t, slow, ClampSpeed(slow, 1))
}
