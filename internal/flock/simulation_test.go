package flock

import (
	"errors"
	"testing"

	"boids/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSim(t *testing.T, cfg Config) *Simulation {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	s.phases.fault = func(err *PhaseError) { t.Fatalf("unexpected fault: %v", err) }
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig(0)
	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	cfg = smallConfig(10)
	cfg.SceneScale = -1
	_, err = New(cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestNewReportsAllocationFailure(t *testing.T) {
	cfg := smallConfig(10)
	cfg.Rules.CohesionRadius, cfg.Rules.SeparationRadius, cfg.Rules.AlignmentRadius = 0.5, 0.5, 0.5
	cfg.SceneScale = 50000 // ~1e15 cells
	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAllocation), "got %v", err)
	assert.Contains(t, err.Error(), "cell start")
}

func TestStrategiesAgree(t *testing.T) {
	cfg := smallConfig(2000)
	results := map[core.Strategy]Snapshot{}
	for _, strategy := range core.Strategies() {
		s := newSim(t, cfg)
		s.Step(cfg.DT, strategy)
		results[strategy] = s.Snapshot()
	}

	want := results[core.StrategyNaive]
	for _, strategy := range []core.Strategy{core.StrategyScattered, core.StrategyCoherent} {
		got := results[strategy]
		for i := range want.Velocities {
			assertVecInDelta(t, want.Velocities[i], got.Velocities[i], 1e-4, "%s velocity of agent %d", strategy, i)
			assertVecInDelta(t, want.Positions[i], got.Positions[i], 1e-4, "%s position of agent %d", strategy, i)
		}
	}
}

func TestStrategiesAgreeAfterSharedHistory(t *testing.T) {
	cfg := smallConfig(1500)
	cfg.SceneScale = 30
	ref := newSim(t, cfg)
	for range 5 {
		ref.StepCoherent(cfg.DT)
	}
	start := ref.Snapshot()

	results := map[core.Strategy]Snapshot{}
	for _, strategy := range core.Strategies() {
		s := newSim(t, cfg)
		copy(s.buf.pos, start.Positions)
		copy(s.buf.vel.Active(), start.Velocities)
		s.Step(cfg.DT, strategy)
		results[strategy] = s.Snapshot()
	}
	want := results[core.StrategyNaive]
	for _, strategy := range []core.Strategy{core.StrategyScattered, core.StrategyCoherent} {
		for i := range want.Velocities {
			assertVecInDelta(t, want.Velocities[i], results[strategy].Velocities[i], 1e-4, "%s agent %d", strategy, i)
		}
	}
}

func TestSingleAgentKeepsVelocity(t *testing.T) {
	for _, strategy := range core.Strategies() {
		t.Run(string(strategy), func(t *testing.T) {
			s := newSim(t, smallConfig(1))
			s.buf.pos[0] = core.Vec3{X: 1, Y: 2, Z: 3}
			s.buf.vel.Active()[0] = core.Vec3{X: 0.3, Y: 0.2, Z: 0.1}

			s.Step(0.5, strategy)

			snap := s.Snapshot()
			assert.Equal(t, core.Vec3{X: 0.3, Y: 0.2, Z: 0.1}, snap.Velocities[0])
			assertVecInDelta(t, core.Vec3{X: 1.15, Y: 2.1, Z: 3.05}, snap.Positions[0], 1e-6)
		})
	}
}

func TestStepClampsSpeed(t *testing.T) {
	for _, strategy := range core.Strategies() {
		t.Run(string(strategy), func(t *testing.T) {
			s := newSim(t, smallConfig(1))
			s.buf.vel.Active()[0] = core.Vec3{X: 3, Y: -4}
			s.Step(0.2, strategy)
			v := s.Snapshot().Velocities[0]
			assertVecInDelta(t, core.Vec3{X: 0.6, Y: -0.8}, v, 1e-6)
		})
	}
}

func TestStepSwapsVelocityRoles(t *testing.T) {
	s := newSim(t, smallConfig(50))
	before := s.buf.vel.active
	staging := &s.buf.vel.Staging()[0]
	s.StepScattered(0.2)
	assert.NotEqual(t, before, s.buf.vel.active)
	assert.Same(t, staging, &s.buf.vel.Active()[0], "written buffer becomes active")
	assert.Equal(t, uint64(1), s.Frame())
	assert.Equal(t, uint64(1), s.Stats().Frame)
	assert.Greater(t, int64(s.Stats().Total), int64(0))
}

func TestCoherentKeepsAgentOrder(t *testing.T) {
	s := newSim(t, smallConfig(800))
	for range 3 {
		s.StepCoherent(0.2)
	}
	occ := s.Occupancy()
	assert.Greater(t, occ.Occupied, 0)

	ref := newSim(t, smallConfig(800))
	for range 3 {
		ref.StepScattered(0.2)
	}
	a, b := s.Snapshot(), ref.Snapshot()
	for i := range a.Positions {
		assertVecInDelta(t, b.Positions[i], a.Positions[i], 1e-3, "agent %d", i)
	}
}

func TestResetIsDeterministic(t *testing.T) {
	s := newSim(t, smallConfig(100))
	first := s.Snapshot()
	s.StepNaive(0.2)
	s.Reset(0)
	assert.Equal(t, first, s.Snapshot())
	assert.Zero(t, s.Frame())

	s.Reset(99)
	assert.NotEqual(t, first.Positions, s.Snapshot().Positions)

	for _, p := range first.Positions {
		for axis := 0; axis < 3; axis++ {
			assert.LessOrEqual(t, p.Axis(axis), float32(50))
			assert.GreaterOrEqual(t, p.Axis(axis), float32(-50))
		}
	}
}

func TestCloseReleasesOnce(t *testing.T) {
	s, err := New(smallConfig(10))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.True(t, errors.Is(s.Close(), ErrClosed))

	pos := make([]core.Vec3, 10)
	s.CopyState(pos, nil)
	assert.Equal(t, make([]core.Vec3, 10), pos)

	var got *PhaseError
	s.phases.fault = func(err *PhaseError) { got = err }
	assert.Panics(t, func() { s.StepNaive(0.2) })
	require.NotNil(t, got)
	assert.Equal(t, PhaseDispatch, got.Phase)
	assert.True(t, errors.Is(got, ErrClosed))
}

func TestStepUnknownStrategyFaults(t *testing.T) {
	s := newSim(t, smallConfig(10))
	var got *PhaseError
	s.phases.fault = func(err *PhaseError) { got = err }
	assert.Panics(t, func() { s.Step(0.2, core.Strategy("octree")) })
	require.NotNil(t, got)
	assert.True(t, errors.Is(got, core.ErrUnknownStrategy))
}

func TestParameters(t *testing.T) {
	s := newSim(t, smallConfig(10))
	params := s.Parameters()
	side, ok := params.Lookup("grid_side")
	require.True(t, ok)
	assert.Equal(t, "12", side.Value)
	cohesion, ok := params.Lookup("cohesion_scale")
	require.True(t, ok)
	assert.Equal(t, "0.01", cohesion.Value)
}
