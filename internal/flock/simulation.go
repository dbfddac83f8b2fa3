// Package flock simulates boids in a toroidal 3D scene. Each step computes
// new velocities from cohesion, separation and alignment with one of three
// neighbor-search strategies, then integrates positions.
package flock

import (
	"errors"
	"fmt"
	"time"

	"boids/internal/core"
)

// ErrClosed is returned by Close on a simulation that was already closed.
var ErrClosed = errors.New("simulation closed")

// Simulation owns the agent buffers and runs steps over them.
type Simulation struct {
	cfg  Config
	grid Grid

	buf    *buffers
	kern   kernel
	phases phases
	stats  Stats
	frame  uint64

	started time.Time
}

// New validates cfg, allocates every buffer and seeds the initial flock.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := NewGrid(cfg.Rules, cfg.SceneScale)
	if err != nil {
		return nil, err
	}
	buf, err := acquireBuffers(cfg.Count, grid)
	if err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}
	s := &Simulation{
		cfg:  cfg,
		grid: grid,
		buf:  buf,
		kern: kernel{
			rules:    cfg.Rules,
			maxSpeed: cfg.MaxSpeed,
			grid:     grid,
			index:    buf.index,
		},
	}
	s.phases = phases{pool: newPool(cfg.Workers), stats: &s.stats, fault: exitOnFault}
	s.Reset(cfg.Seed)
	return s, nil
}

// Name returns the simulation identifier.
func (s *Simulation) Name() string { return "boids" }

// Count returns the number of agents.
func (s *Simulation) Count() int { return s.cfg.Count }

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() Config { return s.cfg }

// Grid returns the uniform grid parameters.
func (s *Simulation) Grid() Grid { return s.grid }

// Reset reseeds positions and velocities. A zero seed uses the config seed.
func (s *Simulation) Reset(seed int64) {
	if s.buf == nil {
		return
	}
	if seed == 0 {
		seed = s.cfg.Seed
	}
	rng := core.NewRNG(seed)
	rng.FillCube(s.buf.pos, s.cfg.SceneScale)
	rng.FillCube(s.buf.vel.Active(), s.cfg.MaxSpeed)
	clear(s.buf.vel.Staging())
	s.frame = 0
}

// Step advances the flock by dt using the named strategy.
func (s *Simulation) Step(dt float32, strategy core.Strategy) {
	switch strategy {
	case core.StrategyNaive:
		s.StepNaive(dt)
	case core.StrategyScattered:
		s.StepScattered(dt)
	case core.StrategyCoherent:
		s.StepCoherent(dt)
	default:
		s.phases.fail(&PhaseError{Phase: PhaseDispatch, Err: fmt.Errorf("%w %q", core.ErrUnknownStrategy, strategy)})
	}
}

// StepNaive runs one step with all-pairs neighbor search.
func (s *Simulation) StepNaive(dt float32) {
	b := s.begin()
	n := len(b.pos)
	vel, next := b.vel.Active(), b.vel.Staging()
	s.phases.parallel(PhaseSearch, n, func(lo, hi int) { s.kern.naive(b.pos, vel, next, lo, hi) })
	s.phases.parallel(PhaseIntegrate, n, func(lo, hi int) { integrate(b.pos, next, dt, s.cfg.SceneScale, lo, hi) })
	s.end()
}

// StepScattered runs one step with grid search through the sorted index.
func (s *Simulation) StepScattered(dt float32) {
	b := s.begin()
	n := len(b.pos)
	b.index.Reindex(&s.phases, b.pos)
	vel, next := b.vel.Active(), b.vel.Staging()
	s.phases.parallel(PhaseSearch, n, func(lo, hi int) { s.kern.scattered(b.pos, vel, next, lo, hi) })
	s.phases.parallel(PhaseIntegrate, n, func(lo, hi int) { integrate(b.pos, next, dt, s.cfg.SceneScale, lo, hi) })
	s.end()
}

// StepCoherent runs one step with grid search over cell-ordered copies of
// the agent data, then writes results back to agent order.
func (s *Simulation) StepCoherent(dt float32) {
	b := s.begin()
	n := len(b.pos)
	idx := b.index
	idx.Reindex(&s.phases, b.pos)
	vel, next := b.vel.Active(), b.vel.Staging()
	cPos, cVel, cNext := b.coherentPos, b.coherentVel, b.coherentVelNext
	s.phases.parallel(PhaseScatter, n, func(lo, hi int) { idx.scatter(cPos, cVel, b.pos, vel, lo, hi) })
	s.phases.parallel(PhaseSearch, n, func(lo, hi int) { s.kern.coherent(cPos, cVel, cNext, lo, hi) })
	s.phases.parallel(PhaseIntegrate, n, func(lo, hi int) { integrate(cPos, cNext, dt, s.cfg.SceneScale, lo, hi) })
	s.phases.parallel(PhaseGather, n, func(lo, hi int) { idx.gather(b.pos, next, cPos, cNext, lo, hi) })
	s.end()
}

func (s *Simulation) begin() *buffers {
	if s.buf == nil {
		s.phases.fail(&PhaseError{Phase: PhaseDispatch, Err: ErrClosed})
	}
	s.stats = Stats{}
	s.started = time.Now()
	return s.buf
}

func (s *Simulation) end() {
	s.buf.vel.swap()
	s.frame++
	s.stats.Total = time.Since(s.started)
	s.stats.Frame = s.frame
}

// Frame returns the number of steps taken since the last Reset.
func (s *Simulation) Frame() uint64 { return s.frame }

// Stats returns the phase timings of the most recent step.
func (s *Simulation) Stats() Stats { return s.stats }

// Occupancy reports grid occupancy as of the last grid-based step.
func (s *Simulation) Occupancy() Occupancy {
	if s.buf == nil {
		return Occupancy{}
	}
	return s.buf.index.Occupancy()
}

// Snapshot is a copy of the flock state in agent order.
type Snapshot struct {
	Positions  []core.Vec3
	Velocities []core.Vec3
}

// Snapshot copies the current positions and velocities.
func (s *Simulation) Snapshot() Snapshot {
	n := s.Count()
	snap := Snapshot{Positions: make([]core.Vec3, n), Velocities: make([]core.Vec3, n)}
	s.CopyState(snap.Positions, snap.Velocities)
	return snap
}

// CopyState copies the current positions and velocities, in agent order, into
// pos and vel. Either may be nil; both are truncated to the agent count.
func (s *Simulation) CopyState(pos, vel []core.Vec3) {
	if s.buf == nil {
		return
	}
	copy(pos, s.buf.pos)
	copy(vel, s.buf.vel.Active())
}

// Close releases every buffer. Closing twice returns ErrClosed.
func (s *Simulation) Close() error {
	if s.buf == nil {
		return ErrClosed
	}
	s.buf.release()
	s.buf = nil
	s.kern.index = nil
	return nil
}
