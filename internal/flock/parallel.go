package flock

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

// Phase names one barrier-separated stage of a simulation step.
type Phase int

const (
	PhaseLabel Phase = iota
	PhaseSort
	PhaseResetRanges
	PhaseRanges
	PhaseScatter
	PhaseSearch
	PhaseIntegrate
	PhaseGather
	PhaseDispatch

	phaseCount
)

var phaseNames = [phaseCount]string{
	PhaseLabel:       "label",
	PhaseSort:        "sort",
	PhaseResetRanges: "reset-ranges",
	PhaseRanges:      "ranges",
	PhaseScatter:     "scatter",
	PhaseSearch:      "search",
	PhaseIntegrate:   "integrate",
	PhaseGather:      "gather",
	PhaseDispatch:    "dispatch",
}

func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// PhaseError reports a fault raised while a phase was running.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string { return fmt.Sprintf("%s phase: %v", e.Phase, e.Err) }

func (e *PhaseError) Unwrap() error { return e.Err }

// minGrain keeps per-goroutine chunks large enough to amortize scheduling.
const minGrain = 512

// pool splits index ranges across a bounded number of goroutines.
type pool struct {
	workers int
	grain   int
}

func newPool(workers int) *pool {
	if workers <= 0 {
		workers = 1
	}
	return &pool{workers: workers, grain: minGrain}
}

// split divides [0, n) into at most p.workers contiguous chunks.
func (p *pool) split(n int) []span {
	if n <= 0 {
		return nil
	}
	grain := max(p.grain, 1)
	chunks := min(p.workers, (n+grain-1)/grain)
	chunks = max(chunks, 1)
	size := (n + chunks - 1) / chunks
	out := make([]span, 0, chunks)
	for lo := 0; lo < n; lo += size {
		out = append(out, span{lo: lo, hi: min(lo+size, n)})
	}
	return out
}

// guard runs fn and converts a panic into an error.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return nil
}

// run executes body over every chunk of [0, n) and waits for all of them.
// Chunks are half-open ranges [lo, hi) written by exactly one goroutine.
func (p *pool) run(n int, body func(lo, hi int)) error {
	chunks := p.split(n)
	if len(chunks) == 1 {
		return guard(func() { body(chunks[0].lo, chunks[0].hi) })
	}
	var g errgroup.Group
	g.SetLimit(p.workers)
	for _, c := range chunks {
		g.Go(func() error {
			if err := guard(func() { body(c.lo, c.hi) }); err != nil {
				return fmt.Errorf("chunk [%d,%d): %w", c.lo, c.hi, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// phases runs named stages on a pool, times them and escalates faults.
type phases struct {
	pool  *pool
	stats *Stats
	fault func(*PhaseError)
}

// parallel runs one data-parallel phase. A fault is handed to the fault
// handler and never returns to the caller.
func (ph *phases) parallel(phase Phase, n int, body func(lo, hi int)) {
	ph.timed(phase, func() error { return ph.pool.run(n, body) })
}

func (ph *phases) timed(phase Phase, fn func() error) {
	start := time.Now()
	err := fn()
	if ph.stats != nil {
		ph.stats.add(phase, time.Since(start))
	}
	if err != nil {
		ph.fail(&PhaseError{Phase: phase, Err: err})
	}
}

func (ph *phases) fail(err *PhaseError) {
	if ph.fault != nil {
		ph.fault(err)
	}
	// Buffers may be half written; nothing after this point is safe to run.
	panic(err)
}

// exitOnFault logs the failing phase and terminates the process.
func exitOnFault(err *PhaseError) {
	slog.Error("step phase failed", "phase", err.Phase.String(), "err", err.Err)
	os.Exit(1)
}

// Stats records how long each phase of the most recent step took.
type Stats struct {
	Phases [phaseCount]time.Duration
	Total  time.Duration
	Frame  uint64
}

func (s *Stats) add(p Phase, d time.Duration) {
	s.Phases[p] += d
}

// Duration returns the time spent in phase p during the last step.
func (s Stats) Duration(p Phase) time.Duration {
	if p < 0 || p >= phaseCount {
		return 0
	}
	return s.Phases[p]
}

// Reindex returns the combined time of the label, sort and range phases.
func (s Stats) Reindex() time.Duration {
	return s.Phases[PhaseLabel] + s.Phases[PhaseSort] + s.Phases[PhaseResetRanges] + s.Phases[PhaseRanges]
}
