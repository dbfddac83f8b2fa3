package core

import "time"

// FrameClock paces simulation ticks at a steady rate and counts the frames
// actually rendered per second.
type FrameClock struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time

	frames     int
	fpsWindow  time.Time
	fps        float64
	maxCatchUp int
}

// NewFrameClock constructs a FrameClock targeting the given ticks per second.
func NewFrameClock(tps int) *FrameClock {
	fc := &FrameClock{maxCatchUp: 4}
	fc.SetTPS(tps)
	fc.accumulator = fc.step
	return fc
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FrameClock) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Step returns the configured tick length.
func (f *FrameClock) Step() time.Duration { return f.step }

// Advance consumes elapsed wall time and reports how many ticks are due.
// The count is capped so a stalled frame does not trigger a burst of steps.
func (f *FrameClock) Advance(now time.Time) int {
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now

	ticks := 0
	for f.accumulator >= f.step && ticks < f.maxCatchUp {
		f.accumulator -= f.step
		ticks++
	}
	if ticks == f.maxCatchUp {
		f.accumulator = 0
	}
	return ticks
}

// Frame records a presented frame and refreshes the FPS estimate once per second.
func (f *FrameClock) Frame(now time.Time) {
	if f.fpsWindow.IsZero() {
		f.fpsWindow = now
	}
	f.frames++
	if elapsed := now.Sub(f.fpsWindow); elapsed >= time.Second {
		f.fps = float64(f.frames) / elapsed.Seconds()
		f.frames = 0
		f.fpsWindow = now
	}
}

// FPS returns the most recent frames-per-second estimate.
func (f *FrameClock) FPS() float64 { return f.fps }
