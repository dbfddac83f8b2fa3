package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"time"

	"boids/internal/app"
	"boids/internal/core"
	"boids/internal/flock"
	"boids/internal/render"

	"github.com/gdamore/tcell/v2"
)

type viewer struct {
	screen   tcell.Screen
	sim      *flock.Simulation
	clock    *core.FrameClock
	proj     render.Projection
	counts   *core.CountGrid
	pos, vel []core.Vec3

	dt       float32
	strategy core.Strategy
	seed     int64
	paused   bool
}

func newViewer(sim *flock.Simulation, strategy core.Strategy, tps int) (*viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	cfg := sim.Config()
	v := &viewer{
		screen:   screen,
		sim:      sim,
		clock:    core.NewFrameClock(tps),
		pos:      make([]core.Vec3, sim.Count()),
		vel:      make([]core.Vec3, sim.Count()),
		dt:       cfg.DT,
		strategy: strategy,
		seed:     cfg.Seed,
	}
	v.resize()
	return v, nil
}

func (v *viewer) resize() {
	w, h := v.screen.Size()
	h = max(h-1, 1)
	v.proj = render.Projection{SceneScale: v.sim.Config().SceneScale, W: w, H: h}
	v.counts = core.NewCountGrid(w, h)
}

// handle applies one terminal event and reports whether the viewer keeps running.
func (v *viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyTab:
			v.strategy = v.strategy.Next()
		case tcell.KeyRune:
			switch r := ev.Rune(); r {
			case 'q':
				return false
			case ' ':
				v.paused = !v.paused
			case 'n':
				v.sim.Step(v.dt, v.strategy)
			case 'r':
				v.sim.Reset(v.seed)
			case 's':
				v.seed = time.Now().UnixNano()
				v.sim.Reset(v.seed)
			case '1', '2', '3':
				v.strategy = core.Strategies()[r-'1']
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
		v.resize()
	}
	return true
}

func (v *viewer) draw() {
	v.sim.CopyState(v.pos, v.vel)
	v.proj.Bin(v.counts, v.pos)
	peak := v.counts.Max()

	v.screen.Clear()
	for y := 0; y < v.counts.H; y++ {
		for x := 0; x < v.counts.W; x++ {
			c := v.counts.At(x, y)
			if c == 0 {
				continue
			}
			shade := int32(120 + 135*c/max(peak, 1))
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(shade/2, shade, 255))
			v.screen.SetContent(x, y, render.Glyph(c, peak), nil, style)
		}
	}

	stats := v.sim.Stats()
	status := fmt.Sprintf(" %s | frame %d | step %.2fms | %.0f fps | tab/1-3 strategy  space pause  r reset  q quit",
		v.strategy, stats.Frame, float64(stats.Total)/float64(time.Millisecond), v.clock.FPS())
	if v.paused {
		status += " | paused"
	}
	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorTeal)
	w, _ := v.screen.Size()
	for x, r := range []rune(status) {
		if x >= w {
			break
		}
		v.screen.SetContent(x, v.counts.H, r, nil, statusStyle)
	}
	v.screen.Show()
}

func (v *viewer) run() {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(v.clock.Step())
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !v.handle(ev) {
				return
			}
		case now := <-ticker.C:
			ticks := v.clock.Advance(now)
			if !v.paused {
				for range ticks {
					v.sim.Step(v.dt, v.strategy)
				}
			}
			v.draw()
			v.clock.Frame(now)
		}
	}
}

func main() {
	cfg := app.NewConfig()
	cfg.TPS = 30
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	flockCfg, strategy, err := cfg.Flock()
	if err != nil {
		log.Fatal(err)
	}
	sim, err := flock.New(flockCfg)
	if err != nil {
		log.Fatalf("boids-tui: %v", err)
	}
	defer sim.Close()

	v, err := newViewer(sim, strategy, cfg.TPS)
	if err != nil {
		log.Fatalf("boids-tui: %v", err)
	}
	v.run()
	v.screen.Fini()

	stats := sim.Stats()
	slog.Info("flock stopped", "frames", stats.Frame, "strategy", v.strategy, "last_step", stats.Total)
}
