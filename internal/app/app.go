//go:build ebiten

package app

import (
	"image/color"
	"time"

	"boids/internal/core"
	"boids/internal/render"
	"boids/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Options configures the viewer around a simulation.
type Options struct {
	Strategy   core.Strategy
	DT         float32
	SceneScale float32
	View       int // raster size in pixels before scaling
	Scale      int
	Seed       int64
	HUDWidth   int
}

// Game adapts a flock simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.FlockPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	clock   *core.FrameClock

	pos, vel []core.Vec3

	onColor  color.Color
	offColor color.Color

	opts     Options
	strategy core.Strategy
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, opts Options) *Game {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.View <= 0 {
		opts.View = 400
	}
	n := sim.Count()
	return &Game{
		sim:      sim,
		painter:  render.NewFlockPainter(opts.View, opts.View, opts.SceneScale),
		hud:      ui.NewHUD(sim, opts.HUDWidth),
		overlay:  ui.NewOverlay(sim, opts.View, opts.Scale),
		clock:    core.NewFrameClock(60),
		pos:      make([]core.Vec3, n),
		vel:      make([]core.Vec3, n),
		onColor:  color.RGBA{R: 120, G: 220, B: 255, A: 255},
		offColor: color.Black,
		opts:     opts,
		strategy: opts.Strategy,
		seed:     opts.Seed,
	}
}

// Reset reinitializes the flock with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.strategy = g.strategy.Next()
	}
	for i, key := range []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3} {
		if inpututil.IsKeyJustPressed(key) {
			g.strategy = core.Strategies()[i]
		}
	}

	g.overlay.Update()

	if !g.paused || g.tickOnce {
		g.sim.Step(g.opts.DT, g.strategy)
		g.tickOnce = false
	}
	g.hud.Update(g.strategy, g.clock.FPS(), g.paused)
	return nil
}

// Draw renders the current flock state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.sim.CopyState(g.pos, g.vel)
	g.painter.Blit(screen, g.pos, g.onColor, g.offColor, g.opts.Scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.opts.View*g.opts.Scale, g.opts.View*g.opts.Scale)
	g.clock.Frame(time.Now())
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	side := g.opts.View * g.opts.Scale
	return side + g.opts.HUDWidth, side
}
