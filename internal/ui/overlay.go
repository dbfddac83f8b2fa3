//go:build ebiten

package ui

import (
	"image/color"

	"boids/internal/core"
	"boids/internal/flock"
	"boids/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type gridProvider interface {
	Grid() flock.Grid
	Config() flock.Config
}

// Overlay draws the uniform grid's cell boundaries over the flock view.
type Overlay struct {
	sim      core.Sim
	view     int
	scale    int
	showGrid bool
	pixel    *ebiten.Image
	lineCol  color.Color
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, view, scale int) *Overlay {
	o := &Overlay{sim: sim, view: view, scale: scale, lineCol: color.RGBA{R: 60, G: 60, B: 90, A: 255}}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the grid with G.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		o.showGrid = !o.showGrid
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.showGrid {
		return
	}
	provider, ok := o.sim.(gridProvider)
	if !ok {
		return
	}
	grid := provider.Grid()
	proj := render.Projection{SceneScale: provider.Config().SceneScale, W: o.view, H: o.view}
	size := float64(o.view * o.scale)
	for k := 0; k <= grid.Side; k++ {
		w := grid.Min.X + float32(k)*grid.CellWidth
		if x, _, ok := proj.Project(core.Vec3{X: w}); ok {
			o.line(screen, float64(x*o.scale), 0, 1, size)
		}
		if _, y, ok := proj.Project(core.Vec3{Y: w}); ok {
			o.line(screen, 0, float64(y*o.scale), size, 1)
		}
	}
}

func (o *Overlay) line(screen *ebiten.Image, x, y, w, h float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(o.lineCol)
	screen.DrawImage(o.pixel, op)
}
