//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"boids/internal/core"
	"boids/internal/flock"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

type statsProvider interface {
	Stats() flock.Stats
	Occupancy() flock.Occupancy
}

const lineHeight = 15

// HUD renders a status and parameter panel to the right of the flock view.
type HUD struct {
	sim   core.Sim
	width int
	panel *ebiten.Image

	lines []string
	title string
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{sim: sim, width: width, title: strings.ToUpper(sim.Name())}
}

// Update rebuilds the panel text from the simulation's current state.
func (h *HUD) Update(strategy core.Strategy, fps float64, paused bool) {
	if h == nil || h.width <= 0 {
		return
	}
	lines := h.lines[:0]
	state := "running"
	if paused {
		state = "paused"
	}
	lines = append(lines,
		h.title,
		fmt.Sprintf("strategy  %s", strategy),
		fmt.Sprintf("fps       %.1f (%s)", fps, state),
	)
	if sp, ok := h.sim.(statsProvider); ok {
		stats := sp.Stats()
		lines = append(lines,
			fmt.Sprintf("frame     %d", stats.Frame),
			fmt.Sprintf("step      %s", ms(stats.Total)),
		)
		if strategy.UsesGrid() {
			lines = append(lines, fmt.Sprintf("  reindex %s", ms(stats.Reindex())))
		}
		for _, p := range []flock.Phase{flock.PhaseScatter, flock.PhaseSearch, flock.PhaseIntegrate, flock.PhaseGather} {
			if d := stats.Duration(p); d > 0 {
				lines = append(lines, fmt.Sprintf("  %-7s %s", p, ms(d)))
			}
		}
		if strategy.UsesGrid() {
			occ := sp.Occupancy()
			lines = append(lines,
				fmt.Sprintf("cells     %d/%d", occ.Occupied, occ.Cells),
				fmt.Sprintf("per cell  max %d, mean %.1f", occ.MaxPerCell, occ.MeanPerCell),
			)
		}
	}
	if pp, ok := h.sim.(parameterProvider); ok {
		for _, group := range pp.Parameters().Groups {
			lines = append(lines, "", group.Name)
			for _, p := range group.Params {
				lines = append(lines, fmt.Sprintf("  %-18s %s", p.Label, p.Value))
			}
		}
	}
	lines = append(lines, "", "tab/1-3 strategy  space pause", "n step  r reset  s reseed  g grid")
	h.lines = lines
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}

// Draw paints the HUD panel anchored at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	for i, line := range h.lines {
		y := lineHeight * (i + 1)
		if y > height {
			break
		}
		text.Draw(h.panel, line, basicfont.Face7x13, 8, y, color.White)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}
