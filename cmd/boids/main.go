//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"

	"boids/internal/app"
	"boids/internal/flock"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	viewSize = 400
	hudWidth = 260
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	flockCfg, strategy, err := cfg.Flock()
	if err != nil {
		log.Fatal(err)
	}

	sim, err := flock.New(flockCfg)
	if err != nil {
		log.Fatalf("boids: %v", err)
	}
	defer sim.Close()

	grid := sim.Grid()
	slog.Info("flock ready",
		"agents", flockCfg.Count,
		"strategy", strategy,
		"workers", flockCfg.Workers,
		"grid_side", grid.Side,
		"cells", grid.CellCount,
	)

	game := app.New(sim, app.Options{
		Strategy:   strategy,
		DT:         flockCfg.DT,
		SceneScale: flockCfg.SceneScale,
		View:       viewSize,
		Scale:      cfg.Scale,
		Seed:       flockCfg.Seed,
		HUDWidth:   hudWidth,
	})

	ebiten.SetWindowTitle("boids - " + string(strategy))
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(viewSize*cfg.Scale+hudWidth, viewSize*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
