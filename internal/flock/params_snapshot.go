package flock

import (
	"strconv"

	"boids/internal/core"
)

// Parameters describes the active configuration and derived grid.
func (s *Simulation) Parameters() core.ParameterSnapshot {
	cfg := s.cfg
	rules := cfg.Rules
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Flock",
			Params: []core.Parameter{
				core.IntParam("n", "Agents", int64(cfg.Count)),
				core.IntParam("seed", "Seed", cfg.Seed),
				core.IntParam("workers", "Workers", int64(cfg.Workers)),
			},
		},
		{
			Name: "Rules",
			Params: []core.Parameter{
				floatParam("cohesion_radius", "Cohesion radius", rules.CohesionRadius),
				floatParam("separation_radius", "Separation radius", rules.SeparationRadius),
				floatParam("alignment_radius", "Alignment radius", rules.AlignmentRadius),
				floatParam("cohesion_scale", "Cohesion scale", rules.CohesionScale),
				floatParam("separation_scale", "Separation scale", rules.SeparationScale),
				floatParam("alignment_scale", "Alignment scale", rules.AlignmentScale),
			},
		},
		{
			Name: "Scene",
			Params: []core.Parameter{
				floatParam("scene_scale", "Scene half-extent", cfg.SceneScale),
				floatParam("max_speed", "Max speed", cfg.MaxSpeed),
				floatParam("dt", "Time step", cfg.DT),
			},
		},
		{
			Name: "Grid",
			Params: []core.Parameter{
				floatParam("cell_width", "Cell width", s.grid.CellWidth),
				core.IntParam("grid_side", "Cells per axis", int64(s.grid.Side)),
				core.IntParam("grid_cells", "Cells", int64(s.grid.CellCount)),
			},
		},
	}}
}

func floatParam(key, label string, value float32) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(float64(value), 'f', -1, 32),
	}
}
