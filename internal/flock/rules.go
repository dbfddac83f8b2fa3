package flock

import "boids/internal/core"

// Agent is one boid's position and velocity.
type Agent struct {
	Pos core.Vec3
	Vel core.Vec3
}

// accumulator gathers the three rule contributions for one agent while the
// kernels walk its candidate neighbors. Callers exclude the agent itself.
type accumulator struct {
	rules *Rules
	r2    [3]float32 // squared cohesion, separation, alignment radii

	pos core.Vec3

	center    core.Vec3
	cohesionN int

	separation core.Vec3

	heading    core.Vec3
	alignmentN int
}

func newAccumulator(r *Rules) accumulator {
	return accumulator{
		rules: r,
		r2: [3]float32{
			r.CohesionRadius * r.CohesionRadius,
			r.SeparationRadius * r.SeparationRadius,
			r.AlignmentRadius * r.AlignmentRadius,
		},
	}
}

func (a *accumulator) begin(pos core.Vec3) {
	a.pos = pos
	a.center = core.Vec3{}
	a.cohesionN = 0
	a.separation = core.Vec3{}
	a.heading = core.Vec3{}
	a.alignmentN = 0
}

func (a *accumulator) visit(pos, vel core.Vec3) {
	offset := a.pos.Sub(pos)
	d2 := offset.LenSq()
	if d2 < a.r2[0] {
		a.center = a.center.Add(pos)
		a.cohesionN++
	}
	// Coincident agents have no repulsion direction.
	if d2 < a.r2[1] && d2 > 0 {
		a.separation = a.separation.Add(offset.Scale(1 / d2))
	}
	if d2 < a.r2[2] {
		a.heading = a.heading.Add(vel)
		a.alignmentN++
	}
}

func (a *accumulator) delta() core.Vec3 {
	var dv core.Vec3
	if a.cohesionN > 0 {
		avg := a.center.Scale(1 / float32(a.cohesionN))
		dv = dv.Add(avg.Sub(a.pos).Scale(a.rules.CohesionScale))
	}
	dv = dv.Add(a.separation.Scale(a.rules.SeparationScale))
	if a.alignmentN > 0 {
		avg := a.heading.Scale(1 / float32(a.alignmentN))
		dv = dv.Add(avg.Scale(a.rules.AlignmentScale))
	}
	return dv
}

// VelocityDelta evaluates the cohesion, separation and alignment rules for an
// agent at pos against neighbors, which must not include the agent itself.
// The result is unclamped.
func (r Rules) VelocityDelta(pos core.Vec3, neighbors []Agent) core.Vec3 {
	acc := newAccumulator(&r)
	acc.begin(pos)
	for _, n := range neighbors {
		acc.visit(n.Pos, n.Vel)
	}
	return acc.delta()
}

// ClampSpeed rescales v to maxSpeed when its length exceeds it.
func ClampSpeed(v core.Vec3, maxSpeed float32) core.Vec3 {
	speed := v.Len()
	if speed > maxSpeed {
		return v.Scale(maxSpeed / speed)
	}
	return v
}
