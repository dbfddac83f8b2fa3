package flock

import "boids/internal/core"

// kernel holds what every neighbor search variant needs besides the buffers.
// Each variant writes out[i] for i in [lo, hi) and never reads out.
type kernel struct {
	rules    Rules
	maxSpeed float32
	grid     Grid
	index    *Reindexer
}

// naive tests agent i against every other agent.
func (k *kernel) naive(pos, vel, out []core.Vec3, lo, hi int) {
	acc := newAccumulator(&k.rules)
	for i := lo; i < hi; i++ {
		acc.begin(pos[i])
		for j := range pos {
			if j == i {
				continue
			}
			acc.visit(pos[j], vel[j])
		}
		out[i] = ClampSpeed(vel[i].Add(acc.delta()), k.maxSpeed)
	}
}

// scattered walks the neighborhood cells of agent i and reaches each
// candidate's data through arrayIndex. pos, vel and out are in agent order.
func (k *kernel) scattered(pos, vel, out []core.Vec3, lo, hi int) {
	acc := newAccumulator(&k.rules)
	idx := k.index
	for i := lo; i < hi; i++ {
		acc.begin(pos[i])
		for cell := range k.grid.Neighborhood(k.grid.Coord(pos[i])) {
			start := idx.cellStart[cell]
			if start == emptyCell {
				continue
			}
			for s := start; s < idx.cellEnd[cell]; s++ {
				j := idx.arrayIndex[s]
				if j == i {
					continue
				}
				acc.visit(pos[j], vel[j])
			}
		}
		out[i] = ClampSpeed(vel[i].Add(acc.delta()), k.maxSpeed)
	}
}

// coherent is scattered over data already in sorted order, so cell ranges
// index pos and vel directly. i is a sorted position, not an agent slot.
func (k *kernel) coherent(pos, vel, out []core.Vec3, lo, hi int) {
	acc := newAccumulator(&k.rules)
	idx := k.index
	for i := lo; i < hi; i++ {
		acc.begin(pos[i])
		for cell := range k.grid.Neighborhood(k.grid.Coord(pos[i])) {
			start := idx.cellStart[cell]
			if start == emptyCell {
				continue
			}
			for j := start; j < idx.cellEnd[cell]; j++ {
				if j == i {
					continue
				}
				acc.visit(pos[j], vel[j])
			}
		}
		out[i] = ClampSpeed(vel[i].Add(acc.delta()), k.maxSpeed)
	}
}
