package flock

import (
	"fmt"
	"iter"
	"math"

	"boids/internal/core"
)

// emptyCell marks a cell range with no agents, distinct from [0, 0).
const emptyCell = -1

// Grid maps world positions onto a uniform cubic grid covering the scene.
// Its cell width is twice the largest rule radius, so the 3×3×3 block around
// an agent's cell always contains every agent within interaction range.
type Grid struct {
	CellWidth        float32
	InverseCellWidth float32
	Side             int // cells per axis
	CellCount        int
	Min              core.Vec3 // minimum corner

	area int
}

// NewGrid derives the grid from the rule radii and scene half-extent.
func NewGrid(rules Rules, sceneScale float32) (Grid, error) {
	width := 2 * rules.MaxRadius()
	if !(width > 0) || !(sceneScale > 0) {
		return Grid{}, fmt.Errorf("%w: grid needs positive radii and scene scale", ErrInvalidConfig)
	}
	half := float64(sceneScale)/float64(width) + 1
	if half > math.Cbrt(math.MaxInt64)/2 {
		return Grid{}, fmt.Errorf("%w: %g cells per axis overflows the cell index", ErrInvalidConfig, 2*half)
	}
	halfSide := int(half)
	side := 2 * halfSide
	halfWidth := width * float32(halfSide)
	return Grid{
		CellWidth:        width,
		InverseCellWidth: 1 / width,
		Side:             side,
		CellCount:        side * side * side,
		Min:              core.Vec3{X: -halfWidth, Y: -halfWidth, Z: -halfWidth},
		area:             side * side,
	}, nil
}

// Coord returns the clamped integer cell coordinates containing p.
func (g Grid) Coord(p core.Vec3) [3]int {
	return [3]int{
		g.axis(p.X - g.Min.X),
		g.axis(p.Y - g.Min.Y),
		g.axis(p.Z - g.Min.Z),
	}
}

func (g Grid) axis(offset float32) int {
	c := int(math.Floor(float64(offset * g.InverseCellWidth)))
	return min(max(c, 0), g.Side-1)
}

// Index linearizes cell coordinates: x + y·side + z·side².
func (g Grid) Index(x, y, z int) int {
	return x + y*g.Side + z*g.area
}

// CellID returns the linear id of the cell containing p. Every component that
// needs a cell id goes through here.
func (g Grid) CellID(p core.Vec3) int {
	c := g.Coord(p)
	return g.Index(c[0], c[1], c[2])
}

// Coords inverts Index.
func (g Grid) Coords(id int) [3]int {
	return [3]int{id % g.Side, (id % g.area) / g.Side, id / g.area}
}

// span is an inclusive range of cell coordinates along one axis.
type span struct{ lo, hi int }

func (g Grid) around(c int) span {
	return span{lo: max(c-1, 0), hi: min(c+1, g.Side-1)}
}

// product enumerates the cross product of three axis spans.
func product(xs, ys, zs span) iter.Seq[[3]int] {
	return func(yield func([3]int) bool) {
		for z := zs.lo; z <= zs.hi; z++ {
			for y := ys.lo; y <= ys.hi; y++ {
				for x := xs.lo; x <= xs.hi; x++ {
					if !yield([3]int{x, y, z}) {
						return
					}
				}
			}
		}
	}
}

// Neighborhood yields the ids of the cell at c and its neighbors, clamped to
// the grid: 27 cells inside, fewer along faces, edges and corners.
func (g Grid) Neighborhood(c [3]int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for cell := range product(g.around(c[0]), g.around(c[1]), g.around(c[2])) {
			if !yield(g.Index(cell[0], cell[1], cell[2])) {
				return
			}
		}
	}
}
