package flock

import "boids/internal/core"

// Reindexer groups agents by grid cell once per frame.
//
// After Reindex, gridIndex is non-decreasing, arrayIndex is a permutation of
// [0, n) mapping sorted position to agent slot, and cellStart/cellEnd hold the
// half-open range of each occupied cell (emptyCell otherwise).
type Reindexer struct {
	grid Grid

	arrayIndex []int
	gridIndex  []int
	cellStart  []int
	cellEnd    []int

	tmpKeys []int
	tmpVals []int
}

func newReindexer(grid Grid, n int) (*Reindexer, error) {
	r := &Reindexer{grid: grid}
	var err error
	if r.arrayIndex, err = allocInts("array index", n); err != nil {
		return nil, err
	}
	if r.gridIndex, err = allocInts("grid index", n); err != nil {
		return nil, err
	}
	if r.tmpKeys, err = allocInts("sort scratch keys", n); err != nil {
		return nil, err
	}
	if r.tmpVals, err = allocInts("sort scratch values", n); err != nil {
		return nil, err
	}
	if r.cellStart, err = allocInts("cell start", grid.CellCount); err != nil {
		return nil, err
	}
	if r.cellEnd, err = allocInts("cell end", grid.CellCount); err != nil {
		return nil, err
	}
	for i := range r.cellStart {
		r.cellStart[i] = emptyCell
		r.cellEnd[i] = emptyCell
	}
	return r, nil
}

// Reindex labels, sorts and range-marks pos. Each step is its own phase.
func (r *Reindexer) Reindex(ph *phases, pos []core.Vec3) {
	n := len(pos)
	ph.parallel(PhaseLabel, n, func(lo, hi int) { r.label(pos, lo, hi) })
	ph.timed(PhaseSort, func() error {
		return ph.pool.sortByKey(r.gridIndex, r.arrayIndex, r.tmpKeys, r.tmpVals)
	})
	ph.parallel(PhaseResetRanges, r.grid.CellCount, r.resetRanges)
	ph.parallel(PhaseRanges, n, r.markRanges)
}

func (r *Reindexer) label(pos []core.Vec3, lo, hi int) {
	for i := lo; i < hi; i++ {
		r.arrayIndex[i] = i
		r.gridIndex[i] = r.grid.CellID(pos[i])
	}
}

func (r *Reindexer) resetRanges(lo, hi int) {
	for c := lo; c < hi; c++ {
		r.cellStart[c] = emptyCell
		r.cellEnd[c] = emptyCell
	}
}

// markRanges relies on the sort having made equal cell ids contiguous: a
// position opens its cell's range when its predecessor differs and closes it
// when its successor differs.
func (r *Reindexer) markRanges(lo, hi int) {
	keys := r.gridIndex
	last := len(keys) - 1
	for i := lo; i < hi; i++ {
		cell := keys[i]
		if i == 0 || keys[i-1] != cell {
			r.cellStart[cell] = i
		}
		if i == last || keys[i+1] != cell {
			r.cellEnd[cell] = i + 1
		}
	}
}

// scatter copies agent data into sorted order: dst[i] = src[arrayIndex[i]].
func (r *Reindexer) scatter(dstPos, dstVel, srcPos, srcVel []core.Vec3, lo, hi int) {
	for i := lo; i < hi; i++ {
		j := r.arrayIndex[i]
		dstPos[i] = srcPos[j]
		dstVel[i] = srcVel[j]
	}
}

// gather is the inverse of scatter: dst[arrayIndex[i]] = src[i].
func (r *Reindexer) gather(dstPos, dstVel, srcPos, srcVel []core.Vec3, lo, hi int) {
	for i := lo; i < hi; i++ {
		j := r.arrayIndex[i]
		dstPos[j] = srcPos[i]
		dstVel[j] = srcVel[i]
	}
}

// ArrayIndex returns the sorted-position to agent-slot permutation.
func (r *Reindexer) ArrayIndex() []int { return r.arrayIndex }

// GridIndex returns the cell id at each sorted position.
func (r *Reindexer) GridIndex() []int { return r.gridIndex }

// CellRange returns the sorted-index range of cell c and whether it is occupied.
func (r *Reindexer) CellRange(c int) (start, end int, ok bool) {
	if c < 0 || c >= len(r.cellStart) || r.cellStart[c] == emptyCell {
		return 0, 0, false
	}
	return r.cellStart[c], r.cellEnd[c], true
}

// Occupancy summarizes how agents are spread over grid cells.
type Occupancy struct {
	Cells       int // total grid cells
	Occupied    int // cells holding at least one agent
	MaxPerCell  int
	MeanPerCell float64 // over occupied cells
}

// Occupancy scans the current cell ranges.
func (r *Reindexer) Occupancy() Occupancy {
	o := Occupancy{Cells: len(r.cellStart)}
	total := 0
	for c, start := range r.cellStart {
		if start == emptyCell {
			continue
		}
		count := r.cellEnd[c] - start
		o.Occupied++
		total += count
		o.MaxPerCell = max(o.MaxPerCell, count)
	}
	if o.Occupied > 0 {
		o.MeanPerCell = float64(total) / float64(o.Occupied)
	}
	return o
}
