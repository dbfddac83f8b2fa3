package flock

import (
	"slices"
	"testing"

	"boids/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reindexed(t *testing.T, pos []core.Vec3, workers int) (*Reindexer, Grid) {
	t.Helper()
	g := referenceGrid(t)
	r, err := newReindexer(g, len(pos))
	require.NoError(t, err)
	r.Reindex(testPhases(t, workers), pos)
	return r, g
}

func TestReindexInvariants(t *testing.T) {
	clustered := make([]core.Vec3, 300)
	for i := range clustered {
		clustered[i] = core.Vec3{X: float32(i%3) * 0.1, Y: 1, Z: -1}
	}
	for _, tc := range []struct {
		name string
		pos  []core.Vec3
	}{
		{"empty", nil},
		{"single", []core.Vec3{{X: 1, Y: 2, Z: 3}}},
		{"uniform", randomPositions(2000, 100, 11)},
		{"one-cell", clustered},
		{"outside-grid", randomPositions(500, 400, 5)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, g := reindexed(t, tc.pos, 4)
			n := len(tc.pos)

			perm := slices.Clone(r.ArrayIndex())
			slices.Sort(perm)
			for i, v := range perm {
				require.Equal(t, i, v, "arrayIndex is not a permutation")
			}
			assert.True(t, slices.IsSorted(r.GridIndex()), "gridIndex not sorted")
			for i, slot := range r.ArrayIndex() {
				assert.Equal(t, g.CellID(tc.pos[slot]), r.GridIndex()[i])
			}

			covered := make([]int, n)
			occupied := 0
			for c := 0; c < g.CellCount; c++ {
				start, end, ok := r.CellRange(c)
				if !ok {
					assert.Equal(t, emptyCell, r.cellEnd[c], "cell %d has end without start", c)
					continue
				}
				occupied++
				require.Less(t, start, end)
				for i := start; i < end; i++ {
					covered[i]++
					assert.Equal(t, c, r.GridIndex()[i])
				}
			}
			for i, count := range covered {
				assert.Equal(t, 1, count, "sorted position %d covered %d times", i, count)
			}
			assert.Equal(t, occupied, r.Occupancy().Occupied)
		})
	}
}

func TestReindexClearsStaleRanges(t *testing.T) {
	g := referenceGrid(t)
	r, err := newReindexer(g, 2)
	require.NoError(t, err)
	ph := testPhases(t, 2)

	first := []core.Vec3{{X: -105, Y: -105, Z: -105}, {X: 105, Y: 105, Z: 105}}
	r.Reindex(ph, first)
	_, _, ok := r.CellRange(0)
	require.True(t, ok)

	second := []core.Vec3{{}, {X: 1}}
	r.Reindex(ph, second)
	_, _, ok = r.CellRange(0)
	assert.False(t, ok, "range from previous frame survived")
	start, end, ok := r.CellRange(g.CellID(core.Vec3{}))
	require.True(t, ok)
	assert.Equal(t, [2]int{0, 2}, [2]int{start, end})
}

func TestScatterGatherRoundTrip(t *testing.T) {
	pos := randomPositions(257, 100, 9)
	vel := randomPositions(257, 1, 10)
	r, _ := reindexed(t, pos, 3)

	n := len(pos)
	cPos, cVel := make([]core.Vec3, n), make([]core.Vec3, n)
	r.scatter(cPos, cVel, pos, vel, 0, n)
	for i, slot := range r.ArrayIndex() {
		assert.Equal(t, pos[slot], cPos[i])
		assert.Equal(t, vel[slot], cVel[i])
	}

	backPos, backVel := make([]core.Vec3, n), make([]core.Vec3, n)
	r.gather(backPos, backVel, cPos, cVel, 0, n)
	assert.Equal(t, pos, backPos)
	assert.Equal(t, vel, backVel)
}
