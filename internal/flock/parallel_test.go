package flock

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolSplit(t *testing.T) {
	p := &pool{workers: 3, grain: 100}
	assert.Equal(t, []span{{0, 334}, {334, 668}, {668, 1000}}, p.split(1000))
	assert.Equal(t, []span{{0, 10}}, p.split(10))
	assert.Empty(t, p.split(0))
	assert.Equal(t, []span{{0, 512}}, newPool(8).split(512))
}

func TestPoolRunVisitsEveryIndexOnce(t *testing.T) {
	p := &pool{workers: 5, grain: 7}
	hits := make([]int32, 1234)
	require.NoError(t, p.run(len(hits), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	}))
	for i, h := range hits {
		assert.Equal(t, int32(1), h, "index %d", i)
	}
}

func TestPhaseFaultReportsPhase(t *testing.T) {
	var got *PhaseError
	ph := &phases{
		pool:  &pool{workers: 4, grain: 1},
		stats: &Stats{},
		fault: func(err *PhaseError) { got = err },
	}
	assert.Panics(t, func() {
		ph.parallel(PhaseSearch, 8, func(lo, hi int) {
			var out []int
			out[lo+100] = hi
		})
	})
	require.NotNil(t, got)
	assert.Equal(t, PhaseSearch, got.Phase)
	assert.Contains(t, got.Error(), "search phase")
	assert.Contains(t, got.Error(), "index out of range")
}

func TestPhaseStringUnknown(t *testing.T) {
	assert.Equal(t, "integrate", PhaseIntegrate.String())
	assert.Equal(t, "phase(42)", Phase(42).String())
}
