package flock

import (
	"errors"
	"fmt"

	"boids/internal/core"
)

// ErrAllocation marks a buffer that could not be allocated at startup.
var ErrAllocation = errors.New("buffer allocation failed")

func alloc[T any](name string, n int) (buf []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%w: %s (%d elements): %v", ErrAllocation, name, n, r)
		}
	}()
	return make([]T, n), nil
}

func allocVec3(name string, n int) ([]core.Vec3, error) { return alloc[core.Vec3](name, n) }

func allocInts(name string, n int) ([]int, error) { return alloc[int](name, n) }

// pingPong holds two velocity arrays in the roles active (read this frame)
// and staging (written this frame). swap exchanges the roles.
type pingPong struct {
	bufs   [2][]core.Vec3
	active int
}

func (b *pingPong) Active() []core.Vec3 { return b.bufs[b.active] }

func (b *pingPong) Staging() []core.Vec3 { return b.bufs[1-b.active] }

func (b *pingPong) swap() { b.active = 1 - b.active }

// buffers owns every per-agent and per-cell array of a simulation. They are
// acquired together by acquireBuffers and dropped together by release.
type buffers struct {
	pos []core.Vec3
	vel pingPong

	// sorted-order copies used by the coherent strategy
	coherentPos     []core.Vec3
	coherentVel     []core.Vec3
	coherentVelNext []core.Vec3

	index *Reindexer
}

func acquireBuffers(n int, grid Grid) (*buffers, error) {
	b := &buffers{}
	named := []struct {
		name string
		dst  *[]core.Vec3
	}{
		{"positions", &b.pos},
		{"velocities A", &b.vel.bufs[0]},
		{"velocities B", &b.vel.bufs[1]},
		{"coherent positions", &b.coherentPos},
		{"coherent velocities", &b.coherentVel},
		{"coherent next velocities", &b.coherentVelNext},
	}
	for _, nb := range named {
		buf, err := allocVec3(nb.name, n)
		if err != nil {
			return nil, err
		}
		*nb.dst = buf
	}
	index, err := newReindexer(grid, n)
	if err != nil {
		return nil, err
	}
	b.index = index
	return b, nil
}

func (b *buffers) release() {
	*b = buffers{}
}
