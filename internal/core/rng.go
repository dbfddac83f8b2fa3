package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Symmetric returns a uniform float32 in [-1, 1).
func (r *RNG) Symmetric() float32 {
	return 2*r.r.Float32() - 1
}

// FillCube fills buf with points uniformly distributed in the cube
// [-scale, scale)³.
func (r *RNG) FillCube(buf []Vec3, scale float32) {
	for i := range buf {
		buf[i] = Vec3{
			X: scale * r.Symmetric(),
			Y: scale * r.Symmetric(),
			Z: scale * r.Symmetric(),
		}
	}
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
