package flock

import "boids/internal/core"

// integrate advances pos by vel·dt and wraps each axis independently so the
// scene is a torus of half-extent scene.
func integrate(pos, vel []core.Vec3, dt, scene float32, lo, hi int) {
	for i := lo; i < hi; i++ {
		p := pos[i].Add(vel[i].Scale(dt))
		p.X = wrap(p.X, scene)
		p.Y = wrap(p.Y, scene)
		p.Z = wrap(p.Z, scene)
		pos[i] = p
	}
}

func wrap(x, scene float32) float32 {
	switch {
	case x < -scene:
		return scene
	case x > scene:
		return -scene
	}
	return x
}
