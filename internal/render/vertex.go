// Package render turns flock snapshots into data a front-end can draw:
// interleaved vertex buffers, projected density maps and RGBA pixels.
package render

import "boids/internal/core"

// VertexStride is the number of floats written per agent.
const VertexStride = 4

// FillVertexBuffer writes each position as (x, y, z, 1) scaled by -1/sceneScale,
// so the scene cube maps onto [-1, 1]³. It reports false when dst is too short.
func FillVertexBuffer(dst []float32, pos []core.Vec3, sceneScale float32) bool {
	if len(dst) < VertexStride*len(pos) || sceneScale <= 0 {
		return false
	}
	s := -1 / sceneScale
	for i, p := range pos {
		base := i * VertexStride
		dst[base+0] = p.X * s
		dst[base+1] = p.Y * s
		dst[base+2] = p.Z * s
		dst[base+3] = 1
	}
	return true
}

// FillColorBuffer writes each velocity as an (r, g, b, 1) color offset so
// still agents render dim gray rather than black.
func FillColorBuffer(dst []float32, vel []core.Vec3) bool {
	if len(dst) < VertexStride*len(vel) {
		return false
	}
	for i, v := range vel {
		base := i * VertexStride
		dst[base+0] = v.X + 0.3
		dst[base+1] = v.Y + 0.3
		dst[base+2] = v.Z + 0.3
		dst[base+3] = 1
	}
	return true
}
