package render

import "boids/internal/core"

// Projection maps the scene cube orthographically onto a w×h raster, looking
// down the z axis with +y up.
type Projection struct {
	SceneScale float32
	W, H       int
}

// Project returns the raster cell of p and whether it falls inside.
func (pr Projection) Project(p core.Vec3) (x, y int, ok bool) {
	if pr.SceneScale <= 0 || pr.W <= 0 || pr.H <= 0 {
		return 0, 0, false
	}
	u := (p.X/pr.SceneScale + 1) / 2
	v := (1 - p.Y/pr.SceneScale) / 2
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 0, 0, false
	}
	x = min(int(u*float32(pr.W)), pr.W-1)
	y = min(int(v*float32(pr.H)), pr.H-1)
	return x, y, true
}

// Bin clears grid and counts the projected agents per raster cell.
func (pr Projection) Bin(grid *core.CountGrid, pos []core.Vec3) {
	grid.Clear()
	for _, p := range pos {
		if x, y, ok := pr.Project(p); ok {
			grid.Add(x, y)
		}
	}
}
