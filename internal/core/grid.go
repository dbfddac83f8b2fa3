package core

// CountGrid stores a 2D grid of per-cell counters in row-major order. Viewers
// use it to bin projected agents into pixels or terminal cells.
type CountGrid struct {
	W, H int
	data []uint32
}

// NewCountGrid allocates a grid with the given dimensions.
func NewCountGrid(w, h int) *CountGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &CountGrid{W: w, H: h, data: make([]uint32, w*h)}
}

// Cells exposes the backing slice so callers can read values directly.
func (g *CountGrid) Cells() []uint32 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *CountGrid) Index(x, y int) int { return y*g.W + x }

// Add increments the counter at (x, y); out-of-range coordinates are ignored.
func (g *CountGrid) Add(x, y int) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return
	}
	g.data[g.Index(x, y)]++
}

// At returns the counter at (x, y).
func (g *CountGrid) At(x, y int) uint32 { return g.data[g.Index(x, y)] }

// Max returns the largest counter in the grid.
func (g *CountGrid) Max() uint32 {
	var m uint32
	for _, v := range g.data {
		if v > m {
			m = v
		}
	}
	return m
}

// Clear fills the grid with zeros.
func (g *CountGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}
