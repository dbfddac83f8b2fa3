//go:build ebiten

package render

import (
	"image/color"

	"boids/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
)

// FlockPainter projects agent positions into a single RGBA image.
type FlockPainter struct {
	proj   Projection
	counts *core.CountGrid
	img    *ebiten.Image
	buf    []byte
}

// NewFlockPainter allocates a painter for a w×h view of the scene.
func NewFlockPainter(w, h int, sceneScale float32) *FlockPainter {
	fp := &FlockPainter{
		proj:   Projection{SceneScale: sceneScale, W: w, H: h},
		counts: core.NewCountGrid(w, h),
		buf:    make([]byte, 4*w*h),
	}
	fp.img = ebiten.NewImage(w, h)
	return fp
}

// Blit bins pos into the painter image and draws it scaled onto dst.
func (fp *FlockPainter) Blit(dst *ebiten.Image, pos []core.Vec3, on, off color.Color, scale int) {
	fp.proj.Bin(fp.counts, pos)
	fillDensityRGBA(fp.buf, fp.counts, on, off)
	fp.img.WritePixels(fp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(fp.img, op)
}

// Size returns the dimensions of the underlying image.
func (fp *FlockPainter) Size() (int, int) { return fp.proj.W, fp.proj.H }
