package render

import (
	"image/color"
	"math"

	"boids/internal/core"
)

// fillDensityRGBA converts per-pixel agent counts into RGBA pixels in buf,
// blending from off to on on a log scale of the densest pixel.
func fillDensityRGBA(buf []byte, counts *core.CountGrid, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	peak := math.Log1p(float64(counts.Max()))
	for i, c := range counts.Cells() {
		base := i * 4
		t := 0.0
		if c != 0 && peak > 0 {
			t = 0.35 + 0.65*math.Log1p(float64(c))/peak
		}
		buf[base+0] = lerp8(rOff, rOn, t)
		buf[base+1] = lerp8(gOff, gOn, t)
		buf[base+2] = lerp8(bOff, bOn, t)
		buf[base+3] = lerp8(aOff, aOn, t)
	}
}

func lerp8(from, to uint32, t float64) uint8 {
	v := float64(from>>8) + (float64(to>>8)-float64(from>>8))*t
	return uint8(math.Round(min(max(v, 0), 255)))
}

// densityRamp orders glyphs from sparse to crowded.
var densityRamp = []rune(" .:-=+*#%@")

// Glyph picks the ramp glyph for count relative to the densest cell.
func Glyph(count, peak uint32) rune {
	if count == 0 || peak == 0 {
		return densityRamp[0]
	}
	last := len(densityRamp) - 1
	idx := 1 + int(float64(count)/float64(peak)*float64(last-1)+0.5)
	return densityRamp[min(idx, last)]
}
