package render

import (
	"math"

	"github.com/taigrr/nova/pkg/math3d"
	"github.com/taigrr/nova/pkg/models"
)

// White is returned when sampling a missing texture.
const White uint32 = 0xffffffff

// vertexLight returns the directional light intensity for a view-space normal.
func (c *Context) vertexLight(n math3d.Vec4) float64 {
	return math.Max(AmbientFloor, -n.Dot3(c.light))
}

// sampleNearest returns the texel nearest to (u, v). Coordinates outside
// [0,1] clamp to the edge texels; a nil texture samples solid white.
func sampleNearest(tex *models.TextureMap, u, v float64) uint32 {
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		return White
	}
	x := clampIndex(math.Round(u*float64(tex.Width-1)), tex.Width)
	y := clampIndex(math.Round(v*float64(tex.Height-1)), tex.Height)
	return tex.Pixels[y*tex.Width+x]
}

func clampIndex(f float64, n int) int {
	// Negated comparison sends NaN to 0.
	if !(f > 0) {
		return 0
	}
	if f >= float64(n-1) {
		return n - 1
	}
	return int(f)
}

// Modulate multiplies the color channels of a packed pixel by light,
// rounding and clamping each to [0,255]. Alpha is kept.
func Modulate(c uint32, light float64) uint32 {
	r, g, b, a := models.UnpackRGBA(c)
	return models.PackRGBA(scaleChannel(r, light), scaleChannel(g, light), scaleChannel(b, light), a)
}

func scaleChannel(ch uint8, light float64) uint8 {
	v := float64(ch) * light
	if v >= 255 {
		return 255
	}
	if !(v > 0) {
		return 0
	}
	return uint8(v + 0.5)
}

// PackFloatRGBA packs channels in [0,1] into the pixel format.
// Values outside the range are clamped.
func PackFloatRGBA(r, g, b, a float64) uint32 {
	return models.PackRGBA(unitByte(r), unitByte(g), unitByte(b), unitByte(a))
}

func unitByte(f float64) uint8 {
	if !(f > 0) {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(math.Round(f * 255))
}
