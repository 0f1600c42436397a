package models

import "math"

// PackRGBA packs 8-bit channels into the renderer's 32-bit pixel format:
// (R<<16)|(G<<8)|B|(A<<24).
func PackRGBA(r, g, b, a uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b) | uint32(a)<<24
}

// UnpackRGBA splits a packed pixel into its channels.
func UnpackRGBA(c uint32) (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}

// unitToByte maps a [0,1] channel onto 0-255, clamping out-of-range input.
func unitToByte(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}
