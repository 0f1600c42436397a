package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/taigrr/nova/pkg/models"
)

// ClearColor fills the color buffer with a packed color.
func (c *Context) ClearColor(col uint32) {
	fill(c.color, col)
}

// ClearDepth resets every depth value to DepthClear and zeroes the stats.
// Call once per frame.
func (c *Context) ClearDepth() {
	fill(c.depth, DepthClear)
	c.stats = Stats{}
}

// fill uses copy-doubling for faster clearing.
func fill[T uint32 | float64](buf []T, v T) {
	n := len(buf)
	if n == 0 {
		return
	}
	buf[0] = v
	for i := 1; i < n; i *= 2 {
		copy(buf[i:], buf[:i])
	}
}

// ColorBuffer returns the packed pixels, row-major with a top-left origin.
// The slice aliases the context and is replaced by Resize.
func (c *Context) ColorBuffer() []uint32 {
	return c.color
}

// DepthBuffer returns the per-pixel depth values. Like ColorBuffer it aliases
// the context.
func (c *Context) DepthBuffer() []float64 {
	return c.depth
}

// Pixel returns the packed color at (x, y).
// Returns 0 if out of bounds.
func (c *Context) Pixel(x, y int) uint32 {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return 0
	}
	return c.color[y*c.width+x]
}

// SetPixel sets a pixel at (x, y). Bounds checking is performed.
func (c *Context) SetPixel(x, y int, col uint32) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.color[y*c.width+x] = col
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (c *Context) DrawLine(x0, y0, x1, y1 int, col uint32) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.SetPixel(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the color buffer to a standard Go image.RGBA.
func (c *Context) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	for i, p := range c.color {
		r, g, b, a := models.UnpackRGBA(p)
		img.Pix[i*4+0] = r
		img.Pix[i*4+1] = g
		img.Pix[i*4+2] = b
		img.Pix[i*4+3] = a
	}
	return img
}

// SavePNG saves the color buffer as a PNG file.
func (c *Context) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, c.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
