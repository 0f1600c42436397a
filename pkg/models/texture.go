package models

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/image/bmp"
)

// TextureMap is a 2D image stored in the renderer's packed pixel format.
// Row 0 is the bottom of the image, so texture coordinate v=0 addresses it.
type TextureMap struct {
	Width  int
	Height int
	Pixels []uint32
}

// NewTextureMap creates a transparent black texture with the given dimensions.
func NewTextureMap(width, height int) *TextureMap {
	return &TextureMap{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

// LoadTexture loads a texture from a BMP, PNG or JPEG file.
func LoadTexture(path string) (*TextureMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	var img image.Image
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".bmp":
		img, err = bmp.Decode(f)
	case ".png", ".jpg", ".jpeg":
		img, _, err = image.Decode(f)
	default:
		return nil, fmt.Errorf("texture %q: %w", ext, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", filepath.Base(path), err)
	}

	tex := TextureFromImage(img)
	log.Debug("loaded texture", "path", path, "width", tex.Width, "height", tex.Height)
	return tex, nil
}

// TextureFromImage converts an image.Image into a TextureMap.
// Rows are flipped so the bottom image row lands at v=0. Color channels are
// kept as stored and alpha is forced opaque.
func TextureFromImage(img image.Image) *TextureMap {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := NewTextureMap(width, height)

	// Color.RGBA is alpha-premultiplied, which would blacken texels stored
	// with alpha 0. Read straight (non-premultiplied) channels instead.
	for y := range height {
		row := (height - 1 - y) * width
		for x := range width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			tex.Pixels[row+x] = PackRGBA(c.R, c.G, c.B, 0xff)
		}
	}

	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 uint32) *TextureMap {
	tex := NewTextureMap(width, height)
	if checkSize <= 0 {
		checkSize = 1
	}
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.Set(x, y, c1)
			} else {
				tex.Set(x, y, c2)
			}
		}
	}
	return tex
}

// NewSolidTexture creates a 1x1 texture of a single packed color.
func NewSolidTexture(c uint32) *TextureMap {
	return &TextureMap{Width: 1, Height: 1, Pixels: []uint32{c}}
}

// Tint returns a copy of t with each color channel scaled by the matching
// factor. Alpha is kept. A white tint returns t itself.
func (t *TextureMap) Tint(f [3]float64) *TextureMap {
	if f == [3]float64{1, 1, 1} {
		return t
	}
	out := NewTextureMap(t.Width, t.Height)
	for i, p := range t.Pixels {
		r, g, b, a := UnpackRGBA(p)
		out.Pixels[i] = PackRGBA(scaleByte(r, f[0]), scaleByte(g, f[1]), scaleByte(b, f[2]), a)
	}
	return out
}

func scaleByte(c uint8, f float64) uint8 {
	return unitToByte(float64(c) / 255 * f)
}

// Set writes a pixel. Out-of-range coordinates are ignored.
func (t *TextureMap) Set(x, y int, c uint32) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// At returns the pixel at (x, y), where y=0 is the bottom row.
// Out-of-range coordinates return 0.
func (t *TextureMap) At(x, y int) uint32 {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return 0
	}
	return t.Pixels[y*t.Width+x]
}
