package models

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextureFromImageFlipsRows(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 0, color.NRGBA{10, 20, 30, 0}) // top-right, transparent
	img.Set(0, 1, color.NRGBA{40, 50, 60, 255})

	tex := TextureFromImage(img)
	require.Equal(t, 3, tex.Width)
	require.Equal(t, 2, tex.Height)

	// Alpha is forced opaque without losing the color of transparent texels.
	assert.Equal(t, PackRGBA(10, 20, 30, 255), tex.At(2, 1))
	assert.Equal(t, PackRGBA(40, 50, 60, 255), tex.At(0, 0))
}

// writeBMPV4 writes a 32bpp BMP with a 108-byte BITMAPV4HEADER. Each pixel
// is given as B, G, R, A; rows are stored bottom-up.
func writeBMPV4(t *testing.T, path string, width, height int, pixels [][4]byte) {
	t.Helper()
	const headerLen = 14 + 108

	buf := make([]byte, headerLen, headerLen+len(pixels)*4)
	buf[0], buf[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(buf[2:], uint32(headerLen+len(pixels)*4))
	binary.LittleEndian.PutUint32(buf[10:], headerLen)
	binary.LittleEndian.PutUint32(buf[14:], 108)
	binary.LittleEndian.PutUint32(buf[18:], uint32(width))
	binary.LittleEndian.PutUint32(buf[22:], uint32(height))
	binary.LittleEndian.PutUint16(buf[26:], 1)  // planes
	binary.LittleEndian.PutUint16(buf[28:], 32) // bits per pixel
	for _, p := range pixels {
		buf = append(buf, p[:]...)
	}
	require.NoError(t, os.WriteFile(path, buf, 0o644))
}

func TestLoadTextureBMPV4ZeroAlpha(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alpha.bmp")
	writeBMPV4(t, path, 2, 1, [][4]byte{
		{30, 20, 10, 0},
		{60, 50, 40, 128},
	})

	tex, err := LoadTexture(path)
	require.NoError(t, err)
	require.Equal(t, 2, tex.Width)
	require.Equal(t, 1, tex.Height)

	assert.Equal(t, PackRGBA(10, 20, 30, 255), tex.At(0, 0))
	assert.Equal(t, PackRGBA(40, 50, 60, 255), tex.At(1, 0))
}

func TestLoadTexturePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "white.png")
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, color.White)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	tex, err := LoadTexture(path)
	require.NoError(t, err)
	for _, p := range tex.Pixels {
		assert.Equal(t, uint32(0xffffffff), p)
	}
}

func TestLoadTextureUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.tga")
	require.NoError(t, os.WriteFile(path, []byte{0}, 0o644))

	_, err := LoadTexture(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, 1, 2)
	assert.Equal(t, uint32(1), tex.At(0, 0))
	assert.Equal(t, uint32(1), tex.At(1, 1))
	assert.Equal(t, uint32(2), tex.At(2, 0))
	assert.Equal(t, uint32(1), tex.At(3, 3))
	assert.Equal(t, uint32(0), tex.At(4, 0))
}

func TestSolidTexture(t *testing.T) {
	tex := NewSolidTexture(0xff00ff00)
	assert.Equal(t, 1, tex.Width)
	assert.Equal(t, uint32(0xff00ff00), tex.At(0, 0))

	tex.Set(-1, 0, 7)
	assert.Equal(t, uint32(0xff00ff00), tex.At(0, 0))
}

func TestTextureTint(t *testing.T) {
	tex := NewSolidTexture(PackRGBA(255, 200, 10, 40))

	assert.Same(t, tex, tex.Tint([3]float64{1, 1, 1}))

	tinted := tex.Tint([3]float64{0.5, 0, 1})
	assert.NotSame(t, tex, tinted)
	assert.Equal(t, PackRGBA(128, 0, 10, 40), tinted.At(0, 0))
	assert.Equal(t, PackRGBA(255, 200, 10, 40), tex.At(0, 0), "source untouched")
}

func TestMaterialApplyBaseColor(t *testing.T) {
	untextured := Material{BaseColor: [4]float64{0, 1, 0, 1}}
	untextured.ApplyBaseColor()
	require.NotNil(t, untextured.Texture)
	assert.Equal(t, PackRGBA(0, 255, 0, 255), untextured.Texture.At(0, 0))

	textured := Material{
		BaseColor: [4]float64{1, 0.5, 1, 1},
		Texture:   NewSolidTexture(PackRGBA(255, 255, 255, 255)),
	}
	textured.ApplyBaseColor()
	assert.Equal(t, PackRGBA(255, 128, 255, 255), textured.Texture.At(0, 0))
}
