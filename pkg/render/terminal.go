package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/nova/pkg/models"
)

// Draw converts the color buffer to terminal cells and draws them on the
// screen. Each cell shows two pixel rows with an upper half block, so the
// context height should be twice the area height.
func (c *Context) Draw(scr uv.Screen, area uv.Rectangle) {
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= c.width {
				break
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: pixelColor(c.Pixel(x, topY)),
					Bg: pixelColor(c.Pixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// pixelColor converts a packed pixel to a color.Color.
func pixelColor(p uint32) color.Color {
	r, g, b, a := models.UnpackRGBA(p)
	if a == 0 {
		return nil // Transparent = no color
	}
	return color.RGBA{r, g, b, a}
}
