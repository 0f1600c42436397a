package main

import (
	"fmt"
	"io"
	"time"
)

const (
	ansiReset     = "\x1b[0m"
	ansiBold      = "\x1b[1m"
	ansiBgBlack   = "\x1b[40m"
	ansiFgWhite   = "\x1b[97m"
	ansiFgGreen   = "\x1b[92m"
	ansiFgCyan    = "\x1b[96m"
	ansiClearLine = "\x1b[2K"
)

// HUD draws model info over the top and bottom terminal rows.
type HUD struct {
	name      string
	triangles int
	visible   bool

	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a hidden overlay for the named model.
func NewHUD(name string, triangles int) *HUD {
	return &HUD{name: name, triangles: triangles, fpsTime: time.Now()}
}

// SetModel updates the displayed model after a reload.
func (h *HUD) SetModel(name string, triangles int) {
	h.name = name
	h.triangles = triangles
}

// Tick counts a frame. Call once per frame.
func (h *HUD) Tick(now time.Time) {
	h.fpsFrames++
	if elapsed := now.Sub(h.fpsTime); elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

func moveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// Render writes the overlay for a width x height terminal. The rows are
// cleared even when hidden so toggling off leaves nothing behind.
func (h *HUD) Render(w io.Writer, width, height int, textured, wireframe bool) {
	fmt.Fprint(w, moveTo(1, 1)+ansiClearLine)
	fmt.Fprint(w, moveTo(height, 1)+ansiClearLine)
	if !h.visible {
		return
	}

	fmt.Fprintf(w, "%s%s%s %.0f FPS %s", moveTo(1, 1), ansiBgBlack, ansiFgGreen, h.fps, ansiReset)

	col := max((width-len(h.name)-2)/2, 1)
	fmt.Fprintf(w, "%s%s%s%s %s %s", moveTo(1, col), ansiBold, ansiBgBlack, ansiFgWhite, h.name, ansiReset)

	tris := fmt.Sprintf(" %d tris ", h.triangles)
	fmt.Fprintf(w, "%s%s%s%s%s", moveTo(1, max(width-len(tris)+1, 1)), ansiBgBlack, ansiFgCyan, tris, ansiReset)

	fmt.Fprintf(w, "%s%s%s %s Texture  %s Wireframe %s", moveTo(height, 1),
		ansiBgBlack, ansiFgWhite, checkbox(textured && !wireframe), checkbox(wireframe), ansiReset)
}
