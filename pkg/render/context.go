// Package render is a CPU triangle rasterizer. A Context owns one output
// surface (packed color buffer, depth buffer and transform scratch space) and
// renders meshes into it with back-face culling, a Z-buffer, perspective-correct
// texturing and per-vertex directional lighting.
package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/nova/pkg/math3d"
	"github.com/taigrr/nova/pkg/models"
)

const (
	// Near and Far are the fixed clip planes of the projection matrix.
	Near = 0.5
	Far  = 10.0

	// DefaultFOV is the initial horizontal field of view in degrees.
	DefaultFOV = 60.0

	// MaxDimension bounds the width and height accepted by Resize.
	MaxDimension = 16384

	// AmbientFloor is the minimum per-vertex light intensity.
	AmbientFloor = 0.25

	// DepthClear is the "maximally far" depth written by ClearDepth.
	DepthClear = math.MaxFloat64
)

var (
	ErrInvalidSize     = errors.New("invalid surface size")
	ErrTooManyVertices = models.ErrTooManyVertices
)

// Vertex is a transformed mesh vertex. After the transform stage Pos holds
// pixel x, y, post-divide depth z, and 1/w in W.
type Vertex struct {
	Pos   math3d.Vec4
	Light float64
}

// Stats counts the work done since the last ClearDepth.
type Stats struct {
	Triangles     int // Triangles submitted
	Culled        int // Rejected by back-face culling (or degenerate)
	Rasterized    int // Triangles that reached pixel traversal
	PixelsWritten int // Pixels that passed the depth test
	DepthRejected int // Covered pixels that failed the depth test
}

// Context is the render state for a single output surface.
//
// A Context is not safe for concurrent use. Resize and Render must be
// serialized by the caller; meshes may be shared by several contexts.
type Context struct {
	width  int
	height int

	hFov float64 // Horizontal field of view in degrees
	vFov float64 // Vertical field of view, derived from the aspect ratio

	projection math3d.Mat4
	screen     math3d.Mat4
	light      math3d.Vec4 // View-space direction the light travels

	color []uint32  // Packed pixels, row-major, top-left origin
	depth []float64 // Post-divide z per pixel

	// Scratch, sized to models.MaxVertices.
	verts   []Vertex
	normals []math3d.Vec4

	stats Stats
}

// NewContext creates a context with no surface. Call Resize before rendering.
func NewContext() *Context {
	c := &Context{
		hFov:    DefaultFOV,
		light:   math3d.Dir(0, 0, -1),
		verts:   make([]Vertex, models.MaxVertices),
		normals: make([]math3d.Vec4, models.MaxVertices),
	}
	c.screen = math3d.Identity()
	c.updateProjection()
	return c
}

// Resize reallocates the color and depth buffers and recomputes the screen
// and projection matrices. On error the previous surface is left intact.
func (c *Context) Resize(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("resize %dx%d: %w", width, height, ErrInvalidSize)
	}

	n := width * height
	color := make([]uint32, n)
	depth := make([]float64, n)

	c.width, c.height = width, height
	c.color, c.depth = color, depth
	c.screen = math3d.Viewport(width, height)
	c.updateProjection()
	c.ClearDepth()
	return nil
}

// SetFieldOfView sets the horizontal field of view in degrees. The vertical
// field of view follows the surface aspect ratio.
func (c *Context) SetFieldOfView(hDeg float64) {
	c.hFov = hDeg
	c.updateProjection()
}

// SetLightDirection sets the view-space direction the light travels.
// The default (0, 0, -1) points into the screen.
func (c *Context) SetLightDirection(dir math3d.Vec4) {
	dir.W = 0
	c.light = dir.Normalize()
}

func (c *Context) updateProjection() {
	c.vFov = c.hFov
	if c.width > 0 {
		c.vFov = c.hFov * float64(c.height) / float64(c.width)
	}
	c.projection = math3d.Perspective(c.hFov, c.vFov, Near, Far)
}

// Width returns the surface width in pixels.
func (c *Context) Width() int {
	return c.width
}

// Height returns the surface height in pixels.
func (c *Context) Height() int {
	return c.height
}

// FieldOfView returns the horizontal and vertical field of view in degrees.
func (c *Context) FieldOfView() (h, v float64) {
	return c.hFov, c.vFov
}

// Projection returns the current projection matrix.
func (c *Context) Projection() math3d.Mat4 {
	return c.projection
}

// Screen returns the current clip-to-pixel matrix.
func (c *Context) Screen() math3d.Mat4 {
	return c.screen
}

// Stats returns the counters accumulated since the last ClearDepth.
func (c *Context) Stats() Stats {
	return c.stats
}

// Render draws every triangle of mesh using the model-view matrix mv.
// The mesh is only read; indices are trusted to have passed Mesh.Validate.
func (c *Context) Render(mesh *models.Mesh, mv math3d.Mat4) error {
	if len(mesh.Vertices) > len(c.verts) || len(mesh.Normals) > len(c.normals) {
		return fmt.Errorf("render %q: %w", mesh.Name, ErrTooManyVertices)
	}
	if c.width == 0 {
		return fmt.Errorf("render %q: %w", mesh.Name, ErrInvalidSize)
	}

	c.transform(mesh, mv)

	for i := range mesh.Triangles {
		tri := &mesh.Triangles[i]
		c.stats.Triangles++

		var tex *models.TextureMap
		if m := mesh.GetMaterial(tri.Material); m != nil {
			tex = m.Texture
		}
		c.drawTriangle(mesh, tri, tex)
	}
	return nil
}
