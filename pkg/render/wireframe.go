package render

import (
	"fmt"
	"math"

	"github.com/taigrr/nova/pkg/math3d"
	"github.com/taigrr/nova/pkg/models"
)

// lineLimit bounds endpoint coordinates handed to Bresenham; lines reaching
// further out (or through w<=0) are skipped.
const lineLimit = 4 * MaxDimension

// RenderWireframe draws every triangle edge of mesh over the color buffer.
// There is no depth test or culling, so hidden edges show through.
func (c *Context) RenderWireframe(mesh *models.Mesh, mv math3d.Mat4, col uint32) error {
	if len(mesh.Vertices) > len(c.verts) || len(mesh.Normals) > len(c.normals) {
		return fmt.Errorf("wireframe %q: %w", mesh.Name, ErrTooManyVertices)
	}
	if c.width == 0 {
		return fmt.Errorf("wireframe %q: %w", mesh.Name, ErrInvalidSize)
	}

	c.transform(mesh, mv)

	for _, tri := range mesh.Triangles {
		a := c.verts[tri.V[0]].Pos
		b := c.verts[tri.V[1]].Pos
		d := c.verts[tri.V[2]].Pos
		c.drawEdge(a, b, col)
		c.drawEdge(b, d, col)
		c.drawEdge(d, a, col)
	}
	return nil
}

// DrawLine3D projects a view-space segment and draws it.
func (c *Context) DrawLine3D(a, b math3d.Vec4, col uint32) {
	c.drawEdge(c.project(a), c.project(b), col)
}

// DrawAxes draws the object-space axes of mv: X red, Y green, Z blue.
func (c *Context) DrawAxes(mv math3d.Mat4, length float64) {
	origin := mv.MulVec4(math3d.Point(0, 0, 0))
	c.DrawLine3D(origin, mv.MulVec4(math3d.Point(length, 0, 0)), 0xffff0000) // X axis
	c.DrawLine3D(origin, mv.MulVec4(math3d.Point(0, length, 0)), 0xff00ff00) // Y axis
	c.DrawLine3D(origin, mv.MulVec4(math3d.Point(0, 0, length)), 0xff0000ff) // Z axis
}

// project maps a view-space point to pixel space with 1/w in W.
func (c *Context) project(p math3d.Vec4) math3d.Vec4 {
	s := c.screen.MulVec4(c.projection.MulVec4(p))
	invW := 1 / s.W
	return math3d.V4(s.X*invW, s.Y*invW, s.Z*invW, invW)
}

func (c *Context) drawEdge(a, b math3d.Vec4, col uint32) {
	// Behind the camera.
	if !(a.W > 0) || !(b.W > 0) {
		return
	}
	for _, f := range [4]float64{a.X, a.Y, b.X, b.Y} {
		if !(math.Abs(f) < lineLimit) {
			return
		}
	}
	c.DrawLine(int(math.Round(a.X)), int(math.Round(a.Y)), int(math.Round(b.X)), int(math.Round(b.Y)), col)
}
