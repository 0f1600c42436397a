package render

import (
	"github.com/taigrr/nova/pkg/math3d"
	"github.com/taigrr/nova/pkg/models"
)

// transform fills the scratch buffers for mesh. Each step is a full pass:
//  1. positions and normals to view space (normals use mv directly, so mv must
//     be rigid for lighting to be correct)
//  2. positions to clip space
//  3. positions to pixel space, then the perspective divide
//
// After the divide W holds 1/w for perspective-correct interpolation.
// Vertices at w=0 produce infinities; the rasterizer drops those triangles.
func (c *Context) transform(mesh *models.Mesh, mv math3d.Mat4) {
	verts := c.verts[:len(mesh.Vertices)]
	normals := c.normals[:len(mesh.Normals)]

	for i, p := range mesh.Vertices {
		verts[i].Pos = mv.MulVec4(p)
	}
	for i, n := range mesh.Normals {
		normals[i] = mv.MulVec4(n)
	}

	for i := range verts {
		verts[i].Pos = c.projection.MulVec4(verts[i].Pos)
	}

	for i := range verts {
		p := c.screen.MulVec4(verts[i].Pos)
		invW := 1 / p.W
		verts[i].Pos = math3d.V4(p.X*invW, p.Y*invW, p.Z*invW, invW)
	}
}
