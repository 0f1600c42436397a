package render

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taigrr/nova/pkg/math3d"
	"github.com/taigrr/nova/pkg/models"
)

// newTestContext returns a cleared context with a 90 degree field of view,
// so at view depth d the visible half-width is d.
func newTestContext(t testing.TB, width, height int) *Context {
	t.Helper()
	ctx := NewContext()
	require.NoError(t, ctx.Resize(width, height))
	ctx.SetFieldOfView(90)
	ctx.ClearColor(0)
	ctx.ClearDepth()
	return ctx
}

// quadMesh builds a view-space square of side size centered on (cx, cy) in
// the plane z, facing the camera, textured with a solid 2x2 texture.
func quadMesh(cx, cy, z, size float64, col uint32) *models.Mesh {
	h := size / 2
	m := models.NewMesh("quad")
	m.Vertices = []math3d.Vec4{
		math3d.Point(cx-h, cy-h, z),
		math3d.Point(cx+h, cy-h, z),
		math3d.Point(cx+h, cy+h, z),
		math3d.Point(cx-h, cy+h, z),
	}
	m.Normals = []math3d.Vec4{math3d.Dir(0, 0, 1)}
	m.UVs = []models.UVCoord{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	m.Materials = []models.Material{{
		Name:    "solid",
		Texture: models.NewCheckerTexture(2, 2, 1, col, col),
	}}
	m.Triangles = []models.Triangle{
		{V: [3]int{0, 1, 2}, UV: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{0, 2, 3}, UV: [3]int{0, 2, 3}, Material: 0},
	}
	m.CalculateFaceNormals()
	m.CalculateBounds()
	return m
}

// triMesh builds a single triangle lit with its face normal.
func triMesh(a, b, c math3d.Vec4, uvs [3]models.UVCoord, tex *models.TextureMap) *models.Mesh {
	m := models.NewMesh("tri")
	m.Vertices = []math3d.Vec4{a, b, c}
	m.Normals = []math3d.Vec4{models.FaceNormal(a, b, c)}
	m.UVs = uvs[:]
	material := -1
	if tex != nil {
		m.Materials = []models.Material{{Name: "tex", Texture: tex}}
		material = 0
	}
	m.Triangles = []models.Triangle{{
		V:        [3]int{0, 1, 2},
		UV:       [3]int{0, 1, 2},
		Material: material,
	}}
	m.CalculateFaceNormals()
	return m
}

// gridMesh builds an n x n grid of quads in the plane z, used by benchmarks.
func gridMesh(n int, z float64) *models.Mesh {
	m := models.NewMesh("grid")
	m.Normals = []math3d.Vec4{math3d.Dir(0, 0, 1)}
	step := 2.0 / float64(n)
	for y := range n + 1 {
		for x := range n + 1 {
			m.Vertices = append(m.Vertices, math3d.Point(-1+float64(x)*step, -1+float64(y)*step, z))
			m.UVs = append(m.UVs, models.UVCoord{U: float64(x) / float64(n), V: float64(y) / float64(n)})
		}
	}
	m.Materials = []models.Material{{Texture: models.NewCheckerTexture(64, 64, 8, 0xffff0000, 0xffffffff)}}
	for y := range n {
		for x := range n {
			i := y*(n+1) + x
			q := [4]int{i, i + 1, i + n + 2, i + n + 1}
			m.Triangles = append(m.Triangles,
				models.Triangle{V: [3]int{q[0], q[1], q[2]}, UV: [3]int{q[0], q[1], q[2]}},
				models.Triangle{V: [3]int{q[0], q[2], q[3]}, UV: [3]int{q[0], q[2], q[3]}},
			)
		}
	}
	m.CalculateFaceNormals()
	m.CalculateBounds()
	return m
}
