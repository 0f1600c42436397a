package models

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

const quadOBJ = `# unit quad
o quad
v -1 -1 0
v  1 -1 0
v  1  1 0
v -1  1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJQuad(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(quadOBJ), "")
	require.NoError(t, err)

	assert.Equal(t, "quad", m.Name)
	assert.Equal(t, 4, m.VertexCount())
	require.Equal(t, 2, m.TriangleCount())

	// Fan triangulation around the first vertex.
	assert.Equal(t, [3]int{0, 1, 2}, m.Triangles[0].V)
	assert.Equal(t, [3]int{0, 2, 3}, m.Triangles[1].V)
	assert.Equal(t, [3]int{0, 2, 3}, m.Triangles[1].UV)
	for _, tri := range m.Triangles {
		assert.Equal(t, -1, tri.Material)
		assert.InDelta(t, 1.0, tri.Normal.Z, 1e-12)
	}

	assert.Equal(t, -1.0, m.BoundsMin.X)
	assert.Equal(t, 1.0, m.BoundsMax.Y)
}

func TestParseOBJFaceForms(t *testing.T) {
	tests := []struct {
		name    string
		face    string
		normals int // expected normal count after parsing
		uvs     int
	}{
		{"positions only", "f 1 2 3", 4, 3},
		{"position and uv", "f 1/1 2/2 3/1", 4, 2},
		{"position and normal", "f 1//1 2//1 3//1", 1, 3},
		{"all three", "f 1/1/1 2/2/1 3/1/1", 1, 2},
		{"relative indices", "f -3/-2/-1 -2/-1/-1 -1/-2/-1", 1, 2},
	}

	header := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvt 1 1\nvn 0 0 1\n"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseOBJ(strings.NewReader(header+tt.face+"\n"), "")
			require.NoError(t, err)
			require.Equal(t, 1, m.TriangleCount())
			assert.Equal(t, [3]int{0, 1, 2}, m.Triangles[0].V)
			assert.Equal(t, tt.normals, m.NormalCount())
			assert.Len(t, m.UVs, tt.uvs)
			assert.NoError(t, m.Validate())
		})
	}
}

func TestParseOBJMissingNormalsAveraged(t *testing.T) {
	// Clockwise when viewed from +z.
	src := "v 0 0 0\nv 0 1 0\nv 1 0 0\nf 1 2 3\n"
	m, err := ParseOBJ(strings.NewReader(src), "")
	require.NoError(t, err)

	tri := m.Triangles[0]
	assert.Equal(t, 3, m.NormalCount(), "one normal per vertex")
	for k := range 3 {
		assert.InDelta(t, -1.0, m.Normals[tri.N[k]].Z, 1e-12)
	}
	assert.Equal(t, UVCoord{}, m.UVs[tri.UV[2]])
}

func TestParseOBJManyFacesWithoutNormals(t *testing.T) {
	// 201x201 vertices make 80000 triangles, more than MaxVertices, but the
	// derived normals stay one per vertex.
	const n = 201
	var b strings.Builder
	for y := range n {
		for x := range n {
			fmt.Fprintf(&b, "v %d %d 0\n", x, y)
		}
	}
	for y := range n - 1 {
		for x := range n - 1 {
			i := y*n + x + 1
			fmt.Fprintf(&b, "f %d %d %d %d\n", i, i+1, i+n+1, i+n)
		}
	}

	m, err := ParseOBJ(strings.NewReader(b.String()), "")
	require.NoError(t, err)
	assert.Equal(t, n*n, m.VertexCount())
	assert.Equal(t, 2*(n-1)*(n-1), m.TriangleCount())
	assert.Greater(t, m.TriangleCount(), MaxVertices)
	assert.Equal(t, n*n, m.NormalCount())
	assert.InDelta(t, 1.0, m.Normals[m.Triangles[0].N[0]].Z, 1e-12)
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no faces", "v 0 0 0\n", ErrEmptyMesh},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrIndexOutOfRange},
		{"forward reference", "v 0 0 0\nv 1 0 0\nf 1 2 3\n", ErrIndexOutOfRange},
		{"two vertex face", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrMalformed},
		{"bad float", "v 0 zero 0\n", ErrMalformed},
		{"short vertex", "v 0 0\n", ErrMalformed},
		{"bad index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 x\n", ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseOBJ(strings.NewReader(tt.src), "")
			assert.Nil(t, m)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseOBJErrorReportsLine(t *testing.T) {
	_, err := ParseOBJ(strings.NewReader("v 0 0 0\n\nv 1 x 0\n"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoadOBJWithMaterials(t *testing.T) {
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255}) // top-left
	img.Set(0, 1, color.RGBA{0, 0, 255, 255}) // bottom-left
	f, err := os.Create(filepath.Join(dir, "tex.bmp"))
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, img))
	require.NoError(t, f.Close())

	mtl := `newmtl painted
Ka 0.1 0.1 0.1
Kd 0.5 0.6 0.2
Ks 0 0 0
map_Kd tex.bmp
newmtl plain
Kd 1 0 0
d 0.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "box.mtl"), []byte(mtl), 0o644))

	obj := "mtllib box.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl painted\nf 1 2 3\nusemtl plain\nf 1 2 3\nusemtl missing\nf 1 2 3\n"
	path := filepath.Join(dir, "box.obj")
	require.NoError(t, os.WriteFile(path, []byte(obj), 0o644))

	m, err := LoadOBJ(path)
	require.NoError(t, err)

	assert.Equal(t, "box", m.Name)
	require.Equal(t, 2, m.MaterialCount())
	assert.Equal(t, 0, m.Triangles[0].Material)
	assert.Equal(t, 1, m.Triangles[1].Material)
	assert.Equal(t, -1, m.Triangles[2].Material)

	painted := m.Materials[0]
	assert.Equal(t, [3]float64{0.5, 0.6, 0.2}, painted.Diffuse)
	assert.Equal(t, [4]float64{0.5, 0.6, 0.2, 1}, painted.BaseColor)
	require.NotNil(t, painted.Texture)
	// Bottom image row is texture row 0; texels are tinted by Kd.
	assert.Equal(t, PackRGBA(0, 0, 51, 255), painted.Texture.At(0, 0))
	assert.Equal(t, PackRGBA(128, 0, 0, 255), painted.Texture.At(0, 1))

	// Kd without map_Kd renders as a solid color.
	plain := m.Materials[1]
	require.NotNil(t, plain.Texture)
	assert.Equal(t, PackRGBA(255, 0, 0, 255), plain.Texture.At(0, 0))
	assert.Equal(t, 0.5, plain.BaseColor[3])
}

func TestLoadOBJMissingFile(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "nope.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseMTLMissingTexture(t *testing.T) {
	_, err := ParseMTL(strings.NewReader("newmtl a\nmap_Kd gone.png\n"), t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
