// Package models holds the immutable mesh, material and texture data consumed
// by the renderer, and the loaders that build it from OBJ, GLTF and image files.
package models

import (
	"fmt"

	"github.com/taigrr/nova/pkg/math3d"
)

// MaxVertices bounds the number of vertices (and normals) in a single mesh.
// Render contexts size their per-mesh scratch buffers to this value. Loaders
// derive missing normals per vertex, so only explicit normal data can push
// the normal count past the vertex count.
const MaxVertices = 1 << 16

// Triangle references three vertices, normals and UV coordinates of its mesh.
type Triangle struct {
	V        [3]int      // Indices into Mesh.Vertices
	N        [3]int      // Indices into Mesh.Normals
	UV       [3]int      // Indices into Mesh.UVs
	Material int         // Index into Mesh.Materials (-1 for no material)
	Normal   math3d.Vec4 // Object-space face normal (counter-clockwise winding)
}

// UVCoord is a texture coordinate. Nominally in [0,1]; never clamped on load.
type UVCoord struct {
	U, V float64
}

// Material is a named surface. The renderer only samples Texture; the color
// triples are carried for future lighting models.
type Material struct {
	Name      string
	Texture   *TextureMap // nil renders as solid white
	BaseColor [4]float64  // RGBA multiplier (0-1)
	Ambient   [3]float64
	Diffuse   [3]float64
	Specular  [3]float64
}

// ApplyBaseColor folds BaseColor into Texture: a textured material is tinted
// by it and an untextured one gets a solid texture of it. Loaders call this
// once per material.
func (m *Material) ApplyBaseColor() {
	rgb := [3]float64{m.BaseColor[0], m.BaseColor[1], m.BaseColor[2]}
	if m.Texture != nil {
		m.Texture = m.Texture.Tint(rgb)
		return
	}
	m.Texture = NewSolidTexture(PackRGBA(unitToByte(rgb[0]), unitToByte(rgb[1]), unitToByte(rgb[2]), 0xff))
}

// Mesh is a triangle mesh. Once a loader returns it, the renderer treats it as
// read-only, so a single Mesh may be shared by concurrently rendering contexts.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec4 // Object-space positions (W=1)
	Triangles []Triangle
	Normals   []math3d.Vec4 // Unit normals (W=0)
	UVs       []UVCoord
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec4
	BoundsMax math3d.Vec4
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// NormalCount returns the number of normals.
func (m *Mesh) NormalCount() int {
	return len(m.Normals)
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// Validate checks the mesh against the renderer's contract: vertex and normal
// counts within MaxVertices and every triangle index inside its array.
// The renderer never re-checks these, so loaders call Validate before
// handing a mesh out.
func (m *Mesh) Validate() error {
	if len(m.Triangles) == 0 {
		return ErrEmptyMesh
	}
	if len(m.Vertices) > MaxVertices {
		return fmt.Errorf("%d vertices: %w", len(m.Vertices), ErrTooManyVertices)
	}
	if len(m.Normals) > MaxVertices {
		return fmt.Errorf("%d normals: %w", len(m.Normals), ErrTooManyVertices)
	}

	for i, t := range m.Triangles {
		for k := range 3 {
			if t.V[k] < 0 || t.V[k] >= len(m.Vertices) {
				return fmt.Errorf("triangle %d: vertex %d: %w", i, t.V[k], ErrIndexOutOfRange)
			}
			if t.N[k] < 0 || t.N[k] >= len(m.Normals) {
				return fmt.Errorf("triangle %d: normal %d: %w", i, t.N[k], ErrIndexOutOfRange)
			}
			if t.UV[k] < 0 || t.UV[k] >= len(m.UVs) {
				return fmt.Errorf("triangle %d: uv %d: %w", i, t.UV[k], ErrIndexOutOfRange)
			}
		}
		if t.Material < -1 || t.Material >= len(m.Materials) {
			return fmt.Errorf("triangle %d: material %d: %w", i, t.Material, ErrIndexOutOfRange)
		}
	}
	return nil
}

// FaceNormal returns the unit normal of the counter-clockwise triangle a, b, c.
// Degenerate triangles yield the zero vector.
func FaceNormal(a, b, c math3d.Vec4) math3d.Vec4 {
	return b.Sub(a).Cross3(c.Sub(a)).Normalize()
}

// FillVertexNormals resolves triangles whose normal indices are negative.
// Each vertex they touch gets one normal, the area-weighted average of the
// surrounding faces, appended after the existing normals. The added count is
// therefore bounded by the vertex count rather than the triangle count.
// Vertices touched only by degenerate faces get the zero normal.
func (m *Mesh) FillVertexNormals() {
	first := len(m.Normals)
	slots := make(map[int]int)

	for i := range m.Triangles {
		t := &m.Triangles[i]
		if t.N[0] >= 0 && t.N[1] >= 0 && t.N[2] >= 0 {
			continue
		}
		if !m.validVertices(t) {
			continue
		}
		a, b, c := m.Vertices[t.V[0]], m.Vertices[t.V[1]], m.Vertices[t.V[2]]
		weighted := b.Sub(a).Cross3(c.Sub(a)) // Length is twice the area

		for k, v := range t.V {
			s, ok := slots[v]
			if !ok {
				s = len(m.Normals)
				slots[v] = s
				m.Normals = append(m.Normals, math3d.Vec4{})
			}
			m.Normals[s] = m.Normals[s].Add(weighted)
			t.N[k] = s
		}
	}

	for i := first; i < len(m.Normals); i++ {
		m.Normals[i] = m.Normals[i].Normalize()
	}
}

func (m *Mesh) validVertices(t *Triangle) bool {
	for _, v := range t.V {
		if v < 0 || v >= len(m.Vertices) {
			return false
		}
	}
	return true
}

// CalculateFaceNormals recomputes every triangle's object-space face normal.
func (m *Mesh) CalculateFaceNormals() {
	for i := range m.Triangles {
		t := &m.Triangles[i]
		t.Normal = FaceNormal(m.Vertices[t.V[0]], m.Vertices[t.V[1]], m.Vertices[t.V[2]])
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec4 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec4 {
	s := m.BoundsMax.Sub(m.BoundsMin)
	s.W = 0
	return s
}

// Transform bakes a transformation matrix into positions and normals.
// Normals are renormalized, which keeps them valid under uniform scale.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec4(m.Vertices[i])
	}
	for i := range m.Normals {
		n := mat.MulVec4(m.Normals[i])
		n.W = 0
		m.Normals[i] = n.Normalize()
	}
	m.CalculateFaceNormals()
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh. Textures are shared.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec4, len(m.Vertices)),
		Triangles: make([]Triangle, len(m.Triangles)),
		Normals:   make([]math3d.Vec4, len(m.Normals)),
		UVs:       make([]UVCoord, len(m.UVs)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Triangles, m.Triangles)
	copy(clone.Normals, m.Normals)
	copy(clone.UVs, m.UVs)
	copy(clone.Materials, m.Materials)
	return clone
}
