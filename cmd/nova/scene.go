package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/taigrr/nova/pkg/math3d"
	"github.com/taigrr/nova/pkg/models"
)

// frameSize is the edge length the largest model dimension is scaled to.
const frameSize = 2.0

// scene holds a loaded model in two shading variants.
type scene struct {
	path string
	mesh *models.Mesh // Textured
	flat *models.Mesh // Same geometry, no materials
}

// loadScene loads modelPath, frames it at the origin and applies an optional
// texture override. Models without any materials get a checkerboard.
func loadScene(modelPath, texturePath string) (*scene, error) {
	mesh, err := loadMesh(modelPath)
	if err != nil {
		return nil, err
	}
	frameMesh(mesh)

	switch {
	case texturePath != "":
		tex, err := models.LoadTexture(texturePath)
		if err != nil {
			return nil, err
		}
		applyTexture(mesh, tex)
	case mesh.MaterialCount() == 0:
		applyTexture(mesh, models.NewCheckerTexture(64, 64, 8,
			models.PackRGBA(200, 200, 200, 0xff),
			models.PackRGBA(100, 100, 100, 0xff)))
	}

	log.Debug("scene ready", "model", mesh.Name,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"materials", mesh.MaterialCount())

	return &scene{
		path: modelPath,
		mesh: mesh,
		flat: untextured(mesh),
	}, nil
}

// loadMesh picks a loader by file extension.
func loadMesh(path string) (*models.Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return models.LoadOBJ(path)
	case ".gltf", ".glb":
		return models.LoadGLTF(path)
	default:
		return nil, fmt.Errorf("model %q: %w", ext, models.ErrUnsupportedFormat)
	}
}

// frameMesh centers the mesh on the origin and scales its largest dimension
// to frameSize.
func frameMesh(m *models.Mesh) {
	m.CalculateBounds()
	center := m.Center()
	size := m.Size()
	maxDim := max(size.X, size.Y, size.Z)

	scale := 1.0
	if maxDim > 0 {
		scale = frameSize / maxDim
	}
	m.Transform(math3d.ScaleUniform(scale).Mul(math3d.Translate(-center.X, -center.Y, -center.Z)))
}

// applyTexture replaces every material with a single textured one.
func applyTexture(m *models.Mesh, tex *models.TextureMap) {
	m.Materials = []models.Material{{
		Name:      "override",
		Texture:   tex,
		BaseColor: [4]float64{1, 1, 1, 1},
		Diffuse:   [3]float64{1, 1, 1},
	}}
	for i := range m.Triangles {
		m.Triangles[i].Material = 0
	}
}

// untextured returns a copy of m that renders with lighting only.
func untextured(m *models.Mesh) *models.Mesh {
	flat := m.Clone()
	flat.Materials = nil
	for i := range flat.Triangles {
		flat.Triangles[i].Material = -1
	}
	return flat
}
