package models

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/nova/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Options
	LoadTextures bool // Decode base color textures into materials
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		LoadTextures: true,
	}
}

// LoadGLTF loads a .gltf or .glb file with the default loader.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh. All triangle primitives
// of all meshes are flattened into one Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	images := make(map[int]*TextureMap)
	for i, m := range doc.Materials {
		mat, err := l.convertMaterial(doc, filepath.Dir(path), m, images)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		mesh.Materials = append(mesh.Materials, mat)
	}

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	mesh.FillVertexNormals()
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()

	log.Debug("loaded gltf",
		"path", path,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"materials", mesh.MaterialCount(),
	)
	return mesh, nil
}

// convertMaterial maps a PBR material onto a Material. Only the base color
// factor and texture are used; the factor tints the texture.
func (l *GLTFLoader) convertMaterial(doc *gltf.Document, dir string, m *gltf.Material, images map[int]*TextureMap) (Material, error) {
	mat := Material{
		Name:      m.Name,
		BaseColor: [4]float64{1, 1, 1, 1},
	}
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			mat.BaseColor = *pbr.BaseColorFactor
			copy(mat.Diffuse[:], mat.BaseColor[:3])
		}
		if l.LoadTextures && pbr.BaseColorTexture != nil {
			tex, err := l.baseColorTexture(doc, dir, pbr.BaseColorTexture.Index, images)
			if err != nil {
				return mat, err
			}
			mat.Texture = tex
		}
	}
	mat.ApplyBaseColor()
	return mat, nil
}

// baseColorTexture resolves a texture index to its decoded image. A texture
// without a source yields nil.
func (l *GLTFLoader) baseColorTexture(doc *gltf.Document, dir string, texIdx int, images map[int]*TextureMap) (*TextureMap, error) {
	if texIdx < 0 || texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return nil, nil
	}
	src := *doc.Textures[texIdx].Source
	if tex, ok := images[src]; ok {
		return tex, nil
	}
	tex, err := loadImage(doc, dir, src)
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", src, err)
	}
	images[src] = tex
	return tex, nil
}

// loadImage decodes an embedded or external image.
func loadImage(doc *gltf.Document, dir string, idx int) (*TextureMap, error) {
	if idx < 0 || idx >= len(doc.Images) {
		return nil, ErrIndexOutOfRange
	}
	img := doc.Images[idx]

	var data []byte
	switch {
	case img.BufferView != nil:
		if *img.BufferView >= len(doc.BufferViews) {
			return nil, fmt.Errorf("buffer view %d: %w", *img.BufferView, ErrIndexOutOfRange)
		}
		var err error
		if data, err = modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView]); err != nil {
			return nil, fmt.Errorf("read buffer view: %w", err)
		}
	case img.URI != "" && !img.IsEmbeddedResource():
		var err error
		if data, err = os.ReadFile(filepath.Join(dir, img.URI)); err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
	default:
		var err error
		if data, err = img.MarshalData(); err != nil {
			return nil, fmt.Errorf("decode data uri: %w", err)
		}
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return TextureFromImage(decoded), nil
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readPositions(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec4
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readNormals(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readTexCoords(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		var indices []int
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		material := -1
		if prim.Material != nil && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		l.appendPrimitive(mesh, positions, normals, uvs, indices, material)
	}

	return nil
}

// appendPrimitive adds one primitive's vertices and triangles to mesh.
// Normals and UVs share the vertex index space; missing attributes fall back
// to averaged vertex normals and a single (0,0) coordinate.
func (l *GLTFLoader) appendPrimitive(mesh *Mesh, positions, normals []math3d.Vec4, uvs []math3d.Vec2, indices []int, material int) {
	base := len(mesh.Vertices)
	mesh.Vertices = append(mesh.Vertices, positions...)

	smooth := len(normals) == len(positions)
	normalBase := len(mesh.Normals)
	if smooth {
		for _, n := range normals {
			mesh.Normals = append(mesh.Normals, n.Normalize())
		}
	}

	uvBase := len(mesh.UVs)
	if len(uvs) == len(positions) {
		for _, uv := range uvs {
			// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
			mesh.UVs = append(mesh.UVs, UVCoord{U: uv.X, V: 1 - uv.Y})
		}
	} else {
		mesh.UVs = append(mesh.UVs, UVCoord{})
	}
	uvIndex := func(i int) int {
		if len(uvs) == len(positions) {
			return uvBase + i
		}
		return uvBase
	}

	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a >= len(positions) || b >= len(positions) || c >= len(positions) {
			// Left for Validate to reject.
			mesh.Triangles = append(mesh.Triangles, Triangle{V: [3]int{-1, -1, -1}})
			continue
		}
		tri := Triangle{
			V:        [3]int{base + a, base + b, base + c},
			UV:       [3]int{uvIndex(a), uvIndex(b), uvIndex(c)},
			Material: material,
			Normal:   FaceNormal(positions[a], positions[b], positions[c]),
		}
		if smooth {
			tri.N = [3]int{normalBase + a, normalBase + b, normalBase + c}
		} else {
			tri.N = [3]int{-1, -1, -1} // Filled by FillVertexNormals
		}
		mesh.Triangles = append(mesh.Triangles, tri)
	}
}

// accessor bounds-checks an accessor index.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", idx, ErrIndexOutOfRange)
	}
	return doc.Accessors[idx], nil
}

func toPoints(v [][3]float32) []math3d.Vec4 {
	out := make([]math3d.Vec4, len(v))
	for i, f := range v {
		out[i] = math3d.Point(float64(f[0]), float64(f[1]), float64(f[2]))
	}
	return out
}

// readPositions reads a POSITION accessor.
func readPositions(doc *gltf.Document, idx int) ([]math3d.Vec4, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	v, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, err
	}
	return toPoints(v), nil
}

// readNormals reads a NORMAL accessor as directions (W=0). appendPrimitive
// normalizes before storing.
func readNormals(doc *gltf.Document, idx int) ([]math3d.Vec4, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	v, err := modeler.ReadNormal(doc, acr, nil)
	if err != nil {
		return nil, err
	}
	out := toPoints(v)
	for i := range out {
		out[i].W = 0
	}
	return out, nil
}

// readTexCoords reads a TEXCOORD_0 accessor, including normalized integer
// encodings.
func readTexCoords(doc *gltf.Document, idx int) ([]math3d.Vec2, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	v, err := modeler.ReadTextureCoord(doc, acr, nil)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec2, len(v))
	for i, f := range v {
		out[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}
	return out, nil
}

// readIndices reads a u8, u16 or u32 index accessor.
func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	v, err := modeler.ReadIndices(doc, acr, nil)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}
	return out, nil
}
