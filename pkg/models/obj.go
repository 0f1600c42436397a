package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/taigrr/nova/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file. Material libraries referenced with
// mtllib are resolved relative to the file's directory.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if mesh.Name == "" {
		mesh.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	log.Debug("loaded obj",
		"path", path,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"materials", mesh.MaterialCount(),
	)
	return mesh, nil
}

// ParseOBJ reads OBJ statements from r. Supported statements are v, vt, vn,
// f, o, usemtl and mtllib; everything else is skipped. Faces accept the
// v, v/t, v//n and v/t/n forms with 1-based or negative (relative) indices,
// and polygons are fan-triangulated. When dir is empty, mtllib is ignored.
func ParseOBJ(r io.Reader, dir string) (*Mesh, error) {
	p := &objParser{
		mesh:      NewMesh(""),
		materials: make(map[string]int),
		current:   -1,
		defaultUV: -1,
		dir:       dir,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	p.mesh.FillVertexNormals()
	if err := p.mesh.Validate(); err != nil {
		return nil, err
	}
	p.mesh.CalculateBounds()
	return p.mesh, nil
}

type objParser struct {
	mesh      *Mesh
	materials map[string]int
	current   int // Active material index
	defaultUV int // Index of the shared (0,0) coordinate, -1 until needed
	dir       string
}

func (p *objParser) parseLine(text string) error {
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("v: %w", err)
		}
		p.mesh.Vertices = append(p.mesh.Vertices, math3d.Point(v[0], v[1], v[2]))

	case "vt":
		v, err := parseFloats(fields[1:], 2)
		if err != nil {
			return fmt.Errorf("vt: %w", err)
		}
		p.mesh.UVs = append(p.mesh.UVs, UVCoord{U: v[0], V: v[1]})

	case "vn":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("vn: %w", err)
		}
		p.mesh.Normals = append(p.mesh.Normals, math3d.Dir(v[0], v[1], v[2]).Normalize())

	case "f":
		return p.parseFace(fields[1:])

	case "o":
		if p.mesh.Name == "" && len(fields) > 1 {
			p.mesh.Name = fields[1]
		}

	case "usemtl":
		if len(fields) < 2 {
			return fmt.Errorf("usemtl: %w", ErrMalformed)
		}
		idx, ok := p.materials[fields[1]]
		if !ok {
			log.Debug("unknown material", "name", fields[1])
			idx = -1
		}
		p.current = idx

	case "mtllib":
		if p.dir == "" || len(fields) < 2 {
			return nil
		}
		return p.loadLibrary(strings.Join(fields[1:], " "))
	}

	return nil
}

func (p *objParser) loadLibrary(name string) error {
	path := filepath.Join(p.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open mtl: %w", err)
	}
	defer f.Close()

	mats, err := ParseMTL(f, p.dir)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	for _, m := range mats {
		p.materials[m.Name] = len(p.mesh.Materials)
		p.mesh.Materials = append(p.mesh.Materials, m)
	}
	return nil
}

type faceVertex struct {
	v, uv, n int // -1 when absent
}

func (p *objParser) parseFace(tokens []string) error {
	if len(tokens) < 3 {
		return fmt.Errorf("f: %d vertices: %w", len(tokens), ErrMalformed)
	}

	verts := make([]faceVertex, len(tokens))
	for i, tok := range tokens {
		fv, err := p.parseFaceVertex(tok)
		if err != nil {
			return fmt.Errorf("f %q: %w", tok, err)
		}
		verts[i] = fv
	}

	for k := 1; k+1 < len(verts); k++ {
		p.addTriangle(verts[0], verts[k], verts[k+1])
	}
	return nil
}

func (p *objParser) parseFaceVertex(tok string) (faceVertex, error) {
	fv := faceVertex{v: -1, uv: -1, n: -1}
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return fv, ErrMalformed
	}

	var err error
	if fv.v, err = resolveIndex(parts[0], len(p.mesh.Vertices)); err != nil {
		return fv, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if fv.uv, err = resolveIndex(parts[1], len(p.mesh.UVs)); err != nil {
			return fv, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if fv.n, err = resolveIndex(parts[2], len(p.mesh.Normals)); err != nil {
			return fv, err
		}
	}
	return fv, nil
}

func (p *objParser) addTriangle(a, b, c faceVertex) {
	m := p.mesh
	tri := Triangle{
		V:        [3]int{a.v, b.v, c.v},
		N:        [3]int{a.n, b.n, c.n},
		UV:       [3]int{a.uv, b.uv, c.uv},
		Material: p.current,
	}
	tri.Normal = FaceNormal(m.Vertices[a.v], m.Vertices[b.v], m.Vertices[c.v])

	// Faces without a full set of normals get averaged vertex normals once
	// the whole file is read.
	if a.n < 0 || b.n < 0 || c.n < 0 {
		tri.N = [3]int{-1, -1, -1}
	}

	for k := range 3 {
		if tri.UV[k] < 0 {
			if p.defaultUV < 0 {
				p.defaultUV = len(m.UVs)
				m.UVs = append(m.UVs, UVCoord{})
			}
			tri.UV[k] = p.defaultUV
		}
	}

	m.Triangles = append(m.Triangles, tri)
}

// resolveIndex converts a 1-based or negative OBJ reference into a 0-based
// index into an array that currently holds count elements.
func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("index %q: %w", s, ErrMalformed)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return 0, fmt.Errorf("index 0: %w", ErrIndexOutOfRange)
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("index %s of %d: %w", s, count, ErrIndexOutOfRange)
	}
	return i, nil
}

// parseFloats parses at least n floats from fields. Extra fields are ignored.
func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d: %w", n, len(fields), ErrMalformed)
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", fields[i], ErrMalformed)
		}
		out[i] = f
	}
	return out, nil
}
