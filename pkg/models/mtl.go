package models

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ParseMTL reads a Wavefront material library. Texture maps (map_Kd) are
// loaded relative to dir and decoded once per path. Each material's Kd is
// folded in with ApplyBaseColor.
func ParseMTL(r io.Reader, dir string) ([]Material, error) {
	var (
		mats     []Material
		cur      *Material
		textures = make(map[string]*TextureMap)
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "newmtl" {
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: newmtl: %w", line, ErrMalformed)
			}
			mats = append(mats, Material{
				Name:      fields[1],
				BaseColor: [4]float64{1, 1, 1, 1},
			})
			cur = &mats[len(mats)-1]
			continue
		}
		if cur == nil {
			continue
		}

		var err error
		switch fields[0] {
		case "Ka":
			err = parseColor(fields[1:], &cur.Ambient)
		case "Kd":
			if err = parseColor(fields[1:], &cur.Diffuse); err == nil {
				copy(cur.BaseColor[:3], cur.Diffuse[:])
			}
		case "Ks":
			err = parseColor(fields[1:], &cur.Specular)
		case "d":
			var v []float64
			if v, err = parseFloats(fields[1:], 1); err == nil {
				cur.BaseColor[3] = v[0]
			}
		case "map_Kd":
			if len(fields) < 2 {
				err = ErrMalformed
				break
			}
			// Options precede the file name, which is always last.
			path := filepath.Join(dir, fields[len(fields)-1])
			tex, ok := textures[path]
			if !ok {
				if tex, err = LoadTexture(path); err != nil {
					break
				}
				textures[path] = tex
			}
			cur.Texture = tex
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, fields[0], err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mtl: %w", err)
	}
	for i := range mats {
		mats[i].ApplyBaseColor()
	}
	return mats, nil
}

func parseColor(fields []string, dst *[3]float64) error {
	v, err := parseFloats(fields, 3)
	if err != nil {
		return err
	}
	copy(dst[:], v)
	return nil
}
