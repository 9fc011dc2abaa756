package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/softraster/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	return ParseOBJ(f, filepath.Base(path))
}

// ParseOBJ reads OBJ text from r. Supported records are v, vt, vn and f;
// faces with more than three vertices are triangulated as a fan. Other
// records are skipped. Face corners without a normal get smooth
// normals computed from the geometry.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	p := &objParser{mesh: NewMesh(name)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line++
		record := strings.TrimSpace(sc.Text())
		if err := p.parseLine(record); err != nil {
			return nil, &ParseError{Path: name, Line: p.line, Record: record, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj %s: %w", name, err)
	}

	m := p.mesh
	filled := m.FillMissingNormals()
	m.CalculateBounds()

	logger().Debug("obj: loaded",
		slog.String("name", name),
		slog.Int("vertices", len(m.Positions)),
		slog.Int("triangles", len(m.Triangles)),
		slog.Int("skipped", p.skipped),
		slog.Int("synthesized_normals", filled))
	return m, nil
}

type objParser struct {
	mesh    *Mesh
	line    int
	skipped int
}

func (p *objParser) parseLine(record string) error {
	fields := strings.Fields(record)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3, 4)
		if err != nil {
			return err
		}
		p.mesh.Positions = append(p.mesh.Positions, math3d.V3(v[0], v[1], v[2]))
	case "vt":
		v, err := parseFloats(fields[1:], 1, 3)
		if err != nil {
			return err
		}
		v = append(v, 0, 0)
		p.mesh.TexCoords = append(p.mesh.TexCoords, math3d.V3(v[0], v[1], v[2]))
	case "vn":
		v, err := parseFloats(fields[1:], 3, 3)
		if err != nil {
			return err
		}
		p.mesh.Normals = append(p.mesh.Normals, math3d.V3(v[0], v[1], v[2]))
	case "f":
		return p.addFace(fields[1:])
	default:
		p.skipped++
		logger().Debug("obj: skipping record", slog.Int("line", p.line), slog.String("type", fields[0]))
	}
	return nil
}

// addFace fan-triangulates a polygon of vertex references.
func (p *objParser) addFace(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(refs))
	}

	corners := make([][3]int, len(refs))
	for i, ref := range refs {
		c, err := p.parseRef(ref)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	for i := 1; i+1 < len(corners); i++ {
		a, b, c := corners[0], corners[i], corners[i+1]
		p.mesh.Triangles = append(p.mesh.Triangles, Triangle{
			V:        [3]int{a[0], b[0], c[0]},
			VT:       [3]int{a[1], b[1], c[1]},
			VN:       [3]int{a[2], b[2], c[2]},
			Material: -1,
		})
	}
	return nil
}

// parseRef parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based
// indices, using -1 for an absent attribute.
func (p *objParser) parseRef(ref string) ([3]int, error) {
	out := [3]int{-1, -1, -1}
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return out, fmt.Errorf("vertex reference %q: %w", ref, ErrUnsupported)
	}

	counts := [3]int{len(p.mesh.Positions), len(p.mesh.TexCoords), len(p.mesh.Normals)}
	for k, s := range parts {
		if s == "" {
			if k == 0 {
				return out, fmt.Errorf("vertex reference %q: missing position index", ref)
			}
			continue
		}
		idx, err := strconv.Atoi(s)
		if err != nil {
			return out, err
		}
		resolved, err := resolveIndex(idx, counts[k])
		if err != nil {
			return out, fmt.Errorf("vertex reference %q: %w", ref, err)
		}
		out[k] = resolved
	}
	return out, nil
}

var errIndexRange = errors.New("index out of range")

// resolveIndex converts a 1-based (or negative, relative) OBJ index into a
// zero-based one.
func resolveIndex(idx, count int) (int, error) {
	switch {
	case idx > 0 && idx <= count:
		return idx - 1, nil
	case idx < 0 && -idx <= count:
		return count + idx, nil
	}
	return 0, fmt.Errorf("%w: %d of %d", errIndexRange, idx, count)
}

func parseFloats(fields []string, minN, maxN int) ([]float64, error) {
	if len(fields) < minN || len(fields) > maxN {
		if minN == maxN {
			return nil, fmt.Errorf("want %d components, got %d", minN, len(fields))
		}
		return nil, fmt.Errorf("want %d to %d components, got %d", minN, maxN, len(fields))
	}
	out := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
