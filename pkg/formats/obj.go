// Package formats provides parsers for mesh asset file formats.
// OBJ (Wavefront) geometry-only format parser.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrOBJNoGeometry   = errors.New("OBJ contains no faces")
	ErrOBJBadIndex     = errors.New("OBJ face index out of range")
	ErrOBJMalformed    = errors.New("malformed OBJ statement")
	errOBJEmptyFaceRef = errors.New("empty face vertex reference")
)

// OBJ holds a parsed Wavefront OBJ file.
// Faces are already triangulated; Groups partition them by o/g statements.
type OBJ struct {
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Groups    []OBJGroup
}

// OBJGroup is a named run of triangles.
type OBJGroup struct {
	Name      string
	Triangles []OBJTriangle
}

// OBJVertexRef points into the OBJ attribute arrays. Missing attributes are -1.
type OBJVertexRef struct {
	Position int
	TexCoord int
	Normal   int
}

// OBJTriangle is one triangle of vertex references.
type OBJTriangle [3]OBJVertexRef

// TriangleCount returns the number of triangles across all groups.
func (o *OBJ) TriangleCount() int {
	n := 0
	for _, g := range o.Groups {
		n += len(g.Triangles)
	}
	return n
}

// ParseOBJ parses OBJ text. Polygons with more than three vertices are
// fan-triangulated. Materials, smoothing groups and free-form statements
// are ignored.
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{}
	current := -1

	group := func(name string) {
		obj.Groups = append(obj.Groups, OBJGroup{Name: name})
		current = len(obj.Groups) - 1
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", line, err)
			}
			obj.Positions = append(obj.Positions, [3]float32{p[0], p[1], p[2]})

		case "vn":
			n, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", line, err)
			}
			obj.Normals = append(obj.Normals, [3]float32{n[0], n[1], n[2]})

		case "vt":
			uv, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texcoord: %w", line, err)
			}
			obj.TexCoords = append(obj.TexCoords, [2]float32{uv[0], uv[1]})

		case "o", "g":
			name := ""
			if len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}
			group(name)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs 3 vertices: %w", line, ErrOBJMalformed)
			}
			refs := make([]OBJVertexRef, 0, len(fields)-1)
			for _, f := range fields[1:] {
				ref, err := obj.parseRef(f)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				refs = append(refs, ref)
			}
			if current < 0 {
				group("")
			}
			g := &obj.Groups[current]
			for i := 1; i+1 < len(refs); i++ {
				g.Triangles = append(g.Triangles, OBJTriangle{refs[0], refs[i], refs[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	if obj.TriangleCount() == 0 {
		return nil, ErrOBJNoGeometry
	}

	// Drop groups that never received faces (e.g. an "o" followed by "g").
	kept := obj.Groups[:0]
	for _, g := range obj.Groups {
		if len(g.Triangles) > 0 {
			kept = append(kept, g)
		}
	}
	obj.Groups = kept

	return obj, nil
}

// parseRef parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based indices.
func (o *OBJ) parseRef(s string) (OBJVertexRef, error) {
	ref := OBJVertexRef{Position: -1, TexCoord: -1, Normal: -1}
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return ref, fmt.Errorf("face vertex %q: %w", s, ErrOBJMalformed)
	}

	var err error
	if ref.Position, err = resolveIndex(parts[0], len(o.Positions)); err != nil {
		return ref, fmt.Errorf("face vertex %q: %w", s, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if ref.TexCoord, err = resolveIndex(parts[1], len(o.TexCoords)); err != nil {
			return ref, fmt.Errorf("face texcoord %q: %w", s, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if ref.Normal, err = resolveIndex(parts[2], len(o.Normals)); err != nil {
			return ref, fmt.Errorf("face normal %q: %w", s, err)
		}
	}
	return ref, nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index.
func resolveIndex(s string, count int) (int, error) {
	if s == "" {
		return -1, errOBJEmptyFaceRef
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return -1, ErrOBJMalformed
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i = count + i
	default:
		return -1, ErrOBJBadIndex
	}
	if i < 0 || i >= count {
		return -1, ErrOBJBadIndex
	}
	return i, nil
}

// parseFloats parses at least n numbers; extra components (w, colors) are ignored.
func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, ErrOBJMalformed
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, ErrOBJMalformed
		}
		out[i] = float32(v)
	}
	return out, nil
}
