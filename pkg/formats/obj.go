package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OBJ parsing errors.
var (
	ErrInvalidOBJIndex  = errors.New("invalid OBJ index")
	ErrMalformedOBJLine = errors.New("malformed OBJ line")
	ErrEmptyOBJ         = errors.New("OBJ contains no faces")
)

// OBJIndex references the attributes of one face corner. Indices are
// zero-based; -1 marks an absent texture coordinate or normal.
type OBJIndex struct {
	V  int
	VT int
	VN int
}

// OBJFace is a polygon with three or more corners.
type OBJFace struct {
	Corners []OBJIndex
}

// OBJ holds the geometry of a Wavefront OBJ file. Material libraries,
// groups and smoothing groups are ignored.
type OBJ struct {
	Positions [][3]float32
	TexCoords [][2]float32
	Normals   [][3]float32
	Faces     []OBJFace
}

// ParseOBJ parses OBJ data.
func ParseOBJ(data []byte) (*OBJ, error) {
	return ReadOBJ(bytes.NewReader(data))
}

// ParseOBJFile reads and parses an OBJ file.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

// ReadOBJ parses OBJ data from r.
func ReadOBJ(r io.Reader) (*OBJ, error) {
	obj := &OBJ{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		var err error
		switch fields[0] {
		case "v":
			var v [3]float32
			err = parseFloats(fields[1:], v[:], 3)
			obj.Positions = append(obj.Positions, v)
		case "vt":
			// v defaults to 0 for 1D textures
			var vt [2]float32
			err = parseFloats(fields[1:], vt[:], 1)
			obj.TexCoords = append(obj.TexCoords, vt)
		case "vn":
			var vn [3]float32
			err = parseFloats(fields[1:], vn[:], 3)
			obj.Normals = append(obj.Normals, vn)
		case "f":
			var face OBJFace
			face, err = obj.parseFace(fields[1:])
			obj.Faces = append(obj.Faces, face)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	if len(obj.Faces) == 0 {
		return nil, ErrEmptyOBJ
	}
	return obj, nil
}

// parseFloats fills dst from the leading fields, requiring at least
// required of them. Missing trailing values stay zero and extra fields
// (such as the optional w of a vertex) are ignored.
func parseFloats(fields []string, dst []float32, required int) error {
	if len(fields) < required {
		return fmt.Errorf("%w: want %d values, got %d", ErrMalformedOBJLine, required, len(fields))
	}
	for i := 0; i < len(dst) && i < len(fields); i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedOBJLine, err)
		}
		dst[i] = float32(f)
	}
	return nil
}

func (obj *OBJ) parseFace(fields []string) (OBJFace, error) {
	if len(fields) < 3 {
		return OBJFace{}, fmt.Errorf("%w: face needs 3 corners, got %d", ErrMalformedOBJLine, len(fields))
	}

	face := OBJFace{Corners: make([]OBJIndex, len(fields))}
	for i, field := range fields {
		parts := strings.Split(field, "/")
		if len(parts) > 3 {
			return OBJFace{}, fmt.Errorf("%w: corner %q", ErrMalformedOBJLine, field)
		}

		idx := OBJIndex{V: -1, VT: -1, VN: -1}
		var err error
		if idx.V, err = resolveIndex(parts[0], len(obj.Positions)); err != nil {
			return OBJFace{}, err
		}
		if idx.V < 0 {
			return OBJFace{}, fmt.Errorf("%w: corner %q has no position", ErrInvalidOBJIndex, field)
		}
		if len(parts) > 1 {
			if idx.VT, err = resolveIndex(parts[1], len(obj.TexCoords)); err != nil {
				return OBJFace{}, err
			}
		}
		if len(parts) > 2 {
			if idx.VN, err = resolveIndex(parts[2], len(obj.Normals)); err != nil {
				return OBJFace{}, err
			}
		}
		face.Corners[i] = idx
	}
	return face, nil
}

// resolveIndex converts a one-based (or negative, relative) OBJ index to a
// zero-based index. An empty field resolves to -1.
func resolveIndex(field string, count int) (int, error) {
	if field == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOBJIndex, field)
	}

	var idx int
	switch {
	case n > 0:
		idx = n - 1
	case n < 0:
		idx = count + n
	default:
		return 0, fmt.Errorf("%w: zero index", ErrInvalidOBJIndex)
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("%w: %d out of range (have %d)", ErrInvalidOBJIndex, n, count)
	}
	return idx, nil
}

// TriangleCount returns the number of triangles after fan triangulation.
func (obj *OBJ) TriangleCount() int {
	n := 0
	for _, f := range obj.Faces {
		n += len(f.Corners) - 2
	}
	return n
}
