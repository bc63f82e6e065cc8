package model

import (
	"github.com/Faultbox/lightlab/pkg/formats"
	"github.com/Faultbox/lightlab/pkg/math"
)

// cornerKey identifies a unique combination of OBJ attributes.
type cornerKey formats.OBJIndex

// FromOBJ builds an indexed mesh from parsed OBJ data. Polygons are fan
// triangulated. Corners without a normal get the face normal (smoothed when
// the file has no normals at all), and corners without texture coordinates
// get (0, 0).
func FromOBJ(obj *formats.OBJ) *Mesh {
	mesh := &Mesh{
		Vertices: make([]Vertex, 0, len(obj.Positions)),
		Indices:  make([]uint32, 0, obj.TriangleCount()*3),
		Bounds:   emptyBounds(),
	}
	lookup := make(map[cornerKey]uint32, len(obj.Positions))

	for _, face := range obj.Faces {
		normal := faceNormal(obj, face)

		for i := 1; i+1 < len(face.Corners); i++ {
			for _, c := range [3]formats.OBJIndex{face.Corners[0], face.Corners[i], face.Corners[i+1]} {
				key := cornerKey(c)
				// Corners without a normal are not shared between faces
				if c.VN < 0 {
					key.VN = -2 - len(mesh.Indices)
				}
				if idx, ok := lookup[key]; ok {
					mesh.Indices = append(mesh.Indices, idx)
					continue
				}

				v := Vertex{Position: obj.Positions[c.V], Normal: normal.Array()}
				if c.VN >= 0 {
					v.Normal = obj.Normals[c.VN]
				}
				if c.VT >= 0 {
					v.TexCoord = obj.TexCoords[c.VT]
				}

				idx := uint32(len(mesh.Vertices))
				mesh.Vertices = append(mesh.Vertices, v)
				mesh.Indices = append(mesh.Indices, idx)
				lookup[key] = idx
				updateBounds(&mesh.Bounds, v.Position)
			}
		}
	}

	if len(obj.Normals) == 0 {
		SmoothNormals(mesh.Vertices)
	}

	return mesh
}

func faceNormal(obj *formats.OBJ, face formats.OBJFace) math.Vec3 {
	p := func(i int) math.Vec3 {
		v := obj.Positions[face.Corners[i].V]
		return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
	// Newell's method handles non-planar and concave polygons
	var n math.Vec3
	for i := range face.Corners {
		cur, next := p(i), p((i+1)%len(face.Corners))
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n.Normalize()
}

// Cube returns a unit cube centred on the origin with per-face normals.
func Cube() *Mesh {
	faces := []struct {
		normal [3]float32
		u, v   [3]float32
	}{
		{[3]float32{1, 0, 0}, [3]float32{0, 0, -1}, [3]float32{0, 1, 0}},
		{[3]float32{-1, 0, 0}, [3]float32{0, 0, 1}, [3]float32{0, 1, 0}},
		{[3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}},
		{[3]float32{0, -1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, 1}},
		{[3]float32{0, 0, 1}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}},
		{[3]float32{0, 0, -1}, [3]float32{-1, 0, 0}, [3]float32{0, 1, 0}},
	}

	mesh := &Mesh{Bounds: emptyBounds()}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range faces {
		base := uint32(len(mesh.Vertices))
		for _, c := range corners {
			var pos [3]float32
			for k := 0; k < 3; k++ {
				pos[k] = 0.5 * (f.normal[k] + c[0]*f.u[k] + c[1]*f.v[k])
			}
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: pos,
				Normal:   f.normal,
				TexCoord: [2]float32{(c[0] + 1) / 2, (c[1] + 1) / 2},
			})
			updateBounds(&mesh.Bounds, pos)
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}

	return mesh
}

// SmoothNormals averages normals at shared vertex positions.
// This reduces faceted appearance on models exported without normals.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum math.Vec3
		for _, idx := range idxs {
			n := vertices[idx].Normal
			sum = sum.Add(math.Vec3{X: n[0], Y: n[1], Z: n[2]})
		}

		avg := sum.Normalize().Array()
		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
