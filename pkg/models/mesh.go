// Package models provides mesh loading and representation.
package models

import (
	"image"
	"iter"

	"github.com/taigrr/softraster/pkg/math3d"
)

// Face is one triangle as the shaders consume it: three object-space
// positions with their texture coordinates and normals.
type Face struct {
	Vertices  [3]math3d.Vec3
	TexCoords [3]math3d.Vec3
	Normals   [3]math3d.Vec3
}

// Triangle indexes the attribute arrays of a Mesh. A negative TexCoord or
// Normal index means the attribute is absent.
type Triangle struct {
	V        [3]int // Indices into Mesh.Positions
	VT       [3]int // Indices into Mesh.TexCoords
	VN       [3]int // Indices into Mesh.Normals
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the subset of a surface description the rasterizer uses.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
}

// Mesh represents an indexed triangle mesh.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	TexCoords []math3d.Vec3
	Normals   []math3d.Vec3
	Triangles []Triangle
	Materials []Material

	// Texture is the embedded base color image, if the source had one.
	Texture image.Image

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// VertexCount returns the number of vertex positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Face resolves triangle i into its attribute values. Absent texture
// coordinates and normals are zero.
func (m *Mesh) Face(i int) Face {
	t := m.Triangles[i]
	var f Face
	for k := range 3 {
		f.Vertices[k] = m.Positions[t.V[k]]
		if j := t.VT[k]; j >= 0 && j < len(m.TexCoords) {
			f.TexCoords[k] = m.TexCoords[j]
		}
		if j := t.VN[k]; j >= 0 && j < len(m.Normals) {
			f.Normals[k] = m.Normals[j]
		}
	}
	return f
}

// Faces returns the faces in triangle order. The sequence can be iterated
// any number of times and yields the same faces each time.
func (m *Mesh) Faces() iter.Seq[Face] {
	return func(yield func(Face) bool) {
		for i := range m.Triangles {
			if !yield(m.Face(i)) {
				return
			}
		}
	}
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) == 0 {
		return
	}

	m.BoundsMin = m.Positions[0]
	m.BoundsMax = m.Positions[0]

	for _, p := range m.Positions[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// CalculateSmoothNormals replaces the normals with area-weighted vertex
// normals shared by every triangle that uses the position.
func (m *Mesh) CalculateSmoothNormals() {
	m.Normals = m.smoothNormals()
	for i := range m.Triangles {
		m.Triangles[i].VN = m.Triangles[i].V
	}
}

// FillMissingNormals gives every triangle corner without a valid normal
// index the smooth normal of its position, keeping the normals the source
// supplied. It returns the number of corners filled.
func (m *Mesh) FillMissingNormals() int {
	base := len(m.Normals)
	missing := func(vn int) bool { return vn < 0 || vn >= base }

	need := false
	for _, t := range m.Triangles {
		if missing(t.VN[0]) || missing(t.VN[1]) || missing(t.VN[2]) {
			need = true
			break
		}
	}
	if !need {
		return 0
	}

	m.Normals = append(m.Normals, m.smoothNormals()...)
	filled := 0
	for i := range m.Triangles {
		t := &m.Triangles[i]
		for k := range 3 {
			if missing(t.VN[k]) {
				t.VN[k] = base + t.V[k]
				filled++
			}
		}
	}
	return filled
}

// smoothNormals returns one area-weighted normal per position.
func (m *Mesh) smoothNormals() []math3d.Vec3 {
	normals := make([]math3d.Vec3, len(m.Positions))

	for _, t := range m.Triangles {
		v0 := m.Positions[t.V[0]]
		v1 := m.Positions[t.V[1]]
		v2 := m.Positions[t.V[2]]

		// Unnormalized: the length weights by area.
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		for k := range 3 {
			normals[t.V[k]] = normals[t.V[k]].Add(n)
		}
	}

	for i, n := range normals {
		if n.LenSq() > 0 {
			normals[i] = n.Normalize()
		}
	}
	return normals
}

// Transform applies a transformation matrix to all positions and normals.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Positions {
		m.Positions[i] = mat.Transform(m.Positions[i])
	}
	for i, n := range m.Normals {
		if d := mat.MulVec3Dir(n); d.LenSq() > 0 {
			m.Normals[i] = d.Normalize()
		}
	}
	m.CalculateBounds()
}

// Normalize centers the mesh on the origin and scales it uniformly so its
// largest dimension spans [-1, 1].
func (m *Mesh) Normalize() {
	m.CalculateBounds()
	size := m.Size()
	maxDim := max(size.X, size.Y, size.Z)
	if maxDim <= 0 {
		return
	}
	scale := 2.0 / maxDim
	m.Transform(math3d.ScaleUniform(scale).Mul(math3d.Translate(m.Center().Negate())))
}
