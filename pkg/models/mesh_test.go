package models

import (
	"math"
	"testing"

	"github.com/taigrr/softraster/pkg/math3d"
)

func twoTriangleMesh() *Mesh {
	m := NewMesh("test")
	m.Positions = []math3d.Vec3{
		math3d.V3(0, 0, 0), math3d.V3(4, 0, 0), math3d.V3(0, 2, 0), math3d.V3(0, 0, 8),
	}
	m.Triangles = []Triangle{
		{V: [3]int{0, 1, 2}, VT: [3]int{-1, -1, -1}, VN: [3]int{-1, -1, -1}, Material: -1},
		{V: [3]int{0, 2, 3}, VT: [3]int{-1, -1, -1}, VN: [3]int{-1, -1, -1}, Material: 0},
	}
	m.Materials = []Material{{Name: "red", BaseColor: [4]float64{1, 0, 0, 1}}}
	return m
}

func TestFacesIsRestartable(t *testing.T) {
	m := twoTriangleMesh()

	var first, second []Face
	for f := range m.Faces() {
		first = append(first, f)
	}
	for f := range m.Faces() {
		second = append(second, f)
	}

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("got %d and %d faces, want 2 each", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("face %d differs between iterations", i)
		}
	}
}

func TestFacesEarlyBreak(t *testing.T) {
	m := twoTriangleMesh()
	n := 0
	for range m.Faces() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("visited %d faces, want 1", n)
	}
}

func TestGetMaterial(t *testing.T) {
	m := twoTriangleMesh()
	if mat := m.GetMaterial(0); mat == nil || mat.Name != "red" {
		t.Errorf("GetMaterial(0) should return 'red' material")
	}
	if m.GetMaterial(-1) != nil {
		t.Errorf("GetMaterial(-1) should return nil")
	}
	if m.GetMaterial(99) != nil {
		t.Errorf("GetMaterial(99) should return nil for out-of-bounds")
	}
}

func TestCalculateSmoothNormals(t *testing.T) {
	m := twoTriangleMesh()
	m.CalculateSmoothNormals()

	// Vertex 1 only touches the z-facing triangle.
	if n := m.Normals[1]; n != math3d.V3(0, 0, 1) {
		t.Errorf("normal 1 = %v, want (0, 0, 1)", n)
	}
	// Vertex 0 is shared; its normal blends both faces and stays unit length.
	if l := m.Normals[0].Len(); math.Abs(l-1) > 1e-9 {
		t.Errorf("normal 0 length = %v, want 1", l)
	}
	if m.Triangles[1].VN != m.Triangles[1].V {
		t.Errorf("VN should index the synthesized normals")
	}
}

func TestFillMissingNormals(t *testing.T) {
	m := twoTriangleMesh()
	m.Normals = []math3d.Vec3{math3d.V3(0, 1, 0)}
	m.Triangles[0].VN = [3]int{0, 0, 0}

	if n := m.FillMissingNormals(); n != 3 {
		t.Fatalf("filled %d corners, want 3", n)
	}
	if got := m.Face(0).Normals[0]; got != math3d.V3(0, 1, 0) {
		t.Errorf("supplied normal changed to %v", got)
	}
	// Position 3 belongs only to the second triangle, in the plane x=0.
	if got := m.Face(1).Normals[2]; got != math3d.V3(1, 0, 0) {
		t.Errorf("synthesized normal = %v, want (1, 0, 0)", got)
	}
	if n := m.FillMissingNormals(); n != 0 {
		t.Errorf("second call filled %d corners, want 0", n)
	}
}

func TestNormalizeFitsUnitCube(t *testing.T) {
	m := twoTriangleMesh()
	m.Normalize()

	if m.BoundsMax.Z != 1 || m.BoundsMin.Z != -1 {
		t.Errorf("largest axis should span [-1, 1], got %v..%v", m.BoundsMin, m.BoundsMax)
	}
	if c := m.Center(); c.Len() > 1e-12 {
		t.Errorf("center = %v, want origin", c)
	}
	if s := m.Size(); math.Abs(s.X-1) > 1e-12 || math.Abs(s.Y-0.5) > 1e-12 {
		t.Errorf("size = %v, want (1, 0.5, 2)", s)
	}
}
