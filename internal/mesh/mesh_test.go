package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCubeWinding(t *testing.T) {
	c := Cube(2)
	if len(c.Positions) != 24 || len(c.Indices) != 36 {
		t.Fatalf("cube: got %d vertices %d indices, want 24/36", len(c.Positions), len(c.Indices))
	}
	for i := 0; i < len(c.Indices); i += 3 {
		a, b, d := c.Positions[c.Indices[i]], c.Positions[c.Indices[i+1]], c.Positions[c.Indices[i+2]]
		geom := b.Sub(a).Cross(d.Sub(a))
		if geom.Dot(c.Normals[c.Indices[i]]) <= 0 {
			t.Errorf("triangle %d winds against its normal", i/3)
		}
	}
	if c.Min != (mgl32.Vec3{-1, -1, -1}) || c.Max != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("bounds = %v..%v, want -1..1", c.Min, c.Max)
	}
}

func TestPlaneFacesUp(t *testing.T) {
	p := Plane(10)
	a, b, c := p.Positions[0], p.Positions[1], p.Positions[2]
	if n := b.Sub(a).Cross(c.Sub(a)); n.Y() <= 0 {
		t.Errorf("plane winding normal = %v, want +Y", n)
	}
	if p.Max.X() != 5 || p.Min.Z() != -5 {
		t.Errorf("plane bounds = %v..%v", p.Min, p.Max)
	}
}

func TestAppendRebasesIndices(t *testing.T) {
	m := Plane(2)
	m.Append(Plane(4))
	if len(m.Positions) != 8 || len(m.Indices) != 12 {
		t.Fatalf("got %d vertices %d indices", len(m.Positions), len(m.Indices))
	}
	for _, idx := range m.Indices[6:] {
		if idx < 4 {
			t.Errorf("appended index %d not rebased", idx)
		}
	}
	if m.Max.X() != 2 {
		t.Errorf("bounds not refreshed: max %v", m.Max)
	}
}

func TestTransformMovesBoundsAndNormals(t *testing.T) {
	c := Cube(1)
	c.Transform(mgl32.Translate3D(10, 0, 0).Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(90))))
	if !c.Min.ApproxEqualThreshold(mgl32.Vec3{9.5, -0.5, -0.5}, 1e-5) {
		t.Errorf("min = %v", c.Min)
	}
	for i, n := range c.Normals {
		if l := n.Len(); l < 0.999 || l > 1.001 {
			t.Errorf("normal %d not unit after transform: %v", i, n)
		}
	}
}

func TestComputeNormals(t *testing.T) {
	p := Plane(2)
	p.Normals = nil
	p.ComputeNormals()
	for i, n := range p.Normals {
		if !n.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6) {
			t.Errorf("normal %d = %v, want +Y", i, n)
		}
	}
}

func TestInterleaved(t *testing.T) {
	p := Plane(2)
	data := p.Interleaved()
	if len(data) != 4*FloatsPerVertex {
		t.Fatalf("got %d floats", len(data))
	}
	if data[0] != -1 || data[4] != 1 {
		t.Errorf("first vertex = %v", data[:FloatsPerVertex])
	}
}
