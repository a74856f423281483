package shadow

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCascadesEndToEnd(t *testing.T) {
	s := DefaultSettings()
	s.LightDir = mgl32.Vec3{0, 0, -1}
	c, err := NewCascades(s)
	if err != nil {
		t.Fatal(err)
	}

	cam := testCamera(0.1, 100)
	if err := c.Update(cam); err != nil {
		t.Fatal(err)
	}
	slices, _, err := FrustumSlices(cam, s.Lambda)
	if err != nil {
		t.Fatal(err)
	}

	recs := c.Records()
	prevFrac, prevDepth := float32(0), float32(-0.1)
	for i, rec := range recs {
		if !rec.Valid {
			t.Fatalf("cascade %d invalid", i)
		}
		if rec.Index != i {
			t.Errorf("cascade %d has index %d", i, rec.Index)
		}
		if rec.SplitFraction <= prevFrac {
			t.Errorf("cascade %d fraction %v not after %v", i, rec.SplitFraction, prevFrac)
		}
		if rec.SplitDepth >= prevDepth {
			t.Errorf("cascade %d depth %v not beyond %v", i, rec.SplitDepth, prevDepth)
		}
		prevFrac, prevDepth = rec.SplitFraction, rec.SplitDepth

		center := slices[i].Center()
		lv := rec.View.Mul4x1(center.Vec4(1))
		tol := 1e-4 * (1 + rec.Sphere.Radius)
		if abs32(lv.X()) > tol || abs32(lv.Y()) > tol {
			t.Errorf("cascade %d: frustum centre maps to %v in light view, want XY origin", i, lv)
		}
		if !rec.ViewProj.ApproxEqualThreshold(rec.Proj.Mul4(rec.View), 1e-6) {
			t.Errorf("cascade %d: ViewProj is not Proj*View", i)
		}
		for k, p := range slices[i] {
			clip := rec.ViewProj.Mul4x1(p.Vec4(1))
			if !insideClip(clip, 1e-3) {
				t.Errorf("cascade %d corner %d outside light clip volume: %v", i, k, clip)
			}
		}
	}
	if recs[CascadeCount-1].SplitFraction != 1 {
		t.Errorf("last fraction = %v, want 1", recs[CascadeCount-1].SplitFraction)
	}
	if d := recs[CascadeCount-1].SplitDepth; math.Abs(float64(d+100)) > 1e-4 {
		t.Errorf("last split depth = %v, want -100", d)
	}
}

func TestCascadesRadiiGrowWithDistance(t *testing.T) {
	c, err := NewCascades(DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	cam := testCamera(0.1, 500)
	cam.View = mgl32.LookAtV(mgl32.Vec3{20, 10, 20}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	if err := c.Update(cam); err != nil {
		t.Fatal(err)
	}
	prev := float32(0)
	for i := 0; i < CascadeCount; i++ {
		r := c.At(i).Sphere.Radius
		if r <= prev {
			t.Errorf("cascade %d radius %v not larger than %v", i, r, prev)
		}
		prev = r
	}
}

func TestCascadesInvalidCamera(t *testing.T) {
	c, err := NewCascades(DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Update(testCamera(0.1, 100)); err != nil {
		t.Fatal(err)
	}

	bad := testCamera(0.1, 100)
	bad.Near = 0
	if err := c.Update(bad); !errors.Is(err, ErrInvalidDepthRange) {
		t.Fatalf("got %v, want ErrInvalidDepthRange", err)
	}
	for i, rec := range c.Records() {
		if rec.Valid {
			t.Errorf("cascade %d still valid after rejected update", i)
		}
		if rec.ViewProj != (mgl32.Mat4{}) {
			t.Errorf("cascade %d kept a stale matrix", i)
		}
	}
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	bad := s
	bad.Lambda = 2
	if _, err := NewCascades(bad); !errors.Is(err, ErrInvalidLambda) {
		t.Errorf("lambda 2: got %v", err)
	}
	bad = s
	bad.LightDir = mgl32.Vec3{}
	if _, err := NewCascades(bad); !errors.Is(err, ErrInvalidLightDir) {
		t.Errorf("zero light: got %v", err)
	}
	bad = s
	bad.Quantization = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero quantization accepted")
	}

	c, _ := NewCascades(s)
	if err := c.SetSettings(bad); err == nil {
		t.Error("SetSettings accepted invalid settings")
	}
	if c.Settings() != s {
		t.Error("rejected settings replaced the current ones")
	}
}

func BenchmarkCascadesUpdate(b *testing.B) {
	c, err := NewCascades(DefaultSettings())
	if err != nil {
		b.Fatal(err)
	}
	cam := testCamera(0.1, 1000)
	cam.View = mgl32.LookAtV(mgl32.Vec3{5, 3, 5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Update(cam)
	}
}
