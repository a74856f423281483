package shadow

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func insideClip(p mgl32.Vec4, eps float32) bool {
	ndc := p.Vec3().Mul(1 / p.W())
	for _, v := range ndc {
		if v < -1-eps || v > 1+eps {
			return false
		}
	}
	return true
}

func TestBuildLightMatricesEnclosesSphere(t *testing.T) {
	dirs := []mgl32.Vec3{
		{0, 0, -1},
		{0, -1, 0},
		{0, 1, 0},
		{-0.4, -1, -0.3},
		{1, 0, 0},
		{0.001, -1, 0.001},
	}
	spheres := []BoundingSphere{
		{Center: mgl32.Vec3{0, 0, 0}, Radius: 1},
		{Center: mgl32.Vec3{3, 4, 5}, Radius: 10},
		{Center: mgl32.Vec3{-120, 40, 900}, Radius: 60.5},
	}
	for _, dir := range dirs {
		for _, s := range spheres {
			view, proj, err := BuildLightMatrices(s, dir)
			if err != nil {
				t.Fatalf("dir %v sphere %v: %v", dir, s, err)
			}
			vp := proj.Mul4(view)

			// light-space axes in world space are the rows of the view rotation
			axes := [3]mgl32.Vec3{view.Row(0).Vec3(), view.Row(1).Vec3(), view.Row(2).Vec3()}
			probes := []mgl32.Vec3{s.Center}
			for _, a := range axes {
				probes = append(probes, s.Center.Add(a.Mul(s.Radius)), s.Center.Sub(a.Mul(s.Radius)))
			}
			for _, p := range probes {
				if clip := vp.Mul4x1(p.Vec4(1)); !insideClip(clip, 1e-3) {
					t.Errorf("dir %v sphere %v: probe %v maps outside clip cube: %v", dir, s, p, clip)
				}
			}
		}
	}
}

func TestBuildLightMatricesCentersSphere(t *testing.T) {
	s := BoundingSphere{Center: mgl32.Vec3{3, 4, 5}, Radius: 8}
	view, proj, err := BuildLightMatrices(s, mgl32.Vec3{0, 0, -2})
	if err != nil {
		t.Fatal(err)
	}
	c := view.Mul4x1(s.Center.Vec4(1))
	if abs32(c.X()) > 1e-4 || abs32(c.Y()) > 1e-4 {
		t.Errorf("centre in light view = %v, want on the light axis", c)
	}
	if d := c.Z() + s.Radius; abs32(d) > 1e-4 {
		t.Errorf("centre depth = %v, want %v", c.Z(), -s.Radius)
	}
	// depth range runs 0..2r
	want := mgl32.Ortho(-8, 8, -8, 8, 0, 16)
	if !proj.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("proj = %v, want %v", proj, want)
	}
}

func TestBuildLightMatricesEyeBehindCentre(t *testing.T) {
	s := BoundingSphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 4}
	dir := mgl32.Vec3{0, -1, 0}
	view, _, err := BuildLightMatrices(s, dir)
	if err != nil {
		t.Fatal(err)
	}
	// eye is at +Y, so a point below the centre is further from the light
	above := view.Mul4x1(mgl32.Vec4{0, 2, 0, 1})
	below := view.Mul4x1(mgl32.Vec4{0, -2, 0, 1})
	if !(below.Z() < above.Z()) {
		t.Errorf("below z %v should be deeper than above z %v", below.Z(), above.Z())
	}
}

func TestBuildLightMatricesRejects(t *testing.T) {
	s := BoundingSphere{Radius: 1}
	if _, _, err := BuildLightMatrices(s, mgl32.Vec3{}); !errors.Is(err, ErrInvalidLightDir) {
		t.Errorf("zero dir: got %v", err)
	}
	nan := float32(0)
	nan = nan / nan
	if _, _, err := BuildLightMatrices(s, mgl32.Vec3{nan, 1, 0}); !errors.Is(err, ErrInvalidLightDir) {
		t.Errorf("nan dir: got %v", err)
	}
	if _, _, err := BuildLightMatrices(BoundingSphere{}, mgl32.Vec3{0, -1, 0}); !errors.Is(err, ErrNonFiniteMatrix) {
		t.Errorf("zero radius: got %v", err)
	}
}
