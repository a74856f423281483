package shadow

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func randomCorners(r *rand.Rand, scale float32) FrustumCorners {
	var fc FrustumCorners
	for i := range fc {
		fc[i] = mgl32.Vec3{
			(r.Float32()*2 - 1) * scale,
			(r.Float32()*2 - 1) * scale,
			(r.Float32()*2 - 1) * scale,
		}
	}
	return fc
}

func TestFitSphereEncloses(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for n := 0; n < 200; n++ {
		corners := randomCorners(r, 1+float32(n))
		s := FitSphere(corners, DefaultQuantization)

		for i, p := range corners {
			if !s.Contains(p, 1e-4) {
				t.Fatalf("set %d: corner %d %v outside sphere %v r=%v", n, i, p, s.Center, s.Radius)
			}
		}
		var maxHalf float32
		for i := range corners {
			for j := i + 1; j < len(corners); j++ {
				if h := corners[i].Sub(corners[j]).Len() / 2; h > maxHalf {
					maxHalf = h
				}
			}
		}
		if s.Radius < maxHalf {
			t.Fatalf("set %d: radius %v below max half distance %v", n, s.Radius, maxHalf)
		}
		steps := float64(s.Radius / DefaultQuantization)
		if steps != math.Trunc(steps) {
			t.Fatalf("set %d: radius %v not a multiple of 1/16", n, s.Radius)
		}
	}
}

func TestFitSphereQuantizesUp(t *testing.T) {
	var fc FrustumCorners
	fc[0] = mgl32.Vec3{1.01, 0, 0}
	fc[1] = mgl32.Vec3{-1.01, 0, 0}
	for i := 2; i < 8; i++ {
		fc[i] = mgl32.Vec3{0, 0, 0}
	}
	s := FitSphere(fc, 0.0625)
	if s.Radius != 1.0625 {
		t.Errorf("radius = %v, want 1.0625", s.Radius)
	}
	if s.Center != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("center = %v, want origin", s.Center)
	}
}

func TestFitSphereStableUnderSmallMotion(t *testing.T) {
	cam := testCamera(0.1, 100)
	slices, _, err := FrustumSlices(cam, DefaultSplitLambda)
	if err != nil {
		t.Fatal(err)
	}
	base := FitSphere(slices[2], DefaultQuantization)

	// translating the whole slice leaves the radius unchanged
	offset := mgl32.Vec3{0.003, -0.002, 0.001}
	var moved FrustumCorners
	for i, p := range slices[2] {
		moved[i] = p.Add(offset)
	}
	if got := FitSphere(moved, DefaultQuantization); got.Radius != base.Radius {
		t.Errorf("radius changed from %v to %v after translation", base.Radius, got.Radius)
	}
}

func TestFitSphereDegenerate(t *testing.T) {
	var fc FrustumCorners
	for i := range fc {
		fc[i] = mgl32.Vec3{4, 5, 6}
	}
	s := FitSphere(fc, DefaultQuantization)
	if s.Radius != DefaultQuantization {
		t.Errorf("radius = %v, want clamp to %v", s.Radius, DefaultQuantization)
	}
	if _, _, err := BuildLightMatrices(s, mgl32.Vec3{0, -1, 0}); err != nil {
		t.Errorf("clamped sphere should build matrices: %v", err)
	}

	if s := FitSphere(fc, 0); s.Radius != DefaultQuantization {
		t.Errorf("zero step: radius = %v, want default step", s.Radius)
	}
}
