package scene

import (
	"testing"

	"csm/internal/shadow"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCascadeUniformsMasksInvalid(t *testing.T) {
	var cs [shadow.CascadeCount]shadow.Cascade
	for i := range cs {
		cs[i] = shadow.Cascade{
			Index:      i,
			SplitDepth: -float32(10 * (i + 1)),
			ViewProj:   mgl32.Translate3D(float32(i), 0, 0),
			Valid:      i != 2,
		}
	}

	matrices, distances, mask := CascadeUniforms(cs)

	if mask != 0b1011 {
		t.Fatalf("mask = %04b, want 1011", mask)
	}
	for i, d := range distances {
		if want := float32(10 * (i + 1)); d != want {
			t.Errorf("distance[%d] = %v, want %v", i, d, want)
		}
	}
	if matrices[2] != mgl32.Ident4() {
		t.Errorf("invalid cascade matrix = %v, want identity", matrices[2])
	}
	if matrices[1] != cs[1].ViewProj {
		t.Errorf("matrix[1] not forwarded")
	}
}

func TestCascadeUniformsFromUpdate(t *testing.T) {
	c, err := shadow.NewCascades(shadow.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	cam := shadow.CameraSnapshot{
		Near: 0.1,
		Far:  100,
		View: mgl32.LookAtV(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
		Proj: mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.1, 100),
	}
	if err := c.Update(cam); err != nil {
		t.Fatal(err)
	}

	_, distances, mask := CascadeUniforms(c.Records())
	if mask != 1<<shadow.CascadeCount-1 {
		t.Fatalf("mask = %b, want all cascades valid", mask)
	}
	if got := distances[shadow.CascadeCount-1]; mgl32.Abs(got-100) > 1e-3 {
		t.Errorf("last distance = %v, want 100", got)
	}
	for i := 1; i < shadow.CascadeCount; i++ {
		if distances[i] <= distances[i-1] {
			t.Errorf("distances not increasing at %d: %v", i, distances)
		}
	}
}
