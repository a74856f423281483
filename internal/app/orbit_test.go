package app

import (
	"math"
	"testing"

	"csm/internal/graphics"

	"github.com/go-gl/mathgl/mgl64"
)

func settle(o *Orbit, frames int) {
	for i := 0; i < frames; i++ {
		o.Update()
	}
}

func TestOrbitInitialPosition(t *testing.T) {
	o := NewOrbit(60, mgl64.Vec3{}, 0, 0, 10)
	got := o.Position()
	if !got.ApproxEqualThreshold(mgl64.Vec3{0, 0, 10}, 1e-9) {
		t.Fatalf("got %v, want (0,0,10)", got)
	}
}

func TestOrbitConvergesToTarget(t *testing.T) {
	o := NewOrbit(60, mgl64.Vec3{1, 2, 3}, 0, 20, 30)
	o.Drag(360, 0) // +90 degrees yaw
	settle(o, 600)

	if math.Abs(o.Yaw.Value-90) > 1e-3 {
		t.Fatalf("yaw = %v, want 90", o.Yaw.Value)
	}
	dist := o.Position().Sub(o.Center).Len()
	if math.Abs(dist-30) > 1e-3 {
		t.Errorf("distance from centre = %v, want 30", dist)
	}
}

func TestOrbitSmoothsMotion(t *testing.T) {
	o := NewOrbit(60, mgl64.Vec3{}, 0, 0, 10)
	o.Drag(400, 0)
	o.Update()
	if o.Yaw.Value <= 0 || o.Yaw.Value >= o.Yaw.Target {
		t.Fatalf("first frame yaw = %v, want strictly between 0 and %v", o.Yaw.Value, o.Yaw.Target)
	}
}

func TestOrbitPitchClamped(t *testing.T) {
	o := NewOrbit(60, mgl64.Vec3{}, 0, 0, 10)
	o.Drag(0, 10000)
	if o.Pitch.Target != maxPitch {
		t.Fatalf("pitch target = %v, want %v", o.Pitch.Target, maxPitch)
	}
	o.Drag(0, -100000)
	if o.Pitch.Target != minPitch {
		t.Fatalf("pitch target = %v, want %v", o.Pitch.Target, minPitch)
	}
}

func TestOrbitZoomClamped(t *testing.T) {
	o := NewOrbit(60, mgl64.Vec3{}, 0, 0, 10)
	o.Zoom(1)
	if math.Abs(o.Distance.Target-9) > 1e-9 {
		t.Errorf("one zoom step: got %v, want 9", o.Distance.Target)
	}
	o.Zoom(1000)
	if o.Distance.Target != minDistance {
		t.Errorf("got %v, want %v", o.Distance.Target, minDistance)
	}
	o.Zoom(-1000)
	if o.Distance.Target != maxDistance {
		t.Errorf("got %v, want %v", o.Distance.Target, maxDistance)
	}
}

func TestOrbitReset(t *testing.T) {
	o := NewOrbit(60, mgl64.Vec3{}, 45, 30, 20)
	o.Drag(100, 100)
	o.Zoom(3)
	settle(o, 10)
	o.Reset()
	if o.Yaw.Value != 45 || o.Pitch.Value != 30 || o.Distance.Value != 20 {
		t.Fatalf("reset pose = %v/%v/%v", o.Yaw.Value, o.Pitch.Value, o.Distance.Value)
	}
}

func TestOrbitApply(t *testing.T) {
	o := NewOrbit(60, mgl64.Vec3{}, 0, 0, 10)
	cam := graphics.NewCamera(800, 600)
	o.Apply(cam)
	if !cam.Position.ApproxEqualThreshold(mgl64.Vec3{0, 0, 10}, 1e-9) {
		t.Errorf("camera position = %v", cam.Position)
	}
	fwd := cam.Forward()
	if fwd[2] > -0.999 {
		t.Errorf("forward = %v, want -Z", fwd)
	}
}
