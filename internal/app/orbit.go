package app

import (
	"math"

	"csm/internal/graphics"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	minPitch    = -89.0
	maxPitch    = 89.0
	minDistance = 2.0
	maxDistance = 150.0

	// degrees per pixel of mouse drag
	dragSensitivity = 0.25
	// fraction of the distance per scroll step
	zoomStep = 0.1
)

// axis is one spring-smoothed orbit parameter
type axis struct {
	Value  float64
	Target float64
	vel    float64
	spring harmonica.Spring
}

func newAxis(fps int, value float64) axis {
	return axis{
		Value:  value,
		Target: value,
		// critically damped, no overshoot past the pitch limits
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

func (a *axis) update() {
	a.Value, a.vel = a.spring.Update(a.Value, a.vel, a.Target)
}

// Orbit moves the camera on a sphere around a centre point. Input only
// changes the targets; Update eases the camera towards them.
type Orbit struct {
	Center mgl64.Vec3

	Yaw, Pitch, Distance axis

	fps     int
	initial [3]float64
}

// NewOrbit creates an orbit around center. Angles are in degrees.
func NewOrbit(fps int, center mgl64.Vec3, yaw, pitch, distance float64) *Orbit {
	if fps <= 0 {
		fps = 60
	}
	o := &Orbit{Center: center, fps: fps, initial: [3]float64{yaw, pitch, distance}}
	o.Reset()
	return o
}

// Reset snaps back to the initial pose
func (o *Orbit) Reset() {
	o.Yaw = newAxis(o.fps, o.initial[0])
	o.Pitch = newAxis(o.fps, clamp(o.initial[1], minPitch, maxPitch))
	o.Distance = newAxis(o.fps, clamp(o.initial[2], minDistance, maxDistance))
}

// Drag rotates the target pose by a mouse delta in pixels
func (o *Orbit) Drag(dx, dy float64) {
	o.Yaw.Target += dx * dragSensitivity
	o.Pitch.Target = clamp(o.Pitch.Target+dy*dragSensitivity, minPitch, maxPitch)
}

// Zoom scales the target distance; positive steps move closer
func (o *Orbit) Zoom(steps float64) {
	o.Distance.Target = clamp(o.Distance.Target*math.Pow(1-zoomStep, steps), minDistance, maxDistance)
}

// Update advances the springs by one frame
func (o *Orbit) Update() {
	o.Yaw.update()
	o.Pitch.update()
	o.Distance.update()
}

// Position is the current eye position
func (o *Orbit) Position() mgl64.Vec3 {
	yaw := mgl64.DegToRad(o.Yaw.Value)
	pitch := mgl64.DegToRad(clamp(o.Pitch.Value, minPitch, maxPitch))
	d := o.Distance.Value
	offset := mgl64.Vec3{
		d * math.Cos(pitch) * math.Sin(yaw),
		d * math.Sin(pitch),
		d * math.Cos(pitch) * math.Cos(yaw),
	}
	return o.Center.Add(offset)
}

// Apply points the camera at the centre from the current position
func (o *Orbit) Apply(cam *graphics.Camera) {
	cam.LookAt(o.Position(), o.Center)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
