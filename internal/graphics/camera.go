package graphics

import (
	"csm/internal/shadow"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera holds the view frustum the shadow cascades partition. Position and
// target are kept in double precision and folded into the float32 view
// matrix when it is built.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		Position:  mgl64.Vec3{10, 10, 10},
		Target:    mgl64.Vec3{0, 0, 0},
		Up:        mgl64.Vec3{0, 1, 0},
		FOV:       60.0,
		NearPlane: 0.1,
		FarPlane:  200.0,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio; zero-height windows keep the old one.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		if c.AspectRatio == 0 {
			c.AspectRatio = 1
		}
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// LookAt places the camera at pos looking at target.
func (c *Camera) LookAt(pos, target mgl64.Vec3) {
	c.Position = pos
	c.Target = target
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return Mat4From64(mgl64.LookAtV(c.Position, c.Target, c.Up))
}

// Forward returns the unit viewing direction.
func (c *Camera) Forward() mgl32.Vec3 {
	f := c.Target.Sub(c.Position)
	if f.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	f = f.Normalize()
	return mgl32.Vec3{float32(f[0]), float32(f[1]), float32(f[2])}
}

// Snapshot captures the state consumed by a cascade update.
func (c *Camera) Snapshot() shadow.CameraSnapshot {
	return shadow.CameraSnapshot{
		Near: c.NearPlane,
		Far:  c.FarPlane,
		View: c.GetViewMatrix(),
		Proj: c.GetProjectionMatrix(),
	}
}

// Mat4From64 narrows a double-precision matrix.
func Mat4From64(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
