package shadow

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultQuantization is the radius rounding step in world units.
const DefaultQuantization = 1.0 / 16.0

// BoundingSphere encloses one cascade's sub-frustum.
type BoundingSphere struct {
	Center mgl32.Vec3
	Radius float32
}

// FitSphere returns a sphere centred on the corners' mean whose radius is the
// largest corner distance rounded up to a multiple of step. Keeping the radius
// on a coarse grid stops the light frustum from resizing on every small camera
// move, which shows up as shimmering shadow edges.
func FitSphere(corners FrustumCorners, step float32) BoundingSphere {
	if !(step > 0) || !isFinite(step) {
		step = DefaultQuantization
	}

	center := corners.Center()
	var radius float32
	for _, p := range corners {
		if d := p.Sub(center).Len(); d > radius {
			radius = d
		}
	}

	radius = float32(math.Ceil(float64(radius/step))) * step
	if radius < step {
		// all corners coincide; keep the ortho volume non-singular
		radius = step
	}

	return BoundingSphere{Center: center, Radius: radius}
}

// Contains reports whether p lies inside the sphere, allowing eps slack.
func (s BoundingSphere) Contains(p mgl32.Vec3, eps float32) bool {
	return p.Sub(s.Center).Len() <= s.Radius+eps
}
