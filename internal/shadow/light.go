package shadow

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	worldUp    = mgl32.Vec3{0, 1, 0}
	fallbackUp = mgl32.Vec3{0, 0, 1}
)

// parallelLimit is |cos| above which the light is treated as vertical.
const parallelLimit = 0.999

// BuildLightMatrices returns the light view and orthographic projection that
// enclose sphere when looking along lightDir (the direction light travels).
// The eye sits one radius back from the centre, so the sphere spans light-space
// depth [0, 2r] and [-r, r] on X and Y.
func BuildLightMatrices(sphere BoundingSphere, lightDir mgl32.Vec3) (view, proj mgl32.Mat4, err error) {
	dir, err := normalizeLightDir(lightDir)
	if err != nil {
		return view, proj, err
	}
	if !isFinite(sphere.Radius) || sphere.Radius <= 0 {
		return view, proj, fmt.Errorf("%w: radius %v", ErrNonFiniteMatrix, sphere.Radius)
	}

	r := sphere.Radius
	eye := sphere.Center.Sub(dir.Mul(r))

	up := worldUp
	if abs32(dir.Dot(up)) > parallelLimit {
		up = fallbackUp
	}

	view = mgl32.LookAtV(eye, sphere.Center, up)
	proj = mgl32.Ortho(-r, r, -r, r, 0, 2*r)

	if !matrixFinite(view) || !matrixFinite(proj) {
		return view, proj, ErrNonFiniteMatrix
	}
	return view, proj, nil
}

func normalizeLightDir(d mgl32.Vec3) (mgl32.Vec3, error) {
	if !isFinite(d[0]) || !isFinite(d[1]) || !isFinite(d[2]) {
		return d, fmt.Errorf("%w: %v", ErrInvalidLightDir, d)
	}
	l := d.Len()
	if l < 1e-6 {
		return d, fmt.Errorf("%w: zero length", ErrInvalidLightDir)
	}
	return d.Mul(1 / l), nil
}

func matrixFinite(m mgl32.Mat4) bool {
	for _, v := range m {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

func abs32(x float32) float32 {
	return float32(math.Abs(float64(x)))
}
