package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane is ax + by + cz + d = 0 with a unit normal pointing inside
type Plane struct {
	A, B, C, D float32
}

// Plane indices as returned by ExtractFrustumPlanes
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// ExtractFrustumPlanes builds six planes from a combined projection*view
// matrix, in order left, right, bottom, top, near, far.
func ExtractFrustumPlanes(clip mgl32.Mat4) [6]Plane {
	// Matrix is in column-major order in mgl32
	m00, m01, m02, m03 := clip[0], clip[4], clip[8], clip[12]
	m10, m11, m12, m13 := clip[1], clip[5], clip[9], clip[13]
	m20, m21, m22, m23 := clip[2], clip[6], clip[10], clip[14]
	m30, m31, m32, m33 := clip[3], clip[7], clip[11], clip[15]

	return [6]Plane{
		normalizePlane(Plane{m30 + m00, m31 + m01, m32 + m02, m33 + m03}),
		normalizePlane(Plane{m30 - m00, m31 - m01, m32 - m02, m33 - m03}),
		normalizePlane(Plane{m30 + m10, m31 + m11, m32 + m12, m33 + m13}),
		normalizePlane(Plane{m30 - m10, m31 - m11, m32 - m12, m33 - m13}),
		normalizePlane(Plane{m30 + m20, m31 + m21, m32 + m22, m33 + m23}),
		normalizePlane(Plane{m30 - m20, m31 - m21, m32 - m22, m33 - m23}),
	}
}

// CasterPlanes drops the near plane of a light frustum: geometry between the
// light and the near plane still casts into the map (depth clamp keeps it).
func CasterPlanes(lightViewProj mgl32.Mat4) []Plane {
	p := ExtractFrustumPlanes(lightViewProj)
	return []Plane{p[PlaneLeft], p[PlaneRight], p[PlaneBottom], p[PlaneTop], p[PlaneFar]}
}

func normalizePlane(p Plane) Plane {
	l := float32(math.Sqrt(float64(p.A*p.A + p.B*p.B + p.C*p.C)))
	if l == 0 {
		return p
	}
	return Plane{p.A / l, p.B / l, p.C / l, p.D / l}
}

// IntersectsAABB reports whether the box is at least partly inside all planes
func IntersectsAABB(min, max mgl32.Vec3, planes []Plane) bool {
	for _, p := range planes {
		// Select the positive vertex for this plane normal
		px := max.X()
		if p.A < 0 {
			px = min.X()
		}
		py := max.Y()
		if p.B < 0 {
			py = min.Y()
		}
		pz := max.Z()
		if p.C < 0 {
			pz = min.Z()
		}
		// If positive vertex is outside, AABB is outside
		if p.A*px+p.B*py+p.C*pz+p.D < 0 {
			return false
		}
	}
	return true
}

// TransformAABB returns the world-space box enclosing a transformed local box
func TransformAABB(min, max mgl32.Vec3, model mgl32.Mat4) (mgl32.Vec3, mgl32.Vec3) {
	var outMin, outMax mgl32.Vec3
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{min.X(), min.Y(), min.Z()}
		if i&1 != 0 {
			c[0] = max.X()
		}
		if i&2 != 0 {
			c[1] = max.Y()
		}
		if i&4 != 0 {
			c[2] = max.Z()
		}
		w := model.Mul4x1(c.Vec4(1)).Vec3()
		if i == 0 {
			outMin, outMax = w, w
			continue
		}
		for k := 0; k < 3; k++ {
			outMin[k] = float32(math.Min(float64(outMin[k]), float64(w[k])))
			outMax[k] = float32(math.Max(float64(outMax[k]), float64(w[k])))
		}
	}
	return outMin, outMax
}
