package mesh

import "github.com/go-gl/mathgl/mgl32"

// Cube returns an axis-aligned cube of the given edge length centred on the
// origin, with per-face normals and CCW front faces.
func Cube(size float32) *Mesh {
	h := size / 2
	faces := []struct {
		n       mgl32.Vec3
		u, v, w mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{-1, 0, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}},
	}

	m := New("cube")
	for _, f := range faces {
		base := uint32(len(m.Positions))
		c := f.w.Mul(h)
		u, v := f.u.Mul(h), f.v.Mul(h)
		m.Positions = append(m.Positions,
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v),
		)
		m.Normals = append(m.Normals, f.n, f.n, f.n, f.n)
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	m.CalculateBounds()
	return m
}

// Plane returns a square ground plane at y=0 facing +Y.
func Plane(size float32) *Mesh {
	h := size / 2
	m := New("plane")
	m.Positions = []mgl32.Vec3{{-h, 0, h}, {h, 0, h}, {h, 0, -h}, {-h, 0, -h}}
	up := mgl32.Vec3{0, 1, 0}
	m.Normals = []mgl32.Vec3{up, up, up, up}
	m.Indices = []uint32{0, 1, 2, 0, 2, 3}
	m.CalculateBounds()
	return m
}
