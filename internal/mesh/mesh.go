// Package mesh holds CPU-side triangle geometry for shadow casters and
// receivers: glTF loading, a few primitives and the vertex layout uploaded
// by the scene renderable.
package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle list.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32

	Min mgl32.Vec3
	Max mgl32.Vec3
}

// FloatsPerVertex is the interleaved layout: position xyz, normal xyz.
const FloatsPerVertex = 6

// New returns an empty mesh.
func New(name string) *Mesh {
	return &Mesh{Name: name}
}

// Append merges other into m, rebasing its indices.
func (m *Mesh) Append(other *Mesh) {
	base := uint32(len(m.Positions))
	m.Positions = append(m.Positions, other.Positions...)
	m.Normals = append(m.Normals, other.Normals...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
	m.CalculateBounds()
}

// Transform applies a model matrix to positions and the matching normal
// matrix to normals.
func (m *Mesh) Transform(model mgl32.Mat4) {
	normalMat := model.Mat3().Inv().Transpose()
	for i, p := range m.Positions {
		m.Positions[i] = model.Mul4x1(p.Vec4(1)).Vec3()
	}
	for i, n := range m.Normals {
		if t := normalMat.Mul3x1(n); t.Len() > 0 {
			m.Normals[i] = t.Normalize()
		}
	}
	m.CalculateBounds()
}

// CalculateBounds refreshes Min and Max.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) == 0 {
		m.Min, m.Max = mgl32.Vec3{}, mgl32.Vec3{}
		return
	}
	inf := float32(math.Inf(1))
	lo := mgl32.Vec3{inf, inf, inf}
	hi := mgl32.Vec3{-inf, -inf, -inf}
	for _, p := range m.Positions {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	m.Min, m.Max = lo, hi
}

// ComputeNormals replaces normals with area-weighted vertex normals.
func (m *Mesh) ComputeNormals() {
	m.Normals = make([]mgl32.Vec3, len(m.Positions))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if int(a) >= len(m.Positions) || int(b) >= len(m.Positions) || int(c) >= len(m.Positions) {
			continue
		}
		pa, pb, pc := m.Positions[a], m.Positions[b], m.Positions[c]
		// cross product length is twice the area, which is the weight we want
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		m.Normals[a] = m.Normals[a].Add(n)
		m.Normals[b] = m.Normals[b].Add(n)
		m.Normals[c] = m.Normals[c].Add(n)
	}
	for i, n := range m.Normals {
		if n.Len() > 0 {
			m.Normals[i] = n.Normalize()
		} else {
			m.Normals[i] = mgl32.Vec3{0, 1, 0}
		}
	}
}

// Interleaved returns vertex data in FloatsPerVertex layout.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Positions)*FloatsPerVertex)
	for i, p := range m.Positions {
		n := mgl32.Vec3{0, 1, 0}
		if i < len(m.Normals) {
			n = m.Normals[i]
		}
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2])
	}
	return out
}
