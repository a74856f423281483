package shadow

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FrustumCorners holds the 8 world-space corners of a (sub-)frustum:
// the 4 near corners followed by the 4 far corners, in matching order.
type FrustumCorners [8]mgl32.Vec3

// ndcCorners is the canonical clip cube. Index k and k+4 share x/y.
var ndcCorners = FrustumCorners{
	{-1, 1, -1},
	{1, 1, -1},
	{1, -1, -1},
	{-1, -1, -1},
	{-1, 1, 1},
	{1, 1, 1},
	{1, -1, 1},
	{-1, -1, 1},
}

// minClipW rejects corners that project to infinity.
const minClipW = 1e-12

// WorldCorners unprojects the clip cube through the inverse camera
// view-projection matrix, giving the full view frustum in world space.
func WorldCorners(invViewProj mgl32.Mat4) (FrustumCorners, error) {
	var out FrustumCorners
	for i, c := range ndcCorners {
		v := invViewProj.Mul4x1(c.Vec4(1))
		if math.Abs(float64(v.W())) < minClipW || !isFinite(v.W()) {
			return out, fmt.Errorf("%w: corner %d has w=%v", ErrDegenerateFrustum, i, v.W())
		}
		out[i] = v.Vec3().Mul(1 / v.W())
	}
	return out, nil
}

// SliceCorners cuts the sub-frustum between two split fractions out of the
// full frustum by interpolating along each near-to-far edge.
func SliceCorners(full FrustumCorners, lastSplit, split float32) FrustumCorners {
	var out FrustumCorners
	for k := 0; k < 4; k++ {
		near, far := full[k], full[k+4]
		d := far.Sub(near)
		out[k] = near.Add(d.Mul(lastSplit))
		out[k+4] = near.Add(d.Mul(split))
	}
	return out
}

// Center returns the arithmetic mean of the corners.
func (fc FrustumCorners) Center() mgl32.Vec3 {
	var c mgl32.Vec3
	for _, p := range fc {
		c = c.Add(p)
	}
	return c.Mul(1.0 / 8.0)
}

// Near returns the four near-plane corners.
func (fc FrustumCorners) Near() [4]mgl32.Vec3 {
	return [4]mgl32.Vec3{fc[0], fc[1], fc[2], fc[3]}
}

// Far returns the four far-plane corners.
func (fc FrustumCorners) Far() [4]mgl32.Vec3 {
	return [4]mgl32.Vec3{fc[4], fc[5], fc[6], fc[7]}
}
