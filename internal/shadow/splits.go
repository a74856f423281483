package shadow

import (
	"fmt"
	"math"
)

// CascadeCount is the number of depth slices (and shadow map layers).
const CascadeCount = 4

// DefaultSplitLambda blends logarithmic and uniform split spacing.
// 1 is purely logarithmic, 0 purely uniform.
const DefaultSplitLambda = 0.95

// ComputeSplits returns CascadeCount normalized split positions along [near, far].
// Fraction i marks the far boundary of cascade i. Values are strictly increasing
// and the last one is exactly 1.
//
// See GPU Gems 3, chapter 10 (practical split scheme).
func ComputeSplits(near, far, lambda float32) ([CascadeCount]float32, error) {
	var splits [CascadeCount]float32

	if err := validateDepthRange(near, far); err != nil {
		return splits, err
	}
	if math.IsNaN(float64(lambda)) || lambda < 0 || lambda > 1 {
		return splits, fmt.Errorf("%w: %v", ErrInvalidLambda, lambda)
	}

	n, f, l := float64(near), float64(far), float64(lambda)
	clipRange := f - n
	ratio := f / n

	for i := 0; i < CascadeCount; i++ {
		p := float64(i+1) / CascadeCount
		logSplit := n * math.Pow(ratio, p)
		uniform := n + clipRange*p
		d := l*(logSplit-uniform) + uniform
		splits[i] = float32((d - n) / clipRange)
	}
	// pow() rounding must not leave a gap at the far plane
	splits[CascadeCount-1] = 1

	// Very thin depth ranges can collapse neighbours after the float32 cast.
	prev := float32(0)
	for i := 0; i < CascadeCount-1; i++ {
		if splits[i] <= prev {
			splits[i] = math.Nextafter32(prev, 1)
		}
		prev = splits[i]
	}

	return splits, nil
}

// SplitDepth converts a split fraction to the camera-space depth of that
// boundary. Cameras look down -Z, so the result is negative.
func SplitDepth(near, far, fraction float32) float32 {
	return -(near + fraction*(far-near))
}

func validateDepthRange(near, far float32) error {
	if !isFinite(near) || !isFinite(far) || near <= 0 || far <= near {
		return fmt.Errorf("%w: near=%v far=%v", ErrInvalidDepthRange, near, far)
	}
	return nil
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
