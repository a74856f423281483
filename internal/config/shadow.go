package config

import (
	"fmt"
	"math"
	"sync"

	"csm/internal/shadow"

	"github.com/go-gl/mathgl/mgl32"
)

// Shadow is a validated snapshot of the shadow configuration.
type Shadow struct {
	// Resolution is the edge length of each shadow map layer in pixels.
	Resolution   int
	SplitLambda  float32
	Quantization float32
	// LightDir is the direction light travels (unit vector).
	LightDir mgl32.Vec3
}

// DefaultShadow returns the stock configuration.
func DefaultShadow() Shadow {
	d := shadow.DefaultSettings()
	return Shadow{
		Resolution:   2048,
		SplitLambda:  d.Lambda,
		Quantization: d.Quantization,
		LightDir:     d.LightDir,
	}
}

// Validate rejects values the shadow subsystem cannot be built from.
func (s Shadow) Validate() error {
	if s.Resolution <= 0 {
		return fmt.Errorf("%w: %d", shadow.ErrInvalidResolution, s.Resolution)
	}
	return s.Cascade().Validate()
}

// Cascade converts to the per-frame cascade settings.
func (s Shadow) Cascade() shadow.Settings {
	return shadow.Settings{
		Lambda:       s.SplitLambda,
		Quantization: s.Quantization,
		LightDir:     s.LightDir,
	}
}

// ShadowSettings holds the live shadow configuration
type ShadowSettings struct {
	mu  sync.RWMutex
	cur Shadow
}

var globalShadowSettings = &ShadowSettings{cur: DefaultShadow()}

// CurrentShadow returns a copy of the live shadow configuration
func CurrentShadow() Shadow {
	globalShadowSettings.mu.RLock()
	defer globalShadowSettings.mu.RUnlock()
	return globalShadowSettings.cur
}

// SetShadow replaces the live configuration if it validates
func SetShadow(s Shadow) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.LightDir = s.LightDir.Normalize()
	globalShadowSettings.mu.Lock()
	defer globalShadowSettings.mu.Unlock()
	globalShadowSettings.cur = s
	return nil
}

// GetSplitLambda returns the split blend weight
func GetSplitLambda() float32 {
	globalShadowSettings.mu.RLock()
	defer globalShadowSettings.mu.RUnlock()
	return globalShadowSettings.cur.SplitLambda
}

// SetSplitLambda sets the split blend weight, clamped to [0,1]
func SetSplitLambda(lambda float32) {
	if math.IsNaN(float64(lambda)) {
		return
	}
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	globalShadowSettings.mu.Lock()
	defer globalShadowSettings.mu.Unlock()
	globalShadowSettings.cur.SplitLambda = lambda
}

// GetLightDir returns the light travel direction
func GetLightDir() mgl32.Vec3 {
	globalShadowSettings.mu.RLock()
	defer globalShadowSettings.mu.RUnlock()
	return globalShadowSettings.cur.LightDir
}

// SetLightDir sets the light travel direction; zero-length input is ignored
func SetLightDir(dir mgl32.Vec3) {
	if dir.Len() < 1e-6 {
		return
	}
	globalShadowSettings.mu.Lock()
	defer globalShadowSettings.mu.Unlock()
	globalShadowSettings.cur.LightDir = dir.Normalize()
}
