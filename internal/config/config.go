package config

import "sync"

// RenderSettings holds render configuration
type RenderSettings struct {
	mu           sync.RWMutex
	fpsLimit     int
	showCascades bool
}

var globalRenderSettings = &RenderSettings{
	fpsLimit: 120, // default value
}

// GetFPSLimit returns the frame cap; 0 means uncapped
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}

	globalRenderSettings.fpsLimit = limit
}

// GetShowCascades reports whether the cascade debug overlay is drawn
func GetShowCascades() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.showCascades
}

// SetShowCascades toggles the cascade debug overlay
func SetShowCascades(show bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.showCascades = show
}
