package shadow

import "errors"

var (
	// Construction errors. These are fatal; callers abort initialization.
	ErrInvalidResolution     = errors.New("shadow: invalid shadow map resolution")
	ErrInvalidLayerCount     = errors.New("shadow: invalid shadow map layer count")
	ErrFramebufferIncomplete = errors.New("shadow: framebuffer incomplete")

	// Per-frame input errors.
	ErrInvalidDepthRange = errors.New("shadow: invalid camera depth range")
	ErrInvalidLambda     = errors.New("shadow: split lambda outside [0,1]")
	ErrDegenerateFrustum = errors.New("shadow: degenerate camera frustum")
	ErrInvalidLightDir   = errors.New("shadow: invalid light direction")
	ErrNonFiniteMatrix   = errors.New("shadow: non-finite light matrix")
	ErrLayerOutOfRange   = errors.New("shadow: layer index out of range")
)
