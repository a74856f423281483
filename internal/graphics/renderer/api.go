package renderer

import (
	"csm/internal/graphics"
	"csm/internal/shadow"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext provides shared per-frame state for all renderables
type RenderContext struct {
	Camera *graphics.Camera
	DT     float64
	View   mgl32.Mat4
	Proj   mgl32.Mat4

	// Cascades are this frame's records; invalid ones were skipped by the
	// depth pass and must not be sampled.
	Cascades  [shadow.CascadeCount]shadow.Cascade
	ShadowMap *shadow.MapArray
	LightDir  mgl32.Vec3
}

// Renderable interface defines the lifecycle for renderable features
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}

// ShadowCaster is implemented by renderables that write depth into the
// cascade layers. The depth shader is bound with lightViewProj set; casters
// set "model" and issue their draws.
type ShadowCaster interface {
	RenderDepth(ctx RenderContext, depth *graphics.Shader, cascade shadow.Cascade)
}
