package renderer

import (
	"fmt"
	"log"
	"path/filepath"

	"csm/internal/config"
	"csm/internal/graphics"
	"csm/internal/profiling"
	"csm/internal/shadow"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const (
	ShadersDir = "assets/shaders/shadow"
)

var (
	DepthVertShader = filepath.Join(ShadersDir, "depth.vert")
	DepthFragShader = filepath.Join(ShadersDir, "depth.frag")
)

// Renderer runs the cascade update, the per-layer depth pass and then the
// main pass over its renderables
type Renderer struct {
	renderables []Renderable
	casters     []ShadowCaster
	camera      *graphics.Camera

	cascades    *shadow.Cascades
	shadowMap   *shadow.MapArray
	depthShader *graphics.Shader

	width, height int
	cameraFault   bool
}

// NewRenderer allocates the shadow resources and initializes renderables.
// Any error here is fatal for the caller.
func NewRenderer(width, height int, cfg config.Shadow, rs ...Renderable) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("shadow config: %w", err)
	}

	// Configure OpenGL
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	cascades, err := shadow.NewCascades(cfg.Cascade())
	if err != nil {
		return nil, err
	}
	shadowMap, err := shadow.NewMapArray(cfg.Resolution, shadow.CascadeCount)
	if err != nil {
		return nil, err
	}
	depthShader, err := graphics.NewShader(DepthVertShader, DepthFragShader)
	if err != nil {
		shadowMap.Destroy()
		return nil, err
	}

	r := &Renderer{
		renderables: rs,
		camera:      graphics.NewCamera(width, height),
		cascades:    cascades,
		shadowMap:   shadowMap,
		depthShader: depthShader,
		width:       width,
		height:      height,
	}

	for i, rd := range rs {
		if err := rd.Init(); err != nil {
			// unwind what was already initialized
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			depthShader.Delete()
			shadowMap.Destroy()
			return nil, err
		}
		rd.SetViewport(width, height)
		if c, ok := rd.(ShadowCaster); ok {
			r.casters = append(r.casters, c)
		}
	}

	return r, nil
}

// Render executes one frame
func (r *Renderer) Render(dt float64) {
	defer profiling.Track("renderer.Render")()

	ctx := r.updateShadows(dt)

	func() {
		defer profiling.Track("renderer.shadowPass")()
		r.renderShadowPass(ctx)
	}()

	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.ClearColor(0.53, 0.81, 0.92, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	func() {
		defer profiling.Track("renderer.mainPass")()
		for _, renderable := range r.renderables {
			renderable.Render(ctx)
		}
	}()
}

func (r *Renderer) updateShadows(dt float64) RenderContext {
	defer profiling.Track("shadow.Update")()

	// pick up live λ / light changes from the settings UI
	live := config.CurrentShadow().Cascade()
	if live != r.cascades.Settings() {
		if err := r.cascades.SetSettings(live); err != nil {
			log.Printf("shadow: ignoring settings: %v", err)
		}
	}

	snap := r.camera.Snapshot()
	if err := r.cascades.Update(snap); err != nil {
		if !r.cameraFault {
			log.Printf("shadow: camera rejected, shadow pass skipped: %v", err)
			r.cameraFault = true
		}
	} else {
		r.cameraFault = false
	}

	return RenderContext{
		Camera:    r.camera,
		DT:        dt,
		View:      snap.View,
		Proj:      snap.Proj,
		Cascades:  r.cascades.Records(),
		ShadowMap: r.shadowMap,
		LightDir:  r.cascades.Settings().LightDir.Normalize(),
	}
}

func (r *Renderer) renderShadowPass(ctx RenderContext) {
	if len(r.casters) == 0 {
		return
	}
	r.depthShader.Use()
	drew := false
	for i, c := range ctx.Cascades {
		if !c.Valid {
			continue
		}
		if err := r.shadowMap.BeginLayer(i); err != nil {
			log.Printf("shadow: %v", err)
			continue
		}
		drew = true
		r.depthShader.SetMatrix4("lightViewProj", &c.ViewProj[0])
		for _, caster := range r.casters {
			caster.RenderDepth(ctx, r.depthShader, c)
		}
	}
	if drew {
		r.shadowMap.End()
	}
}

// Dispose releases renderables in reverse order, then the shadow resources
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
	if r.depthShader != nil {
		r.depthShader.Delete()
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
	}
}

// GetCamera returns the camera instance
func (r *Renderer) GetCamera() *graphics.Camera {
	return r.camera
}

// Cascades returns the current cascade records
func (r *Renderer) Cascades() [shadow.CascadeCount]shadow.Cascade {
	return r.cascades.Records()
}

// UpdateViewport updates the camera and renderables after a resize
func (r *Renderer) UpdateViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.camera.SetViewport(width, height)
	for _, rd := range r.renderables {
		rd.SetViewport(width, height)
	}
}
