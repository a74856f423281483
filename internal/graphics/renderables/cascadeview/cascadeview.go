package cascadeview

import (
	"log"
	"path/filepath"

	"csm/internal/config"
	"csm/internal/graphics"
	renderer "csm/internal/graphics/renderer"
	"csm/internal/profiling"
	"csm/internal/shadow"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	ShadersDir = "assets/shaders/cascadeview"

	// VerticesPerCascade covers the 12 edges of the sub-frustum and the 12
	// edges of the light's orthographic box
	VerticesPerCascade = 48
)

var (
	LinesVertShader = filepath.Join(ShadersDir, "lines.vert")
	LinesFragShader = filepath.Join(ShadersDir, "lines.frag")
)

// Colors per cascade, matching the tint in the scene shader
var Colors = [shadow.CascadeCount]mgl32.Vec3{
	{1.0, 0.3, 0.3},
	{0.3, 1.0, 0.3},
	{0.3, 0.3, 1.0},
	{1.0, 1.0, 0.3},
}

// boxEdges indexes FrustumCorners: near loop, far loop, then the connectors
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// CascadeView draws each cascade's sub-frustum and light box. The camera is
// frozen when the overlay is switched on so the volumes can be inspected
// from another angle.
type CascadeView struct {
	shader *graphics.Shader
	vao    uint32
	vbo    uint32

	frozen *shadow.CameraSnapshot
	counts [shadow.CascadeCount]int32
}

// NewCascadeView creates a new overlay renderable
func NewCascadeView() *CascadeView {
	return &CascadeView{}
}

// Init initializes the line shader and buffers
func (v *CascadeView) Init() error {
	var err error
	v.shader, err = graphics.NewShader(LinesVertShader, LinesFragShader)
	if err != nil {
		return err
	}

	gl.GenVertexArrays(1, &v.vao)
	gl.BindVertexArray(v.vao)

	gl.GenBuffers(1, &v.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, v.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, shadow.CascadeCount*VerticesPerCascade*3*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)

	return nil
}

// Render draws the overlay while it is enabled
func (v *CascadeView) Render(ctx renderer.RenderContext) {
	if !config.GetShowCascades() {
		v.frozen = nil
		return
	}
	defer profiling.Track("cascadeview.Render")()

	if v.frozen == nil {
		snap := ctx.Camera.Snapshot()
		v.frozen = &snap
		v.rebuild()
	}

	v.shader.Use()
	v.shader.SetMatrix4("proj", &ctx.Proj[0])
	v.shader.SetMatrix4("view", &ctx.View[0])

	gl.BindVertexArray(v.vao)
	gl.LineWidth(1.0)
	for i := 0; i < shadow.CascadeCount; i++ {
		if v.counts[i] == 0 {
			continue
		}
		v.shader.SetVec3("color", Colors[i])
		gl.DrawArrays(gl.LINES, int32(i*VerticesPerCascade), v.counts[i])
	}
	gl.BindVertexArray(0)
}

func (v *CascadeView) rebuild() {
	lines, err := CascadeLines(*v.frozen, config.CurrentShadow().Cascade())
	if err != nil {
		log.Printf("cascadeview: %v", err)
		v.counts = [shadow.CascadeCount]int32{}
		return
	}

	data := make([]float32, 0, shadow.CascadeCount*VerticesPerCascade*3)
	for i, l := range lines {
		v.counts[i] = int32(len(l) / 3)
		data = append(data, l...)
		// pad so every cascade starts at a fixed offset
		for n := len(l); n < VerticesPerCascade*3; n++ {
			data = append(data, 0)
		}
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, v.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, gl.Ptr(data))
}

// CascadeLines builds GL_LINES vertex data per cascade: the sub-frustum
// edges followed by the light box edges. A cascade whose light matrices
// could not be built only gets its frustum.
func CascadeLines(cam shadow.CameraSnapshot, s shadow.Settings) ([shadow.CascadeCount][]float32, error) {
	var out [shadow.CascadeCount][]float32

	slices, _, err := shadow.FrustumSlices(cam, s.Lambda)
	if err != nil {
		return out, err
	}
	cascades, err := shadow.NewCascades(s)
	if err != nil {
		return out, err
	}
	if err := cascades.Update(cam); err != nil {
		return out, err
	}

	for i, c := range cascades.Records() {
		buf := make([]float32, 0, VerticesPerCascade*3)
		buf = appendEdges(buf, slices[i])
		if c.Valid {
			if box, err := shadow.WorldCorners(c.ViewProj.Inv()); err == nil {
				buf = appendEdges(buf, box)
			}
		}
		out[i] = buf
	}
	return out, nil
}

func appendEdges(buf []float32, c shadow.FrustumCorners) []float32 {
	for _, e := range boxEdges {
		a, b := c[e[0]], c[e[1]]
		buf = append(buf, a[0], a[1], a[2], b[0], b[1], b[2])
	}
	return buf
}

// SetViewport is a no-op for the overlay
func (v *CascadeView) SetViewport(width, height int) {}

// Dispose cleans up OpenGL resources
func (v *CascadeView) Dispose() {
	if v.vao != 0 {
		gl.DeleteVertexArrays(1, &v.vao)
	}
	if v.vbo != 0 {
		gl.DeleteBuffers(1, &v.vbo)
	}
	if v.shader != nil {
		v.shader.Delete()
	}
}
