package scene

import (
	"fmt"
	"path/filepath"

	"csm/internal/config"
	"csm/internal/graphics"
	renderer "csm/internal/graphics/renderer"
	"csm/internal/mesh"
	"csm/internal/profiling"
	"csm/internal/shadow"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	ShadersDir = "assets/shaders/scene"

	// ShadowTextureUnit is the unit the cascade array is bound to during the main pass
	ShadowTextureUnit = 1
)

var (
	SceneVertShader = filepath.Join(ShadersDir, "scene.vert")
	SceneFragShader = filepath.Join(ShadersDir, "scene.frag")
)

// Object is a mesh placed in the world
type Object struct {
	Mesh  *mesh.Mesh
	Model mgl32.Mat4
	Color mgl32.Vec3
	// CastShadow false keeps the object out of the depth pass (e.g. the ground)
	CastShadow bool
}

type gpuObject struct {
	vao, vbo, ebo uint32
	count         int32
	model         mgl32.Mat4
	color         mgl32.Vec3
	castShadow    bool

	// world-space bounds for culling
	min, max mgl32.Vec3
}

// Scene draws lit, shadow-receiving geometry and writes casters into the
// cascade layers
type Scene struct {
	shader  *graphics.Shader
	objects []Object
	gpu     []gpuObject
}

// NewScene creates a scene renderable for the given objects
func NewScene(objects ...Object) *Scene {
	return &Scene{objects: objects}
}

// Init compiles the shader and uploads every mesh
func (s *Scene) Init() error {
	var err error
	s.shader, err = graphics.NewShader(SceneVertShader, SceneFragShader)
	if err != nil {
		return err
	}

	for _, o := range s.objects {
		if o.Mesh == nil || len(o.Mesh.Indices) == 0 {
			return fmt.Errorf("scene: object %q has no geometry", meshName(o.Mesh))
		}
		s.gpu = append(s.gpu, upload(o))
	}
	return nil
}

func meshName(m *mesh.Mesh) string {
	if m == nil {
		return "<nil>"
	}
	return m.Name
}

func upload(o Object) gpuObject {
	g := gpuObject{
		count:      int32(len(o.Mesh.Indices)),
		model:      o.Model,
		color:      o.Color,
		castShadow: o.CastShadow,
	}
	g.min, g.max = graphics.TransformAABB(o.Mesh.Min, o.Mesh.Max, o.Model)
	vertices := o.Mesh.Interleaved()

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(o.Mesh.Indices)*4, gl.Ptr(o.Mesh.Indices), gl.STATIC_DRAW)

	stride := int32(mesh.FloatsPerVertex * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)

	gl.BindVertexArray(0)
	return g
}

// RenderDepth draws shadow casters into the currently bound cascade layer
func (s *Scene) RenderDepth(ctx renderer.RenderContext, depth *graphics.Shader, cascade shadow.Cascade) {
	planes := graphics.CasterPlanes(cascade.ViewProj)
	for i := range s.gpu {
		g := &s.gpu[i]
		if !g.castShadow || !graphics.IntersectsAABB(g.min, g.max, planes) {
			continue
		}
		depth.SetMatrix4("model", &g.model[0])
		gl.BindVertexArray(g.vao)
		gl.DrawElements(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

// Render draws the scene lit by the directional light, sampling the cascade
// selected by view depth
func (s *Scene) Render(ctx renderer.RenderContext) {
	defer profiling.Track("scene.Render")()

	s.shader.Use()
	s.shader.SetMatrix4("proj", &ctx.Proj[0])
	s.shader.SetMatrix4("view", &ctx.View[0])
	s.shader.SetVec3("lightDir", ctx.LightDir)
	s.shader.SetBool("showCascades", config.GetShowCascades())

	s.setCascadeUniforms(ctx)

	if ctx.ShadowMap != nil {
		ctx.ShadowMap.BindTexture(gl.TEXTURE0 + ShadowTextureUnit)
	}
	s.shader.SetInt("shadowMap", ShadowTextureUnit)

	planes := graphics.ExtractFrustumPlanes(ctx.Proj.Mul4(ctx.View))
	for i := range s.gpu {
		g := &s.gpu[i]
		if !graphics.IntersectsAABB(g.min, g.max, planes[:]) {
			continue
		}
		s.shader.SetMatrix4("model", &g.model[0])
		s.shader.SetVec3("baseColor", g.color)
		gl.BindVertexArray(g.vao)
		gl.DrawElements(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

func (s *Scene) setCascadeUniforms(ctx renderer.RenderContext) {
	matrices, distances, mask := CascadeUniforms(ctx.Cascades)
	s.shader.SetMatrix4Array("cascadeViewProj", matrices[:])
	s.shader.SetFloatArray("cascadeSplits", distances[:])
	s.shader.SetInt("cascadeMask", mask)
}

// CascadeUniforms flattens cascade records into the main shader's inputs:
// light view-projections, positive far distances and a bitmask of valid layers.
func CascadeUniforms(cs [shadow.CascadeCount]shadow.Cascade) ([shadow.CascadeCount]mgl32.Mat4, [shadow.CascadeCount]float32, int32) {
	var (
		matrices  [shadow.CascadeCount]mgl32.Mat4
		distances [shadow.CascadeCount]float32
		mask      int32
	)
	for i, c := range cs {
		distances[i] = -c.SplitDepth
		if !c.Valid {
			matrices[i] = mgl32.Ident4()
			continue
		}
		matrices[i] = c.ViewProj
		mask |= 1 << i
	}
	return matrices, distances, mask
}

// SetViewport is a no-op; the camera owns the projection
func (s *Scene) SetViewport(width, height int) {}

// Dispose cleans up OpenGL resources
func (s *Scene) Dispose() {
	for i := range s.gpu {
		g := &s.gpu[i]
		gl.DeleteVertexArrays(1, &g.vao)
		gl.DeleteBuffers(1, &g.vbo)
		gl.DeleteBuffers(1, &g.ebo)
	}
	s.gpu = nil
	if s.shader != nil {
		s.shader.Delete()
	}
}
