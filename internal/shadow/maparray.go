package shadow

import (
	"fmt"
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// MapArray owns a depth-only GL_TEXTURE_2D_ARRAY with one layer per cascade
// and the framebuffer the depth pass renders into. It is the only holder of
// these handles; Destroy releases them.
type MapArray struct {
	texture    uint32
	fbo        uint32
	resolution int32
	layers     int32

	prevViewport [4]int32
	active       int
}

// NewMapArray allocates a resolution x resolution x layers depth array and a
// framebuffer with only a depth attachment. Requires a current GL context
// except when the arguments are rejected up front.
func NewMapArray(resolution, layers int) (*MapArray, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}
	if layers <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLayerCount, layers)
	}

	var maxSize, maxLayers int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	gl.GetIntegerv(gl.MAX_ARRAY_TEXTURE_LAYERS, &maxLayers)
	if maxSize > 0 && int32(resolution) > maxSize {
		return nil, fmt.Errorf("%w: %d exceeds GL_MAX_TEXTURE_SIZE %d", ErrInvalidResolution, resolution, maxSize)
	}
	if maxLayers > 0 && int32(layers) > maxLayers {
		return nil, fmt.Errorf("%w: %d exceeds GL_MAX_ARRAY_TEXTURE_LAYERS %d", ErrInvalidLayerCount, layers, maxLayers)
	}

	m := &MapArray{
		resolution: int32(resolution),
		layers:     int32(layers),
		active:     -1,
	}

	gl.GenTextures(1, &m.texture)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, m.texture)
	gl.TexImage3D(
		gl.TEXTURE_2D_ARRAY,
		0,
		gl.DEPTH_COMPONENT32F,
		m.resolution,
		m.resolution,
		m.layers,
		0,
		gl.DEPTH_COMPONENT,
		gl.FLOAT,
		nil,
	)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	// sampler2DArrayShadow lookups
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.GenFramebuffers(1, &m.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, m.fbo)
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, m.texture, 0, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		m.Destroy()
		return nil, fmt.Errorf("%w: status=0x%X", ErrFramebufferIncomplete, status)
	}
	glCheckError("shadow.NewMapArray")

	log.Printf("Allocated shadow map array %dx%dx%d", resolution, resolution, layers)
	return m, nil
}

// BeginLayer binds the framebuffer with layer attached and prepares depth-only
// state: cleared depth, depth test, depth clamp and front-face culling (thin
// casters then write their back faces, which keeps shadows attached).
func (m *MapArray) BeginLayer(layer int) error {
	if layer < 0 || int32(layer) >= m.layers {
		return fmt.Errorf("%w: %d of %d", ErrLayerOutOfRange, layer, m.layers)
	}
	if m.active < 0 {
		gl.GetIntegerv(gl.VIEWPORT, &m.prevViewport[0])
	}
	m.active = layer

	gl.BindFramebuffer(gl.FRAMEBUFFER, m.fbo)
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, m.texture, 0, int32(layer))
	gl.Viewport(0, 0, m.resolution, m.resolution)

	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.DEPTH_CLAMP)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
	return nil
}

// End restores the default framebuffer, the saved viewport and back-face
// culling after the last BeginLayer.
func (m *MapArray) End() {
	if m.active < 0 {
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(m.prevViewport[0], m.prevViewport[1], m.prevViewport[2], m.prevViewport[3])
	gl.Disable(gl.DEPTH_CLAMP)
	gl.CullFace(gl.BACK)
	m.active = -1
}

// BindTexture binds the depth array to a texture unit for sampling.
func (m *MapArray) BindTexture(unit uint32) {
	gl.ActiveTexture(unit)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, m.texture)
}

// Complete re-checks framebuffer completeness.
func (m *MapArray) Complete() bool {
	if m == nil || m.fbo == 0 || m.texture == 0 {
		return false
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, m.fbo)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return status == gl.FRAMEBUFFER_COMPLETE
}

func (m *MapArray) Texture() uint32     { return m.texture }
func (m *MapArray) Framebuffer() uint32 { return m.fbo }
func (m *MapArray) Resolution() int     { return int(m.resolution) }
func (m *MapArray) Layers() int         { return int(m.layers) }

// Destroy deletes the framebuffer and texture array. Safe to call twice.
func (m *MapArray) Destroy() {
	if m.fbo != 0 {
		gl.DeleteFramebuffers(1, &m.fbo)
		m.fbo = 0
	}
	if m.texture != 0 {
		gl.DeleteTextures(1, &m.texture)
		m.texture = 0
	}
}

func glCheckError(label string) {
	if err := gl.GetError(); err != gl.NO_ERROR {
		log.Printf("gl error %s: 0x%x", label, err)
	}
}
