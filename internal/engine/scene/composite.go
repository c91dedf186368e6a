package scene

import (
	"unsafe"

	"github.com/Faultbox/nimbus/internal/engine/gpu"
	"github.com/Faultbox/nimbus/internal/engine/shader"
)

// Full-screen quad drawn as a 4-index strip.
var (
	quadVertices = [8]float32{
		-1, -1,
		1, -1,
		-1, 1,
		1, 1,
	}
	quadIndices = [4]uint32{0, 1, 2, 3}
)

// Texture units of blend.frag.
const (
	backTextureUnit  = 0
	frontTextureUnit = 1
	backDepthUnit    = 2
	frontDepthUnit   = 3
)

type compositePass struct {
	dev   gpu.Device
	stage *shader.Stage

	vao, vbo, ebo uint32
}

func newCompositePass(dev gpu.Device, loader *shader.Loader) (*compositePass, error) {
	stage, err := shader.NewStage(dev, loader, BlendStage)
	if err != nil {
		return nil, err
	}

	c := &compositePass{dev: dev, stage: stage}
	c.vao = dev.NewVertexArray()
	dev.BindVertexArray(c.vao)
	c.vbo = dev.NewBuffer(gpu.VertexBuffer, len(quadVertices)*4, unsafe.Pointer(&quadVertices[0]), gpu.StaticDraw)
	c.ebo = dev.NewBuffer(gpu.IndexBuffer, len(quadIndices)*4, unsafe.Pointer(&quadIndices[0]), gpu.StaticDraw)
	c.bindAttribs()

	return c, nil
}

func (c *compositePass) bindAttribs() {
	c.dev.BindVertexArray(c.vao)
	c.dev.BindBuffer(gpu.VertexBuffer, c.vbo)
	if loc := c.stage.Attrib(aPosition); loc >= 0 {
		c.dev.VertexAttrib(uint32(loc), 2, gpu.Float, false, 2*4, 0)
	}
	c.dev.BindVertexArray(0)
}

func (c *compositePass) destroy() {
	if c == nil {
		return
	}
	c.dev.DeleteBuffer(c.ebo)
	c.dev.DeleteBuffer(c.vbo)
	c.dev.DeleteVertexArray(c.vao)
	c.stage.Destroy()
}

// CompositePass blends the cloud layer over the terrain into the default
// framebuffer.
func (p *Pipeline) CompositePass() {
	c := p.composite
	s := c.stage
	dev := p.dev

	dev.BindFramebuffer(0, p.width, p.height)
	s.Use()

	dev.BindTexture(backTextureUnit, p.res.opaque.Color(0))
	dev.BindTexture(frontTextureUnit, p.res.cloud.Texture())
	dev.BindTexture(backDepthUnit, p.res.opaque.Color(1))
	dev.BindTexture(frontDepthUnit, p.res.cloudDepth.Texture())
	dev.SetInt(s.Uniform(uBackTexture), backTextureUnit)
	dev.SetInt(s.Uniform(uFrontTexture), frontTextureUnit)
	dev.SetInt(s.Uniform(uBackDepth), backDepthUnit)
	dev.SetInt(s.Uniform(uFrontDepth), frontDepthUnit)

	dev.SetCapability(gpu.DepthTest, false)
	dev.SetCapability(gpu.CullFace, false)
	dev.SetPolygonMode(gpu.PolygonFill)

	dev.BindVertexArray(c.vao)
	dev.DrawElements(gpu.TriangleStrip, int32(len(quadIndices)))
	dev.BindVertexArray(0)
}
