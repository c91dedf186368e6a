package scene

import (
	"unsafe"

	"github.com/Faultbox/nimbus/internal/engine/gpu"
	"github.com/Faultbox/nimbus/internal/engine/shader"
	"github.com/Faultbox/nimbus/internal/engine/terrain"
)

// Vertex layout of terrain.Vertex.
const (
	vertexStride   = int32(unsafe.Sizeof(terrain.Vertex{}))
	normalOffset   = unsafe.Offsetof(terrain.Vertex{}.Normal)
	colorOffset    = unsafe.Offsetof(terrain.Vertex{}.Color)
	positionOffset = unsafe.Offsetof(terrain.Vertex{}.Position)
)

// opaquePass draws the terrain mesh into the offscreen target.
type opaquePass struct {
	dev   gpu.Device
	stage *shader.Stage

	vao, vbo, ebo uint32
	indexCount    int32
	uploaded      uint64 // mesh version in vbo
}

func newOpaquePass(dev gpu.Device, loader *shader.Loader, mesh *terrain.Mesh) (*opaquePass, error) {
	stage, err := shader.NewStage(dev, loader, LandscapeStage)
	if err != nil {
		return nil, err
	}

	p := &opaquePass{dev: dev, stage: stage}

	vertices := mesh.Vertices()
	indices := mesh.Indices()

	p.vao = dev.NewVertexArray()
	dev.BindVertexArray(p.vao)
	p.vbo = dev.NewBuffer(gpu.VertexBuffer, len(vertices)*int(vertexStride), unsafe.Pointer(&vertices[0]), gpu.DynamicDraw)
	p.ebo = dev.NewBuffer(gpu.IndexBuffer, len(indices)*4, unsafe.Pointer(&indices[0]), gpu.StaticDraw)
	p.indexCount = int32(len(indices))
	p.uploaded = mesh.Version()
	p.bindAttribs()

	return p, nil
}

// bindAttribs points the stage's attribute slots at the vertex buffer.
// Slots can move when the program is rebuilt, so this runs after reload.
func (p *opaquePass) bindAttribs() {
	p.dev.BindVertexArray(p.vao)
	p.dev.BindBuffer(gpu.VertexBuffer, p.vbo)

	attribs := []struct {
		name       string
		components int32
		typ        gpu.AttribType
		normalized bool
		offset     uintptr
	}{
		{aPosition, 3, gpu.Float, false, positionOffset},
		{aNormal, 3, gpu.Float, false, normalOffset},
		{aColor, 3, gpu.UnsignedByte, true, colorOffset},
	}
	for _, a := range attribs {
		loc := p.stage.Attrib(a.name)
		if loc < 0 {
			continue
		}
		p.dev.VertexAttrib(uint32(loc), a.components, a.typ, a.normalized, vertexStride, a.offset)
	}

	p.dev.BindVertexArray(0)
}

// upload copies the mesh vertices if they changed since the last upload.
func (p *opaquePass) upload(mesh *terrain.Mesh) bool {
	if mesh.Version() == p.uploaded {
		return false
	}
	vertices := mesh.Vertices()
	p.dev.UpdateBuffer(gpu.VertexBuffer, p.vbo, len(vertices)*int(vertexStride), unsafe.Pointer(&vertices[0]))
	p.uploaded = mesh.Version()
	return true
}

func (p *opaquePass) destroy() {
	if p == nil {
		return
	}
	p.dev.DeleteBuffer(p.ebo)
	p.dev.DeleteBuffer(p.vbo)
	p.dev.DeleteVertexArray(p.vao)
	p.stage.Destroy()
}

// RenderOpaquePass draws the terrain into the offscreen color and linear
// depth targets.
func (p *Pipeline) RenderOpaquePass() {
	o := p.opaque
	dev := p.dev

	o.upload(p.mesh)

	p.res.opaque.Bind()
	o.stage.Use()
	dev.SetCapability(gpu.DepthTest, true)
	dev.SetCapability(gpu.CullFace, true)
	dev.Clear(p.opts.ClearColor)
	dev.ClearColorAttachment(1, [4]float32{farDepth, 0, 0, 0})

	eye := p.obs.Position()
	dev.SetMat4(o.stage.Uniform(uProjection), p.Projection())
	dev.SetMat4(o.stage.Uniform(uView), p.View())
	dev.SetVec3(o.stage.Uniform(uEyePosition), eye)
	dev.SetVec3(o.stage.Uniform(uSunPosition), p.opts.Sun.Position(eye))
	dev.SetVec3(o.stage.Uniform(uSunColor), p.opts.Sun.Color)

	dev.BindVertexArray(o.vao)
	dev.SetPolygonMode(p.fillMode.PolygonMode())
	dev.SetCapability(gpu.PrimitiveRestart, true)
	dev.DrawElements(gpu.TriangleStrip, o.indexCount)
	dev.SetCapability(gpu.PrimitiveRestart, false)
	dev.BindVertexArray(0)
}
