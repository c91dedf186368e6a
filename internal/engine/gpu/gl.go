package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/logger"
)

// GL implements Device on an OpenGL 4.3 core context.
type GL struct{}

// NewGL loads the OpenGL function pointers and sets the default state.
// IMPORTANT: Must be called AFTER the OpenGL context is current.
func NewGL() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.DepthFunc(gl.LESS)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	return &GL{}, nil
}

// CompileProgram compiles the given stages and links them into a program.
func (d *GL) CompileProgram(src ProgramSource) (uint32, error) {
	type stage struct {
		source string
		kind   uint32
		name   string
	}
	var stages []stage
	if src.IsCompute() {
		stages = []stage{{src.Compute, gl.COMPUTE_SHADER, "compute"}}
	} else {
		stages = []stage{
			{src.Vertex, gl.VERTEX_SHADER, "vertex"},
			{src.Fragment, gl.FRAGMENT_SHADER, "fragment"},
		}
	}

	shaders := make([]uint32, 0, len(stages))
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()

	for _, s := range stages {
		id, err := compileShader(s.source, s.kind, s.name)
		if err != nil {
			return 0, err
		}
		shaders = append(shaders, id)
	}

	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(program, logLen, nil, buf) })
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", log)
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(shader, logLen, nil, buf) })
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, log)
	}

	return shader, nil
}

func infoLog(n int32, read func(*uint8)) string {
	if n <= 0 {
		return "(no info log)"
	}
	buf := make([]byte, n)
	read(&buf[0])
	return gl.GoStr(&buf[0])
}

func (d *GL) DeleteProgram(program uint32) {
	if program != 0 {
		gl.DeleteProgram(program)
	}
}

func (d *GL) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *GL) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *GL) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

// texFormat maps a Format to internal format, pixel format and pixel type.
func texFormat(f Format) (internal int32, format, xtype uint32) {
	switch f {
	case FormatR32F:
		return gl.R32F, gl.RED, gl.FLOAT
	case FormatDepth32F:
		return gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT
	default:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	}
}

func (d *GL) NewTexture(format Format, width, height int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	d.ResizeTexture(tex, format, width, height)
	return tex
}

func (d *GL) ResizeTexture(tex uint32, format Format, width, height int32) {
	internal, pf, pt := texFormat(format)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, width, height, 0, pf, pt, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (d *GL) DeleteTexture(tex uint32) {
	if tex != 0 {
		gl.DeleteTextures(1, &tex)
	}
}

func (d *GL) NewRenderbuffer(format Format, width, height int32) uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	d.ResizeRenderbuffer(rb, format, width, height)
	return rb
}

func (d *GL) ResizeRenderbuffer(rb uint32, format Format, width, height int32) {
	internal, _, _ := texFormat(format)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rb)
	gl.RenderbufferStorage(gl.RENDERBUFFER, uint32(internal), width, height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

func (d *GL) DeleteRenderbuffer(rb uint32) {
	if rb != 0 {
		gl.DeleteRenderbuffers(1, &rb)
	}
}

// NewFramebuffer attaches colors to consecutive color attachments and depth
// (a renderbuffer, optional) to the depth attachment.
func (d *GL) NewFramebuffer(colors []uint32, depth uint32) (uint32, error) {
	if len(colors) == 0 {
		return 0, errors.New("framebuffer needs at least one color attachment")
	}

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)

	drawBuffers := make([]uint32, len(colors))
	for i, tex := range colors {
		attachment := uint32(gl.COLOR_ATTACHMENT0 + i)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, tex, 0)
		drawBuffers[i] = attachment
	}
	gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])

	if depth != 0 {
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, depth)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		return 0, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}

	return fbo, nil
}

func (d *GL) DeleteFramebuffer(fbo uint32) {
	if fbo != 0 {
		gl.DeleteFramebuffers(1, &fbo)
	}
}

func (d *GL) BindFramebuffer(fbo uint32, width, height int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.Viewport(0, 0, width, height)
}

func (d *GL) NewVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (d *GL) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (d *GL) DeleteVertexArray(vao uint32) {
	if vao != 0 {
		gl.DeleteVertexArrays(1, &vao)
	}
}

func bufferTarget(kind BufferKind) uint32 {
	if kind == IndexBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

// NewBuffer creates and fills a buffer. Index buffers are recorded in the
// currently bound vertex array.
func (d *GL) NewBuffer(kind BufferKind, size int, data unsafe.Pointer, usage Usage) uint32 {
	hint := uint32(gl.STATIC_DRAW)
	if usage == DynamicDraw {
		hint = gl.DYNAMIC_DRAW
	}

	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(bufferTarget(kind), buf)
	gl.BufferData(bufferTarget(kind), size, data, hint)
	return buf
}

func (d *GL) UpdateBuffer(kind BufferKind, buf uint32, size int, data unsafe.Pointer) {
	gl.BindBuffer(bufferTarget(kind), buf)
	gl.BufferSubData(bufferTarget(kind), 0, size, data)
}

func (d *GL) BindBuffer(kind BufferKind, buf uint32) {
	gl.BindBuffer(bufferTarget(kind), buf)
}

func (d *GL) DeleteBuffer(buf uint32) {
	if buf != 0 {
		gl.DeleteBuffers(1, &buf)
	}
}

// VertexAttrib describes an attribute of the currently bound vertex buffer.
func (d *GL) VertexAttrib(location uint32, components int32, typ AttribType, normalized bool, stride int32, offset uintptr) {
	xtype := uint32(gl.FLOAT)
	if typ == UnsignedByte {
		xtype = gl.UNSIGNED_BYTE
	}
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointerWithOffset(location, components, xtype, normalized, stride, offset)
}

func (d *GL) SetCapability(c Capability, enabled bool) {
	var glCap uint32
	switch c {
	case DepthTest:
		glCap = gl.DEPTH_TEST
	case CullFace:
		glCap = gl.CULL_FACE
	case PrimitiveRestart:
		glCap = gl.PRIMITIVE_RESTART_FIXED_INDEX
	default:
		return
	}
	if enabled {
		gl.Enable(glCap)
	} else {
		gl.Disable(glCap)
	}
}

func (d *GL) SetPolygonMode(mode PolygonMode) {
	switch mode {
	case PolygonLine:
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	case PolygonPoint:
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.POINT)
	default:
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

func (d *GL) Clear(color [4]float32) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ClearColorAttachment overrides the clear value of one draw buffer.
func (d *GL) ClearColorAttachment(index int32, value [4]float32) {
	gl.ClearBufferfv(gl.COLOR, index, &value[0])
}

func (d *GL) SetMat4(location int32, m mgl32.Mat4) {
	if location >= 0 {
		gl.UniformMatrix4fv(location, 1, false, &m[0])
	}
}

func (d *GL) SetVec3(location int32, v mgl32.Vec3) {
	if location >= 0 {
		gl.Uniform3f(location, v[0], v[1], v[2])
	}
}

func (d *GL) SetFloat(location int32, f float32) {
	if location >= 0 {
		gl.Uniform1f(location, f)
	}
}

func (d *GL) SetInt(location int32, i int32) {
	if location >= 0 {
		gl.Uniform1i(location, i)
	}
}

func (d *GL) BindTexture(unit uint32, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

func (d *GL) BindImage(unit uint32, tex uint32, access Access, format Format) {
	glAccess := uint32(gl.READ_WRITE)
	switch access {
	case ReadOnly:
		glAccess = gl.READ_ONLY
	case WriteOnly:
		glAccess = gl.WRITE_ONLY
	}
	internal, _, _ := texFormat(format)
	gl.BindImageTexture(unit, tex, 0, false, 0, glAccess, uint32(internal))
}

func (d *GL) DispatchCompute(x, y, z uint32) {
	gl.DispatchCompute(x, y, z)
}

// MemoryBarrier makes image stores visible to later texture fetches.
func (d *GL) MemoryBarrier() {
	gl.MemoryBarrier(gl.SHADER_IMAGE_ACCESS_BARRIER_BIT | gl.TEXTURE_FETCH_BARRIER_BIT)
}

func (d *GL) DrawElements(prim Primitive, count int32) {
	mode := uint32(gl.TRIANGLES)
	if prim == TriangleStrip {
		mode = gl.TRIANGLE_STRIP
	}
	gl.DrawElements(mode, count, gl.UNSIGNED_INT, nil)
}

// ReadPixels returns the RGBA8 contents of fbo, bottom row first.
func (d *GL) ReadPixels(fbo uint32, width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))

	return pixels
}

var _ Device = (*GL)(nil)
