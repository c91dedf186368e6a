// Package gpu abstracts the graphics calls made by the render pipeline.
//
// The pipeline talks to a Device rather than to OpenGL directly so that pass
// sequencing, resource sizing and stage reload can be exercised without a
// live context (see package gputest).
package gpu

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Format is a texel or renderbuffer storage format.
type Format int

const (
	FormatRGBA8 Format = iota
	FormatR32F
	FormatDepth32F
)

func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatR32F:
		return "R32F"
	case FormatDepth32F:
		return "DEPTH32F"
	default:
		return "unknown"
	}
}

// Access is the access mode of an image binding.
type Access int

const (
	ReadOnly Access = iota
	WriteOnly
	ReadWrite
)

// Primitive is the topology used by DrawElements.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleStrip
)

// PolygonMode controls how rasterized polygons are filled.
type PolygonMode int

const (
	PolygonFill PolygonMode = iota
	PolygonLine
	PolygonPoint
)

// Capability is a toggleable fixed-function state.
type Capability int

const (
	DepthTest Capability = iota
	CullFace
	PrimitiveRestart
)

// BufferKind selects the binding target of a buffer.
type BufferKind int

const (
	VertexBuffer BufferKind = iota
	IndexBuffer
)

// Usage is a buffer update frequency hint.
type Usage int

const (
	StaticDraw Usage = iota
	DynamicDraw
)

// AttribType is the component type of a vertex attribute.
type AttribType int

const (
	Float AttribType = iota
	UnsignedByte
)

// ProgramSource holds the stage sources of one program. Either Compute or
// the Vertex/Fragment pair is set.
type ProgramSource struct {
	Vertex   string
	Fragment string
	Compute  string
}

// IsCompute reports whether the source describes a compute program.
func (s ProgramSource) IsCompute() bool {
	return s.Compute != ""
}

// Device is the set of GPU operations the renderer depends on.
// Handles are opaque non-zero identifiers; zero means "none".
type Device interface {
	// Programs
	CompileProgram(src ProgramSource) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	// UniformLocation and AttribLocation return -1 for names the program
	// does not expose.
	UniformLocation(program uint32, name string) int32
	AttribLocation(program uint32, name string) int32

	// Textures, renderbuffers and framebuffers
	NewTexture(format Format, width, height int32) uint32
	ResizeTexture(tex uint32, format Format, width, height int32)
	DeleteTexture(tex uint32)
	NewRenderbuffer(format Format, width, height int32) uint32
	ResizeRenderbuffer(rb uint32, format Format, width, height int32)
	DeleteRenderbuffer(rb uint32)
	NewFramebuffer(colors []uint32, depth uint32) (uint32, error)
	DeleteFramebuffer(fbo uint32)
	// BindFramebuffer binds fbo (0 for the default framebuffer) and sets
	// the viewport to width x height.
	BindFramebuffer(fbo uint32, width, height int32)

	// Geometry
	NewVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	NewBuffer(kind BufferKind, size int, data unsafe.Pointer, usage Usage) uint32
	UpdateBuffer(kind BufferKind, buf uint32, size int, data unsafe.Pointer)
	BindBuffer(kind BufferKind, buf uint32)
	DeleteBuffer(buf uint32)
	// VertexAttrib describes an attribute of the bound vertex buffer.
	VertexAttrib(location uint32, components int32, typ AttribType, normalized bool, stride int32, offset uintptr)

	// State
	SetCapability(c Capability, enabled bool)
	SetPolygonMode(mode PolygonMode)
	Clear(color [4]float32)
	ClearColorAttachment(index int32, value [4]float32)

	// Uniforms
	SetMat4(location int32, m mgl32.Mat4)
	SetVec3(location int32, v mgl32.Vec3)
	SetFloat(location int32, f float32)
	SetInt(location int32, i int32)

	// Binding and submission
	BindTexture(unit uint32, tex uint32)
	BindImage(unit uint32, tex uint32, access Access, format Format)
	DispatchCompute(x, y, z uint32)
	MemoryBarrier()
	DrawElements(prim Primitive, count int32)
	ReadPixels(fbo uint32, width, height int32) []byte
}
