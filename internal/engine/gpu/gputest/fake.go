// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/nimbus/internal/engine/gpu"
)

// ErrBadSource is returned by CompileProgram for sources that do not start
// with a #version directive.
var ErrBadSource = errors.New("missing #version directive")

// Call is one recorded Device invocation.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

// Texture is the recorded state of a texture or renderbuffer.
type Texture struct {
	Format gpu.Format
	Width  int32
	Height int32
}

// Program is the recorded state of a linked program.
type Program struct {
	Source   gpu.ProgramSource
	Uniforms map[string]int32
	Attribs  map[string]int32
}

// Device records calls and tracks object lifetimes. The zero value is not
// usable; call New.
type Device struct {
	Calls []Call

	Programs      map[uint32]*Program
	Textures      map[uint32]*Texture
	Renderbuffers map[uint32]*Texture
	Framebuffers  map[uint32][]uint32
	Buffers       map[uint32]int
	VertexArrays  map[uint32]bool

	// FailFramebuffer makes the next NewFramebuffer call fail.
	FailFramebuffer bool

	next uint32
}

// New returns an empty recording device.
func New() *Device {
	return &Device{
		Programs:      make(map[uint32]*Program),
		Textures:      make(map[uint32]*Texture),
		Renderbuffers: make(map[uint32]*Texture),
		Framebuffers:  make(map[uint32][]uint32),
		Buffers:       make(map[uint32]int),
		VertexArrays:  make(map[uint32]bool),
	}
}

func (d *Device) record(op string, args ...any) {
	d.Calls = append(d.Calls, Call{Op: op, Args: args})
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

// Reset forgets recorded calls but keeps object state.
func (d *Device) Reset() {
	d.Calls = d.Calls[:0]
}

// CallsTo returns the recorded calls with the given op name.
func (d *Device) CallsTo(op string) []Call {
	var out []Call
	for _, c := range d.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Live reports the number of objects not yet deleted.
func (d *Device) Live() int {
	return len(d.Programs) + len(d.Textures) + len(d.Renderbuffers) +
		len(d.Framebuffers) + len(d.Buffers) + len(d.VertexArrays)
}

func (d *Device) CompileProgram(src gpu.ProgramSource) (uint32, error) {
	d.record("CompileProgram")
	for _, s := range []string{src.Vertex, src.Fragment, src.Compute} {
		if s != "" && !strings.HasPrefix(strings.TrimSpace(s), "#version") {
			return 0, ErrBadSource
		}
	}
	if !src.IsCompute() && (src.Vertex == "" || src.Fragment == "") {
		return 0, errors.New("link: missing stage")
	}

	id := d.id()
	d.Programs[id] = &Program{
		Source:   src,
		Uniforms: make(map[string]int32),
		Attribs:  make(map[string]int32),
	}
	return id, nil
}

func (d *Device) DeleteProgram(program uint32) {
	d.record("DeleteProgram", program)
	delete(d.Programs, program)
}

func (d *Device) UseProgram(program uint32) {
	d.record("UseProgram", program)
}

// UniformLocation hands out locations for names that appear in any of the
// program's sources. Locations are unique per program.
func (d *Device) UniformLocation(program uint32, name string) int32 {
	return d.lookup(program, name, false)
}

func (d *Device) AttribLocation(program uint32, name string) int32 {
	return d.lookup(program, name, true)
}

func (d *Device) lookup(program uint32, name string, attrib bool) int32 {
	p, ok := d.Programs[program]
	if !ok {
		return -1
	}
	src := p.Source.Vertex + p.Source.Fragment + p.Source.Compute
	if !strings.Contains(src, name) {
		return -1
	}
	table := p.Uniforms
	if attrib {
		table = p.Attribs
	}
	if loc, ok := table[name]; ok {
		return loc
	}
	loc := int32(program)*100 + int32(len(table))
	table[name] = loc
	return loc
}

func (d *Device) NewTexture(format gpu.Format, width, height int32) uint32 {
	id := d.id()
	d.Textures[id] = &Texture{Format: format, Width: width, Height: height}
	d.record("NewTexture", id, format, width, height)
	return id
}

func (d *Device) ResizeTexture(tex uint32, format gpu.Format, width, height int32) {
	d.record("ResizeTexture", tex, format, width, height)
	if t, ok := d.Textures[tex]; ok {
		t.Format, t.Width, t.Height = format, width, height
	}
}

func (d *Device) DeleteTexture(tex uint32) {
	d.record("DeleteTexture", tex)
	delete(d.Textures, tex)
}

func (d *Device) NewRenderbuffer(format gpu.Format, width, height int32) uint32 {
	id := d.id()
	d.Renderbuffers[id] = &Texture{Format: format, Width: width, Height: height}
	d.record("NewRenderbuffer", id, format, width, height)
	return id
}

func (d *Device) ResizeRenderbuffer(rb uint32, format gpu.Format, width, height int32) {
	d.record("ResizeRenderbuffer", rb, format, width, height)
	if t, ok := d.Renderbuffers[rb]; ok {
		t.Format, t.Width, t.Height = format, width, height
	}
}

func (d *Device) DeleteRenderbuffer(rb uint32) {
	d.record("DeleteRenderbuffer", rb)
	delete(d.Renderbuffers, rb)
}

func (d *Device) NewFramebuffer(colors []uint32, depth uint32) (uint32, error) {
	d.record("NewFramebuffer", colors, depth)
	if d.FailFramebuffer {
		d.FailFramebuffer = false
		return 0, errors.New("framebuffer incomplete: 0x8cd6")
	}
	id := d.id()
	d.Framebuffers[id] = append([]uint32(nil), colors...)
	return id, nil
}

func (d *Device) DeleteFramebuffer(fbo uint32) {
	d.record("DeleteFramebuffer", fbo)
	delete(d.Framebuffers, fbo)
}

func (d *Device) BindFramebuffer(fbo uint32, width, height int32) {
	d.record("BindFramebuffer", fbo, width, height)
}

func (d *Device) NewVertexArray() uint32 {
	id := d.id()
	d.VertexArrays[id] = true
	d.record("NewVertexArray", id)
	return id
}

func (d *Device) BindVertexArray(vao uint32) {
	d.record("BindVertexArray", vao)
}

func (d *Device) DeleteVertexArray(vao uint32) {
	d.record("DeleteVertexArray", vao)
	delete(d.VertexArrays, vao)
}

func (d *Device) NewBuffer(kind gpu.BufferKind, size int, _ unsafe.Pointer, usage gpu.Usage) uint32 {
	id := d.id()
	d.Buffers[id] = size
	d.record("NewBuffer", id, kind, size, usage)
	return id
}

func (d *Device) UpdateBuffer(kind gpu.BufferKind, buf uint32, size int, _ unsafe.Pointer) {
	d.record("UpdateBuffer", buf, kind, size)
}

func (d *Device) BindBuffer(kind gpu.BufferKind, buf uint32) {
	d.record("BindBuffer", kind, buf)
}

func (d *Device) DeleteBuffer(buf uint32) {
	d.record("DeleteBuffer", buf)
	delete(d.Buffers, buf)
}

func (d *Device) VertexAttrib(location uint32, components int32, typ gpu.AttribType, normalized bool, stride int32, offset uintptr) {
	d.record("VertexAttrib", location, components, typ, normalized, stride, offset)
}

func (d *Device) SetCapability(c gpu.Capability, enabled bool) {
	d.record("SetCapability", c, enabled)
}

func (d *Device) SetPolygonMode(mode gpu.PolygonMode) {
	d.record("SetPolygonMode", mode)
}

func (d *Device) Clear(color [4]float32) {
	d.record("Clear", color)
}

func (d *Device) ClearColorAttachment(index int32, value [4]float32) {
	d.record("ClearColorAttachment", index, value)
}

func (d *Device) SetMat4(location int32, m mgl32.Mat4) {
	d.record("SetMat4", location, m)
}

func (d *Device) SetVec3(location int32, v mgl32.Vec3) {
	d.record("SetVec3", location, v)
}

func (d *Device) SetFloat(location int32, f float32) {
	d.record("SetFloat", location, f)
}

func (d *Device) SetInt(location int32, i int32) {
	d.record("SetInt", location, i)
}

func (d *Device) BindTexture(unit uint32, tex uint32) {
	d.record("BindTexture", unit, tex)
}

func (d *Device) BindImage(unit uint32, tex uint32, access gpu.Access, format gpu.Format) {
	d.record("BindImage", unit, tex, access, format)
}

func (d *Device) DispatchCompute(x, y, z uint32) {
	d.record("DispatchCompute", x, y, z)
}

func (d *Device) MemoryBarrier() {
	d.record("MemoryBarrier")
}

func (d *Device) DrawElements(prim gpu.Primitive, count int32) {
	d.record("DrawElements", prim, count)
}

// ReadPixels returns an opaque mid-grey frame.
func (d *Device) ReadPixels(fbo uint32, width, height int32) []byte {
	d.record("ReadPixels", fbo, width, height)
	pixels := make([]byte, int(width)*int(height)*4)
	for i := range pixels {
		pixels[i] = 128
		if i%4 == 3 {
			pixels[i] = 255
		}
	}
	return pixels
}

var _ gpu.Device = (*Device)(nil)
