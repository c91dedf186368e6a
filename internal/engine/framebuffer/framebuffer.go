// Package framebuffer provides owned GPU render targets for offscreen passes.
package framebuffer

import (
	"fmt"

	"github.com/Faultbox/nimbus/internal/engine/gpu"
)

// Framebuffer is an offscreen render target with one texture per color
// attachment and a depth renderbuffer.
type Framebuffer struct {
	dev     gpu.Device
	fbo     uint32
	colors  []uint32
	formats []gpu.Format
	depthRB uint32
	width   int32
	height  int32
}

// New creates a framebuffer with one color attachment per format.
// Everything allocated is released if the framebuffer is incomplete.
func New(dev gpu.Device, width, height int32, formats ...gpu.Format) (*Framebuffer, error) {
	if len(formats) == 0 {
		formats = []gpu.Format{gpu.FormatRGBA8}
	}
	width, height = clampSize(width, height)

	fb := &Framebuffer{
		dev:     dev,
		formats: formats,
		width:   width,
		height:  height,
	}

	if err := fb.create(); err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	return fb, nil
}

func (fb *Framebuffer) create() error {
	for _, f := range fb.formats {
		fb.colors = append(fb.colors, fb.dev.NewTexture(f, fb.width, fb.height))
	}
	fb.depthRB = fb.dev.NewRenderbuffer(gpu.FormatDepth32F, fb.width, fb.height)

	fbo, err := fb.dev.NewFramebuffer(fb.colors, fb.depthRB)
	if err != nil {
		fb.Destroy()
		return err
	}
	fb.fbo = fbo
	return nil
}

// Bind makes this framebuffer the current render target.
func (fb *Framebuffer) Bind() {
	fb.dev.BindFramebuffer(fb.fbo, fb.width, fb.height)
}

// Color returns the texture of color attachment i.
func (fb *Framebuffer) Color(i int) uint32 {
	return fb.colors[i]
}

// FBO returns the underlying framebuffer object ID.
func (fb *Framebuffer) FBO() uint32 {
	return fb.fbo
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Resize reallocates every attachment if the dimensions changed.
// It reports whether anything was reallocated.
func (fb *Framebuffer) Resize(width, height int32) bool {
	width, height = clampSize(width, height)
	if width == fb.width && height == fb.height {
		return false
	}

	fb.width = width
	fb.height = height

	for i, tex := range fb.colors {
		fb.dev.ResizeTexture(tex, fb.formats[i], width, height)
	}
	fb.dev.ResizeRenderbuffer(fb.depthRB, gpu.FormatDepth32F, width, height)
	return true
}

// Destroy releases all GPU resources. It is safe to call more than once.
func (fb *Framebuffer) Destroy() {
	if fb.fbo != 0 {
		fb.dev.DeleteFramebuffer(fb.fbo)
		fb.fbo = 0
	}
	for _, tex := range fb.colors {
		fb.dev.DeleteTexture(tex)
	}
	fb.colors = nil
	if fb.depthRB != 0 {
		fb.dev.DeleteRenderbuffer(fb.depthRB)
		fb.depthRB = 0
	}
}

func clampSize(width, height int32) (int32, int32) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}
