package framebuffer

import "github.com/Faultbox/nimbus/internal/engine/gpu"

// Image is a texture written by compute programs through image stores and
// sampled by later passes.
type Image struct {
	dev    gpu.Device
	tex    uint32
	format gpu.Format
	width  int32
	height int32
}

// NewImage allocates a storage image.
func NewImage(dev gpu.Device, format gpu.Format, width, height int32) *Image {
	width, height = clampSize(width, height)
	return &Image{
		dev:    dev,
		tex:    dev.NewTexture(format, width, height),
		format: format,
		width:  width,
		height: height,
	}
}

// Texture returns the texture handle.
func (im *Image) Texture() uint32 { return im.tex }

// Size returns the image dimensions.
func (im *Image) Size() (width, height int32) { return im.width, im.height }

// Resize reallocates storage if the dimensions changed and reports whether
// it did.
func (im *Image) Resize(width, height int32) bool {
	width, height = clampSize(width, height)
	if width == im.width && height == im.height {
		return false
	}
	im.width, im.height = width, height
	im.dev.ResizeTexture(im.tex, im.format, width, height)
	return true
}

// BindImage binds the image to an image unit for compute access.
func (im *Image) BindImage(unit uint32, access gpu.Access) {
	im.dev.BindImage(unit, im.tex, access, im.format)
}

// Destroy releases the texture.
func (im *Image) Destroy() {
	if im.tex != 0 {
		im.dev.DeleteTexture(im.tex)
		im.tex = 0
	}
}
