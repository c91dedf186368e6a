package scene

import (
	"fmt"

	"github.com/Faultbox/nimbus/internal/engine/framebuffer"
	"github.com/Faultbox/nimbus/internal/engine/gpu"
)

// Compute work-group size of clouds.comp.
const (
	workGroupX = 16
	workGroupY = 4
)

// Value written to the linear depth attachment where nothing is drawn.
const farDepth = 1e15

// Sizes reports the dimensions of the viewport-sized resources.
type Sizes struct {
	Width, Height                     int32 // opaque target
	VolumetricWidth, VolumetricHeight int32 // cloud color and depth images
}

// DownsampledSize divides a viewport by factor, rounding up.
func DownsampledSize(width, height, factor int32) (int32, int32) {
	if factor < 1 {
		factor = 1
	}
	return (width + factor - 1) / factor, (height + factor - 1) / factor
}

// WorkGroups returns the dispatch grid covering a width x height image.
func WorkGroups(width, height int32) (x, y uint32) {
	return uint32((width + workGroupX - 1) / workGroupX), uint32((height + workGroupY - 1) / workGroupY)
}

// resources owns every viewport-sized GPU object.
type resources struct {
	opaque     *framebuffer.Framebuffer // color, linear depth
	cloud      *framebuffer.Image
	cloudDepth *framebuffer.Image
	downsample int32
}

func newResources(dev gpu.Device, width, height, downsample int32) (*resources, error) {
	opaque, err := framebuffer.New(dev, width, height, gpu.FormatRGBA8, gpu.FormatR32F)
	if err != nil {
		return nil, fmt.Errorf("opaque target: %w", err)
	}

	dw, dh := DownsampledSize(width, height, downsample)
	return &resources{
		opaque:     opaque,
		cloud:      framebuffer.NewImage(dev, gpu.FormatRGBA8, dw, dh),
		cloudDepth: framebuffer.NewImage(dev, gpu.FormatR32F, dw, dh),
		downsample: downsample,
	}, nil
}

// resize reallocates all resources for a new viewport. Every resource is
// resized before returning, so no caller sees mixed dimensions.
func (r *resources) resize(width, height int32) bool {
	changed := r.opaque.Resize(width, height)
	dw, dh := DownsampledSize(width, height, r.downsample)
	if r.cloud.Resize(dw, dh) {
		changed = true
	}
	if r.cloudDepth.Resize(dw, dh) {
		changed = true
	}
	return changed
}

func (r *resources) sizes() Sizes {
	var s Sizes
	s.Width, s.Height = r.opaque.Size()
	s.VolumetricWidth, s.VolumetricHeight = r.cloud.Size()
	return s
}

func (r *resources) destroy() {
	if r == nil {
		return
	}
	r.opaque.Destroy()
	r.cloud.Destroy()
	r.cloudDepth.Destroy()
}
