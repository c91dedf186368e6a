package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/engine/gpu"
	"github.com/Faultbox/nimbus/internal/engine/input"
	"github.com/Faultbox/nimbus/internal/engine/lighting"
	"github.com/Faultbox/nimbus/internal/engine/shader"
	"github.com/Faultbox/nimbus/internal/engine/terrain"
	"github.com/Faultbox/nimbus/internal/logger"
)

// Options configures a Pipeline.
type Options struct {
	FOV        float32 // vertical, degrees
	Near, Far  float32
	Downsample int // volumetric resolution divisor

	// UpdateInterval throttles the volumetric dispatch. Zero dispatches
	// every frame.
	UpdateInterval time.Duration
	TimeScale      float32

	ClearColor [4]float32
	Sun        lighting.Sun
}

// DefaultOptions returns the stock projection, cloud and sky settings.
func DefaultOptions() Options {
	return Options{
		FOV:        75,
		Near:       0.001,
		Far:        1e5,
		Downsample: 4,
		TimeScale:  10,
		ClearColor: [4]float32{0, 0.7, 1, 1},
		Sun:        lighting.NewSun(45, 35, 1e4, [3]float32{1, 0.95, 0.85}),
	}
}

// Pipeline renders the terrain, the cloud layer and their composite.
//
// A frame is RenderOpaquePass, RenderVolumetricPass, CompositePass, in that
// order; Render runs all three. The pipeline owns every GPU object it
// creates and releases them in Destroy.
type Pipeline struct {
	dev  gpu.Device
	obs  Observer
	mesh *terrain.Mesh
	opts Options

	opaque     *opaquePass
	volumetric *volumetricPass
	composite  *compositePass
	res        *resources

	width, height int32
	fillMode      FillMode

	elapsed       time.Duration
	sinceDispatch time.Duration
	stale         bool // cloud images do not match the current frame setup
}

// NewPipeline compiles all stages and allocates resources sized to the
// observer's window. On failure everything allocated so far is released.
func NewPipeline(dev gpu.Device, obs Observer, mesh *terrain.Mesh, loader *shader.Loader, opts Options) (*Pipeline, error) {
	if opts.Downsample < 1 {
		return nil, fmt.Errorf("downsample factor %d must be at least 1", opts.Downsample)
	}

	w, h := obs.WindowSize()
	p := &Pipeline{
		dev:    dev,
		obs:    obs,
		mesh:   mesh,
		opts:   opts,
		width:  clampDim(w),
		height: clampDim(h),
		stale:  true,
	}

	var err error
	if p.opaque, err = newOpaquePass(dev, loader, mesh); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("opaque pass: %w", err)
	}
	if p.volumetric, err = newVolumetricPass(dev, loader); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("volumetric pass: %w", err)
	}
	if p.composite, err = newCompositePass(dev, loader); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("composite pass: %w", err)
	}
	if p.res, err = newResources(dev, p.width, p.height, int32(opts.Downsample)); err != nil {
		p.Destroy()
		return nil, err
	}

	s := p.Sizes()
	logger.Info("render pipeline created",
		zap.Int32("width", s.Width),
		zap.Int32("height", s.Height),
		zap.Int32("volumetric_width", s.VolumetricWidth),
		zap.Int32("volumetric_height", s.VolumetricHeight),
		zap.Int("terrain_indices", int(p.opaque.indexCount)),
	)
	return p, nil
}

func clampDim(v int) int32 {
	if v < 1 {
		return 1
	}
	return int32(v)
}

// Projection returns the perspective matrix for the current viewport.
func (p *Pipeline) Projection() mgl32.Mat4 {
	aspect := float32(p.width) / float32(p.height)
	return mgl32.Perspective(mgl32.DegToRad(p.opts.FOV), aspect, p.opts.Near, p.opts.Far)
}

// View returns the observer's look-at matrix.
func (p *Pipeline) View() mgl32.Mat4 {
	eye := p.obs.Position()
	return mgl32.LookAtV(eye, eye.Add(p.obs.ViewVector()), mgl32.Vec3{0, 1, 0})
}

// Render runs one frame. Resources are first brought to the observer's
// window size so all three passes see the same dimensions.
func (p *Pipeline) Render() {
	p.Resize(p.obs.WindowSize())
	p.RenderOpaquePass()
	p.RenderVolumetricPass()
	p.CompositePass()
}

// Resize reallocates every viewport-sized resource. It reports whether
// anything changed; repeating a size is a no-op.
func (p *Pipeline) Resize(width, height int) bool {
	w, h := clampDim(width), clampDim(height)
	if w == p.width && h == p.height {
		return false
	}

	p.res.resize(w, h)
	p.width, p.height = w, h
	p.stale = true

	s := p.Sizes()
	logger.Debug("pipeline resized",
		zap.Int32("width", s.Width),
		zap.Int32("height", s.Height),
		zap.Int32("volumetric_width", s.VolumetricWidth),
		zap.Int32("volumetric_height", s.VolumetricHeight),
	)
	return true
}

// HandleEvent reacts to resize, reload (R) and fill-mode (P) events.
func (p *Pipeline) HandleEvent(e input.Event) Response {
	switch e.Type {
	case input.EventWindowResize:
		p.Resize(e.Width, e.Height)
		return Processed
	case input.EventKeyDown:
		if e.Repeat {
			return Ignored
		}
		switch e.Key {
		case input.KeyR:
			if err := p.Reload(); err == nil {
				logger.Info("all stages reloaded")
			}
			return Processed
		case input.KeyP:
			p.fillMode = p.fillMode.Next()
			logger.Debug("fill mode changed", zap.Stringer("mode", p.fillMode))
			return Processed
		}
	}
	return Ignored
}

// Update advances cloud time and keeps the terrain patch under the
// observer.
func (p *Pipeline) Update(dt time.Duration) {
	p.elapsed += dt
	p.sinceDispatch += dt
	p.mesh.MaybeRecenter(p.obs.Position())
}

// Reload rebuilds every stage from its sources. Each stage either switches
// to its new program or keeps the old one; a failure in one stage does not
// prevent the others from reloading. The returned error joins all failures.
// If no stage swapped, the pipeline is left exactly as it was.
func (p *Pipeline) Reload() error {
	var errs []error
	swapped := false

	if err := p.opaque.stage.Reload(); err != nil {
		errs = append(errs, err)
	} else {
		p.opaque.bindAttribs()
		swapped = true
	}
	if err := p.volumetric.stage.Reload(); err != nil {
		errs = append(errs, err)
	} else {
		swapped = true
	}
	if err := p.composite.stage.Reload(); err != nil {
		errs = append(errs, err)
	} else {
		p.composite.bindAttribs()
		swapped = true
	}

	for _, err := range errs {
		logger.Warn("stage reload failed, keeping previous program", zap.Error(err))
	}
	if swapped {
		p.stale = true
	}
	return errors.Join(errs...)
}

// FillMode returns the current terrain fill mode.
func (p *Pipeline) FillMode() FillMode { return p.fillMode }

// Sizes returns the current resource dimensions.
func (p *Pipeline) Sizes() Sizes { return p.res.sizes() }

// Mesh returns the terrain mesh being drawn.
func (p *Pipeline) Mesh() *terrain.Mesh { return p.mesh }

// ReadFrame reads back the presented frame, bottom row first.
func (p *Pipeline) ReadFrame() (pixels []byte, width, height int) {
	return p.dev.ReadPixels(0, p.width, p.height), int(p.width), int(p.height)
}

// Destroy releases all GPU objects. It is safe on a partially built
// pipeline and safe to call more than once.
func (p *Pipeline) Destroy() {
	p.res.destroy()
	p.composite.destroy()
	p.volumetric.destroy()
	p.opaque.destroy()
	p.res, p.composite, p.volumetric, p.opaque = nil, nil, nil, nil
}
