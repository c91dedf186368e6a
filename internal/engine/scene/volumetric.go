package scene

import (
	"github.com/Faultbox/nimbus/internal/engine/gpu"
	"github.com/Faultbox/nimbus/internal/engine/shader"
)

// Image units of clouds.comp.
const (
	depthImageUnit      = 1
	cloudImageUnit      = 2
	cloudDepthImageUnit = 3
)

type volumetricPass struct {
	stage *shader.Stage
}

func newVolumetricPass(dev gpu.Device, loader *shader.Loader) (*volumetricPass, error) {
	stage, err := shader.NewStage(dev, loader, CloudsStage)
	if err != nil {
		return nil, err
	}
	return &volumetricPass{stage: stage}, nil
}

func (v *volumetricPass) destroy() {
	if v == nil {
		return
	}
	v.stage.Destroy()
}

// shouldDispatch reports whether the cloud images need recomputing this
// frame.
func (p *Pipeline) shouldDispatch() bool {
	return p.stale || p.opts.UpdateInterval <= 0 || p.sinceDispatch >= p.opts.UpdateInterval
}

// RenderVolumetricPass ray-marches the cloud layer into the downsampled
// color and depth images. It reports whether a dispatch was issued; with a
// positive update interval the previous images are reused between
// dispatches.
func (p *Pipeline) RenderVolumetricPass() bool {
	if !p.shouldDispatch() {
		return false
	}

	s := p.volumetric.stage
	dev := p.dev

	s.Use()
	dev.BindImage(depthImageUnit, p.res.opaque.Color(1), gpu.ReadOnly, gpu.FormatR32F)
	p.res.cloud.BindImage(cloudImageUnit, gpu.WriteOnly)
	p.res.cloudDepth.BindImage(cloudDepthImageUnit, gpu.WriteOnly)
	dev.SetInt(s.Uniform(uDepthIm), depthImageUnit)
	dev.SetInt(s.Uniform(uCloudIm), cloudImageUnit)
	dev.SetInt(s.Uniform(uCloudDepthIm), cloudDepthImageUnit)

	eye := p.obs.Position()
	dev.SetVec3(s.Uniform(uEyePosition), eye)
	dev.SetVec3(s.Uniform(uSunPosition), p.opts.Sun.Position(eye))
	dev.SetVec3(s.Uniform(uSunColor), p.opts.Sun.Color)
	dev.SetFloat(s.Uniform(uTime), float32(p.elapsed.Seconds())*p.opts.TimeScale)
	dev.SetMat4(s.Uniform(uInvVP), p.Projection().Mul4(p.View()).Inv())

	gx, gy := WorkGroups(p.res.cloud.Size())
	dev.DispatchCompute(gx, gy, 1)
	dev.MemoryBarrier()

	p.sinceDispatch = 0
	p.stale = false
	return true
}
