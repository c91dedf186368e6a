package app

import (
	"github.com/Faultbox/nimbus/internal/config"
	"github.com/Faultbox/nimbus/internal/engine/lighting"
	"github.com/Faultbox/nimbus/internal/engine/scene"
	"github.com/Faultbox/nimbus/internal/engine/shader"
	"github.com/Faultbox/nimbus/internal/engine/terrain"
)

// meshOptions maps the terrain section onto mesh options.
func meshOptions(cfg config.TerrainConfig) terrain.MeshOptions {
	opts := terrain.MeshOptions{
		Size:             cfg.Size,
		Resolution:       cfg.Resolution,
		RecenterDistance: cfg.RecenterDistance,
		Color:            cfg.Color,
	}
	if len(cfg.Octaves) == 0 {
		opts.Octaves = terrain.DefaultOctaves(cfg.BaseFrequency)
		return opts
	}
	for _, o := range cfg.Octaves {
		opts.Octaves = append(opts.Octaves, terrain.Octave{
			FrequencyX: o.FrequencyX,
			FrequencyY: o.FrequencyY,
			Amplitude:  o.Amplitude,
			OffsetX:    o.OffsetX,
			OffsetY:    o.OffsetY,
		})
	}
	return opts
}

// pipelineOptions maps graphics, clouds and lighting settings onto
// pipeline options.
func pipelineOptions(cfg *config.Config) scene.Options {
	opts := scene.DefaultOptions()
	opts.FOV = cfg.Graphics.FOV
	opts.Near = cfg.Graphics.Near
	opts.Far = cfg.Graphics.Far
	opts.Downsample = cfg.Clouds.Downsample
	opts.UpdateInterval = cfg.Clouds.UpdateInterval
	opts.TimeScale = cfg.Clouds.TimeScale
	opts.Sun = lighting.NewSun(
		cfg.Lighting.SunLongitude,
		cfg.Lighting.SunLatitude,
		cfg.Lighting.SunDistance,
		cfg.Lighting.SunColor,
	)
	return opts
}

// shaderLoader reads from the configured directory, or from the sources
// built into the binary when none is set.
func shaderLoader(cfg config.ShadersConfig) *shader.Loader {
	if cfg.Dir == "" {
		return shader.NewLoader(scene.EmbeddedShaders())
	}
	return shader.DirLoader(cfg.Dir)
}
