// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// MaxTerrainSize is the largest patch size S whose (S+1)² vertex indices stay
// below the 32-bit primitive-restart sentinel.
const MaxTerrainSize = 65534

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Clouds   CloudsConfig   `yaml:"clouds"`
	Lighting LightingConfig `yaml:"lighting"`
	Camera   CameraConfig   `yaml:"camera"`
	Shaders  ShadersConfig  `yaml:"shaders"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and projection settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FOV        float32 `yaml:"fov"` // Vertical field of view in degrees
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
}

// TerrainConfig holds procedural terrain settings.
type TerrainConfig struct {
	Size             int            `yaml:"size"`       // Quads per side (S)
	Resolution       float32        `yaml:"resolution"` // World units per lattice cell
	RecenterDistance float32        `yaml:"recenter_distance"`
	BaseFrequency    float64        `yaml:"base_frequency"`
	Color            [3]uint8       `yaml:"color"`
	Octaves          []OctaveConfig `yaml:"octaves,omitempty"` // Empty means the built-in profile
}

// OctaveConfig describes one fractal noise layer.
type OctaveConfig struct {
	FrequencyX float64 `yaml:"frequency_x"`
	FrequencyY float64 `yaml:"frequency_y"`
	Amplitude  float64 `yaml:"amplitude"`
	OffsetX    float64 `yaml:"offset_x"`
	OffsetY    float64 `yaml:"offset_y"`
}

// CloudsConfig holds volumetric pass settings.
type CloudsConfig struct {
	Downsample     int           `yaml:"downsample"`
	UpdateInterval time.Duration `yaml:"update_interval"` // 0 dispatches every frame
	TimeScale      float32       `yaml:"time_scale"`
}

// LightingConfig holds sun settings shared by the terrain and cloud stages.
type LightingConfig struct {
	SunLongitude float32    `yaml:"sun_longitude"`
	SunLatitude  float32    `yaml:"sun_latitude"`
	SunDistance  float32    `yaml:"sun_distance"`
	SunColor     [3]float32 `yaml:"sun_color"`
}

// CameraConfig holds observer settings.
type CameraConfig struct {
	Position         [3]float32 `yaml:"position"`
	Speed            float32    `yaml:"speed"` // World units per second
	MouseSensitivity float32    `yaml:"mouse_sensitivity"`
}

// ShadersConfig holds shader source settings.
type ShadersConfig struct {
	Dir string `yaml:"dir"` // Empty uses the embedded sources
}

// DebugConfig holds diagnostic output settings.
type DebugConfig struct {
	OutputDir       string `yaml:"output_dir"`
	HeightmapFormat string `yaml:"heightmap_format"` // pgm, png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOV:        75,
			Near:       0.001,
			Far:        1e5,
		},
		Terrain: TerrainConfig{
			Size:             350,
			Resolution:       0.85,
			RecenterDistance: 15,
			BaseFrequency:    100,
			Color:            [3]uint8{0, 80, 0},
		},
		Clouds: CloudsConfig{
			Downsample: 4,
			TimeScale:  10,
		},
		Lighting: LightingConfig{
			SunLongitude: 45,
			SunLatitude:  35,
			SunDistance:  1e4,
			SunColor:     [3]float32{1.0, 0.95, 0.85},
		},
		Camera: CameraConfig{
			Position:         [3]float32{0, 80, 0},
			Speed:            30,
			MouseSensitivity: 0.15,
		},
		Debug: DebugConfig{
			OutputDir:       "screenshots",
			HeightmapFormat: "pgm",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the renderer cannot honor.
func (c *Config) Validate() error {
	var errs []error

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: window size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.Near <= 0 || c.Graphics.Far <= c.Graphics.Near {
		errs = append(errs, fmt.Errorf("graphics: invalid depth range near=%g far=%g", c.Graphics.Near, c.Graphics.Far))
	}
	if c.Terrain.Size < 1 || c.Terrain.Size > MaxTerrainSize {
		errs = append(errs, fmt.Errorf("terrain: size %d outside [1, %d]", c.Terrain.Size, MaxTerrainSize))
	}
	if c.Terrain.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("terrain: resolution %g must be positive", c.Terrain.Resolution))
	}
	if c.Terrain.RecenterDistance <= 0 {
		errs = append(errs, fmt.Errorf("terrain: recenter distance %g must be positive", c.Terrain.RecenterDistance))
	}
	if c.Terrain.BaseFrequency <= 0 {
		errs = append(errs, fmt.Errorf("terrain: base frequency %g must be positive", c.Terrain.BaseFrequency))
	}
	if c.Clouds.Downsample < 1 {
		errs = append(errs, fmt.Errorf("clouds: downsample %d must be at least 1", c.Clouds.Downsample))
	}
	switch c.Debug.HeightmapFormat {
	case "pgm", "png", "bmp":
	default:
		errs = append(errs, fmt.Errorf("debug: unknown heightmap format %q", c.Debug.HeightmapFormat))
	}

	return errors.Join(errs...)
}
