package config

import (
	"flag"
	"time"
)

// Flags override the loaded file. Zero values mean "not given".
var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagExport = flag.String("export-heightmap", "", "Write the heightmap around the start position to this file (.pgm, .png or .bmp) and exit")

	// graphics
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagNoVSync    = flag.Bool("no-vsync", false, "Disable vertical sync")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagFOV        = flag.Float64("fov", 0, "Vertical field of view in degrees")

	// terrain and clouds
	flagSize           = flag.Int("size", 0, "Terrain patch size in quads per side")
	flagDownsample     = flag.Int("downsample", 0, "Cloud resolution divisor")
	flagUpdateInterval = flag.Duration("cloud-interval", 0, "Minimum time between cloud updates (0 updates every frame)")

	// tooling
	flagShaders = flag.String("shaders", "", "Directory to load shader sources from (enables editing for hot reload)")
	flagFormat  = flag.String("heightmap-format", "", "Heightmap format for the F2 key: pgm, png or bmp")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log-file", "", "Also write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ExportHeightmapPath returns the --export-heightmap target, if any.
func ExportHeightmapPath() string {
	return *flagExport
}

func applyFlags(cfg *Config) {
	applyGraphicsFlags(&cfg.Graphics)

	if *flagSize > 0 {
		cfg.Terrain.Size = *flagSize
	}
	if *flagDownsample > 0 {
		cfg.Clouds.Downsample = *flagDownsample
	}
	if *flagUpdateInterval > 0 {
		cfg.Clouds.UpdateInterval = *flagUpdateInterval
	}

	if *flagShaders != "" {
		cfg.Shaders.Dir = *flagShaders
	}
	if *flagFormat != "" {
		cfg.Debug.HeightmapFormat = *flagFormat
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}

func applyGraphicsFlags(g *GraphicsConfig) {
	switch {
	case *flagFullscreen:
		g.Fullscreen = true
	case *flagWindowed:
		g.Fullscreen = false
	}
	if *flagNoVSync {
		g.VSync = false
	}
	if *flagWidth > 0 {
		g.Width = *flagWidth
	}
	if *flagHeight > 0 {
		g.Height = *flagHeight
	}
	if *flagFOV > 0 {
		g.FOV = float32(*flagFOV)
	}
}

// resetFlags clears every override; tests use it between cases.
func resetFlags() {
	*flagConfig, *flagExport = "", ""
	*flagWindowed, *flagFullscreen, *flagNoVSync = false, false, false
	*flagWidth, *flagHeight, *flagFOV = 0, 0, 0
	*flagSize, *flagDownsample = 0, 0
	*flagUpdateInterval = time.Duration(0)
	*flagShaders, *flagFormat, *flagLogFile = "", "", ""
	*flagDebug = false
}
