package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.FOV != 75 {
		t.Errorf("expected fov 75, got %f", cfg.Graphics.FOV)
	}
	if cfg.Terrain.Size != 350 {
		t.Errorf("expected terrain size 350, got %d", cfg.Terrain.Size)
	}
	if cfg.Terrain.Resolution != 0.85 {
		t.Errorf("expected resolution 0.85, got %f", cfg.Terrain.Resolution)
	}
	if cfg.Terrain.RecenterDistance != 15 {
		t.Errorf("expected recenter distance 15, got %f", cfg.Terrain.RecenterDistance)
	}
	if cfg.Clouds.Downsample != 4 {
		t.Errorf("expected downsample 4, got %d", cfg.Clouds.Downsample)
	}
	if cfg.Clouds.UpdateInterval != 0 {
		t.Errorf("expected clouds to dispatch every frame by default, got %v", cfg.Clouds.UpdateInterval)
	}
	if cfg.Shaders.Dir != "" {
		t.Errorf("expected embedded shaders by default, got dir %q", cfg.Shaders.Dir)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "max size accepted", mutate: func(c *Config) { c.Terrain.Size = MaxTerrainSize }},
		{name: "size above sentinel limit", mutate: func(c *Config) { c.Terrain.Size = MaxTerrainSize + 1 }, wantErr: "terrain: size"},
		{name: "zero size", mutate: func(c *Config) { c.Terrain.Size = 0 }, wantErr: "terrain: size"},
		{name: "negative resolution", mutate: func(c *Config) { c.Terrain.Resolution = -1 }, wantErr: "resolution"},
		{name: "zero recenter distance", mutate: func(c *Config) { c.Terrain.RecenterDistance = 0 }, wantErr: "recenter distance"},
		{name: "negative recenter distance", mutate: func(c *Config) { c.Terrain.RecenterDistance = -5 }, wantErr: "recenter distance"},
		{name: "zero downsample", mutate: func(c *Config) { c.Clouds.Downsample = 0 }, wantErr: "downsample"},
		{name: "bad depth range", mutate: func(c *Config) { c.Graphics.Far = c.Graphics.Near }, wantErr: "depth range"},
		{name: "unknown heightmap format", mutate: func(c *Config) { c.Debug.HeightmapFormat = "gif" }, wantErr: "heightmap format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMaxTerrainSizeFitsSentinel(t *testing.T) {
	const sentinel = uint64(0xFFFFFFFF)
	n := uint64(MaxTerrainSize + 1)
	if n*n >= sentinel {
		t.Fatalf("(%d+1)^2 = %d collides with restart sentinel", MaxTerrainSize, n*n)
	}
	n++
	if n*n < sentinel {
		t.Fatalf("MaxTerrainSize is not the tightest bound: (%d)^2 still fits", n)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 800
  height: 600
  fullscreen: true
  vsync: false

terrain:
  size: 8
  resolution: 1.5
  recenter_distance: 20
  color: [10, 20, 30]
  octaves:
    - {frequency_x: 0.04, frequency_y: 0.02, amplitude: 65}

clouds:
  downsample: 2
  update_interval: 50ms

shaders:
  dir: "./shaders"

logging:
  level: "debug"
  log_file: "nimbus.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 800 || cfg.Graphics.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Terrain.Size != 8 {
		t.Errorf("expected terrain size 8, got %d", cfg.Terrain.Size)
	}
	if cfg.Terrain.Color != [3]uint8{10, 20, 30} {
		t.Errorf("expected color [10 20 30], got %v", cfg.Terrain.Color)
	}
	if len(cfg.Terrain.Octaves) != 1 || cfg.Terrain.Octaves[0].Amplitude != 65 {
		t.Errorf("expected one octave with amplitude 65, got %+v", cfg.Terrain.Octaves)
	}
	if cfg.Clouds.Downsample != 2 {
		t.Errorf("expected downsample 2, got %d", cfg.Clouds.Downsample)
	}
	if cfg.Clouds.UpdateInterval != 50*time.Millisecond {
		t.Errorf("expected update interval 50ms, got %v", cfg.Clouds.UpdateInterval)
	}
	if cfg.Shaders.Dir != "./shaders" {
		t.Errorf("expected shader dir ./shaders, got %q", cfg.Shaders.Dir)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Graphics.FOV != 75 {
		t.Errorf("expected default fov to survive merge, got %f", cfg.Graphics.FOV)
	}
	if cfg.Logging.LogFile != "nimbus.log" {
		t.Errorf("expected log file 'nimbus.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
terrain:
  size: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Fatal("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))
	t.Setenv(EnvConfig, "")
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("terrain:\n  size: 16\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(t *testing.T, cfg *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "shaders flag",
			setup: func() { *flagShaders = "/tmp/shaders" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Shaders.Dir != "/tmp/shaders" {
					t.Errorf("expected shader dir /tmp/shaders, got %q", cfg.Shaders.Dir)
				}
			},
			teardown: func() { *flagShaders = "" },
		},
		{
			name: "cloud flags",
			setup: func() {
				*flagDownsample = 2
				*flagUpdateInterval = 100 * time.Millisecond
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Clouds.Downsample != 2 || cfg.Clouds.UpdateInterval != 100*time.Millisecond {
					t.Errorf("clouds = %+v", cfg.Clouds)
				}
			},
			teardown: resetFlags,
		},
		{
			name: "graphics flags",
			setup: func() {
				*flagFOV = 60
				*flagNoVSync = true
				*flagFullscreen = true
				*flagWindowed = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.FOV != 60 || cfg.Graphics.VSync {
					t.Errorf("graphics = %+v", cfg.Graphics)
				}
				if !cfg.Graphics.Fullscreen {
					t.Error("fullscreen should win over windowed")
				}
			},
			teardown: resetFlags,
		},
		{
			name: "tooling flags",
			setup: func() {
				*flagFormat = "bmp"
				*flagLogFile = "/tmp/nimbus.log"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Debug.HeightmapFormat != "bmp" || cfg.Logging.LogFile != "/tmp/nimbus.log" {
					t.Errorf("debug = %+v, logging = %+v", cfg.Debug, cfg.Logging)
				}
			},
			teardown: resetFlags,
		},
		{
			name:  "size flag",
			setup: func() { *flagSize = 64 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.Size != 64 {
					t.Errorf("expected terrain size 64, got %d", cfg.Terrain.Size)
				}
			},
			teardown: func() { *flagSize = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("terrain:\n  size: 70000\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for oversized terrain")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Terrain.Size = 42
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if loaded.Terrain.Size != 42 {
		t.Errorf("expected saved size 42, got %d", loaded.Terrain.Size)
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("clouds:\n  downsampel: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for misspelled key")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	if cfg.Terrain.Size != Default().Terrain.Size {
		t.Error("empty file changed defaults")
	}
}

func TestFindConfigFileFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("terrain:\n  size: 12\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv(EnvConfig, path)

	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile = %q, want %q", got, path)
	}
}

func TestSaveToRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Clouds.Downsample = 0
	if err := cfg.SaveTo(path); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid config was written")
	}
}

func TestSaveToWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Default().SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Nimbus") {
		t.Errorf("saved file starts with %q", string(data[:20]))
	}
}
