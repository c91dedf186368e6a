package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/nimbus/internal/config"
	"github.com/Faultbox/nimbus/internal/engine/input"
	"github.com/Faultbox/nimbus/internal/engine/scene"
	"github.com/Faultbox/nimbus/internal/engine/terrain"
)

func TestHotkeys(t *testing.T) {
	tests := []struct {
		name  string
		event input.Event
		want  hotkeys
		resp  scene.Response
	}{
		{"escape", input.Event{Type: input.EventKeyDown, Key: input.KeyEscape}, hotkeys{quit: true}, scene.Processed},
		{"window close", input.Event{Type: input.EventQuit}, hotkeys{quit: true}, scene.Processed},
		{"screenshot", input.Event{Type: input.EventKeyDown, Key: input.KeyF12}, hotkeys{screenshot: true}, scene.Processed},
		{"heightmap", input.Event{Type: input.EventKeyDown, Key: input.KeyF2}, hotkeys{exportHeightmap: true}, scene.Processed},
		{"fullscreen", input.Event{Type: input.EventKeyDown, Key: input.KeyF11}, hotkeys{fullscreen: true}, scene.Processed},
		{"repeat", input.Event{Type: input.EventKeyDown, Key: input.KeyF12, Repeat: true}, hotkeys{}, scene.Ignored},
		{"key up", input.Event{Type: input.EventKeyUp, Key: input.KeyEscape}, hotkeys{}, scene.Ignored},
		{"pipeline key", input.Event{Type: input.EventKeyDown, Key: input.KeyR}, hotkeys{}, scene.Ignored},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h hotkeys
			if r := h.HandleEvent(tt.event); r != tt.resp {
				t.Errorf("response = %v, want %v", r, tt.resp)
			}
			if h != tt.want {
				t.Errorf("state = %+v, want %+v", h, tt.want)
			}
		})
	}
}

func TestMeshOptionsDefaultProfile(t *testing.T) {
	cfg := config.Default()
	opts := meshOptions(cfg.Terrain)

	if opts.Size != cfg.Terrain.Size || opts.Resolution != cfg.Terrain.Resolution {
		t.Errorf("size/resolution = %d/%g", opts.Size, opts.Resolution)
	}
	want := terrain.DefaultOctaves(cfg.Terrain.BaseFrequency)
	if len(opts.Octaves) != len(want) {
		t.Fatalf("octaves = %d, want %d", len(opts.Octaves), len(want))
	}
	for i := range want {
		if opts.Octaves[i] != want[i] {
			t.Errorf("octave %d = %+v, want %+v", i, opts.Octaves[i], want[i])
		}
	}
}

func TestMeshOptionsCustomOctaves(t *testing.T) {
	cfg := config.Default()
	cfg.Terrain.Octaves = []config.OctaveConfig{{FrequencyX: 0.1, FrequencyY: 0.2, Amplitude: 3, OffsetX: 5, OffsetY: 7}}

	opts := meshOptions(cfg.Terrain)
	want := terrain.Octave{FrequencyX: 0.1, FrequencyY: 0.2, Amplitude: 3, OffsetX: 5, OffsetY: 7}
	if len(opts.Octaves) != 1 || opts.Octaves[0] != want {
		t.Errorf("octaves = %+v", opts.Octaves)
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Clouds.Downsample = 2
	cfg.Clouds.UpdateInterval = 50 * time.Millisecond
	cfg.Graphics.FOV = 60

	opts := pipelineOptions(cfg)
	if opts.Downsample != 2 || opts.UpdateInterval != 50*time.Millisecond || opts.FOV != 60 {
		t.Errorf("options = %+v", opts)
	}
	if opts.ClearColor != scene.DefaultOptions().ClearColor {
		t.Error("clear color should keep the default sky tint")
	}
	if l := opts.Sun.Direction.Len(); l < 0.999 || l > 1.001 {
		t.Errorf("sun direction length = %g", l)
	}
}

func TestShaderLoader(t *testing.T) {
	src, err := shaderLoader(config.ShadersConfig{}).Source(scene.CloudsStage)
	if err != nil {
		t.Fatalf("embedded loader: %v", err)
	}
	if !src.IsCompute() {
		t.Error("clouds stage should load a compute source")
	}

	if _, err := shaderLoader(config.ShadersConfig{Dir: t.TempDir()}).Source(scene.CloudsStage); err == nil {
		t.Error("empty shader dir should fail to load")
	}
}

func TestExportHeightmap(t *testing.T) {
	cfg := config.Default()
	cfg.Terrain.Size = 16
	path := filepath.Join(t.TempDir(), "out", "terrain.pgm")

	if err := ExportHeightmap(cfg, path); err != nil {
		t.Fatalf("ExportHeightmap: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() <= 18*18 {
		t.Errorf("file size = %d, want header plus 18x18 cells", info.Size())
	}

	if err := ExportHeightmap(cfg, filepath.Join(t.TempDir(), "terrain.gif")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
