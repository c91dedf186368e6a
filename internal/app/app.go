// Package app owns the viewer: window, observer, terrain and render
// pipeline, and the frame loop that drives them.
package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/config"
	"github.com/Faultbox/nimbus/internal/engine/camera"
	"github.com/Faultbox/nimbus/internal/engine/debug"
	"github.com/Faultbox/nimbus/internal/engine/gpu"
	"github.com/Faultbox/nimbus/internal/engine/input"
	"github.com/Faultbox/nimbus/internal/engine/scene"
	"github.com/Faultbox/nimbus/internal/engine/terrain"
	"github.com/Faultbox/nimbus/internal/engine/window"
	"github.com/Faultbox/nimbus/internal/logger"
)

// App is the viewer instance.
type App struct {
	cfg *config.Config

	window   *window.Window
	input    *input.Input
	camera   *camera.FlyCamera
	mesh     *terrain.Mesh
	pipeline *scene.Pipeline
	driver   *scene.Driver

	keys        hotkeys
	screenshots *debug.ScreenshotCapture
}

// New creates the window, compiles the pipeline and builds the first
// terrain patch around the camera.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("terrain_size", cfg.Terrain.Size),
	)

	a := &App{
		cfg:         cfg,
		input:       input.New(),
		screenshots: debug.NewScreenshotCapture(cfg.Debug.OutputDir, "nimbus"),
	}

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:      "Nimbus",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Device AFTER window, since the context must be current
	dev, err := gpu.NewGL()
	if err != nil {
		a.Close()
		return nil, err
	}

	width, height := a.window.DrawableSize()
	a.camera = camera.NewFlyCamera(mgl32.Vec3(cfg.Camera.Position), width, height)
	a.camera.Speed = cfg.Camera.Speed
	a.camera.MouseSensitivity = cfg.Camera.MouseSensitivity

	a.mesh, err = terrain.NewMesh(meshOptions(cfg.Terrain), a.camera.Position())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to build terrain: %w", err)
	}

	a.pipeline, err = scene.NewPipeline(dev, a.camera, a.mesh, shaderLoader(cfg.Shaders), pipelineOptions(cfg))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	// Hotkeys first so quit wins; the camera moves before the pipeline
	// recenters the terrain on it.
	a.driver = scene.NewDriver(&a.keys, a.camera, a.pipeline)
	a.window.SetRelativeMouse(true)

	logger.Info("viewer initialized successfully")
	return a, nil
}

// Run runs the frame loop until quit.
func (a *App) Run() error {
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		// 1. Events
		if a.input.Update() {
			a.keys.quit = true
		}
		for _, e := range a.input.Events() {
			if e.Type == input.EventWindowResize {
				// Resize events carry window coordinates; the pipeline
				// works in framebuffer pixels.
				e.Width, e.Height = a.window.DrawableSize()
			}
			a.driver.Dispatch(e)
		}
		if a.keys.quit {
			break
		}
		if a.keys.exportHeightmap {
			a.keys.exportHeightmap = false
			a.exportHeightmap()
		}
		if a.keys.fullscreen {
			a.keys.fullscreen = false
			a.toggleFullscreen()
		}

		// 2. Update, 3. Render
		a.driver.Update(dt)
		a.driver.Render()

		if a.keys.screenshot {
			a.keys.screenshot = false
			a.captureFrame()
		}

		// 4. Present
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.window.SetTitle(fmt.Sprintf("Nimbus | %d fps | %s", frameCount, a.pipeline.FillMode()))
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Duration("dt", dt),
				zap.Stringer("fill_mode", a.pipeline.FillMode()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	logger.Info("frame loop stopped")
	return nil
}

func (a *App) captureFrame() {
	pixels, width, height := a.pipeline.ReadFrame()
	path, err := a.screenshots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func (a *App) exportHeightmap() {
	name := fmt.Sprintf("heightmap_%s.%s", time.Now().Format("2006-01-02_15-04-05"), a.cfg.Debug.HeightmapFormat)
	path := filepath.Join(a.cfg.Debug.OutputDir, name)
	if err := writeHeightmap(a.mesh.Grid(), path); err != nil {
		logger.Error("heightmap export failed", zap.Error(err))
	}
}

func (a *App) toggleFullscreen() {
	want := !a.window.Fullscreen()
	if err := a.window.SetFullscreen(want); err != nil {
		logger.Warn("fullscreen toggle failed", zap.Error(err))
		return
	}
	logger.Debug("fullscreen toggled", zap.Bool("fullscreen", want))
}

// Close releases GPU resources before the context goes away.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.pipeline != nil {
		a.pipeline.Destroy()
	}
	if a.window != nil {
		a.window.Close()
	}
}
