// Package window owns the SDL2 window and its OpenGL 4.3 core context.
package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/logger"
)

func init() {
	// GL calls must stay on the thread that created the context.
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window wraps the SDL window and its GL context.
type Window struct {
	handle     *sdl.Window
	context    sdl.GLContext
	fullscreen bool
}

// 4.3 is the first core version with compute shaders and image load/store.
var glAttributes = []struct {
	attr  sdl.GLattr
	value int
}{
	{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
	{sdl.GL_CONTEXT_MINOR_VERSION, 3},
	{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
	{sdl.GL_DOUBLEBUFFER, 1},
	{sdl.GL_DEPTH_SIZE, 24},
}

// New initializes SDL video and opens a window with a current GL context.
func New(cfg Config) (w *Window, err error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	w = &Window{fullscreen: cfg.Fullscreen}
	defer func() {
		if err != nil {
			w.Close()
			w = nil
		}
	}()

	var attrErrs []error
	for _, a := range glAttributes {
		if e := sdl.GLSetAttribute(a.attr, a.value); e != nil {
			attrErrs = append(attrErrs, e)
		}
	}
	if err = errors.Join(attrErrs...); err != nil {
		return nil, fmt.Errorf("SDL_GL_SetAttribute failed: %w", err)
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	w.handle, err = sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	if w.context, err = w.handle.GLCreateContext(); err != nil {
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}
	w.setVSync(cfg.VSync)

	dw, dh := w.DrawableSize()
	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("drawable_width", dw),
		zap.Int("drawable_height", dh),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

func (w *Window) setVSync(enabled bool) {
	interval := 0
	if enabled {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("swap interval not applied", zap.Int("interval", interval), zap.Error(err))
	}
}

// Close destroys the context and window and shuts SDL down. It is safe on
// a partially created window.
func (w *Window) Close() {
	if w.context != nil {
		sdl.GLDeleteContext(w.context)
		w.context = nil
	}
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
	sdl.Quit()
}

// SwapBuffers presents the default framebuffer.
func (w *Window) SwapBuffers() {
	w.handle.GLSwap()
}

// DrawableSize returns the default framebuffer size in pixels. On high-DPI
// displays it is larger than the window size in screen coordinates.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.handle.GLGetDrawableSize()
	return int(width), int(height)
}

// Fullscreen reports whether the window covers the desktop.
func (w *Window) Fullscreen() bool { return w.fullscreen }

// SetFullscreen switches between desktop fullscreen and windowed mode. SDL
// follows up with a resize event.
func (w *Window) SetFullscreen(enabled bool) error {
	var flags uint32
	if enabled {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.handle.SetFullscreen(flags); err != nil {
		return fmt.Errorf("SDL_SetWindowFullscreen failed: %w", err)
	}
	w.fullscreen = enabled
	return nil
}

// SetRelativeMouse captures the mouse so motion events report deltas.
func (w *Window) SetRelativeMouse(enabled bool) {
	sdl.SetRelativeMouseMode(enabled)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.handle.SetTitle(title)
}
