package app

import (
	"github.com/Faultbox/nimbus/internal/engine/input"
	"github.com/Faultbox/nimbus/internal/engine/scene"
)

// hotkeys records viewer-level requests made from the keyboard. The frame
// loop acts on them at fixed points of the frame and then clears them.
type hotkeys struct {
	quit            bool
	screenshot      bool // F12, after the frame is composed
	exportHeightmap bool // F2
	fullscreen      bool // F11, toggles
}

func (h *hotkeys) HandleEvent(e input.Event) scene.Response {
	switch e.Type {
	case input.EventQuit:
		h.quit = true
		return scene.Processed
	case input.EventKeyDown:
		if e.Repeat {
			return scene.Ignored
		}
		switch e.Key {
		case input.KeyEscape:
			h.quit = true
		case input.KeyF12:
			h.screenshot = true
		case input.KeyF2:
			h.exportHeightmap = true
		case input.KeyF11:
			h.fullscreen = true
		default:
			return scene.Ignored
		}
		return scene.Processed
	}
	return scene.Ignored
}
