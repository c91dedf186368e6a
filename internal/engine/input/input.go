// Package input translates SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a viewer event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
)

// Key is a keyboard key the viewer reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyShift
	KeyR
	KeyP
	KeyF2
	KeyF11
	KeyF12
	KeyEscape
)

var keymap = map[sdl.Keycode]Key{
	sdl.K_w:      KeyW,
	sdl.K_a:      KeyA,
	sdl.K_s:      KeyS,
	sdl.K_d:      KeyD,
	sdl.K_SPACE:  KeySpace,
	sdl.K_LSHIFT: KeyShift,
	sdl.K_r:      KeyR,
	sdl.K_p:      KeyP,
	sdl.K_F2:     KeyF2,
	sdl.K_F11:    KeyF11,
	sdl.K_F12:    KeyF12,
	sdl.K_ESCAPE: KeyEscape,
}

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Repeat bool
	Width  int
	Height int
	XRel   int
	YRel   int
}

// Translate converts an SDL event. Events the viewer does not handle map to
// EventNone.
func Translate(event sdl.Event) Event {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}
		case sdl.WINDOWEVENT_CLOSE:
			return Event{Type: EventQuit}
		}

	case *sdl.KeyboardEvent:
		key := keymap[e.Keysym.Sym]
		switch e.Type {
		case sdl.KEYDOWN:
			return Event{Type: EventKeyDown, Key: key, Repeat: e.Repeat != 0}
		case sdl.KEYUP:
			return Event{Type: EventKeyUp, Key: key}
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type: EventMouseMove,
			XRel: int(e.XRel),
			YRel: int(e.YRel),
		}
	}

	return Event{Type: EventNone}
}

// Input polls SDL for events.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update drains the SDL queue. It reports whether a quit was requested.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		e := Translate(event)
		switch e.Type {
		case EventNone:
			continue
		case EventQuit:
			quit = true
		}
		i.events = append(i.events, e)
	}

	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
