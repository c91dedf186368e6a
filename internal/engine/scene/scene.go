// Package scene drives the terrain and cloud render pipeline.
//
// Components take part in a frame through three capabilities: they handle
// events, advance with time, or render. A Driver holds them in registration
// order and runs each capability over that order.
package scene

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/nimbus/internal/engine/input"
)

// Response reports whether an event handler acted on an event.
type Response int

const (
	Ignored Response = iota
	Processed
)

// EventHandler reacts to input events between frames.
type EventHandler interface {
	HandleEvent(e input.Event) Response
}

// Updatable advances with frame time.
type Updatable interface {
	Update(dt time.Duration)
}

// Renderable draws once per frame.
type Renderable interface {
	Render()
}

// Observer is the viewpoint the pipeline renders from.
type Observer interface {
	Position() mgl32.Vec3
	ViewVector() mgl32.Vec3
	WindowSize() (width, height int)
}

// Driver runs registered components in order.
type Driver struct {
	handlers    []EventHandler
	updatables  []Updatable
	renderables []Renderable
}

// NewDriver returns a driver with the given components registered in order.
func NewDriver(components ...any) *Driver {
	d := &Driver{}
	for _, c := range components {
		d.Register(c)
	}
	return d
}

// Register adds c to every capability list it implements. It reports
// whether c implements any.
func (d *Driver) Register(c any) bool {
	ok := false
	if h, is := c.(EventHandler); is {
		d.handlers = append(d.handlers, h)
		ok = true
	}
	if u, is := c.(Updatable); is {
		d.updatables = append(d.updatables, u)
		ok = true
	}
	if r, is := c.(Renderable); is {
		d.renderables = append(d.renderables, r)
		ok = true
	}
	return ok
}

// Dispatch delivers e to every handler. It returns Processed if any handler
// acted on it.
func (d *Driver) Dispatch(e input.Event) Response {
	resp := Ignored
	for _, h := range d.handlers {
		if h.HandleEvent(e) == Processed {
			resp = Processed
		}
	}
	return resp
}

// Update steps every updatable.
func (d *Driver) Update(dt time.Duration) {
	for _, u := range d.updatables {
		u.Update(dt)
	}
}

// Render draws every renderable.
func (d *Driver) Render() {
	for _, r := range d.renderables {
		r.Render()
	}
}
