// Package camera provides the free-flying observer the terrain is rendered
// from.
package camera

import (
	gomath "math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/nimbus/internal/engine/input"
	"github.com/Faultbox/nimbus/internal/engine/scene"
)

// FlyCamera moves freely with WASD, Space and Shift and looks around with
// the mouse.
type FlyCamera struct {
	// World position
	X, Y, Z float32

	// Orientation
	Yaw   float32 // Horizontal angle (radians), 0 looks down -Z
	Pitch float32 // Vertical angle (radians)

	// Constraints
	MinPitch float32
	MaxPitch float32

	// Sensitivity
	Speed            float32 // World units per second
	MouseSensitivity float32 // Degrees per pixel of mouse motion

	width, height int
	held          map[input.Key]bool
}

// NewFlyCamera creates a camera at pos looking down -Z.
func NewFlyCamera(pos mgl32.Vec3, width, height int) *FlyCamera {
	return &FlyCamera{
		X:                pos.X(),
		Y:                pos.Y(),
		Z:                pos.Z(),
		MinPitch:         -1.55,
		MaxPitch:         1.55,
		Speed:            30,
		MouseSensitivity: 0.15,
		width:            width,
		height:           height,
		held:             make(map[input.Key]bool),
	}
}

// Position returns the camera position in world space.
func (c *FlyCamera) Position() mgl32.Vec3 {
	return mgl32.Vec3{c.X, c.Y, c.Z}
}

// ViewVector returns the unit look direction.
func (c *FlyCamera) ViewVector() mgl32.Vec3 {
	cp := float32(gomath.Cos(float64(c.Pitch)))
	return mgl32.Vec3{
		cp * float32(gomath.Sin(float64(c.Yaw))),
		float32(gomath.Sin(float64(c.Pitch))),
		-cp * float32(gomath.Cos(float64(c.Yaw))),
	}
}

// WindowSize returns the size of the window the camera renders into.
func (c *FlyCamera) WindowSize() (width, height int) {
	return c.width, c.height
}

// HandleLook rotates the camera by a mouse delta in pixels.
func (c *FlyCamera) HandleLook(deltaX, deltaY float32) {
	rad := mgl32.DegToRad(c.MouseSensitivity)
	c.Yaw += deltaX * rad
	c.Pitch -= deltaY * rad

	// Clamp pitch
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleMovement moves the camera. forward follows the view direction
// projected on the ground, right is perpendicular to it and up is world Y.
func (c *FlyCamera) HandleMovement(forward, right, up float32) {
	sin := float32(gomath.Sin(float64(c.Yaw)))
	cos := float32(gomath.Cos(float64(c.Yaw)))

	c.X += sin*forward + cos*right
	c.Z += -cos*forward + sin*right
	c.Y += up
}

// HandleEvent tracks movement keys, mouse look and window size.
func (c *FlyCamera) HandleEvent(e input.Event) scene.Response {
	switch e.Type {
	case input.EventWindowResize:
		c.width, c.height = e.Width, e.Height
		return scene.Processed
	case input.EventMouseMove:
		c.HandleLook(float32(e.XRel), float32(e.YRel))
		return scene.Processed
	case input.EventKeyDown, input.EventKeyUp:
		switch e.Key {
		case input.KeyW, input.KeyA, input.KeyS, input.KeyD, input.KeySpace, input.KeyShift:
			c.held[e.Key] = e.Type == input.EventKeyDown
			return scene.Processed
		}
	}
	return scene.Ignored
}

// Update applies held movement keys over dt.
func (c *FlyCamera) Update(dt time.Duration) {
	var forward, right, up float32
	if c.held[input.KeyW] {
		forward++
	}
	if c.held[input.KeyS] {
		forward--
	}
	if c.held[input.KeyD] {
		right++
	}
	if c.held[input.KeyA] {
		right--
	}
	if c.held[input.KeySpace] {
		up++
	}
	if c.held[input.KeyShift] {
		up--
	}
	if forward == 0 && right == 0 && up == 0 {
		return
	}

	step := c.Speed * float32(dt.Seconds())
	c.HandleMovement(forward*step, right*step, up*step)
}

var (
	_ scene.Observer     = (*FlyCamera)(nil)
	_ scene.EventHandler = (*FlyCamera)(nil)
	_ scene.Updatable    = (*FlyCamera)(nil)
)
