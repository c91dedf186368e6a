// Package lighting provides the sun shared by the terrain and cloud passes.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts longitude/latitude angles in degrees to a unit
// vector pointing towards the sun. Longitude rotates around Y, latitude is
// the elevation above the horizon.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	// Converted in float64 so right angles land on exact zeros in float32.
	lonRad := float64(longitude) * math.Pi / 180
	latRad := float64(latitude) * math.Pi / 180

	return mgl32.Vec3{
		float32(math.Cos(latRad) * math.Sin(lonRad)),
		float32(math.Sin(latRad)),
		float32(math.Cos(latRad) * math.Cos(lonRad)),
	}
}

// Sun is a distant light that travels with the observer so it never sets
// behind the infinite terrain.
type Sun struct {
	Direction mgl32.Vec3
	Distance  float32
	Color     mgl32.Vec3
}

// NewSun creates a sun from angles in degrees.
func NewSun(longitude, latitude, distance float32, color [3]float32) Sun {
	return Sun{
		Direction: SunDirection(longitude, latitude),
		Distance:  distance,
		Color:     mgl32.Vec3(color),
	}
}

// Position returns the sun position as seen from eye.
func (s Sun) Position(eye mgl32.Vec3) mgl32.Vec3 {
	return eye.Add(s.Direction.Mul(s.Distance))
}
