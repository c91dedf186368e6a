// Package terrain generates a procedural heightfield from deterministic
// value noise and the mesh patch that follows the observer across it.
package terrain

import "math"

// DefaultBaseFrequency scales the built-in octave frequencies.
const DefaultBaseFrequency = 100

// Octave is one layer of fractal noise.
type Octave struct {
	FrequencyX float64
	FrequencyY float64
	Amplitude  float64
	OffsetX    float64
	OffsetY    float64
}

// DefaultOctaves returns the three-layer terrain profile: a broad base, a
// mid-frequency detail layer and a faint fine layer. The offsets decorrelate
// the layers from each other.
func DefaultOctaves(baseFrequency float64) []Octave {
	return []Octave{
		{FrequencyX: 4 / baseFrequency, FrequencyY: 2 / baseFrequency, Amplitude: 65},
		{FrequencyX: 16 / baseFrequency, FrequencyY: 18 / baseFrequency, Amplitude: 5, OffsetX: 7769, OffsetY: 1103},
		{FrequencyX: 64 / baseFrequency, FrequencyY: 64 / baseFrequency, Amplitude: 0.5, OffsetX: -356, OffsetY: 32776},
	}
}

// negate113 is -113 in two's complement.
const negate113 = ^uint32(112)

// Sample returns the lattice value at (x, y), roughly in [-1, 1].
// It is a pure function of its arguments; all arithmetic wraps at 32 bits.
func Sample(x, y int32) float64 {
	ux := uint32(x) + 338573
	uy := uint32(y) + 77313501
	n := ((ux*ux)<<3)*23 + ((uy*uy)<<1)*51

	v := (((n*3342687 + 1144763) & 0xf2fcf7dd) - 77663544) * negate113
	v *= n

	return float64(int32(v)) / math.MaxInt32
}

// Interpolate returns smooth value noise at (x, y) by cosine-blending the
// four surrounding lattice values, first along x then along y.
func Interpolate(x, y float64) float64 {
	fx := math.Floor(x)
	fy := math.Floor(y)
	x0, y0 := int32(fx), int32(fy)
	rx, ry := x-fx, y-fy

	a := interpolateCos(Sample(x0, y0), Sample(x0+1, y0), rx)
	b := interpolateCos(Sample(x0, y0+1), Sample(x0+1, y0+1), rx)
	return interpolateCos(a, b, ry)
}

// Fractal sums the octaves at (x, y).
func Fractal(x, y float64, octaves []Octave) float64 {
	var sum float64
	for _, o := range octaves {
		sum += Interpolate((x+o.OffsetX)*o.FrequencyX, (y+o.OffsetY)*o.FrequencyY) * o.Amplitude
	}
	return sum
}

func interpolateCos(a, b, t float64) float64 {
	f := (1 - math.Cos(t*math.Pi)) * 0.5
	return a*(1-f) + b*f
}
