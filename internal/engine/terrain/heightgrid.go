package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// HeightGrid holds (S+2)x(S+2) sampled elevations laid out around a center.
// Cell (i, j) lies at lattice offset (i-1, j-1) from the patch origin, so the
// outer ring is a one-cell margin used for normals at the mesh boundary.
// Rows run along world X and columns along world Z.
type HeightGrid struct {
	size       int
	resolution float32
	octaves    []Octave

	center  mgl32.Vec3
	heights []float32
	minElev float32
	maxElev float32
}

// NewHeightGrid allocates a grid for a patch of size quads per side.
// Without octaves the default profile is used.
func NewHeightGrid(size int, resolution float32, octaves ...Octave) *HeightGrid {
	if len(octaves) == 0 {
		octaves = DefaultOctaves(DefaultBaseFrequency)
	}
	dim := size + 2
	return &HeightGrid{
		size:       size,
		resolution: resolution,
		octaves:    octaves,
		heights:    make([]float32, dim*dim),
	}
}

// Regenerate resamples every cell around center. The previous contents are
// overwritten wholesale.
func (g *HeightGrid) Regenerate(center mgl32.Vec3) {
	g.center = center
	dim := g.Dim()

	minElev := float32(math.Inf(1))
	maxElev := float32(math.Inf(-1))
	for i := 0; i < dim; i++ {
		x := float64(g.offset(i) + center.X())
		row := g.heights[i*dim : (i+1)*dim]
		for j := range row {
			z := float64(g.offset(j) + center.Z())
			h := float32(Fractal(x, z, g.octaves))
			row[j] = h
			minElev = min(minElev, h)
			maxElev = max(maxElev, h)
		}
	}
	g.minElev, g.maxElev = minElev, maxElev
}

// offset returns the world-space distance of cell index i from the center.
func (g *HeightGrid) offset(i int) float32 {
	return (float32(i-1) - float32(g.size)/2) * g.resolution
}

// Size returns the patch size S in quads per side.
func (g *HeightGrid) Size() int { return g.size }

// Dim returns the number of cells per side, S+2.
func (g *HeightGrid) Dim() int { return g.size + 2 }

// Resolution returns the world size of one cell.
func (g *HeightGrid) Resolution() float32 { return g.resolution }

// Center returns the point the grid was last sampled around.
func (g *HeightGrid) Center() mgl32.Vec3 { return g.center }

// At returns the elevation of cell (i, j).
func (g *HeightGrid) At(i, j int) float32 {
	return g.heights[i*g.Dim()+j]
}

// WorldPosition returns the world-space position of cell (i, j), including
// its elevation.
func (g *HeightGrid) WorldPosition(i, j int) mgl32.Vec3 {
	return mgl32.Vec3{
		g.offset(i) + g.center.X(),
		g.At(i, j),
		g.offset(j) + g.center.Z(),
	}
}

// HalfExtent returns the horizontal distance from the center to the
// outermost cells.
func (g *HeightGrid) HalfExtent() float32 {
	return (float32(g.size)/2 + 1) * g.resolution
}

// MaxElevation returns the highest elevation of the last regeneration.
func (g *HeightGrid) MaxElevation() float32 { return g.maxElev }

// MinElevation returns the lowest elevation of the last regeneration.
func (g *HeightGrid) MinElevation() float32 { return g.minElev }

// Heights returns the raw row-major elevations. Callers must not modify it.
func (g *HeightGrid) Heights() []float32 { return g.heights }
