package terrain

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/logger"
)

// RestartIndex terminates each row strip in the index buffer.
const RestartIndex = ^uint32(0)

// MaxSize is the largest patch size whose vertex indices stay below
// RestartIndex: (MaxSize+1)^2 < 2^32-1.
const MaxSize = 65534

// Vertex is one terrain vertex as uploaded to the GPU.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    [3]uint8
}

// MeshOptions configures a terrain patch.
type MeshOptions struct {
	Size             int
	Resolution       float32
	RecenterDistance float32
	Color            [3]uint8
	Octaves          []Octave // Empty means DefaultOctaves
}

// DefaultMeshOptions returns the standard patch configuration.
func DefaultMeshOptions() MeshOptions {
	return MeshOptions{
		Size:             350,
		Resolution:       0.85,
		RecenterDistance: 15,
		Color:            [3]uint8{0, 80, 0},
	}
}

// Mesh is a square terrain patch that follows the observer.
// Topology is fixed at construction; only vertex attributes change.
type Mesh struct {
	opts     MeshOptions
	grid     *HeightGrid
	vertices []Vertex
	indices  []uint32
	center   mgl32.Vec3
	version  uint64
}

// NewMesh builds a patch sampled around center.
func NewMesh(opts MeshOptions, center mgl32.Vec3) (*Mesh, error) {
	if opts.Size < 1 || opts.Size > MaxSize {
		return nil, fmt.Errorf("terrain size %d outside [1, %d]", opts.Size, MaxSize)
	}
	if opts.Resolution <= 0 {
		return nil, fmt.Errorf("terrain resolution %g must be positive", opts.Resolution)
	}

	dim := opts.Size + 1
	m := &Mesh{
		opts:     opts,
		grid:     NewHeightGrid(opts.Size, opts.Resolution, opts.Octaves...),
		vertices: make([]Vertex, dim*dim),
		indices:  BuildIndices(opts.Size),
	}
	m.Recenter(center)
	return m, nil
}

// IndexCount returns the index buffer length for a patch of size quads:
// S strips of 2(S+1) indices, each followed by a restart index.
func IndexCount(size int) int {
	return 2*(size+1)*size + size
}

// BuildIndices returns the triangle-strip index sequence for a patch.
func BuildIndices(size int) []uint32 {
	stride := uint32(size + 1)
	indices := make([]uint32, 0, IndexCount(size))
	for row := uint32(0); row < uint32(size); row++ {
		for col := uint32(0); col <= uint32(size); col++ {
			indices = append(indices, (row+1)*stride+col, row*stride+col)
		}
		indices = append(indices, RestartIndex)
	}
	return indices
}

// SmoothVertex derives a vertex from the four grid points of the quad whose
// corner it sits on (a=(r,c) b=(r+1,c) c=(r+1,c+1) d=(r,c+1)). The position
// is the midpoint of the two edge midpoints and the normal comes from the
// face diagonals.
func SmoothVertex(a, b, c, d mgl32.Vec3) (position, normal mgl32.Vec3) {
	g := a.Add(b).Mul(0.5)
	h := c.Add(d).Mul(0.5)
	position = g.Add(h).Mul(0.5)

	ac := a.Sub(c).Normalize()
	bd := b.Sub(d).Normalize()
	normal = bd.Cross(ac).Normalize()
	return position, normal
}

// Rebuild recomputes every vertex from the grid.
func (m *Mesh) Rebuild() {
	dim := m.opts.Size + 1
	for row := 0; row < dim; row++ {
		for col := 0; col < dim; col++ {
			pos, normal := SmoothVertex(
				m.grid.WorldPosition(row, col),
				m.grid.WorldPosition(row+1, col),
				m.grid.WorldPosition(row+1, col+1),
				m.grid.WorldPosition(row, col+1),
			)
			m.vertices[row*dim+col] = Vertex{
				Position: pos,
				Normal:   normal,
				Color:    m.opts.Color,
			}
		}
	}
	m.version++
}

// Recenter regenerates the grid around pos and rebuilds the vertices.
func (m *Mesh) Recenter(pos mgl32.Vec3) {
	start := time.Now()
	m.grid.Regenerate(pos)
	m.Rebuild()
	m.center = pos

	logger.Debug("terrain regenerated",
		zap.Float32("x", pos.X()),
		zap.Float32("z", pos.Z()),
		zap.Float32("max_elevation", m.grid.MaxElevation()),
		zap.Duration("took", time.Since(start)),
	)
}

// MaybeRecenter recenters when pos is strictly farther than the recenter
// distance from the last center. It reports whether it did.
func (m *Mesh) MaybeRecenter(pos mgl32.Vec3) bool {
	if pos.Sub(m.center).Len() <= m.opts.RecenterDistance {
		return false
	}
	m.Recenter(pos)
	return true
}

// Vertices returns the current vertex data.
func (m *Mesh) Vertices() []Vertex { return m.vertices }

// Indices returns the fixed index sequence.
func (m *Mesh) Indices() []uint32 { return m.indices }

// Center returns the position of the last recenter.
func (m *Mesh) Center() mgl32.Vec3 { return m.center }

// Grid returns the height grid backing the mesh.
func (m *Mesh) Grid() *HeightGrid { return m.grid }

// Size returns the patch size in quads per side.
func (m *Mesh) Size() int { return m.opts.Size }

// Version increases every time the vertices change.
func (m *Mesh) Version() uint64 { return m.version }
