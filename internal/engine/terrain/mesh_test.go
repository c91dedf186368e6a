package terrain

import (
	"math"
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

func smallOptions(size int) MeshOptions {
	opts := DefaultMeshOptions()
	opts.Size = size
	return opts
}

func TestHeightGridBounds(t *testing.T) {
	tests := []struct {
		size   int
		res    float32
		center mgl32.Vec3
	}{
		{8, 0.85, mgl32.Vec3{0, 0, 0}},
		{9, 0.85, mgl32.Vec3{120.5, 40, -33.25}},
		{350, 0.85, mgl32.Vec3{-1000, 80, 2500}},
		{16, 2, mgl32.Vec3{7, 0, 7}},
	}

	for _, tt := range tests {
		g := NewHeightGrid(tt.size, tt.res)
		g.Regenerate(tt.center)

		half := g.HalfExtent()
		const eps = 1e-3
		for i := 0; i < g.Dim(); i++ {
			for j := 0; j < g.Dim(); j++ {
				p := g.WorldPosition(i, j)
				if dx := p.X() - tt.center.X(); dx < -half-eps || dx > half+eps {
					t.Fatalf("size %d: cell (%d,%d) x offset %v outside ±%v", tt.size, i, j, dx, half)
				}
				if dz := p.Z() - tt.center.Z(); dz < -half-eps || dz > half+eps {
					t.Fatalf("size %d: cell (%d,%d) z offset %v outside ±%v", tt.size, i, j, dz, half)
				}
			}
		}
	}
}

func TestHeightGridSpacing(t *testing.T) {
	g := NewHeightGrid(8, 0.85)
	g.Regenerate(mgl32.Vec3{10, 0, 20})

	a := g.WorldPosition(3, 4)
	b := g.WorldPosition(4, 4)
	c := g.WorldPosition(3, 5)
	if d := b.X() - a.X(); math.Abs(float64(d-0.85)) > 1e-4 {
		t.Errorf("row spacing %v, want 0.85", d)
	}
	if d := c.Z() - a.Z(); math.Abs(float64(d-0.85)) > 1e-4 {
		t.Errorf("column spacing %v, want 0.85", d)
	}
}

func TestHeightGridSamplesNoise(t *testing.T) {
	octaves := DefaultOctaves(DefaultBaseFrequency)
	g := NewHeightGrid(6, 1)
	g.Regenerate(mgl32.Vec3{3, 0, -2})

	for _, ij := range [][2]int{{0, 0}, {4, 2}, {7, 7}} {
		p := g.WorldPosition(ij[0], ij[1])
		want := float32(Fractal(float64(p.X()), float64(p.Z()), octaves))
		if got := g.At(ij[0], ij[1]); got != want {
			t.Errorf("At(%d,%d) = %v, want %v", ij[0], ij[1], got, want)
		}
	}
}

func TestHeightGridMaxElevation(t *testing.T) {
	g := NewHeightGrid(20, 0.85)
	g.Regenerate(mgl32.Vec3{50, 0, 50})

	var maxH, minH float32 = float32(math.Inf(-1)), float32(math.Inf(1))
	for _, h := range g.Heights() {
		maxH = max(maxH, h)
		minH = min(minH, h)
	}
	if g.MaxElevation() != maxH {
		t.Errorf("MaxElevation = %v, want %v", g.MaxElevation(), maxH)
	}
	if g.MinElevation() != minH {
		t.Errorf("MinElevation = %v, want %v", g.MinElevation(), minH)
	}
}

func TestHeightGridDeterministic(t *testing.T) {
	a := NewHeightGrid(10, 0.85)
	b := NewHeightGrid(10, 0.85)
	center := mgl32.Vec3{-12, 0, 99}
	a.Regenerate(center)
	b.Regenerate(mgl32.Vec3{400, 0, 400})
	b.Regenerate(center)

	for i, h := range a.Heights() {
		if b.Heights()[i] != h {
			t.Fatalf("cell %d differs after regenerating at the same center", i)
		}
	}
}

func TestIndexCount(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{1, 5},
		{2, 14},
		{8, 152},
		{350, 2*351*350 + 350},
	}
	for _, tt := range tests {
		if got := IndexCount(tt.size); got != tt.want {
			t.Errorf("IndexCount(%d) = %d, want %d", tt.size, got, tt.want)
		}
		if got := len(BuildIndices(tt.size)); got != tt.want {
			t.Errorf("len(BuildIndices(%d)) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestBuildIndices(t *testing.T) {
	const size = 2
	want := []uint32{
		3, 0, 4, 1, 5, 2, RestartIndex,
		6, 3, 7, 4, 8, 5, RestartIndex,
	}
	got := BuildIndices(size)
	if len(got) != len(want) {
		t.Fatalf("got %d indices, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRestartSentinel(t *testing.T) {
	for _, size := range []int{1, 8, 350} {
		vertexCount := uint32((size + 1) * (size + 1))
		stripLen := 2*(size+1) + 1
		for i, idx := range BuildIndices(size) {
			isRestart := (i+1)%stripLen == 0
			if isRestart != (idx == RestartIndex) {
				t.Fatalf("size %d: index %d = %d, restart expected %v", size, i, idx, isRestart)
			}
			if !isRestart && idx >= vertexCount {
				t.Fatalf("size %d: index %d = %d out of range", size, i, idx)
			}
		}
	}

	n := uint64(MaxSize + 1)
	if n*n >= uint64(RestartIndex) {
		t.Errorf("(MaxSize+1)^2 = %d collides with the restart index", n*n)
	}
}

func TestSmoothVertex(t *testing.T) {
	a := mgl32.Vec3{0, 0, 0}
	b := mgl32.Vec3{1, 0, 0}
	c := mgl32.Vec3{1, 0, 1}
	d := mgl32.Vec3{0, 0, 1}

	pos, normal := SmoothVertex(a, b, c, d)
	if !pos.ApproxEqual(mgl32.Vec3{0.5, 0, 0.5}) {
		t.Errorf("position = %v, want (0.5, 0, 0.5)", pos)
	}
	if !normal.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
		t.Errorf("flat normal = %v, want up", normal)
	}

	// Position averages elevations of all four corners.
	a[1], b[1], c[1], d[1] = 4, 0, 2, 2
	pos, normal = SmoothVertex(a, b, c, d)
	if !mgl32.FloatEqual(pos.Y(), 2) {
		t.Errorf("elevation = %v, want 2", pos.Y())
	}
	if !mgl32.FloatEqual(normal.Len(), 1) {
		t.Errorf("normal not unit length: %v", normal.Len())
	}
	if normal.Y() <= 0 {
		t.Errorf("normal should point up, got %v", normal)
	}
}

func TestNewMesh(t *testing.T) {
	m, err := NewMesh(smallOptions(8), mgl32.Vec3{0, 80, 0})
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	if len(m.Vertices()) != 81 {
		t.Errorf("expected 81 vertices, got %d", len(m.Vertices()))
	}
	if len(m.Indices()) != IndexCount(8) {
		t.Errorf("expected %d indices, got %d", IndexCount(8), len(m.Indices()))
	}
	if m.Version() != 1 {
		t.Errorf("expected version 1 after construction, got %d", m.Version())
	}
	for i, v := range m.Vertices() {
		if v.Color != [3]uint8{0, 80, 0} {
			t.Fatalf("vertex %d color %v", i, v.Color)
		}
		if !mgl32.FloatEqualThreshold(v.Normal.Len(), 1, 1e-4) {
			t.Fatalf("vertex %d normal not unit: %v", i, v.Normal)
		}
	}
}

func TestNewMeshRejectsSize(t *testing.T) {
	for _, size := range []int{0, -1, MaxSize + 1} {
		if _, err := NewMesh(smallOptions(size), mgl32.Vec3{}); err == nil {
			t.Errorf("expected error for size %d", size)
		}
	}
}

func TestMaybeRecenter(t *testing.T) {
	tests := []struct {
		distance float32
		want     bool
	}{
		{14.9, false},
		{15.0, false},
		{15.1, true},
	}

	for _, tt := range tests {
		m, err := NewMesh(smallOptions(8), mgl32.Vec3{})
		if err != nil {
			t.Fatalf("NewMesh: %v", err)
		}
		before := m.Version()

		pos := mgl32.Vec3{tt.distance, 0, 0}
		if got := m.MaybeRecenter(pos); got != tt.want {
			t.Errorf("distance %v: MaybeRecenter = %v, want %v", tt.distance, got, tt.want)
		}

		if tt.want {
			if m.Center() != pos {
				t.Errorf("distance %v: center %v not updated", tt.distance, m.Center())
			}
			if m.Version() != before+1 {
				t.Errorf("distance %v: expected rebuild", tt.distance)
			}
		} else if m.Version() != before || m.Center() != (mgl32.Vec3{}) {
			t.Errorf("distance %v: mesh changed without recentering", tt.distance)
		}
	}
}

func TestMaybeRecenterDiagonal(t *testing.T) {
	m, err := NewMesh(smallOptions(4), mgl32.Vec3{})
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}
	// |(9, 9, 9)| ≈ 15.59, beyond the threshold though no axis is.
	if !m.MaybeRecenter(mgl32.Vec3{9, 9, 9}) {
		t.Error("expected Euclidean distance to trigger recenter")
	}
	// The next check is relative to the new center.
	if m.MaybeRecenter(mgl32.Vec3{18, 9, 9}) {
		t.Error("expected no recenter within threshold of new center")
	}
}

func TestMeshFollowsCenter(t *testing.T) {
	m, err := NewMesh(smallOptions(8), mgl32.Vec3{})
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}
	m.Recenter(mgl32.Vec3{1000, 0, -500})

	var sum mgl32.Vec3
	for _, v := range m.Vertices() {
		sum = sum.Add(v.Position)
	}
	mean := sum.Mul(1 / float32(len(m.Vertices())))
	if math.Abs(float64(mean.X()-1000)) > 1 || math.Abs(float64(mean.Z()+500)) > 1 {
		t.Errorf("patch mean %v not under new center", mean)
	}
}

func TestVertexLayout(t *testing.T) {
	var v Vertex
	if unsafe.Sizeof(v) != 28 {
		t.Errorf("vertex size %d, want 28", unsafe.Sizeof(v))
	}
	if unsafe.Offsetof(v.Normal) != 12 || unsafe.Offsetof(v.Color) != 24 {
		t.Errorf("unexpected offsets normal=%d color=%d", unsafe.Offsetof(v.Normal), unsafe.Offsetof(v.Color))
	}
}
