package terrain

import (
	"math"
	"testing"
)

func TestSampleDeterministic(t *testing.T) {
	coords := [][2]int32{{0, 0}, {1, 0}, {-7, 13}, {math.MaxInt32, math.MinInt32}, {338573, -77313501}}
	for _, c := range coords {
		a := Sample(c[0], c[1])
		b := Sample(c[0], c[1])
		if math.Float64bits(a) != math.Float64bits(b) {
			t.Errorf("Sample(%d, %d) not deterministic: %v vs %v", c[0], c[1], a, b)
		}
	}
}

func TestSampleRange(t *testing.T) {
	for x := int32(-50); x < 50; x++ {
		for y := int32(-50); y < 50; y++ {
			v := Sample(x, y)
			if math.IsNaN(v) || v < -1.0000001 || v > 1 {
				t.Fatalf("Sample(%d, %d) = %v out of range", x, y, v)
			}
		}
	}
}

func TestSampleDecorrelated(t *testing.T) {
	// Neighbouring lattice values along either axis must not repeat.
	same := 0
	for i := int32(0); i < 200; i++ {
		if Sample(i, 0) == Sample(i+1, 0) {
			same++
		}
		if Sample(0, i) == Sample(0, i+1) {
			same++
		}
	}
	if same > 4 {
		t.Errorf("%d of 400 neighbouring samples were identical", same)
	}
}

func TestInterpolateMatchesLattice(t *testing.T) {
	for x := int32(-20); x <= 20; x += 3 {
		for y := int32(-20); y <= 20; y += 5 {
			got := Interpolate(float64(x), float64(y))
			want := Sample(x, y)
			if got != want {
				t.Errorf("Interpolate(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestInterpolateBounded(t *testing.T) {
	// Cosine blending never leaves the range spanned by the corners.
	for _, p := range [][2]float64{{0.5, 0.5}, {-3.25, 7.75}, {100.1, -0.9}} {
		x0, y0 := int32(math.Floor(p[0])), int32(math.Floor(p[1]))
		corners := []float64{Sample(x0, y0), Sample(x0+1, y0), Sample(x0, y0+1), Sample(x0+1, y0+1)}
		lo, hi := corners[0], corners[0]
		for _, c := range corners[1:] {
			lo, hi = math.Min(lo, c), math.Max(hi, c)
		}
		v := Interpolate(p[0], p[1])
		if v < lo-1e-12 || v > hi+1e-12 {
			t.Errorf("Interpolate(%v) = %v outside [%v, %v]", p, v, lo, hi)
		}
	}
}

func TestFractal(t *testing.T) {
	octaves := []Octave{
		{FrequencyX: 1, FrequencyY: 1, Amplitude: 2},
		{FrequencyX: 1, FrequencyY: 1, Amplitude: 3, OffsetX: 10, OffsetY: -4},
	}
	got := Fractal(5, 6, octaves)
	want := Sample(5, 6)*2 + Sample(15, 2)*3
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Fractal = %v, want %v", got, want)
	}

	if Fractal(5, 6, nil) != 0 {
		t.Error("Fractal with no octaves should be 0")
	}

	a := Fractal(12.3, -45.6, DefaultOctaves(DefaultBaseFrequency))
	b := Fractal(12.3, -45.6, DefaultOctaves(DefaultBaseFrequency))
	if math.Float64bits(a) != math.Float64bits(b) {
		t.Error("Fractal not deterministic")
	}
}

func TestDefaultOctaves(t *testing.T) {
	o := DefaultOctaves(100)
	if len(o) != 3 {
		t.Fatalf("expected 3 octaves, got %d", len(o))
	}
	if o[0].Amplitude != 65 || o[0].FrequencyX != 0.04 || o[0].FrequencyY != 0.02 {
		t.Errorf("unexpected base octave %+v", o[0])
	}
	if o[1].OffsetX != 7769 || o[1].OffsetY != 1103 {
		t.Errorf("unexpected detail offsets %+v", o[1])
	}
	if o[2].Amplitude != 0.5 || o[2].OffsetX != -356 || o[2].OffsetY != 32776 {
		t.Errorf("unexpected fine octave %+v", o[2])
	}
}
