package glow

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestValueNoiseRange(t *testing.T) {
	for y := -20; y < 20; y++ {
		for x := -20; x < 20; x++ {
			p := V2(float32(x)*0.37, float32(y)*0.41)
			n := ValueNoise(p)
			if n < 0 || n >= 1 {
				t.Fatalf("ValueNoise(%v) = %v, outside [0, 1)", p, n)
			}
		}
	}
}

func TestValueNoiseDeterministic(t *testing.T) {
	p := V2(3.7, -1.25)
	first := ValueNoise(p)
	for range 10 {
		if got := ValueNoise(p); got != first {
			t.Fatalf("ValueNoise not deterministic: %v != %v", got, first)
		}
	}
}

func TestValueNoiseInterpolatesLattice(t *testing.T) {
	// At integer points the noise equals the hashed lattice value.
	for _, pt := range [][2]int32{{0, 0}, {1, 0}, {5, -3}, {-7, 12}} {
		got := ValueNoise(V2(float32(pt[0]), float32(pt[1])))
		want := latticeValue(pt[0], pt[1])
		if got != want {
			t.Errorf("ValueNoise(%v) = %v, want lattice value %v", pt, got, want)
		}
	}
}

func TestValueNoiseContinuous(t *testing.T) {
	// Crossing a cell boundary must not jump.
	const h = 1e-3
	for _, x := range []float32{1, 2, -1, 7} {
		a := ValueNoise(V2(x-h, 0.5))
		b := ValueNoise(V2(x+h, 0.5))
		if math32.Abs(a-b) > 0.01 {
			t.Errorf("discontinuity at x=%v: %v vs %v", x, a, b)
		}
	}
}

func TestValueNoiseVaries(t *testing.T) {
	seen := map[float32]bool{}
	for i := range 16 {
		seen[latticeValue(int32(i), 0)] = true
	}
	if len(seen) < 12 {
		t.Errorf("lattice values poorly distributed: %d distinct of 16", len(seen))
	}
}

func TestFractalNoise(t *testing.T) {
	p := V2(1.3, 2.9)
	if got, want := FractalNoise(p, 1), ValueNoise(p); got != want {
		t.Errorf("FractalNoise(1 octave) = %v, want ValueNoise %v", got, want)
	}
	if got, want := FractalNoise(p, 0), FractalNoise(p, DefaultOctaves); got != want {
		t.Errorf("FractalNoise(0) = %v, want default octaves %v", got, want)
	}
	for i := range 100 {
		q := V2(float32(i)*0.13, float32(i)*0.07)
		n := FractalNoise(q, 5)
		if n < 0 || n >= 1 {
			t.Fatalf("FractalNoise(%v) = %v, outside [0, 1)", q, n)
		}
	}
}

func TestHash2Avalanche(t *testing.T) {
	if hash2(0, 1) == hash2(1, 0) {
		t.Error("hash2 is symmetric in its arguments")
	}
	if hash2(0, 0) == hash2(0, 1) {
		t.Error("hash2 collides on neighbors")
	}
}
