package vectors

import (
	"errors"
	"math"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}

func TestDot(t *testing.T) {
	got, err := Dot(Vector{1, 2, 3}, Vector{4, 5, 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 32) {
		t.Fatalf("dot product: got %v, want 32", got)
	}
}

func TestDotDimensionMismatch(t *testing.T) {
	_, err := Dot(Vector{1, 2, 3}, Vector{1, 2})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestMagnitude(t *testing.T) {
	if got := Magnitude(Vector{3, 4}); !almostEqual(got, 5) {
		t.Fatalf("magnitude of (3,4): got %v, want 5", got)
	}
	if got := Magnitude(Vector{0, 0, 0}); got != 0 {
		t.Fatalf("magnitude of zero vector: got %v, want 0", got)
	}
	if got := Magnitude(Vector{}); got != 0 {
		t.Fatalf("magnitude of empty vector: got %v, want 0", got)
	}
}

func TestEuclideanDistance(t *testing.T) {
	got, err := EuclideanDistance(Vector{0, 0, 0}, Vector{1, 2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 3) {
		t.Fatalf("distance: got %v, want 3", got)
	}

	if _, err = EuclideanDistance(Vector{1}, Vector{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a    Vector
		b    Vector
		want float64
	}{
		{"identical", Vector{1, 2, 3}, Vector{1, 2, 3}, 1},
		{"same direction different scale", Vector{1, 2, 3}, Vector{2, 4, 6}, 1},
		{"orthogonal", Vector{1, 0, 0}, Vector{0, 1, 0}, 0},
		{"opposite", Vector{1, 2, 3}, Vector{-1, -2, -3}, -1},
		{"zero left", Vector{0, 0, 0}, Vector{1, 2, 3}, 0},
		{"zero right", Vector{1, 2, 3}, Vector{0, 0, 0}, 0},
		{"both zero", Vector{0, 0}, Vector{0, 0}, 0},
		{"halfway", Vector{1, 1, 0}, Vector{1, 0, 0}, 1 / math.Sqrt2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CosineSimilarity(tc.a, tc.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			if got < -1 || got > 1 {
				t.Fatalf("similarity %v outside [-1, 1]", got)
			}
		})
	}
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity(Vector{1, 2}, Vector{1, 2, 3})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := Vector{0.3, -1.7, 2.2, 0.9}
	b := Vector{-0.4, 0.1, 1.5, -2.0}

	ab, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := CosineSimilarity(b, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(ab, ba) {
		t.Fatalf("similarity is not symmetric: %v vs %v", ab, ba)
	}
}
