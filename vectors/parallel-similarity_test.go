package vectors

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"
)

func randomVector(rnd *rand.Rand, dims int) Vector {
	v := make(Vector, dims)
	for i := range v {
		v[i] = rnd.Float64()*2 - 1
	}
	return v
}

func TestParallelCosineSimilarityMatchesSerial(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for run := 0; run < 50; run++ {
		a := randomVector(rnd, 1+rnd.Intn(128))
		b := randomVector(rnd, len(a))

		want, err := CosineSimilarity(a, b)
		if err != nil {
			t.Fatalf("serial: unexpected error: %v", err)
		}
		got, err := ParallelCosineSimilarity(a, b)
		if err != nil {
			t.Fatalf("parallel: unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("run %d: parallel %v != serial %v", run, got, want)
		}
	}
}

func TestParallelCosineSimilarityRunsAllParts(t *testing.T) {
	var (
		seenLock sync.Mutex
		seen     [3]bool
	)
	computeStagger = func(part int) {
		seenLock.Lock()
		seen[part] = true
		seenLock.Unlock()
	}
	defer func() { computeStagger = nil }()

	if _, err := ParallelCosineSimilarity(Vector{1, 2, 3}, Vector{4, 5, 6}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for part, ok := range seen {
		if !ok {
			t.Fatalf("sub-computation %d never ran", part)
		}
	}
}

// The combine step must wait on all three sub-computations, so the order in
// which they finish cannot change the answer. Randomized delays shuffle the
// completion order across runs; every run has to produce the same score.
func TestParallelCosineSimilarityOrderIndependent(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	a := randomVector(rnd, 64)
	b := randomVector(rnd, 64)

	want, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	computeStagger = func(part int) {
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
	}
	defer func() { computeStagger = nil }()

	for run := 0; run < 25; run++ {
		got, err := ParallelCosineSimilarity(a, b)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		if got != want {
			t.Fatalf("run %d: got %v, want %v", run, got, want)
		}
	}
}

func TestParallelCosineSimilarityDimensionMismatch(t *testing.T) {
	_, err := ParallelCosineSimilarity(Vector{1, 2, 3}, Vector{1, 2})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestParallelCosineSimilarityZeroMagnitude(t *testing.T) {
	got, err := ParallelCosineSimilarity(Vector{0, 0, 0}, Vector{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("got %v, want 0 for zero-magnitude input", got)
	}
}

func BenchmarkCosineSimilarity(b *testing.B) {
	rnd := rand.New(rand.NewSource(3))
	x := randomVector(rnd, 768)
	y := randomVector(rnd, 768)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := CosineSimilarity(x, y); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParallelCosineSimilarity(b *testing.B) {
	rnd := rand.New(rand.NewSource(3))
	x := randomVector(rnd, 768)
	y := randomVector(rnd, 768)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParallelCosineSimilarity(x, y); err != nil {
			b.Fatal(err)
		}
	}
}
