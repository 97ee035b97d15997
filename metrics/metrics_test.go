package metrics

import (
	"sync"
	"testing"
)

func TestTickAndGet(t *testing.T) {
	if Get("test-fresh") != 0 {
		t.Fatalf("unknown counter is not zero")
	}

	Tick("test-fresh", 1)
	Tick("test-fresh", 2)
	if Get("test-fresh") != 3 {
		t.Fatalf("got %d, want 3", Get("test-fresh"))
	}
}

func TestSnapshotAndNames(t *testing.T) {
	Tick("test-snap-a", 5)
	Tick("test-snap-b", 7)

	snapshot := Snapshot()
	if snapshot["test-snap-a"] != 5 || snapshot["test-snap-b"] != 7 {
		t.Fatalf("snapshot is wrong: %+v", snapshot)
	}

	names := Names()
	seenA := false
	for idx, name := range names {
		if idx > 0 && names[idx-1] > name {
			t.Fatalf("names are not sorted: %v", names)
		}
		if name == "test-snap-a" {
			seenA = true
		}
	}
	if !seenA {
		t.Fatalf("counter missing from names: %v", names)
	}
}

func TestTickConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				Tick("test-concurrent", 1)
			}
		}()
	}
	wg.Wait()

	if Get("test-concurrent") != 800 {
		t.Fatalf("got %d, want 800", Get("test-concurrent"))
	}
}
