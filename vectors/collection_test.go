package vectors

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func TestAddOrUpdateReplaces(t *testing.T) {
	c := NewCollection(nil)

	if err := c.AddOrUpdate(Document{Id: "doc-1", Vector: Vector{1, 0, 0}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddOrUpdate(Document{Id: "doc-1", Vector: Vector{0, 1, 0}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Len() != 1 {
		t.Fatalf("collection has %d documents, want 1", c.Len())
	}

	doc, exists := c.Get("doc-1")
	if !exists {
		t.Fatalf("document vanished after update")
	}
	if !reflect.DeepEqual(doc.Vector, Vector{0, 1, 0}) {
		t.Fatalf("got %v, want the updated vector", doc.Vector)
	}
}

func TestAddOrUpdateCopiesVector(t *testing.T) {
	c := NewCollection(nil)

	original := Vector{1, 2, 3}
	if err := c.AddOrUpdate(Document{Id: "doc-1", Vector: original}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	original[0] = 999

	doc, _ := c.Get("doc-1")
	if doc.Vector[0] != 1 {
		t.Fatalf("stored vector changed when the caller's slice did: %v", doc.Vector)
	}
}

func TestAddOrUpdateEnforcesDimensions(t *testing.T) {
	c := NewCollection(&CollectionParameters{Dimensions: 3})

	if err := c.AddOrUpdate(Document{Id: "ok", Vector: Vector{1, 2, 3}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := c.AddOrUpdate(Document{Id: "short", Vector: Vector{1, 2}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
	if c.Len() != 1 {
		t.Fatalf("rejected document was stored anyway")
	}
}

func TestRemove(t *testing.T) {
	c := NewCollection(nil)
	_ = c.AddOrUpdate(Document{Id: "doc-1", Vector: Vector{1}})

	if !c.Remove("doc-1") {
		t.Fatalf("removing a present document reported false")
	}
	if c.Remove("doc-1") {
		t.Fatalf("removing an absent document reported true")
	}
	if c.Len() != 0 {
		t.Fatalf("collection has %d documents, want 0", c.Len())
	}
}

func TestVersionMovesWithMutations(t *testing.T) {
	c := NewCollection(nil)
	v0 := c.Version()

	_ = c.AddOrUpdate(Document{Id: "a", Vector: Vector{1}})
	v1 := c.Version()
	if v1 == v0 {
		t.Fatalf("insert did not move the version: %s", v1)
	}

	c.Remove("a")
	v2 := c.Version()
	if v2 == v1 || v2 == v0 {
		t.Fatalf("remove did not move the version: %s", v2)
	}

	if NewCollection(nil).Version() == NewCollection(nil).Version() {
		t.Fatalf("distinct collections share a version")
	}
}

func seedRankingCollection(t *testing.T) *Collection {
	t.Helper()

	c := NewCollection(nil)
	docs := []Document{
		{Id: "a", Vector: Vector{1, 0, 0}},
		{Id: "b", Vector: Vector{0, 1, 0}},
		{Id: "c", Vector: Vector{1, 1, 0}},
	}
	for _, doc := range docs {
		if err := c.AddOrUpdate(doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	return c
}

func TestSearchRanking(t *testing.T) {
	c := seedRankingCollection(t)

	results, err := c.Search(context.Background(), Vector{1, 1, 0}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if results[0].Id != "c" || !almostEqual(results[0].Score, 1) {
		t.Fatalf("best match: got %+v, want c with score 1", results[0])
	}
	// a and b score identically, the tie goes to the smaller id
	if results[1].Id != "a" || !almostEqual(results[1].Score, 1/math.Sqrt2) {
		t.Fatalf("second match: got %+v, want a with score 1/sqrt(2)", results[1])
	}
}

func TestSearchDeterministic(t *testing.T) {
	c := seedRankingCollection(t)

	first, err := c.Search(context.Background(), Vector{1, 1, 0}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for run := 0; run < 20; run++ {
		again, err := c.Search(context.Background(), Vector{1, 1, 0}, 3)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		if !reflect.DeepEqual(again, first) {
			t.Fatalf("run %d: got %+v, want %+v", run, again, first)
		}
	}
}

func TestSearchTopKBounds(t *testing.T) {
	c := seedRankingCollection(t)

	all, err := c.Search(context.Background(), Vector{1, 1, 0}, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("topK larger than the collection: got %d results, want 3", len(all))
	}

	none, err := c.Search(context.Background(), Vector{1, 1, 0}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("topK == 0: got %d results, want none", len(none))
	}

	negative, err := c.Search(context.Background(), Vector{1, 1, 0}, -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(negative) != 0 {
		t.Fatalf("negative topK: got %d results, want none", len(negative))
	}
}

func TestSearchEmptyCollection(t *testing.T) {
	c := NewCollection(nil)

	results, err := c.Search(context.Background(), Vector{1, 2, 3}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results from an empty collection", len(results))
	}
}

func TestSearchSkipsMismatchedDocuments(t *testing.T) {
	c := NewCollection(nil)
	_ = c.AddOrUpdate(Document{Id: "fits-1", Vector: Vector{1, 0, 0}})
	_ = c.AddOrUpdate(Document{Id: "fits-2", Vector: Vector{0, 1, 0}})
	_ = c.AddOrUpdate(Document{Id: "short", Vector: Vector{1, 0}})

	results, err := c.Search(context.Background(), Vector{1, 1, 0}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want the 2 matching documents", len(results))
	}
	for _, r := range results {
		if r.Id == "short" {
			t.Fatalf("mismatched document made it into the results")
		}
	}
}

func TestSearchAllMismatched(t *testing.T) {
	c := NewCollection(nil)
	_ = c.AddOrUpdate(Document{Id: "a", Vector: Vector{1, 2}})
	_ = c.AddOrUpdate(Document{Id: "b", Vector: Vector{3, 4}})

	results, err := c.Search(context.Background(), Vector{1, 1, 1}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want none when nothing matches the query size", len(results))
	}
}

func TestSearchEuclideanMeasure(t *testing.T) {
	c := NewCollection(&CollectionParameters{DistanceMeasure: DistanceEuclidean})
	_ = c.AddOrUpdate(Document{Id: "near", Vector: Vector{1, 1}})
	_ = c.AddOrUpdate(Document{Id: "far", Vector: Vector{10, 10}})

	results, err := c.Search(context.Background(), Vector{0, 0}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Id != "near" {
		t.Fatalf("closest document ranked %+v first", results[0])
	}
	if results[0].Score <= results[1].Score {
		t.Fatalf("scores are not descending: %+v", results)
	}
}

func TestSearchDotMeasure(t *testing.T) {
	c := NewCollection(&CollectionParameters{DistanceMeasure: DistanceDot})
	_ = c.AddOrUpdate(Document{Id: "big", Vector: Vector{10, 0}})
	_ = c.AddOrUpdate(Document{Id: "small", Vector: Vector{1, 0}})

	results, err := c.Search(context.Background(), Vector{1, 0}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Id != "big" || !almostEqual(results[0].Score, 10) {
		t.Fatalf("got %+v, want big with score 10 first", results[0])
	}
}

func BenchmarkCollectionSearch(b *testing.B) {
	rnd := rand.New(rand.NewSource(11))
	c := NewCollection(nil)
	for i := 0; i < 1000; i++ {
		doc := Document{
			Id:     DocumentID(fmt.Sprintf("doc-%04d", i)),
			Vector: randomVector(rnd, 128),
		}
		_ = c.AddOrUpdate(doc)
	}
	query := randomVector(rnd, 128)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Search(context.Background(), query, 10); err != nil {
			b.Fatal(err)
		}
	}
}
