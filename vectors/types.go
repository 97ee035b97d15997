package vectors

import (
	"context"
	"errors"
)

var (
	// ErrDimensionMismatch is returned when two vectors of different lengths
	// meet in a computation that requires them to agree.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrCollectionNotFound is returned on lookups of unregistered collections.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrDocumentNotFound is returned by strict document lookups.
	ErrDocumentNotFound = errors.New("document not found")
)

type DocumentID string

// Vector is a dense embedding. Zero-length vectors are allowed and have
// magnitude 0.
type Vector []float64

// Document pairs an identifier with its embedding. The id is assigned by the
// caller; collections never generate ids on their own.
type Document struct {
	Id     DocumentID `json:"id"`
	Vector Vector     `json:"vector"`
}

// SearchResult is one scored match. Higher scores rank better regardless of
// the distance measure in use.
type SearchResult struct {
	Id    DocumentID `json:"id"`
	Score float64    `json:"score"`
}

type DistanceMeasureType string

const (
	DistanceCosine    DistanceMeasureType = "Cosine"
	DistanceEuclidean DistanceMeasureType = "Euclid"
	DistanceDot       DistanceMeasureType = "Dot"
)

// CollectionParameters tunes a collection at creation time. Dimensions == 0
// leaves the dimensionality open: documents of any length are accepted and
// mismatches surface at search time instead.
type CollectionParameters struct {
	Dimensions      int
	DistanceMeasure DistanceMeasureType
}

type VectorDB interface {
	AddCollection(name string, params *CollectionParameters) error
	InsertDocuments(collection string, docs []*Document) error
	RemoveDocument(collection string, id DocumentID) (bool, error)
	SearchInCollection(ctx context.Context, collection string, query Vector, topK int) ([]SearchResult, error)
	DropCollection(name string) bool
	Collections() []string
}
