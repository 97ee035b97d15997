package vectors

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Collection holds the documents of one named collection, keyed by document
// id. All methods are safe for concurrent use. Stored vectors are copied on
// the way in and never mutated in place, so read paths can hand references
// around without holding the lock.
type Collection struct {
	lock       sync.RWMutex
	params     CollectionParameters
	docs       map[DocumentID]Vector
	instance   string
	generation uint64
}

func NewCollection(params *CollectionParameters) *Collection {
	effective := CollectionParameters{}
	if params != nil {
		effective = *params
	}
	if effective.DistanceMeasure == "" {
		effective.DistanceMeasure = DistanceCosine
	}

	return &Collection{
		params:   effective,
		docs:     make(map[DocumentID]Vector),
		instance: uuid.New().String(),
	}
}

func (c *Collection) Params() CollectionParameters {
	return c.params
}

// AddOrUpdate stores doc's vector under doc.Id, replacing whatever vector was
// there before. Inserting the same document twice leaves a single entry. The
// vector is copied, the caller keeps ownership of its slice.
func (c *Collection) AddOrUpdate(doc Document) error {
	if c.params.Dimensions > 0 && len(doc.Vector) != c.params.Dimensions {
		return fmt.Errorf("%w: collection expects %d dimensions, document %s has %d",
			ErrDimensionMismatch, c.params.Dimensions, doc.Id, len(doc.Vector))
	}

	stored := make(Vector, len(doc.Vector))
	copy(stored, doc.Vector)

	c.lock.Lock()
	c.docs[doc.Id] = stored
	c.generation++
	c.lock.Unlock()

	return nil
}

// Get returns a copy of the document stored under id.
func (c *Collection) Get(id DocumentID) (Document, bool) {
	c.lock.RLock()
	stored, exists := c.docs[id]
	c.lock.RUnlock()

	if !exists {
		return Document{}, false
	}

	vec := make(Vector, len(stored))
	copy(vec, stored)

	return Document{Id: id, Vector: vec}, true
}

// Remove deletes the document stored under id and reports whether anything
// was there to delete. Removing an absent id is not an error.
func (c *Collection) Remove(id DocumentID) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, exists := c.docs[id]; !exists {
		return false
	}

	delete(c.docs, id)
	c.generation++

	return true
}

func (c *Collection) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return len(c.docs)
}

// Version identifies the exact data state: the instance tag distinguishes
// recreations under the same name, the generation counts mutations within
// this instance. Two reads of the same version are guaranteed to observe
// the same documents, which makes it usable as a search-cache key.
func (c *Collection) Version() string {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return fmt.Sprintf("%s:%d", c.instance, c.generation)
}

// Search scores every document against query and returns the topK best
// matches, best first. Equal scores are ordered by ascending id, so repeated
// searches over the same data return identical sequences. Documents whose
// dimensionality differs from the query are skipped, they can never be a
// meaningful match. topK <= 0 yields no results.
//
// Documents are scored concurrently, one sub-computation fan-out per document
// on top of a worker pool sized to the machine.
func (c *Collection) Search(ctx context.Context, query Vector, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		return nil, nil
	}

	// snapshot ids and vector references, then score outside the lock
	c.lock.RLock()
	ids := make([]DocumentID, 0, len(c.docs))
	snapshots := make([]Vector, 0, len(c.docs))
	for id, stored := range c.docs {
		ids = append(ids, id)
		snapshots = append(snapshots, stored)
	}
	c.lock.RUnlock()

	if len(ids) == 0 {
		return nil, nil
	}

	scores := make([]float64, len(ids))
	scored := make([]bool, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for idx := range ids {
		idx := idx
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			score, err := c.scoreDocument(query, snapshots[idx])
			if errors.Is(err, ErrDimensionMismatch) {
				// skipped, not an empty-handed match
				return nil
			}
			if err != nil {
				return err
			}

			scores[idx] = score
			scored[idx] = true

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(ids))
	for idx, ok := range scored {
		if ok {
			results = append(results, SearchResult{Id: ids[idx], Score: scores[idx]})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Id < results[j].Id
	})

	if len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

// scoreDocument maps the collection's distance measure onto a higher-is-better
// score. Euclidean distances are negated to keep that orientation.
func (c *Collection) scoreDocument(query, stored Vector) (float64, error) {
	switch c.params.DistanceMeasure {
	case DistanceDot:
		return Dot(query, stored)
	case DistanceEuclidean:
		distance, err := EuclideanDistance(query, stored)
		return -distance, err
	default:
		return ParallelCosineSimilarity(query, stored)
	}
}
