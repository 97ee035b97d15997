package vectors

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Database is the collection registry, the single entry point clients hold on
// to. Collection instances are owned by the registry, lookups return live
// references.
type Database struct {
	lock        sync.RWMutex
	collections map[string]*Collection
}

var _ VectorDB = (*Database)(nil)

func NewDatabase() *Database {
	return &Database{
		collections: make(map[string]*Collection),
	}
}

// AddCollection registers a fresh, empty collection under name. Registering a
// name that already exists replaces the old collection wholesale, documents
// included.
func (db *Database) AddCollection(name string, params *CollectionParameters) error {
	collection := NewCollection(params)

	db.lock.Lock()
	db.collections[name] = collection
	db.lock.Unlock()

	return nil
}

// Collection returns the live collection registered under name.
func (db *Database) Collection(name string) (*Collection, error) {
	db.lock.RLock()
	collection, exists := db.collections[name]
	db.lock.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}

	return collection, nil
}

func (db *Database) InsertDocuments(name string, docs []*Document) error {
	collection, err := db.Collection(name)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if err = collection.AddOrUpdate(*doc); err != nil {
			return fmt.Errorf("inserting document %s into %s: %w", doc.Id, name, err)
		}
	}

	return nil
}

// Document is the strict lookup: unlike Collection.Get it reports an absent
// id as ErrDocumentNotFound.
func (db *Database) Document(name string, id DocumentID) (Document, error) {
	collection, err := db.Collection(name)
	if err != nil {
		return Document{}, err
	}

	doc, exists := collection.Get(id)
	if !exists {
		return Document{}, fmt.Errorf("%w: %s in %s", ErrDocumentNotFound, id, name)
	}

	return doc, nil
}

func (db *Database) RemoveDocument(name string, id DocumentID) (bool, error) {
	collection, err := db.Collection(name)
	if err != nil {
		return false, err
	}

	return collection.Remove(id), nil
}

func (db *Database) SearchInCollection(ctx context.Context, name string, query Vector, topK int) ([]SearchResult, error) {
	collection, err := db.Collection(name)
	if err != nil {
		return nil, err
	}

	return collection.Search(ctx, query, topK)
}

func (db *Database) DropCollection(name string) bool {
	db.lock.Lock()
	defer db.lock.Unlock()

	if _, exists := db.collections[name]; !exists {
		return false
	}

	delete(db.collections, name)

	return true
}

// Collections lists registered collection names in lexicographic order.
func (db *Database) Collections() []string {
	db.lock.RLock()
	names := make([]string, 0, len(db.collections))
	for name := range db.collections {
		names = append(names, name)
	}
	db.lock.RUnlock()

	sort.Strings(names)

	return names
}

// Len is the total number of documents across all collections.
func (db *Database) Len() int {
	db.lock.RLock()
	defer db.lock.RUnlock()

	total := 0
	for _, collection := range db.collections {
		total += collection.Len()
	}

	return total
}
