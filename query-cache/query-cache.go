package query_cache

import (
	"sync"
	"time"
)

type cachedResult[V any] struct {
	value V
	err   error
}

type ttlPair struct {
	key      string
	deadLine time.Time
}

// QueryCache folds concurrent lookups for the same key into a single
// computation and keeps successful results around for ttl. Errors are
// handed to every waiter but never cached. Expired entries are swept
// lazily, whenever a fresh computation finalizes.
type QueryCache[V any] struct {
	pendingResults  map[string][]chan cachedResult[V]
	finalResults    map[string]V
	lock            sync.RWMutex
	expirationQueue []ttlPair
	ttl             time.Duration
}

const defaultExpirationTimeout = 5 * time.Minute

func NewQueryCache[V any](ttl time.Duration) *QueryCache[V] {
	if ttl <= 0 {
		ttl = defaultExpirationTimeout
	}
	return &QueryCache[V]{
		pendingResults:  make(map[string][]chan cachedResult[V]),
		finalResults:    make(map[string]V),
		expirationQueue: make([]ttlPair, 0),
		ttl:             ttl,
	}
}

func (c *QueryCache[V]) GetValue(key string, f func() (V, error)) (V, error) {
	c.lock.Lock()

	if value, ok := c.finalResults[key]; ok {
		c.lock.Unlock()
		return value, nil
	}

	if _, ok := c.pendingResults[key]; ok {
		// something is cooking already...!
		responseChannel := make(chan cachedResult[V], 1)
		c.pendingResults[key] = append(c.pendingResults[key], responseChannel)
		c.lock.Unlock()

		result := <-responseChannel
		return result.value, result.err
	}

	c.pendingResults[key] = make([]chan cachedResult[V], 0)
	c.lock.Unlock()

	value, err := f()

	c.lock.Lock()
	if err == nil {
		c.finalResults[key] = value
		c.expirationQueue = append(c.expirationQueue, ttlPair{
			key:      key,
			deadLine: time.Now().Add(c.ttl),
		})
	}
	channels := c.pendingResults[key]
	delete(c.pendingResults, key)

	for len(c.expirationQueue) > 0 && time.Since(c.expirationQueue[0].deadLine) > 0 {
		delete(c.finalResults, c.expirationQueue[0].key)
		c.expirationQueue = c.expirationQueue[1:]
	}
	c.lock.Unlock()

	for _, channel := range channels {
		channel <- cachedResult[V]{value: value, err: err}
	}

	return value, err
}

// Len reports how many finished results are currently cached.
func (c *QueryCache[V]) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.finalResults)
}
