package batcher

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Batcher collects individual tasks and flushes them through op as one slice,
// either when batchSize is reached or when latency passed since the last
// arrival. Batchers are registered globally by id so independent call sites
// feeding the same sink share one instance.
type Batcher[T any] struct {
	op        func([]T) error
	tasksChan chan T
	stopChan  chan struct{}
	batchSize int
	latency   time.Duration
}

var batchers = make(map[string]interface{})
var batchersLock = sync.RWMutex{}

func NewBatcher[T any](id string, op func([]T) error, batchSize int, latency time.Duration) *Batcher[T] {
	batchersLock.Lock()
	defer batchersLock.Unlock()
	if b, exists := batchers[id]; exists {
		return b.(*Batcher[T])
	}

	if batchSize <= 0 {
		batchSize = 1
	}
	if latency <= 0 {
		latency = 50 * time.Millisecond
	}

	b := &Batcher[T]{
		op:        op,
		tasksChan: make(chan T),
		stopChan:  make(chan struct{}, 1),
		batchSize: batchSize,
		latency:   latency,
	}
	batchers[id] = b

	go b.run()

	return b
}

func (b *Batcher[T]) run() {
	tasks := make([]T, 0, b.batchSize)
	timer := time.NewTimer(b.latency)
	for {
		timerAlarm := false
		select {
		case <-b.stopChan:
			b.flush(tasks)
			return
		case task := <-b.tasksChan:
			tasks = append(tasks, task)
			timer.Reset(b.latency)
		case <-timer.C:
			if len(tasks) > 0 {
				timerAlarm = true
			}
			timer.Reset(b.latency)
		}

		if len(tasks) >= b.batchSize || timerAlarm {
			b.flush(tasks)
			tasks = make([]T, 0, b.batchSize)
		}
	}
}

func (b *Batcher[T]) flush(tasks []T) {
	if len(tasks) == 0 {
		return
	}
	if err := b.op(tasks); err != nil {
		log.Error().Msgf("got error running batcher: %v", err)
	}
}

func (b *Batcher[T]) RunTask(task T) {
	b.tasksChan <- task
}

// Stop flushes whatever is buffered and shuts the batcher down. The id stays
// registered, a stopped batcher is not restartable.
func (b *Batcher[T]) Stop() {
	b.stopChan <- struct{}{}
}
