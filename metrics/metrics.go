package metrics

import (
	"sort"
	"sync"
	"time"
)

// Counter is a process-wide named counter with a sliding 1s rate. Counters
// spring into existence on first Tick.
type Counter struct {
	name string

	value int64
	ts    time.Time

	value1s int64
	ts1s    time.Time
	rate1s  float64
}

var counters = make(map[string]*Counter)
var countersLock = sync.RWMutex{}

func Tick(name string, value int64) {
	countersLock.Lock()
	counter, exists := counters[name]
	if !exists {
		counters[name] = &Counter{
			name:    name,
			value:   value,
			ts:      time.Now(),
			value1s: value,
			ts1s:    time.Now(),
		}
		countersLock.Unlock()
		return
	}

	counter.value += value
	counter.value1s += value
	if time.Since(counter.ts1s) >= 1*time.Second {
		counter.rate1s = float64(counter.value1s) / float64(time.Since(counter.ts1s))
		counter.ts1s = time.Now()
		counter.value1s = 0
	}
	countersLock.Unlock()
}

func Get(name string) int64 {
	countersLock.RLock()
	defer countersLock.RUnlock()

	counter, exists := counters[name]
	if !exists {
		return 0
	}
	return counter.value
}

// GetPerformance is the counter's lifetime rate, in events per nanosecond.
func GetPerformance(name string) float64 {
	countersLock.RLock()
	defer countersLock.RUnlock()

	counter, exists := counters[name]
	if !exists {
		return 0
	}
	return float64(counter.value) / float64(time.Since(counter.ts))
}

// GetRate1s is the counter's rate over its last full second, in events per
// nanosecond. It reads as zero until the counter survived one second.
func GetRate1s(name string) float64 {
	countersLock.RLock()
	defer countersLock.RUnlock()

	counter, exists := counters[name]
	if !exists {
		return 0
	}
	return counter.rate1s
}

// Snapshot returns every counter's current value, keyed by name.
func Snapshot() map[string]int64 {
	countersLock.RLock()
	defer countersLock.RUnlock()

	snapshot := make(map[string]int64, len(counters))
	for name, counter := range counters {
		snapshot[name] = counter.value
	}
	return snapshot
}

// Names lists known counters in lexicographic order, for stable reports.
func Names() []string {
	countersLock.RLock()
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	countersLock.RUnlock()

	sort.Strings(names)
	return names
}
