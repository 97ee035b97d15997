package query_engine

import (
	"fmt"
	"time"
)

// WorkerNode is one local scoring worker. MaxRequests bounds how many batches
// it runs at once, MaxBatchSize bounds how many jobs a batch collects.
type WorkerNode struct {
	Name         string
	MaxRequests  int
	MaxBatchSize int
	JobTypes     []JobType

	TotalJobsProcessed     uint64
	TotalRequestsProcessed uint64
	TotalTimeConsumed      time.Duration
	TotalTimeIdle          time.Duration

	RequestsRunning     int32
	LastIdleAt          time.Time
	TotalTimeWaisted    time.Duration
	TotalRequestsFailed uint64
	TotalJobsFailed     uint64
	LastFailure         time.Time
}

// RunBatch splits the batch by job type and hands each slice to its compute
// function. The feeder only hands over jobs this node serves. f fires once
// when everything ran, failFunc fires on the first error and the rest of the
// batch is abandoned.
func (n *WorkerNode) RunBatch(cf ComputeFunction, jobs []*ComputeJob, nodeIdx int,
	f func(int, time.Time),
	failFunc func(int, time.Time, error)) {
	ts := time.Now()

	for jobType, typedJobs := range getJobsByType(jobs) {
		computeFn, exists := cf[jobType]
		if !exists {
			failFunc(nodeIdx, ts, fmt.Errorf("no compute function for %s jobs", jobTypeName(jobType)))
			return
		}

		if err := computeFn(n, typedJobs); err != nil {
			failFunc(nodeIdx, ts, err)
			return
		}
	}

	f(nodeIdx, ts)
}
