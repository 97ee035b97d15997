package query_engine

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/d0rc/vector-os/metrics"
)

func (qe *QueryEngine) Run() {
	go func() {
		if qe.settings.TermUI {
			qe.ui()
			os.Exit(0)
		} else if qe.settings.TopInterval > 0 {
			for {
				qe.PrintTop()
				time.Sleep(qe.settings.TopInterval)
			}
		}
	}()

	// first let's start our primary cycle....!
	for {
		select {
		case <-qe.quitChan:
			return
		case jobs := <-qe.IncomingJobs:
			ts := time.Now()
			for _, job := range jobs {
				qe.jobQueues[job.Priority] <- job
			}
			qe.statsLock.Lock()
			qe.TotalTimeScheduling += time.Since(ts)
			qe.statsLock.Unlock()
		case node := <-qe.AddNodeChan:
			node.LastIdleAt = time.Now()
			qe.statsLock.Lock()
			qe.Nodes = append(qe.Nodes, node)
			nodeIdx := len(qe.Nodes) - 1
			qe.statsLock.Unlock()
			qe.Log.Info().Msgf("starting %d feeders for worker %s", node.MaxRequests, node.Name)
			// since we have added a new node, let's start the feeders for it
			for idx := 0; idx < node.MaxRequests; idx++ {
				go qe.nodeFeeder(node, nodeIdx)
			}
		}
	}
}

// nodeFeeder drains the priority queues highest first, growing a batch until
// it is full or 50ms passed since its first job, then runs it.
func (qe *QueryEngine) nodeFeeder(node *WorkerNode, nodeIdx int) {
	batch := make([]*ComputeJob, 0, node.MaxBatchSize)
	firstElementTs := time.Now()
	batchIsReady := false
	for {
		select {
		case <-qe.quitChan:
			return
		default:
		}

		for _, ch := range qe.jobQueues {
			for {
				gotTheJob := false
				select {
				case job := <-ch:
					if job != nil {
						// let's check if this job is compatible with our node at all..!
						if qe.nodeServes(node, job.JobType) {
							gotTheJob = true
							batch = append(batch, job)
							if len(batch) == 1 {
								firstElementTs = time.Now()
							}
							if len(batch) == node.MaxBatchSize || (time.Since(firstElementTs) > 50*time.Millisecond && len(batch) > 0) {
								batchIsReady = true
							}
						} else {
							// hand it back, another worker serves this type
							go func(job *ComputeJob) {
								qe.IncomingJobs <- []*ComputeJob{job}
							}(job)
						}
					}
				default:
				}

				if !gotTheJob || batchIsReady {
					break
				}
			}

			if batchIsReady {
				break
			}
		}

		if len(batch) > 0 {
			qe.runBatch(node, nodeIdx, batch)
			batch = make([]*ComputeJob, 0, node.MaxBatchSize)
			batchIsReady = false
		} else {
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (qe *QueryEngine) runBatch(node *WorkerNode, nodeIdx int, batch []*ComputeJob) {
	if atomic.AddInt32(&node.RequestsRunning, 1) == 1 {
		qe.statsLock.Lock()
		node.TotalTimeIdle += time.Since(node.LastIdleAt)
		qe.statsLock.Unlock()
	}

	qe.statsLock.Lock()
	for _, job := range batch {
		qe.ProcessesTotalJobs[job.Process]++
		qe.ProcessesTotalTimeWaiting[job.Process] += time.Since(job.receivedAt)
	}
	qe.statsLock.Unlock()

	node.RunBatch(qe.ComputeFunction, batch, nodeIdx, func(nodeIdx int, ts time.Time) {
		qe.statsLock.Lock()
		node.TotalTimeConsumed += time.Since(ts)
		node.TotalRequestsProcessed++
		node.TotalJobsProcessed += uint64(len(batch))
		qe.TotalRequestsProcessed++
		qe.TotalJobsProcessed += uint64(len(batch))
		qe.TotalTimeConsumed += time.Since(ts)
		for _, job := range batch {
			qe.ProcessesTotalTimeConsumed[job.Process] += time.Since(ts)
		}
		qe.statsLock.Unlock()
		metrics.Tick("jobs-processed", int64(len(batch)))
	}, func(nodeIdx int, ts time.Time, err error) {
		qe.statsLock.Lock()
		node.TotalTimeWaisted += time.Since(ts)
		node.TotalRequestsFailed++
		node.TotalJobsFailed += uint64(len(batch))
		node.LastFailure = time.Now()
		qe.TotalTimeWaisted += time.Since(ts)
		qe.TotalRequestsFailed++
		qe.statsLock.Unlock()
		metrics.Tick("batches-failed", 1)

		qe.Log.Error().Err(err).Msgf("batch of %d jobs failed on worker %s", len(batch), node.Name)
		// local compute is deterministic, retrying the batch would fail the
		// same way, so the error goes to every waiting job instead
		for _, job := range batch {
			job.deliver(&JobResult{JobId: job.JobId, Err: err})
		}
	})

	atomic.AddInt32(&node.RequestsRunning, -1)
	if atomic.LoadInt32(&node.RequestsRunning) == 0 {
		qe.statsLock.Lock()
		node.LastIdleAt = time.Now()
		qe.statsLock.Unlock()
	}
}
