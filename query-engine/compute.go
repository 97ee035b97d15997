package query_engine

import (
	"context"

	"github.com/d0rc/vector-os/metrics"
	"github.com/d0rc/vector-os/vectors"
)

// DefaultComputeFunction executes jobs directly against db. Per-job failures,
// an unknown collection or a dimension mismatch on upsert, are delivered in
// the job's result and never fail the worker batch, the batch only fails when
// the engine itself is misconfigured.
func DefaultComputeFunction(db *vectors.Database) ComputeFunction {
	return ComputeFunction{
		JT_Search: func(node *WorkerNode, jobs []*ComputeJob) error {
			for _, job := range jobs {
				results, err := db.SearchInCollection(context.Background(), job.Collection, job.Query, job.TopK)
				if err != nil {
					metrics.Tick("search-jobs-failed", 1)
				} else {
					metrics.Tick("search-jobs-done", 1)
				}
				job.deliver(&JobResult{JobId: job.JobId, Results: results, Err: err})
			}

			return nil
		},
		JT_Upsert: func(node *WorkerNode, jobs []*ComputeJob) error {
			for _, job := range jobs {
				err := db.InsertDocuments(job.Collection, job.Documents)
				if err != nil {
					metrics.Tick("upsert-jobs-failed", 1)
				} else {
					metrics.Tick("upsert-jobs-done", 1)
					metrics.Tick("documents-upserted", int64(len(job.Documents)))
				}
				job.deliver(&JobResult{JobId: job.JobId, Err: err})
			}

			return nil
		},
	}
}
