package query_engine

import (
	"context"
	"time"

	"github.com/d0rc/vector-os/vectors"
	"github.com/google/uuid"
)

type JobType int

const (
	JT_Search JobType = iota
	JT_Upsert
	JT_NotAJob
)

type JobPriority int

const (
	PRIO_System JobPriority = iota
	PRIO_Kernel
	PRIO_User
	PRIO_Background
)

// ComputeJob is one unit of scheduled work. Search jobs carry Query and TopK,
// upsert jobs carry Documents, both name the target Collection. The result
// comes back on an internal single-slot channel, see Wait.
type ComputeJob struct {
	JobId      string
	JobType    JobType
	Priority   JobPriority
	Process    string
	Collection string

	Query vectors.Vector
	TopK  int

	Documents []*vectors.Document

	receivedAt time.Time
	resultChan chan *JobResult
}

type JobResult struct {
	JobId   string
	Results []vectors.SearchResult
	Err     error
}

// ComputeFunction maps job types to the code that executes a batch of them.
// Batches handed to a function are homogeneous in type.
type ComputeFunction map[JobType]func(*WorkerNode, []*ComputeJob) error

func NewSearchJob(process string, priority JobPriority, collection string, query vectors.Vector, topK int) *ComputeJob {
	return &ComputeJob{
		JobId:      uuid.New().String(),
		JobType:    JT_Search,
		Priority:   priority,
		Process:    process,
		Collection: collection,
		Query:      query,
		TopK:       topK,
		resultChan: make(chan *JobResult, 1),
	}
}

func NewUpsertJob(process string, priority JobPriority, collection string, documents []*vectors.Document) *ComputeJob {
	return &ComputeJob{
		JobId:      uuid.New().String(),
		JobType:    JT_Upsert,
		Priority:   priority,
		Process:    process,
		Collection: collection,
		Documents:  documents,
		resultChan: make(chan *JobResult, 1),
	}
}

// Wait blocks until the job's result is delivered or ctx expires.
func (job *ComputeJob) Wait(ctx context.Context) (*JobResult, error) {
	select {
	case result := <-job.resultChan:
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// deliver never blocks, the result slot is buffered and a job only ever
// completes once.
func (job *ComputeJob) deliver(result *JobResult) {
	select {
	case job.resultChan <- result:
	default:
	}
}

func jobTypeName(jobType JobType) string {
	switch jobType {
	case JT_Search:
		return "search"
	case JT_Upsert:
		return "upsert"
	default:
		return "unknown"
	}
}
