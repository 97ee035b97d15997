package query_engine

import (
	"sync"
	"time"

	"github.com/d0rc/vector-os/metrics"
	query_cache "github.com/d0rc/vector-os/query-cache"
	"github.com/d0rc/vector-os/vectors"
	"github.com/rs/zerolog"
)

// QueryEngine schedules search and upsert jobs over a set of local worker
// nodes. Jobs are drained in priority order, batched per worker and executed
// through the ComputeFunction, which by default runs against Db.
type QueryEngine struct {
	Db    *vectors.Database
	Nodes []*WorkerNode

	// statistics
	TotalJobsProcessed         uint64
	TotalRequestsProcessed     uint64
	TotalTimeConsumed          time.Duration
	TotalTimeIdle              time.Duration
	ProcessesTotalJobs         map[string]uint64
	ProcessesTotalRequests     map[string]uint64
	ProcessesTotalTimeConsumed map[string]time.Duration
	ProcessesTotalTimeWaiting  map[string]time.Duration

	// control channels
	AddNodeChan         chan *WorkerNode
	IncomingJobs        chan []*ComputeJob
	TotalTimeScheduling time.Duration

	ComputeFunction     ComputeFunction
	TotalTimeWaisted    time.Duration
	TotalRequestsFailed uint64

	// identical searches against an unchanged collection share one result
	SearchCache *query_cache.QueryCache[[]vectors.SearchResult]

	Log zerolog.Logger

	settings  *QueryEngineSettings
	jobQueues []chan *ComputeJob
	quitChan  chan struct{}
	statsLock sync.RWMutex
}

type QueryEngineSettings struct {
	TopInterval time.Duration
	TermUI      bool
	LogChan     chan string
}

func NewQueryEngine(lg zerolog.Logger, db *vectors.Database, settings *QueryEngineSettings) *QueryEngine {
	if settings == nil {
		settings = &QueryEngineSettings{}
	}

	jobQueues := make([]chan *ComputeJob, PRIO_Background+1)
	for i := 0; i < int(PRIO_Background)+1; i++ {
		jobQueues[i] = make(chan *ComputeJob, 1024)
	}

	return &QueryEngine{
		Db:                         db,
		Nodes:                      []*WorkerNode{},
		AddNodeChan:                make(chan *WorkerNode, 16384),
		IncomingJobs:               make(chan []*ComputeJob, 16384),
		ProcessesTotalRequests:     map[string]uint64{},
		ProcessesTotalJobs:         make(map[string]uint64),
		ProcessesTotalTimeWaiting:  make(map[string]time.Duration),
		ProcessesTotalTimeConsumed: make(map[string]time.Duration),
		ComputeFunction:            DefaultComputeFunction(db),
		SearchCache:                query_cache.NewQueryCache[[]vectors.SearchResult](0),
		Log:                        lg,
		settings:                   settings,
		jobQueues:                  jobQueues,
		quitChan:                   make(chan struct{}),
	}
}

// AddNode registers a worker. Its feeders start once the scheduler picks the
// node up, so jobs submitted before Run are simply queued.
func (qe *QueryEngine) AddNode(node *WorkerNode) {
	if node.Name == "" {
		node.Name = nodeName("scorer")
	}
	if node.MaxRequests <= 0 {
		node.MaxRequests = 1
	}
	if node.MaxBatchSize <= 0 {
		node.MaxBatchSize = 1
	}
	if len(node.JobTypes) == 0 {
		node.JobTypes = []JobType{JT_Search, JT_Upsert}
	}

	qe.AddNodeChan <- node
}

func (qe *QueryEngine) AddJob(job *ComputeJob) {
	job.receivedAt = time.Now()
	metrics.Tick("jobs-submitted", 1)
	qe.IncomingJobs <- []*ComputeJob{job}
}

func (qe *QueryEngine) AddJobs(jobs []*ComputeJob) {
	now := time.Now()
	for _, job := range jobs {
		job.receivedAt = now
	}
	metrics.Tick("jobs-submitted", int64(len(jobs)))
	qe.IncomingJobs <- jobs
}

func (qe *QueryEngine) AccountProcessRequest(process string) {
	qe.statsLock.Lock()
	defer qe.statsLock.Unlock()
	qe.ProcessesTotalRequests[process]++
}

// Stop terminates the scheduler loop and all node feeders. Jobs still queued
// are left undelivered.
func (qe *QueryEngine) Stop() {
	close(qe.quitChan)
}
