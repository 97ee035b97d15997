package query_engine

import (
	"math/rand"
	"strings"
)

// nodeName slugs a worker name and tacks on a random numeric suffix, so
// anonymous workers still show up distinguishable in the top tables.
func nodeName(name string) string {
	resultingName := strings.Replace(name, " ", "-", -1)
	resultingName = strings.ToLower(resultingName)
	resultingName += "-" + randomDigits(4)

	return resultingName
}

var digits = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

func randomDigits(n int) string {
	var result string
	for i := 0; i < n; i++ {
		result += digits[rand.Intn(len(digits))]
	}

	return result
}

func (qe *QueryEngine) countQueuedJobs() int {
	cnt := 0
	for _, ch := range qe.jobQueues {
		cnt += len(ch)
	}

	return cnt
}

func getJobsByType(buffer []*ComputeJob) map[JobType][]*ComputeJob {
	jobsByType := make(map[JobType][]*ComputeJob)
	for _, job := range buffer {
		jobsByType[job.JobType] = append(jobsByType[job.JobType], job)
	}

	return jobsByType
}

// nodeServes reports whether the node currently serves jobType. JobTypes can
// be flipped at runtime from the dashboard, hence the lock.
func (qe *QueryEngine) nodeServes(node *WorkerNode, jobType JobType) bool {
	qe.statsLock.RLock()
	defer qe.statsLock.RUnlock()

	for _, t := range node.JobTypes {
		if t == jobType {
			return true
		}
	}

	return false
}

func jobTypesLabel(types []JobType) string {
	label := ""
	for _, jobType := range types {
		if label != "" {
			label = label + "+"
		}
		label = label + jobTypeName(jobType)
	}
	if label == "" {
		label = "none"
	}

	return label
}
