package query_engine

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/d0rc/vector-os/metrics"
	"github.com/dustin/go-humanize"
	"github.com/logrusorgru/aurora"
	"github.com/olekukonko/tablewriter"
	osProcess "github.com/shirou/gopsutil/process"
)

func (qe *QueryEngine) PrintTop() {
	if qe.settings.TermUI == false {
		topInfo := qe.buildTopString(false)

		fmt.Printf("%s", topInfo.topString)
	}
}

type topDataInfo struct {
	topString       string
	computeEngines  [][]string
	topLines        string
	collectionLines [][]string
	processesLines  [][]string
}

func (qe *QueryEngine) buildTopString(termUi bool) *topDataInfo {
	result := &topDataInfo{
		computeEngines: make([][]string, 0),
	}
	stringBuilder := &strings.Builder{}
	// clear screen
	fmt.Fprintf(stringBuilder, "\033[2J")

	qe.statsLock.RLock()
	topLines := fmt.Sprintf("Total jobs: %s, Total requests: %d, Total time consumed: %s, Total time idle: %s\n",
		makeBrightCyan(termUi, humanize.SIWithDigits(float64(qe.TotalJobsProcessed), 2, "j")),
		qe.TotalRequestsProcessed,
		qe.TotalTimeConsumed,
		qe.TotalTimeIdle)
	topLines = topLines + fmt.Sprintf("Total jobs in buffer: %d(+%d), Total time in scheduler: %s, Uptime: %s\n",
		qe.countQueuedJobs(),
		len(qe.IncomingJobs),
		qe.TotalTimeScheduling,
		getUptime())
	qe.statsLock.RUnlock()

	if qe.Db != nil {
		topLines = topLines + fmt.Sprintf("Collections: %d, Documents: %s, Search rate: %s, Cached results: %d\n",
			len(qe.Db.Collections()),
			makeBrightCyan(termUi, humanize.Comma(int64(qe.Db.Len()))),
			humanize.SIWithDigits(metrics.GetRate1s("search-jobs-done")*float64(time.Second), 2, "q/s"),
			qe.SearchCache.Len())
	}
	fmt.Fprintf(stringBuilder, topLines)
	result.topLines = topLines
	tw := tablewriter.NewWriter(stringBuilder)

	computeEnginesHeaders := []string{"Worker", "Compute State", "Serves", "Max (reqs/batch)", "Reqs/Jobs", "TimeConsumed", "TimeIdle", "T.Waisted", "Failed(R/J)"}
	tw.SetHeader(computeEnginesHeaders)
	result.computeEngines = append(result.computeEngines, computeEnginesHeaders)

	qe.statsLock.RLock()
	for _, node := range qe.Nodes {
		computeEnginesLine := []string{
			shoLastNRunes(node.Name, 35),
			fmt.Sprintf("%v", getNodeState(termUi, int(atomic.LoadInt32(&node.RequestsRunning)))),
			jobTypesLabel(node.JobTypes),
			fmt.Sprintf("%d/%d", node.MaxRequests, node.MaxBatchSize),
			fmt.Sprintf("%d/%d", node.TotalRequestsProcessed, node.TotalJobsProcessed),
			fmt.Sprintf("%s", node.TotalTimeConsumed),
			fmt.Sprintf("%s", node.TotalTimeIdle),
			fmt.Sprintf("%s", node.TotalTimeWaisted),
			fmt.Sprintf("%d/%d", node.TotalRequestsFailed, node.TotalJobsFailed),
		}
		tw.Append(computeEnginesLine)
		result.computeEngines = append(result.computeEngines, computeEnginesLine)
	}
	qe.statsLock.RUnlock()
	tw.Render()

	tw = tablewriter.NewWriter(stringBuilder)
	collectionLines := make([][]string, 0)
	collectionsHeaders := []string{"Collection", "Documents", "Dims", "Measure"}
	tw.SetHeader(collectionsHeaders)
	collectionLines = append(collectionLines, collectionsHeaders)
	if qe.Db != nil {
		for _, name := range qe.Db.Collections() {
			collection, err := qe.Db.Collection(name)
			if err != nil {
				continue
			}
			params := collection.Params()
			dims := "any"
			if params.Dimensions > 0 {
				dims = fmt.Sprintf("%d", params.Dimensions)
			}
			collectionLine := []string{
				shoLastNRunes(name, 35),
				humanize.Comma(int64(collection.Len())),
				dims,
				string(params.DistanceMeasure),
			}
			tw.Append(collectionLine)
			collectionLines = append(collectionLines, collectionLine)
		}
	}
	tw.Render()
	result.collectionLines = collectionLines

	tw = tablewriter.NewWriter(stringBuilder)
	processesHeadersLines := make([][]string, 0)
	processesHeaders := []string{"Process", "TotalRequestsProcessed", "TotalJobsProcessed", "TotalTimeConsumed", "AvgWait"}
	tw.SetHeader(processesHeaders)
	processesHeadersLines = append(processesHeadersLines, processesHeaders)
	qe.statsLock.RLock()

	type ProcessInfo struct {
		TotalRequests uint64
		TotalJobs     uint64
		Name          string
	}
	processInfo := make([]ProcessInfo, 0, len(qe.ProcessesTotalRequests))
	for process, tr := range qe.ProcessesTotalRequests {
		tj, exists := qe.ProcessesTotalJobs[process]
		if !exists {
			tj = 0
		}
		processInfo = append(processInfo, ProcessInfo{
			TotalRequests: tr,
			TotalJobs:     tj,
			Name:          process,
		})
	}
	// sort processInfo, make process with most jobs first
	// use library sort
	sort.Slice(processInfo, func(i, j int) bool {
		return processInfo[i].TotalRequests > processInfo[j].TotalRequests
	})

	for idx, processData := range processInfo {
		processesHeadersLine := []string{
			processData.Name,
			fmt.Sprintf("%d", processData.TotalRequests),
			fmt.Sprintf("%d", qe.ProcessesTotalJobs[processData.Name]),
			fmt.Sprintf("%s", qe.ProcessesTotalTimeConsumed[processData.Name]),
			fmt.Sprintf("%s", fmt.Sprintf("%4.4f", float64(qe.ProcessesTotalTimeWaiting[processData.Name]/time.Millisecond)/float64(qe.ProcessesTotalJobs[processData.Name]))),
		}
		if idx < 7 {
			tw.Append(processesHeadersLine)
			processesHeadersLines = append(processesHeadersLines, processesHeadersLine)
		}
	}
	qe.statsLock.RUnlock()
	tw.Render()

	result.topString = stringBuilder.String()
	result.processesLines = processesHeadersLines
	return result
}

func makeBrightCyan(ui bool, digits string) string {
	if !ui {
		return aurora.BrightCyan(digits).String()
	}

	return fmt.Sprintf("[%s](fg:cyan,mod:bold)", digits)
}

func shoLastNRunes(url string, i int) string {
	// show last i runes of url, if url is shorter than i, show whole url
	// prepend with ... if url is longer than i
	if len(url) <= i {
		return url
	}

	return fmt.Sprintf("...%s", url[len(url)-i:])
}

func getNodeState(ui bool, running int) interface{} {
	if running == 0 {
		return makeBrightWhite(ui, "idle")
	}

	return fmt.Sprintf("%s - %s",
		makeBrightGreen(ui, "busy"),
		makeBrightCyan(ui, fmt.Sprintf("%d", running)))
}

func makeBrightGreen(ui bool, s string) string {
	if !ui {
		return aurora.BrightGreen(s).String()
	}

	return fmt.Sprintf("[%s](fg:green,mod:bold)", s)
}

func makeBrightWhite(ui bool, s string) string {
	if !ui {
		return aurora.BrightWhite(s).String()
	}

	return fmt.Sprintf("[%s](fg:white,mod:bold)", s)
}

func getUptime() time.Duration {
	// Get the current process
	pid := int32(os.Getpid())
	p, err := osProcess.NewProcess(pid)
	if err != nil {
		return 0
	}

	// Get the creation time of the process
	createTime, err := p.CreateTime()
	if err != nil {
		return 0
	}

	// Calculate the uptime of the process
	uptime := time.Since(time.Unix(int64(createTime/1000), 0))

	return uptime
}
