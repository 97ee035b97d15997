package cmds

import (
	"context"
	"encoding/binary"
	"math"
	"strings"
	"time"

	"github.com/d0rc/vector-os/metrics"
	query_engine "github.com/d0rc/vector-os/query-engine"
	"github.com/d0rc/vector-os/vectors"
)

// jobWaitTimeout caps how long a command waits for the scheduler before
// reporting the job as lost.
const jobWaitTimeout = 120 * time.Second

func ProcessSearchRequests(request []SearchRequest, engine *query_engine.QueryEngine, process string, priority query_engine.JobPriority) (*ServerResponse, error) {
	// searches are independent, launch them all in parallel
	// and collect the answers in request order
	results := make([]chan *SearchResponse, len(request))
	for idx, sr := range request {
		results[idx] = make(chan *SearchResponse, 1)
		go func(sr SearchRequest, ch chan *SearchResponse) {
			ch <- processSearchRequest(sr, engine, process, priority)
		}(sr, results[idx])
	}

	finalResults := make([]*SearchResponse, len(request))
	for idx, ch := range results {
		finalResults[idx] = <-ch
	}

	engine.AccountProcessRequest(process)

	return &ServerResponse{
		SearchResponse: finalResults,
	}, nil
}

func processSearchRequest(sr SearchRequest, engine *query_engine.QueryEngine, process string, priority query_engine.JobPriority) *SearchResponse {
	var results []vectors.SearchResult
	var err error

	if key, cacheable := searchCacheKey(engine, sr); cacheable {
		metrics.Tick("search-cache-lookups", 1)
		results, err = engine.SearchCache.GetValue(key, func() ([]vectors.SearchResult, error) {
			metrics.Tick("search-cache-misses", 1)
			return runSearchJob(sr, engine, process, priority)
		})
	} else {
		results, err = runSearchJob(sr, engine, process, priority)
	}
	if err != nil {
		return &SearchResponse{Collection: sr.Collection, Error: err.Error()}
	}

	searchResults := make([]*SearchResultInfo, 0, len(results))
	for _, r := range results {
		// results come back best first, the first miss ends the list
		if sr.MinScore != nil && r.Score < *sr.MinScore {
			break
		}
		searchResults = append(searchResults, &SearchResultInfo{
			Id:    string(r.Id),
			Score: r.Score,
		})
	}

	return &SearchResponse{
		Collection: sr.Collection,
		Results:    searchResults,
	}
}

// searchCacheKey builds the exact cache key for a search: collection version
// plus top-k plus the raw query bytes. The min-score threshold stays out of
// the key, it is applied after the lookup so every threshold shares one
// cached computation. Unknown collections are not cacheable, those requests
// go straight to the scheduler to fail the usual way.
func searchCacheKey(engine *query_engine.QueryEngine, sr SearchRequest) (string, bool) {
	collection, err := engine.Db.Collection(sr.Collection)
	if err != nil {
		return "", false
	}

	key := strings.Builder{}
	key.WriteString(sr.Collection)
	key.WriteString("@")
	key.WriteString(collection.Version())
	key.WriteString("/")
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(sr.TopK))
	key.Write(buf)
	for _, value := range sr.Vector {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(value))
		key.Write(buf)
	}

	return key.String(), true
}

func runSearchJob(sr SearchRequest, engine *query_engine.QueryEngine, process string, priority query_engine.JobPriority) ([]vectors.SearchResult, error) {
	job := query_engine.NewSearchJob(process, priority, sr.Collection, sr.Vector, sr.TopK)
	engine.AddJob(job)

	ctx, cancel := context.WithTimeout(context.Background(), jobWaitTimeout)
	defer cancel()

	result, err := job.Wait(ctx)
	if err != nil {
		engine.Log.Error().Err(err).
			Msgf("search in collection %s never came back", sr.Collection)
		return nil, err
	}
	if result.Err != nil {
		engine.Log.Error().Err(result.Err).
			Msgf("error searching in collection %s", sr.Collection)
		return nil, result.Err
	}

	return result.Results, nil
}
