package cmds

import (
	"context"

	query_engine "github.com/d0rc/vector-os/query-engine"
	"github.com/d0rc/vector-os/vectors"
	"github.com/google/uuid"
)

// newDocumentId generates ids for documents submitted without one. Tests
// swap it for a deterministic source.
var newDocumentId = func() string {
	return uuid.New().String()
}

func ProcessUpsertDocuments(request []UpsertDocumentsRequest, engine *query_engine.QueryEngine, process string, priority query_engine.JobPriority) (*ServerResponse, error) {
	results := make([]chan *UpsertDocumentsResponse, len(request))
	for idx, ur := range request {
		results[idx] = make(chan *UpsertDocumentsResponse, 1)
		go func(ur UpsertDocumentsRequest, ch chan *UpsertDocumentsResponse) {
			ch <- processUpsertDocuments(ur, engine, process, priority)
		}(ur, results[idx])
	}

	finalResults := make([]*UpsertDocumentsResponse, len(request))
	for idx, ch := range results {
		finalResults[idx] = <-ch
	}

	engine.AccountProcessRequest(process)

	return &ServerResponse{
		UpsertDocumentsResponse: finalResults,
	}, nil
}

func processUpsertDocuments(ur UpsertDocumentsRequest, engine *query_engine.QueryEngine, process string, priority query_engine.JobPriority) *UpsertDocumentsResponse {
	docs := make([]*vectors.Document, len(ur.Documents))
	ids := make([]string, len(ur.Documents))
	for idx, docInfo := range ur.Documents {
		id := docInfo.Id
		if id == "" {
			id = newDocumentId()
		}
		ids[idx] = id
		docs[idx] = &vectors.Document{
			Id:     vectors.DocumentID(id),
			Vector: docInfo.Vector,
		}
	}

	job := query_engine.NewUpsertJob(process, priority, ur.Collection, docs)
	engine.AddJob(job)

	ctx, cancel := context.WithTimeout(context.Background(), jobWaitTimeout)
	defer cancel()

	result, err := job.Wait(ctx)
	if err != nil {
		engine.Log.Error().Err(err).
			Msgf("upsert into collection %s never came back", ur.Collection)
		return &UpsertDocumentsResponse{Collection: ur.Collection, Error: err.Error()}
	}
	if result.Err != nil {
		engine.Log.Error().Err(result.Err).
			Msgf("error upserting %d documents into collection %s", len(docs), ur.Collection)
		return &UpsertDocumentsResponse{Collection: ur.Collection, Error: result.Err.Error()}
	}

	return &UpsertDocumentsResponse{
		Collection: ur.Collection,
		Ids:        ids,
	}
}
