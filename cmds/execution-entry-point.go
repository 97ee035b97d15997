package cmds

import (
	query_engine "github.com/d0rc/vector-os/query-engine"
)

// ProcessClientRequest runs every sub-request carried by the envelope.
// Management requests run before searches so a single envelope can create a
// collection, fill it and query it.
func ProcessClientRequest(request *ClientRequest, engine *query_engine.QueryEngine) (*ServerResponse, error) {
	finalResult := &ServerResponse{}

	if request.CreateCollectionRequests != nil {
		result, err := ProcessCreateCollections(request.CreateCollectionRequests, engine)
		if err != nil {
			return nil, err
		}
		finalResult.CreateCollectionResponse = result.CreateCollectionResponse
	}

	if request.UpsertDocumentsRequests != nil {
		result, err := ProcessUpsertDocuments(request.UpsertDocumentsRequests, engine, request.ProcessName, request.Priority)
		if err != nil {
			return nil, err
		}
		finalResult.UpsertDocumentsResponse = result.UpsertDocumentsResponse
	}

	if request.RemoveDocumentRequests != nil {
		result, err := ProcessRemoveDocuments(request.RemoveDocumentRequests, engine)
		if err != nil {
			return nil, err
		}
		finalResult.RemoveDocumentResponse = result.RemoveDocumentResponse
	}

	if request.SearchRequests != nil {
		result, err := ProcessSearchRequests(request.SearchRequests, engine, request.ProcessName, request.Priority)
		if err != nil {
			return nil, err
		}
		finalResult.SearchResponse = result.SearchResponse
	}

	if request.DropCollectionRequests != nil {
		result, err := ProcessDropCollections(request.DropCollectionRequests, engine)
		if err != nil {
			return nil, err
		}
		finalResult.DropCollectionResponse = result.DropCollectionResponse
	}

	if request.ListCollections {
		result, err := ProcessListCollections(engine)
		if err != nil {
			return nil, err
		}
		finalResult.ListCollectionsResponse = result.ListCollectionsResponse
	}

	finalResult.CorrelationId = request.CorrelationId

	return finalResult, nil
}
