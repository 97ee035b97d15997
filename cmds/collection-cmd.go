package cmds

import (
	"github.com/d0rc/vector-os/metrics"
	query_engine "github.com/d0rc/vector-os/query-engine"
	"github.com/d0rc/vector-os/vectors"
)

// Collection management talks to the registry directly, there is no point
// scheduling map operations on the compute workers.

func ProcessCreateCollections(request []CreateCollectionRequest, engine *query_engine.QueryEngine) (*ServerResponse, error) {
	finalResults := make([]*CreateCollectionResponse, len(request))
	for idx, cr := range request {
		params := &vectors.CollectionParameters{
			Dimensions:      cr.Dimensions,
			DistanceMeasure: distanceFromString(cr.Distance),
		}
		if err := engine.Db.AddCollection(cr.Name, params); err != nil {
			return nil, err
		}
		metrics.Tick("collections-created", 1)
		engine.Log.Info().Msgf("collection %s is ready, dims=%d, measure=%s",
			cr.Name, params.Dimensions, params.DistanceMeasure)
		finalResults[idx] = &CreateCollectionResponse{Name: cr.Name}
	}

	return &ServerResponse{
		CreateCollectionResponse: finalResults,
	}, nil
}

func ProcessRemoveDocuments(request []RemoveDocumentRequest, engine *query_engine.QueryEngine) (*ServerResponse, error) {
	finalResults := make([]*RemoveDocumentResponse, len(request))
	for idx, rr := range request {
		response := &RemoveDocumentResponse{
			Collection: rr.Collection,
			Id:         rr.Id,
		}
		removed, err := engine.Db.RemoveDocument(rr.Collection, vectors.DocumentID(rr.Id))
		if err != nil {
			engine.Log.Error().Err(err).
				Msgf("error removing document %s from collection %s", rr.Id, rr.Collection)
			response.Error = err.Error()
		} else {
			response.Removed = removed
			metrics.Tick("documents-removed", 1)
		}
		finalResults[idx] = response
	}

	return &ServerResponse{
		RemoveDocumentResponse: finalResults,
	}, nil
}

func ProcessDropCollections(request []DropCollectionRequest, engine *query_engine.QueryEngine) (*ServerResponse, error) {
	finalResults := make([]*DropCollectionResponse, len(request))
	for idx, dr := range request {
		finalResults[idx] = &DropCollectionResponse{
			Name:    dr.Name,
			Dropped: engine.Db.DropCollection(dr.Name),
		}
	}

	return &ServerResponse{
		DropCollectionResponse: finalResults,
	}, nil
}

func ProcessListCollections(engine *query_engine.QueryEngine) (*ServerResponse, error) {
	names := engine.Db.Collections()
	infos := make([]*CollectionInfo, 0, len(names))
	for _, name := range names {
		collection, err := engine.Db.Collection(name)
		if err != nil {
			// dropped between listing and lookup
			continue
		}
		params := collection.Params()
		infos = append(infos, &CollectionInfo{
			Name:       name,
			Documents:  collection.Len(),
			Dimensions: params.Dimensions,
			Distance:   string(params.DistanceMeasure),
		})
	}

	return &ServerResponse{
		ListCollectionsResponse: &ListCollectionsResponse{Collections: infos},
	}, nil
}

func distanceFromString(distance string) vectors.DistanceMeasureType {
	switch distance {
	case string(vectors.DistanceEuclidean):
		return vectors.DistanceEuclidean
	case string(vectors.DistanceDot):
		return vectors.DistanceDot
	default:
		return vectors.DistanceCosine
	}
}
