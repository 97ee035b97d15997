package cmds

import (
	"fmt"
	"os"

	query_engine "github.com/d0rc/vector-os/query-engine"
	"github.com/d0rc/vector-os/vectors"
	"gopkg.in/yaml.v3"
)

type DocumentSetFile struct {
	Collections []DocumentSetCollection `yaml:"collections"`
}

type DocumentSetCollection struct {
	Name       string           `yaml:"name"`
	Dimensions int              `yaml:"dimensions"`
	Distance   string           `yaml:"distance"`
	Documents  []DocumentRecord `yaml:"documents"`
}

type DocumentRecord struct {
	Id     string         `yaml:"id"`
	Vector vectors.Vector `yaml:"vector"`
}

// LoadDocumentSet reads a YAML document set, creates the collections it names
// and upserts their documents through the scheduler. Collections named by the
// set are created fresh, a collection that already exists under the same name
// is replaced.
func LoadDocumentSet(path string, engine *query_engine.QueryEngine, process string, priority query_engine.JobPriority) (*ServerResponse, error) {
	yamlText, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading document set %s: %v", path, err)
	}

	set := &DocumentSetFile{}
	if err = yaml.Unmarshal(yamlText, set); err != nil {
		return nil, fmt.Errorf("error parsing document set %s: %v", path, err)
	}

	return UpsertDocumentSet(set, engine, process, priority)
}

func UpsertDocumentSet(set *DocumentSetFile, engine *query_engine.QueryEngine, process string, priority query_engine.JobPriority) (*ServerResponse, error) {
	createRequests := make([]CreateCollectionRequest, 0, len(set.Collections))
	upsertRequests := make([]UpsertDocumentsRequest, 0, len(set.Collections))
	for _, collection := range set.Collections {
		createRequests = append(createRequests, CreateCollectionRequest{
			Name:       collection.Name,
			Dimensions: collection.Dimensions,
			Distance:   collection.Distance,
		})

		documents := make([]*UpsertDocumentInfo, 0, len(collection.Documents))
		for _, record := range collection.Documents {
			documents = append(documents, &UpsertDocumentInfo{
				Id:     record.Id,
				Vector: record.Vector,
			})
		}
		upsertRequests = append(upsertRequests, UpsertDocumentsRequest{
			Collection: collection.Name,
			Documents:  documents,
		})
	}

	if _, err := ProcessCreateCollections(createRequests, engine); err != nil {
		return nil, err
	}

	response, err := ProcessUpsertDocuments(upsertRequests, engine, process, priority)
	if err != nil {
		return nil, err
	}

	for _, upsertResponse := range response.UpsertDocumentsResponse {
		if upsertResponse.Error != "" {
			return response, fmt.Errorf("error loading documents into %s: %s",
				upsertResponse.Collection, upsertResponse.Error)
		}
	}

	return response, nil
}
