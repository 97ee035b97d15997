package cmds

import (
	query_engine "github.com/d0rc/vector-os/query-engine"
	"github.com/d0rc/vector-os/vectors"
)

type SearchRequest struct {
	Collection string         `json:"collection"`
	Vector     vectors.Vector `json:"vector"`
	TopK       int            `json:"top-k"`
	MinScore   *float64       `json:"min-score,omitempty"` // nil means no threshold
}

type SearchResultInfo struct {
	Id    string  `json:"id"`
	Score float64 `json:"score"`
}

type SearchResponse struct {
	Collection string              `json:"collection"`
	Results    []*SearchResultInfo `json:"results"`
	Error      string              `json:"error,omitempty"`
}

type UpsertDocumentInfo struct {
	Id     string         `json:"id"` // empty id means: generate one
	Vector vectors.Vector `json:"vector"`
}

type UpsertDocumentsRequest struct {
	Collection string                `json:"collection"`
	Documents  []*UpsertDocumentInfo `json:"documents"`
}

type UpsertDocumentsResponse struct {
	Collection string   `json:"collection"`
	Ids        []string `json:"ids"`
	Error      string   `json:"error,omitempty"`
}

type CreateCollectionRequest struct {
	Name       string `json:"name"`
	Dimensions int    `json:"dimensions"`
	Distance   string `json:"distance"`
}

type CreateCollectionResponse struct {
	Name string `json:"name"`
}

type RemoveDocumentRequest struct {
	Collection string `json:"collection"`
	Id         string `json:"id"`
}

type RemoveDocumentResponse struct {
	Collection string `json:"collection"`
	Id         string `json:"id"`
	Removed    bool   `json:"removed"`
	Error      string `json:"error,omitempty"`
}

type DropCollectionRequest struct {
	Name string `json:"name"`
}

type DropCollectionResponse struct {
	Name    string `json:"name"`
	Dropped bool   `json:"dropped"`
}

type CollectionInfo struct {
	Name       string `json:"name"`
	Documents  int    `json:"documents"`
	Dimensions int    `json:"dimensions"`
	Distance   string `json:"distance"`
}

type ListCollectionsResponse struct {
	Collections []*CollectionInfo `json:"collections"`
}

type ClientRequest struct {
	Tags          []string                 `json:"tags"`
	ProcessName   string                   `json:"process-name"`
	Priority      query_engine.JobPriority `json:"priority"`
	CorrelationId string                   `json:"correlation-id"`

	SearchRequests           []SearchRequest           `json:"search-requests"`
	UpsertDocumentsRequests  []UpsertDocumentsRequest  `json:"upsert-documents-requests"`
	CreateCollectionRequests []CreateCollectionRequest `json:"create-collection-requests"`
	RemoveDocumentRequests   []RemoveDocumentRequest   `json:"remove-document-requests"`
	DropCollectionRequests   []DropCollectionRequest   `json:"drop-collection-requests"`
	ListCollections          bool                      `json:"list-collections"`
}

type ServerResponse struct {
	CorrelationId string `json:"correlation-id"`

	SearchResponse           []*SearchResponse           `json:"search-response"`
	UpsertDocumentsResponse  []*UpsertDocumentsResponse  `json:"upsert-documents-response"`
	CreateCollectionResponse []*CreateCollectionResponse `json:"create-collection-response"`
	RemoveDocumentResponse   []*RemoveDocumentResponse   `json:"remove-document-response"`
	DropCollectionResponse   []*DropCollectionResponse   `json:"drop-collection-response"`
	ListCollectionsResponse  *ListCollectionsResponse    `json:"list-collections-response"`
}
