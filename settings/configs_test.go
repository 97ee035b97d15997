package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProcessConfigurationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlText := `engine:
  top-interval-ms: 500
  workers:
    - name: scorer-0
      max-requests: 2
      max-batch-size: 32
document-sets:
  - documents.yaml
collections:
  - name: notary-documents
    dimensions: 3
    distance: Cosine
queries:
  - collection: notary-documents
    vector: [1, 1, 1]
    top-k: 3
    priority: 2
`
	if err := os.WriteFile(path, []byte(yamlText), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	config, err := ProcessConfigurationFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Engine.TopIntervalMs != 500 {
		t.Fatalf("top-interval-ms: got %d", config.Engine.TopIntervalMs)
	}
	if len(config.Engine.Workers) != 1 || config.Engine.Workers[0].Name != "scorer-0" {
		t.Fatalf("workers parsed wrong: %+v", config.Engine.Workers)
	}
	if len(config.DocumentSets) != 1 || config.DocumentSets[0] != "documents.yaml" {
		t.Fatalf("document-sets parsed wrong: %+v", config.DocumentSets)
	}
	if len(config.Collections) != 1 || config.Collections[0].Dimensions != 3 {
		t.Fatalf("collections parsed wrong: %+v", config.Collections)
	}
	if len(config.Queries) != 1 || config.Queries[0].TopK != 3 || config.Queries[0].Priority != 2 {
		t.Fatalf("queries parsed wrong: %+v", config.Queries)
	}
}

func TestProcessConfigurationFileMissing(t *testing.T) {
	if _, err := ProcessConfigurationFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("missing configuration loaded without error")
	}
}
