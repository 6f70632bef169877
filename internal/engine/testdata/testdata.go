package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hejijunhao/sentiprep/internal/model"
)

//go:embed corpus.json
var corpusJSON []byte

// CorpusEntry is a labeled post with its expected cleaned form.
// ExpectedClean is empty when the post should be dropped.
type CorpusEntry struct {
	Raw           string `json:"raw"`
	Label         string `json:"label"`
	ExpectedClean string `json:"expected_clean"`
	Description   string `json:"description"`
}

// LoadCorpus parses the embedded corpus.json and returns all entries.
func LoadCorpus() ([]CorpusEntry, error) {
	var entries []CorpusEntry
	if err := json.Unmarshal(corpusJSON, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus.json: %w", err)
	}
	return entries, nil
}

// Records converts corpus entries into raw records with sequential IDs.
func Records(entries []CorpusEntry) []model.Record {
	records := make([]model.Record, len(entries))
	for i, e := range entries {
		records[i] = model.Record{
			ID:     strconv.Itoa(i),
			Text:   e.Raw,
			Label:  model.ParseLabel(e.Label),
			Source: "testdata",
		}
	}
	return records
}
