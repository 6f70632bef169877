package output

import (
	"sort"

	"github.com/hejijunhao/sentiprep/internal/engine/vectorizer"
	"github.com/hejijunhao/sentiprep/internal/model"
)

// Split names used in rows and the artifact store.
const (
	SplitTrain = "train"
	SplitTest  = "test"
)

// DefaultTopTerms is the number of terms listed in a Summary.
const DefaultTopTerms = 20

// Summary is the JSON run report.
type Summary struct {
	RunID          string         `json:"run_id"`
	Input          int            `json:"input"`
	Retained       int            `json:"retained"`
	Dropped        map[string]int `json:"dropped"`
	ClassCounts    map[string]int `json:"class_counts"`
	VocabularySize int            `json:"vocabulary_size"`
	NonZero        int            `json:"nonzero"`
	Train          int            `json:"train"`
	Test           int            `json:"test"`
	TopTerms       []TermWeight   `json:"top_terms,omitempty"`
	Warnings       []string       `json:"warnings,omitempty"`
}

// TermWeight is a vocabulary term with its mean TF-IDF weight.
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
	DF     int     `json:"df"`
}

// Row is one feature-matrix row with its sparse weights keyed by term.
type Row struct {
	Row      int                `json:"row"`
	ID       string             `json:"id"`
	Split    string             `json:"split"`
	Label    model.Label        `json:"label"`
	Features map[string]float64 `json:"features"`
}

// Summarize builds the run report with the topN highest mean-weight terms.
func Summarize(res *model.Result, topN int) Summary {
	s := Summary{
		RunID:          res.RunID,
		Input:          res.Stats.Input,
		Retained:       res.Stats.Retained,
		Dropped:        make(map[string]int, len(res.Stats.Dropped)),
		ClassCounts:    make(map[string]int, len(res.Stats.ClassCounts)),
		VocabularySize: res.Vocabulary.Len(),
		Train:          len(res.Split.TrainIndices),
		Test:           len(res.Split.TestIndices),
		Warnings:       res.Stats.Warnings,
	}
	for reason, n := range res.Stats.Dropped {
		s.Dropped[string(reason)] = n
	}
	for label, n := range res.Stats.ClassCounts {
		s.ClassCounts[label.String()] = n
	}
	if res.Matrix != nil {
		s.NonZero = res.Matrix.NNZ()
	}
	if topN > 0 && res.Matrix != nil {
		for _, f := range vectorizer.TopFeatures(res.Vocabulary, res.Matrix, topN) {
			s.TopTerms = append(s.TopTerms, TermWeight{Term: f.Term, Weight: f.MeanTFIDF, DF: f.DF})
		}
	}
	return s
}

// SplitNames maps every matrix row to SplitTrain or SplitTest.
func SplitNames(res *model.Result) []string {
	names := make([]string, len(res.Corpus))
	for _, i := range res.Split.TrainIndices {
		names[i] = SplitTrain
	}
	for _, i := range res.Split.TestIndices {
		names[i] = SplitTest
	}
	return names
}

// RowAt returns matrix row i in its serialised form.
func RowAt(res *model.Result, splits []string, i int) Row {
	cols, vals := res.Matrix.Row(i)
	features := make(map[string]float64, len(cols))
	for k, c := range cols {
		features[res.Vocabulary.Terms[c]] = vals[k]
	}
	return Row{
		Row:      i,
		ID:       res.Corpus[i].ID,
		Split:    splits[i],
		Label:    res.Corpus[i].Label,
		Features: features,
	}
}

// SortedDropReasons returns the keys of dropped in a stable order.
func SortedDropReasons(dropped map[string]int) []string {
	keys := make([]string, 0, len(dropped))
	for k := range dropped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
