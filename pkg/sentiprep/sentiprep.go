package sentiprep

import (
	"fmt"

	"github.com/hejijunhao/sentiprep/internal/engine"
	"github.com/hejijunhao/sentiprep/internal/engine/cleaner"
	"github.com/hejijunhao/sentiprep/internal/engine/lexicon"
	"github.com/hejijunhao/sentiprep/internal/engine/vectorizer"
	"github.com/hejijunhao/sentiprep/internal/model"
)

// ErrEmptyCorpus is returned by Prepare when no document survives cleaning.
var ErrEmptyCorpus = vectorizer.ErrEmptyCorpus

// ConfigurationError reports an invalid option. Test with errors.As.
type ConfigurationError = model.ConfigurationError

// Preprocessor cleans, vectorizes and splits document batches.
type Preprocessor struct {
	engine *engine.Engine
}

// New builds a Preprocessor, loading the lexicon and validating options.
func New(opts ...Option) (*Preprocessor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.minTokenLength < 1 {
		return nil, &model.ConfigurationError{Option: "min_token_length", Reason: fmt.Sprintf("must be >= 1, got %d", o.minTokenLength)}
	}
	if err := o.engine.Validate(); err != nil {
		return nil, err
	}

	lex, err := lexicon.Load(o.lexiconPath)
	if err != nil {
		return nil, fmt.Errorf("sentiprep: %w", err)
	}
	cl := cleaner.NewFromLexicon(cleaner.Config{MinTokenLength: o.minTokenLength}, lex)
	return &Preprocessor{engine: engine.New(o.engine, cl, nil)}, nil
}

// Clean normalises a single text. The result may be empty.
func (p *Preprocessor) Clean(text string) string {
	return p.engine.Cleaner().Clean(text)
}

// Prepare runs the full pipeline over docs.
func (p *Preprocessor) Prepare(docs []Document) (*Dataset, error) {
	records := make([]model.Record, len(docs))
	for i, d := range docs {
		records[i] = model.Record{ID: d.ID, Text: d.Text, Label: fromLabel(d.Label)}
	}

	res, vec, err := p.engine.Run(records)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		RunID:        res.RunID,
		Terms:        res.Vocabulary.Terms,
		Rows:         make([]Row, len(res.Corpus)),
		TrainIndices: res.Split.TrainIndices,
		TestIndices:  res.Split.TestIndices,
		Stats: Stats{
			Input:    res.Stats.Input,
			Retained: res.Stats.Retained,
			Dropped:  make(map[string]int, len(res.Stats.Dropped)),
			Warnings: res.Stats.Warnings,
		},
		res:     res,
		model:   vec,
		cleaner: p.engine.Cleaner(),
	}
	for reason, n := range res.Stats.Dropped {
		ds.Stats.Dropped[string(reason)] = n
	}
	for i, r := range res.Corpus {
		ds.Rows[i] = Row{
			ID:       r.ID,
			Text:     r.Text,
			Label:    toLabel(r.Label),
			Features: vectorAt(res.Matrix, i),
		}
	}
	return ds, nil
}
