package vectorizer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/hejijunhao/sentiprep/internal/model"
)

// ErrEmptyCorpus is returned when Fit receives no documents.
var ErrEmptyCorpus = errors.New("vectorizer: empty corpus")

// Config holds vocabulary selection bounds.
type Config struct {
	MinDF       int     // minimum absolute document frequency
	MaxDFRatio  float64 // maximum document frequency as a share of documents
	MaxFeatures int     // vocabulary size cap; 0 means unlimited
	NgramMin    int
	NgramMax    int
}

// DefaultConfig returns unigrams+bigrams, min_df=5, max_df=0.95, 10,000 terms.
func DefaultConfig() Config {
	return Config{
		MinDF:       5,
		MaxDFRatio:  0.95,
		MaxFeatures: 10000,
		NgramMin:    1,
		NgramMax:    2,
	}
}

// Validate checks the bounds for consistency.
func (c Config) Validate() error {
	switch {
	case c.MinDF < 1:
		return &model.ConfigurationError{Option: "min_df", Reason: fmt.Sprintf("must be >= 1, got %d", c.MinDF)}
	case c.MaxDFRatio <= 0 || c.MaxDFRatio > 1:
		return &model.ConfigurationError{Option: "max_df_ratio", Reason: fmt.Sprintf("must be in (0, 1], got %g", c.MaxDFRatio)}
	case c.MaxFeatures < 0:
		return &model.ConfigurationError{Option: "max_vocab_size", Reason: fmt.Sprintf("must be >= 0, got %d", c.MaxFeatures)}
	case c.NgramMin < 1 || c.NgramMax < c.NgramMin:
		return &model.ConfigurationError{Option: "ngram_range", Reason: fmt.Sprintf("invalid range %d..%d", c.NgramMin, c.NgramMax)}
	}
	return nil
}

// Model is a fitted vocabulary with its idf weights.
type Model struct {
	cfg      Config
	vocab    *model.Vocabulary
	numDocs  int
	warnings []string
}

// Vocabulary returns the fitted vocabulary.
func (m *Model) Vocabulary() *model.Vocabulary { return m.vocab }

// NumDocs returns the size of the corpus the model was fitted on.
func (m *Model) NumDocs() int { return m.numDocs }

// Warnings lists non-fatal conditions observed while fitting.
func (m *Model) Warnings() []string { return m.warnings }

// termStats accumulates per-term counts during the first pass.
type termStats struct {
	df int // documents containing the term
	cf int // total occurrences across the corpus
}

type candidate struct {
	term  string
	df    int
	idf   float64
	score float64
}

// Fit selects the vocabulary from tokenized documents.
//
// First pass counts document frequencies. Second pass keeps terms with
// MinDF <= df <= floor(MaxDFRatio*N), ranks them by aggregate TF-IDF
// (collection frequency × idf) descending with ties broken by term, and
// keeps the top MaxFeatures. Columns are then ordered lexicographically.
func Fit(cfg Config, docs [][]string) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := len(docs)
	if n == 0 {
		return nil, ErrEmptyCorpus
	}

	stats := make(map[string]*termStats)
	for _, tokens := range docs {
		for term, tf := range termCounts(Ngrams(tokens, cfg.NgramMin, cfg.NgramMax)) {
			s, ok := stats[term]
			if !ok {
				s = &termStats{}
				stats[term] = s
			}
			s.df++
			s.cf += tf
		}
	}

	maxDocCount := MaxDocCount(cfg.MaxDFRatio, n)
	candidates := make([]candidate, 0, len(stats))
	for term, s := range stats {
		if s.df < cfg.MinDF || s.df > maxDocCount {
			continue
		}
		idf := IDF(n, s.df)
		candidates = append(candidates, candidate{
			term:  term,
			df:    s.df,
			idf:   idf,
			score: float64(s.cf) * idf,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].term < candidates[j].term
	})

	m := &Model{cfg: cfg, numDocs: n}
	if cfg.MaxFeatures > 0 && len(candidates) > cfg.MaxFeatures {
		candidates = candidates[:cfg.MaxFeatures]
	} else if cfg.MaxFeatures > 0 && len(candidates) < cfg.MaxFeatures {
		msg := fmt.Sprintf("vocabulary has %d terms, fewer than max_vocab_size %d", len(candidates), cfg.MaxFeatures)
		m.warnings = append(m.warnings, msg)
		slog.Warn("insufficient vocabulary", "terms", len(candidates), "max_vocab_size", cfg.MaxFeatures, "documents", n)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].term < candidates[j].term })

	vocab := &model.Vocabulary{
		Terms: make([]string, len(candidates)),
		Index: make(map[string]int, len(candidates)),
		DF:    make([]int, len(candidates)),
		IDF:   make([]float64, len(candidates)),
		Score: make([]float64, len(candidates)),
	}
	for i, c := range candidates {
		vocab.Terms[i] = c.term
		vocab.Index[c.term] = i
		vocab.DF[i] = c.df
		vocab.IDF[i] = c.idf
		vocab.Score[i] = c.score
	}
	m.vocab = vocab
	return m, nil
}

// FitTransform fits a model and transforms the same documents.
func FitTransform(cfg Config, docs [][]string) (*Model, *model.Matrix, error) {
	m, err := Fit(cfg, docs)
	if err != nil {
		return nil, nil, err
	}
	return m, m.Transform(docs), nil
}

// Transform builds the TF-IDF matrix of docs over the fitted vocabulary.
// Terms outside the vocabulary are ignored; each non-empty row has unit L2 norm.
func (m *Model) Transform(docs [][]string) *model.Matrix {
	mat := &model.Matrix{
		NumRows: len(docs),
		NumCols: m.vocab.Len(),
		RowPtr:  make([]int, 1, len(docs)+1),
	}
	for _, tokens := range docs {
		weights := make(map[int]float64)
		for _, term := range Ngrams(tokens, m.cfg.NgramMin, m.cfg.NgramMax) {
			if col, ok := m.vocab.Index[term]; ok {
				weights[col]++
			}
		}
		cols := make([]int, 0, len(weights))
		for col := range weights {
			cols = append(cols, col)
		}
		sort.Ints(cols)

		vals := make([]float64, len(cols))
		for i, col := range cols {
			vals[i] = weights[col] * m.vocab.IDF[col]
		}
		if norm := floats.Norm(vals, 2); norm > 0 {
			floats.Scale(1/norm, vals)
		}

		mat.Cols = append(mat.Cols, cols...)
		mat.Values = append(mat.Values, vals...)
		mat.RowPtr = append(mat.RowPtr, len(mat.Cols))
	}
	return mat
}

// MaxDocCount converts a max_df ratio into an inclusive document count.
func MaxDocCount(ratio float64, numDocs int) int {
	return int(math.Floor(ratio*float64(numDocs) + 1e-9))
}

// IDF is the smoothed inverse document frequency ln((1+N)/(1+df)) + 1.
func IDF(numDocs, df int) float64 {
	return math.Log(float64(1+numDocs)/float64(1+df)) + 1
}

func termCounts(terms []string) map[string]int {
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	return counts
}
