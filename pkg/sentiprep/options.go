package sentiprep

import (
	"github.com/hejijunhao/sentiprep/internal/engine"
	"github.com/hejijunhao/sentiprep/internal/engine/cleaner"
)

type options struct {
	engine         engine.Config
	minTokenLength int
	lexiconPath    string
}

// Option configures a Preprocessor.
type Option func(*options)

// WithMinDF sets the minimum number of documents a term must appear in.
// Default: 5.
func WithMinDF(n int) Option {
	return func(o *options) { o.engine.Vectorizer.MinDF = n }
}

// WithMaxDFRatio drops terms that appear in more than this fraction of
// documents. Default: 0.95.
func WithMaxDFRatio(r float64) Option {
	return func(o *options) { o.engine.Vectorizer.MaxDFRatio = r }
}

// WithMaxVocabSize caps the vocabulary. Default: 10000.
func WithMaxVocabSize(n int) Option {
	return func(o *options) { o.engine.Vectorizer.MaxFeatures = n }
}

// WithNgramRange sets the n-gram lengths extracted from each document.
// Default: 1, 2.
func WithNgramRange(lo, hi int) Option {
	return func(o *options) {
		o.engine.Vectorizer.NgramMin = lo
		o.engine.Vectorizer.NgramMax = hi
	}
}

// WithTestRatio sets the share of rows held out for testing. Default: 0.2.
func WithTestRatio(r float64) Option {
	return func(o *options) { o.engine.Split.TestRatio = r }
}

// WithSeed seeds sampling, rebalancing and the split. Default: 42.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.engine.Split.Seed = seed }
}

// WithStratify toggles label-proportional splitting. Default: true.
func WithStratify(on bool) Option {
	return func(o *options) { o.engine.Split.Stratify = on }
}

// WithSampleSize draws a label-balanced sample of n documents before
// cleaning. Default: 0, which keeps every document in input order.
func WithSampleSize(n int) Option {
	return func(o *options) { o.engine.SampleSize = n }
}

// WithRebalance downsamples the cleaned corpus to equal class sizes.
func WithRebalance(on bool) Option {
	return func(o *options) { o.engine.Rebalance = on }
}

// WithMinTokenLength drops shorter tokens during cleaning. Default: 3.
func WithMinTokenLength(n int) Option {
	return func(o *options) { o.minTokenLength = n }
}

// WithLexiconPath loads stopwords and lemmas from a YAML file instead of
// the built-in English lexicon.
func WithLexiconPath(path string) Option {
	return func(o *options) { o.lexiconPath = path }
}

func defaultOptions() options {
	cfg := engine.DefaultConfig()
	cfg.SampleSize = 0
	return options{
		engine:         cfg,
		minTokenLength: cleaner.DefaultMinTokenLength,
	}
}
