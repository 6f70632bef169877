package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hejijunhao/sentiprep/internal/engine/cleaner"
	"github.com/hejijunhao/sentiprep/internal/engine/sampler"
	"github.com/hejijunhao/sentiprep/internal/engine/splitter"
	"github.com/hejijunhao/sentiprep/internal/engine/vectorizer"
	"github.com/hejijunhao/sentiprep/internal/model"
)

// Stage names reported to the Observer.
const (
	StageSample    = "sample"
	StageClean     = "clean"
	StageRebalance = "rebalance"
	StageVectorize = "vectorize"
	StageSplit     = "split"
)

// Config collects the settings of every stage.
type Config struct {
	SampleSize       int     // balanced pre-cleaning sample; 0 keeps all records
	Rebalance        bool    // downsample to the minority class after cleaning
	BalanceTolerance float64 // allowed deviation of the positive share from 0.5
	Vectorizer       vectorizer.Config
	Split            splitter.Config
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		SampleSize:       100000,
		BalanceTolerance: 0.05,
		Vectorizer:       vectorizer.DefaultConfig(),
		Split:            splitter.DefaultConfig(),
	}
}

// Validate checks every stage's settings.
func (c Config) Validate() error {
	if c.SampleSize < 0 {
		return &model.ConfigurationError{Option: "sample_size", Reason: fmt.Sprintf("must be >= 0, got %d", c.SampleSize)}
	}
	if c.BalanceTolerance < 0 || c.BalanceTolerance > 0.5 {
		return &model.ConfigurationError{Option: "balance_tolerance", Reason: fmt.Sprintf("must be in [0, 0.5], got %g", c.BalanceTolerance)}
	}
	if err := c.Vectorizer.Validate(); err != nil {
		return err
	}
	return c.Split.Validate()
}

// Observer receives run telemetry. Implementations must tolerate being
// called with zero counts.
type Observer interface {
	ObserveStage(stage string, d time.Duration)
	ObserveDrops(reason model.DropReason, n int)
	ObserveResult(retained, vocabularySize int)
}

type nopObserver struct{}

func (nopObserver) ObserveStage(string, time.Duration) {}
func (nopObserver) ObserveDrops(model.DropReason, int) {}
func (nopObserver) ObserveResult(int, int)             {}

// Engine orchestrates the sample → clean → vectorize → split pipeline.
type Engine struct {
	cfg      Config
	cleaner  *cleaner.Cleaner
	observer Observer
}

// New creates an Engine. A nil observer discards telemetry.
func New(cfg Config, cl *cleaner.Cleaner, obs Observer) *Engine {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Engine{cfg: cfg, cleaner: cl, observer: obs}
}

// Cleaner returns the engine's cleaner.
func (e *Engine) Cleaner() *cleaner.Cleaner { return e.cleaner }

// Clean runs only the cleaning stage over records.
func (e *Engine) Clean(records []model.Record) ([]model.CleanRecord, model.Stats) {
	start := time.Now()
	corpus, stats := e.cleaner.CleanCorpus(records)
	e.observer.ObserveStage(StageClean, time.Since(start))
	for reason, n := range stats.Dropped {
		e.observer.ObserveDrops(reason, n)
	}
	return corpus, stats
}

// Run executes every stage over records. Configuration problems, including
// a stratified split over unlabeled records, fail before any stage runs.
// Per-record drops are counted in Result.Stats and never returned as errors.
func (e *Engine) Run(records []model.Record) (*model.Result, *vectorizer.Model, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := e.cfg.Split.CheckLabels(labelsOf(records)); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	sampled := sampler.Balance(records, e.cfg.SampleSize, e.cfg.Split.Seed)
	e.observer.ObserveStage(StageSample, time.Since(start))
	slog.Info("sampled records", "input", len(records), "sampled", len(sampled), "sample_size", e.cfg.SampleSize)

	corpus, stats := e.Clean(sampled)
	if e.cfg.SampleSize > 0 {
		unlabeled := countUnlabeled(records)
		stats.Dropped[model.DropUnlabeled] += unlabeled
		stats.Dropped[model.DropNotSampled] += len(records) - len(sampled) - unlabeled
		e.observer.ObserveDrops(model.DropUnlabeled, unlabeled)
		e.observer.ObserveDrops(model.DropNotSampled, len(records)-len(sampled)-unlabeled)
	}
	stats.Input = len(records)
	slog.Info("cleaned corpus",
		"input", len(sampled),
		"retained", len(corpus),
		"missing_text", stats.Dropped[model.DropMissingText],
		"empty", stats.Dropped[model.DropEmpty],
		"duplicates", stats.Dropped[model.DropDuplicate],
	)

	if e.cfg.Rebalance {
		start = time.Now()
		var dropped int
		corpus, dropped = sampler.Rebalance(corpus, e.cfg.Split.Seed)
		stats.Dropped[model.DropRebalanced] += dropped
		e.observer.ObserveStage(StageRebalance, time.Since(start))
		e.observer.ObserveDrops(model.DropRebalanced, dropped)
		slog.Info("rebalanced corpus", "dropped", dropped, "retained", len(corpus))
	}
	stats.ClassCounts = sampler.ClassCounts(corpus)
	stats.Retained = len(corpus)
	if msg := sampler.CheckBalance(stats.ClassCounts, e.cfg.BalanceTolerance); msg != "" {
		stats.Warnings = append(stats.Warnings, msg)
		slog.Warn("class imbalance", "positive", stats.ClassCounts[model.LabelPositive], "negative", stats.ClassCounts[model.LabelNegative])
	}

	docs := make([][]string, len(corpus))
	for i, r := range corpus {
		docs[i] = r.Tokens
	}
	start = time.Now()
	vec, mat, err := vectorizer.FitTransform(e.cfg.Vectorizer, docs)
	if err != nil {
		return nil, nil, fmt.Errorf("engine: vectorize: %w", err)
	}
	e.observer.ObserveStage(StageVectorize, time.Since(start))
	stats.Warnings = append(stats.Warnings, vec.Warnings()...)
	slog.Info("built feature matrix", "rows", mat.NumRows, "columns", mat.NumCols, "nnz", mat.NNZ())

	start = time.Now()
	split, err := splitter.Split(e.cfg.Split, labelsOfCorpus(corpus))
	if err != nil {
		return nil, nil, fmt.Errorf("engine: split: %w", err)
	}
	e.observer.ObserveStage(StageSplit, time.Since(start))
	slog.Info("split rows", "train", len(split.TrainIndices), "test", len(split.TestIndices))

	e.observer.ObserveResult(len(corpus), vec.Vocabulary().Len())
	return &model.Result{
		RunID:      uuid.NewString(),
		Corpus:     corpus,
		Vocabulary: vec.Vocabulary(),
		Matrix:     mat,
		Split:      split,
		Stats:      stats,
	}, vec, nil
}

// AccountSkipped folds rows a loader rejected before they became records
// into stats, so Input still equals Retained plus every drop.
func (e *Engine) AccountSkipped(stats *model.Stats, skipped map[model.DropReason]int) {
	for reason, n := range skipped {
		stats.Input += n
		stats.Dropped[reason] += n
		e.observer.ObserveDrops(reason, n)
	}
}

func labelsOf(records []model.Record) []model.Label {
	labels := make([]model.Label, len(records))
	for i, r := range records {
		labels[i] = r.Label
	}
	return labels
}

func labelsOfCorpus(corpus []model.CleanRecord) []model.Label {
	labels := make([]model.Label, len(corpus))
	for i, r := range corpus {
		labels[i] = r.Label
	}
	return labels
}

func countUnlabeled(records []model.Record) int {
	n := 0
	for _, r := range records {
		if r.Label == model.LabelUnknown {
			n++
		}
	}
	return n
}
