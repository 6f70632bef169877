package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hejijunhao/sentiprep/internal/engine"
	"github.com/hejijunhao/sentiprep/internal/model"
	"github.com/hejijunhao/sentiprep/internal/output"
	"github.com/hejijunhao/sentiprep/internal/source"
)

// Pipeline connects a source, engine, and output into one batch run.
type Pipeline struct {
	source source.Source
	engine *engine.Engine
	output output.Output
}

// New creates a Pipeline from the given components. out may be nil when
// only Clean is used.
func New(src source.Source, eng *engine.Engine, out output.Output) *Pipeline {
	return &Pipeline{
		source: src,
		engine: eng,
		output: out,
	}
}

// Run loads the dataset, runs every engine stage and writes the result.
// Cancellation is honoured between stages.
func (p *Pipeline) Run(ctx context.Context, cfg source.Config) (*model.Result, error) {
	start := time.Now()
	batch, err := p.load(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, _, err := p.engine.Run(batch.Records)
	if err != nil {
		return nil, fmt.Errorf("pipeline run: %w", err)
	}
	p.engine.AccountSkipped(&res.Stats, batch.Skipped)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.output != nil {
		if err := p.output.Write(ctx, res); err != nil {
			return nil, fmt.Errorf("pipeline output: %w", err)
		}
	}
	slog.Info("run complete",
		"run_id", res.RunID,
		"input", res.Stats.Input,
		"retained", res.Stats.Retained,
		"vocabulary", res.Vocabulary.Len(),
		"elapsed", time.Since(start),
	)
	return res, nil
}

// Clean loads the dataset and runs only the cleaning stage.
func (p *Pipeline) Clean(ctx context.Context, cfg source.Config) ([]model.CleanRecord, model.Stats, error) {
	batch, err := p.load(ctx, cfg)
	if err != nil {
		return nil, model.Stats{}, err
	}
	corpus, stats := p.engine.Clean(batch.Records)
	p.engine.AccountSkipped(&stats, batch.Skipped)
	return corpus, stats, nil
}

func (p *Pipeline) load(ctx context.Context, cfg source.Config) (*source.Batch, error) {
	batch, err := p.source.Load(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline load: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return batch, nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	if p.output == nil {
		return nil
	}
	return p.output.Close()
}
