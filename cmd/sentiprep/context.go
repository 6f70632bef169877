package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hejijunhao/sentiprep/internal/config"
	"github.com/hejijunhao/sentiprep/internal/engine"
	"github.com/hejijunhao/sentiprep/internal/engine/cleaner"
	"github.com/hejijunhao/sentiprep/internal/engine/lexicon"
	"github.com/hejijunhao/sentiprep/internal/logging"
	"github.com/hejijunhao/sentiprep/internal/output/sqlite"
	"github.com/hejijunhao/sentiprep/internal/source"

	// Register source implementations.
	_ "github.com/hejijunhao/sentiprep/internal/source/jsonl"
	_ "github.com/hejijunhao/sentiprep/internal/source/sentiment140"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

// loadConfig reads the file named by --config plus the environment.
// Commands apply their own flag overrides and re-validate.
func (c *commandContext) loadConfig() (config.Config, error) {
	var path string
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	return config.Load(path)
}

// initLogging installs the process logger. machineStdout selects JSON logs
// when stdout carries JSON or NDJSON.
func (c *commandContext) initLogging(cfg config.Config, machineStdout bool) {
	level := cfg.Logging.Level
	if c.logLevelFlag != nil && *c.logLevelFlag != "" {
		level = *c.logLevelFlag
	}
	logging.Init(machineStdout, logging.ParseLevel(level))
}

func buildEngine(cfg config.Config, obs engine.Observer) (*engine.Engine, error) {
	lex, err := lexicon.Load(cfg.Cleaner.LexiconPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded lexicon",
		"path", cfg.Cleaner.LexiconPath,
		"version", lex.Version,
		"stopwords", lex.NumStopwords(),
		"lemmas", lex.NumLemmas(),
	)
	cl := cleaner.NewFromLexicon(cfg.CleanerConfig(), lex)
	return engine.New(cfg.EngineConfig(), cl, obs), nil
}

func buildSource(cfg config.Config) (source.Source, source.Config, error) {
	ctor, err := source.Get(cfg.Source.Provider)
	if err != nil {
		return nil, source.Config{}, err
	}
	return ctor(), source.Config{Provider: cfg.Source.Provider, Path: cfg.Source.Path}, nil
}

func withStore(ctx context.Context, path string, fn func(*sqlite.Store) error) error {
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
