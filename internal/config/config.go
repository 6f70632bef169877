package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/hejijunhao/sentiprep/internal/engine"
	"github.com/hejijunhao/sentiprep/internal/engine/cleaner"
	"github.com/hejijunhao/sentiprep/internal/engine/splitter"
	"github.com/hejijunhao/sentiprep/internal/engine/vectorizer"
	"github.com/hejijunhao/sentiprep/internal/model"
)

// Config holds all sentiprep configuration.
type Config struct {
	Source     SourceConfig     `toml:"source"`
	Sampling   SamplingConfig   `toml:"sampling"`
	Cleaner    CleanerConfig    `toml:"cleaner"`
	Vectorizer VectorizerConfig `toml:"vectorizer"`
	Split      SplitConfig      `toml:"split"`
	Output     OutputConfig     `toml:"output"`
	Logging    LoggingConfig    `toml:"logging"`
}

// SourceConfig selects where raw records come from.
type SourceConfig struct {
	Provider string `toml:"provider"` // "sentiment140", "jsonl"
	Path     string `toml:"path"`
}

// SamplingConfig controls class balancing before and after cleaning.
type SamplingConfig struct {
	SampleSize       int     `toml:"sample_size"`
	Rebalance        bool    `toml:"rebalance_after_cleaning"`
	BalanceTolerance float64 `toml:"balance_tolerance"`
}

// CleanerConfig controls text normalisation.
type CleanerConfig struct {
	MinTokenLength int    `toml:"min_token_length"`
	LexiconPath    string `toml:"lexicon_path"` // empty uses the embedded English lexicon
}

// VectorizerConfig bounds the TF-IDF vocabulary.
type VectorizerConfig struct {
	MinDF        int     `toml:"min_df"`
	MaxDFRatio   float64 `toml:"max_df_ratio"`
	MaxVocabSize int     `toml:"max_vocab_size"`
	NgramMin     int     `toml:"ngram_min"`
	NgramMax     int     `toml:"ngram_max"`
}

// SplitConfig controls the train/test partition.
type SplitConfig struct {
	TestRatio float64 `toml:"test_ratio"`
	Seed      uint64  `toml:"seed"`
	Stratify  bool    `toml:"stratify"`
}

// OutputConfig holds output destination settings.
type OutputConfig struct {
	Formats         []string `toml:"formats"`     // any of "stdout", "file", "sqlite", "webhook"
	Path            string   `toml:"path"`        // NDJSON rows for "file"
	Database        string   `toml:"database"`    // artifact store for "sqlite"
	WebhookURL      string   `toml:"webhook_url"` // summary endpoint for "webhook"
	MetricsTextfile string   `toml:"metrics_textfile"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		Source: SourceConfig{Provider: "sentiment140"},
		Sampling: SamplingConfig{
			SampleSize:       100000,
			BalanceTolerance: 0.05,
		},
		Cleaner: CleanerConfig{MinTokenLength: cleaner.DefaultMinTokenLength},
		Vectorizer: VectorizerConfig{
			MinDF:        5,
			MaxDFRatio:   0.95,
			MaxVocabSize: 10000,
			NgramMin:     1,
			NgramMax:     2,
		},
		Split: SplitConfig{
			TestRatio: 0.2,
			Seed:      42,
			Stratify:  true,
		},
		Output: OutputConfig{
			Formats:  []string{"stdout"},
			Path:     "features.ndjson",
			Database: "sentiprep.db",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load starts from Default, overlays the TOML file at path (skipped when
// path is empty), then SENTIPREP_* environment variables, and validates
// the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config: file %q not found", path)
			}
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Source.Provider = getenv("SENTIPREP_SOURCE", c.Source.Provider)
	c.Source.Path = getenv("SENTIPREP_INPUT", c.Source.Path)
	c.Cleaner.LexiconPath = getenv("SENTIPREP_LEXICON_PATH", c.Cleaner.LexiconPath)
	c.Output.Path = getenv("SENTIPREP_OUTPUT_PATH", c.Output.Path)
	c.Output.Database = getenv("SENTIPREP_DATABASE", c.Output.Database)
	c.Output.WebhookURL = getenv("SENTIPREP_WEBHOOK_URL", c.Output.WebhookURL)
	c.Output.MetricsTextfile = getenv("SENTIPREP_METRICS_TEXTFILE", c.Output.MetricsTextfile)
	c.Logging.Level = getenv("SENTIPREP_LOG_LEVEL", c.Logging.Level)
	if v := os.Getenv("SENTIPREP_OUTPUT"); v != "" {
		c.Output.Formats = splitList(v)
	}

	var err error
	if c.Sampling.SampleSize, err = getenvInt("SENTIPREP_SAMPLE_SIZE", "sample_size", c.Sampling.SampleSize); err != nil {
		return err
	}
	if c.Sampling.Rebalance, err = getenvBool("SENTIPREP_REBALANCE", "rebalance_after_cleaning", c.Sampling.Rebalance); err != nil {
		return err
	}
	if c.Cleaner.MinTokenLength, err = getenvInt("SENTIPREP_MIN_TOKEN_LENGTH", "min_token_length", c.Cleaner.MinTokenLength); err != nil {
		return err
	}
	if c.Vectorizer.MinDF, err = getenvInt("SENTIPREP_MIN_DF", "min_df", c.Vectorizer.MinDF); err != nil {
		return err
	}
	if c.Vectorizer.MaxDFRatio, err = getenvFloat("SENTIPREP_MAX_DF_RATIO", "max_df_ratio", c.Vectorizer.MaxDFRatio); err != nil {
		return err
	}
	if c.Vectorizer.MaxVocabSize, err = getenvInt("SENTIPREP_MAX_VOCAB_SIZE", "max_vocab_size", c.Vectorizer.MaxVocabSize); err != nil {
		return err
	}
	if v := os.Getenv("SENTIPREP_NGRAM_RANGE"); v != "" {
		if c.Vectorizer.NgramMin, c.Vectorizer.NgramMax, err = ParseNgramRange(v); err != nil {
			return err
		}
	}
	if c.Split.TestRatio, err = getenvFloat("SENTIPREP_TEST_SPLIT_RATIO", "test_split_ratio", c.Split.TestRatio); err != nil {
		return err
	}
	if v := os.Getenv("SENTIPREP_RANDOM_SEED"); v != "" {
		seed, perr := strconv.ParseUint(v, 10, 64)
		if perr != nil {
			return &model.ConfigurationError{Option: "random_seed", Reason: fmt.Sprintf("not an unsigned integer: %q", v)}
		}
		c.Split.Seed = seed
	}
	if c.Split.Stratify, err = getenvBool("SENTIPREP_STRATIFY", "stratify", c.Split.Stratify); err != nil {
		return err
	}
	return nil
}

// Validate reports the first invalid option as a *model.ConfigurationError.
func (c Config) Validate() error {
	if c.Cleaner.MinTokenLength < 1 {
		return &model.ConfigurationError{Option: "min_token_length", Reason: fmt.Sprintf("must be >= 1, got %d", c.Cleaner.MinTokenLength)}
	}
	if err := c.EngineConfig().Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Source.Provider) == "" {
		return &model.ConfigurationError{Option: "source.provider", Reason: "must not be empty"}
	}
	if len(c.Output.Formats) == 0 {
		return &model.ConfigurationError{Option: "output.formats", Reason: "at least one output is required"}
	}
	for _, f := range c.Output.Formats {
		switch f {
		case "stdout":
		case "file":
			if c.Output.Path == "" {
				return &model.ConfigurationError{Option: "output.path", Reason: "required by the file output"}
			}
		case "sqlite":
			if c.Output.Database == "" {
				return &model.ConfigurationError{Option: "output.database", Reason: "required by the sqlite output"}
			}
		case "webhook":
			if c.Output.WebhookURL == "" {
				return &model.ConfigurationError{Option: "output.webhook_url", Reason: "required by the webhook output"}
			}
		default:
			return &model.ConfigurationError{Option: "output.formats", Reason: fmt.Sprintf("unknown output %q", f)}
		}
	}
	return nil
}

// EngineConfig converts the file/env layout into the engine's settings.
func (c Config) EngineConfig() engine.Config {
	return engine.Config{
		SampleSize:       c.Sampling.SampleSize,
		Rebalance:        c.Sampling.Rebalance,
		BalanceTolerance: c.Sampling.BalanceTolerance,
		Vectorizer: vectorizer.Config{
			MinDF:       c.Vectorizer.MinDF,
			MaxDFRatio:  c.Vectorizer.MaxDFRatio,
			MaxFeatures: c.Vectorizer.MaxVocabSize,
			NgramMin:    c.Vectorizer.NgramMin,
			NgramMax:    c.Vectorizer.NgramMax,
		},
		Split: splitter.Config{
			TestRatio: c.Split.TestRatio,
			Seed:      c.Split.Seed,
			Stratify:  c.Split.Stratify,
		},
	}
}

// CleanerConfig returns the cleaner settings.
func (c Config) CleanerConfig() cleaner.Config {
	return cleaner.Config{MinTokenLength: c.Cleaner.MinTokenLength}
}

// ParseNgramRange parses "min,max" (e.g. "1,2").
func ParseNgramRange(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, &model.ConfigurationError{Option: "ngram_range", Reason: fmt.Sprintf("want \"min,max\", got %q", s)}
	}
	lo, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	hi, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, &model.ConfigurationError{Option: "ngram_range", Reason: fmt.Sprintf("non-integer bound in %q", s)}
	}
	return lo, hi, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key, option string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, &model.ConfigurationError{Option: option, Reason: fmt.Sprintf("%s is not an integer: %q", key, v)}
	}
	return n, nil
}

func getenvFloat(key, option string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, &model.ConfigurationError{Option: option, Reason: fmt.Sprintf("%s is not a number: %q", key, v)}
	}
	return f, nil
}

func getenvBool(key, option string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, &model.ConfigurationError{Option: option, Reason: fmt.Sprintf("%s is not a boolean: %q", key, v)}
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
