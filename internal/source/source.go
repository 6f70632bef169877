// Package source loads raw labeled records from a dataset.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/hejijunhao/sentiprep/internal/model"
)

// Source reads a whole dataset into memory.
type Source interface {
	Load(ctx context.Context, cfg Config) (*Batch, error)
}

// Config selects the dataset to read.
type Config struct {
	Provider string
	Path     string    // "-" reads standard input
	Reader   io.Reader // overrides Path when set
}

// Batch is a loaded dataset. Skipped counts rows the loader rejected
// before they became records.
type Batch struct {
	Records []model.Record
	Skipped map[model.DropReason]int
}

// NewBatch returns an empty Batch with its map initialised.
func NewBatch() *Batch {
	return &Batch{Skipped: make(map[model.DropReason]int)}
}

// Open returns the reader a source should consume and a close func.
func Open(cfg Config) (io.Reader, func() error, error) {
	if cfg.Reader != nil {
		return cfg.Reader, func() error { return nil }, nil
	}
	if cfg.Path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	if cfg.Path == "" {
		return nil, nil, &model.ConfigurationError{Option: "source.path", Reason: "no input path given"}
	}
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("source: open: %w", err)
	}
	return f, f.Close, nil
}

// Constructor is a function that creates a new Source instance.
type Constructor func() Source

var registry = map[string]Constructor{}

// Register adds a source constructor under the given provider name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Get returns the source constructor for the given provider name.
func Get(name string) (Constructor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, &model.ConfigurationError{Option: "source.provider", Reason: fmt.Sprintf("unknown provider %q", name)}
	}
	return ctor, nil
}

// Providers returns the registered provider names in sorted order.
func Providers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
