package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/hejijunhao/sentiprep/internal/model"
	"github.com/hejijunhao/sentiprep/internal/output"
)

const (
	defaultBufSize = 64 * 1024 // 64KB

	// ctx is checked once per this many rows.
	checkEvery = 1024
)

// Option configures a file Output.
type Option func(*Output)

// WithBufSize sets the bufio.Writer buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// WithSplit restricts the rows written to one split ("train" or "test").
// Empty (default) writes every row.
func WithSplit(split string) Option {
	return func(o *Output) { o.split = split }
}

// Output writes one NDJSON line per feature-matrix row with buffered I/O.
// The file is truncated when opened.
type Output struct {
	w       *bufio.Writer
	f       *os.File
	mu      sync.Mutex
	path    string
	bufSize int
	split   string
	rows    int
}

// New creates a file output that writes NDJSON rows to the given path.
func New(path string, opts ...Option) (*Output, error) {
	o := &Output{
		path:    path,
		bufSize: defaultBufSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	o.f = f
	o.w = bufio.NewWriterSize(f, o.bufSize)
	return o, nil
}

// Write appends every selected row of res.
func (o *Output) Write(ctx context.Context, res *model.Result) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	splits := output.SplitNames(res)
	enc := json.NewEncoder(o.w)
	for i := range res.Corpus {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if o.split != "" && splits[i] != o.split {
			continue
		}
		if err := enc.Encode(output.RowAt(res, splits, i)); err != nil {
			return fmt.Errorf("file output: write row %d: %w", i, err)
		}
		o.rows++
	}
	return nil
}

// Rows returns the number of rows written so far.
func (o *Output) Rows() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rows
}

// Close flushes the buffer and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("file output: flush: %w", err)
	}
	return o.f.Close()
}
