package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hejijunhao/sentiprep/internal/model"
	"github.com/hejijunhao/sentiprep/internal/output"
)

// Output writes the JSON run summary to stdout.
type Output struct {
	enc  *json.Encoder
	topN int
}

// New creates a stdout Output listing topN terms, with optional
// pretty-printed JSON.
func New(topN int, pretty bool) *Output {
	return NewWriter(os.Stdout, topN, pretty)
}

// NewWriter is New with an explicit destination.
func NewWriter(w io.Writer, topN int, pretty bool) *Output {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, topN: topN}
}

func (o *Output) Write(_ context.Context, res *model.Result) error {
	if err := o.enc.Encode(output.Summarize(res, o.topN)); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
