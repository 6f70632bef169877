package output

import (
	"context"

	"github.com/hejijunhao/sentiprep/internal/model"
)

// Output defines the interface for run artifact destinations.
type Output interface {
	Write(ctx context.Context, res *model.Result) error
	Close() error
}
