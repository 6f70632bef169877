// Package sentiment140 reads the Sentiment140 tweet corpus.
//
// The file is headerless CSV with columns
// polarity,id,date,query,user,text and is Latin-1 encoded.
// Polarity 0 is negative and 4 is positive; neutral (2) and any other
// value is skipped.
package sentiment140

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/hejijunhao/sentiprep/internal/model"
	"github.com/hejijunhao/sentiprep/internal/source"
)

const (
	colPolarity = 0
	colID       = 1
	colText     = 5
	numColumns  = 6

	// ctx is checked once per this many rows.
	checkEvery = 4096
)

func init() {
	source.Register("sentiment140", func() source.Source {
		return &Source{}
	})
}

// Source implements source.Source for Sentiment140 CSV files.
type Source struct{}

func (s *Source) Load(ctx context.Context, cfg source.Config) (*source.Batch, error) {
	r, closeFn, err := source.Open(cfg)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return Read(ctx, r)
}

// Read decodes Latin-1 CSV from r.
func Read(ctx context.Context, r io.Reader) (*source.Batch, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	batch := source.NewBatch()
	for line := 1; ; line++ {
		if line%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				batch.Skipped[model.DropMalformed]++
				slog.Debug("malformed sentiment140 row", "line", line, "error", err)
				continue
			}
			return nil, fmt.Errorf("sentiment140: read: %w", err)
		}
		if len(row) != numColumns {
			batch.Skipped[model.DropMalformed]++
			slog.Debug("sentiment140 row has wrong column count", "line", line, "columns", len(row))
			continue
		}

		label, ok := parsePolarity(row[colPolarity])
		if !ok {
			if line == 1 && !isNumeric(row[colPolarity]) {
				continue // header
			}
			batch.Skipped[model.DropUnlabeled]++
			continue
		}
		id := strings.TrimSpace(row[colID])
		if id == "" {
			id = strconv.Itoa(line)
		}
		batch.Records = append(batch.Records, model.Record{
			ID:     id,
			Text:   row[colText],
			Label:  label,
			Source: "sentiment140",
		})
	}

	slog.Info("loaded sentiment140",
		"records", len(batch.Records),
		"unsupported_label", batch.Skipped[model.DropUnlabeled],
		"malformed", batch.Skipped[model.DropMalformed],
	)
	return batch, nil
}

func parsePolarity(s string) (model.Label, bool) {
	switch strings.TrimSpace(s) {
	case "0":
		return model.LabelNegative, true
	case "4":
		return model.LabelPositive, true
	default:
		return model.LabelUnknown, false
	}
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}
