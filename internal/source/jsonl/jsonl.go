// Package jsonl reads one {"id","text","label"} object per line.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hejijunhao/sentiprep/internal/model"
	"github.com/hejijunhao/sentiprep/internal/source"
)

const maxLineBytes = 1 << 20

func init() {
	source.Register("jsonl", func() source.Source {
		return &Source{}
	})
}

// Source implements source.Source for JSON Lines files.
type Source struct{}

// line is one input object. Label may be a string ("positive", "neg") or a
// number (0, 1, 4).
type line struct {
	ID    json.RawMessage `json:"id"`
	Text  *string         `json:"text"`
	Label json.RawMessage `json:"label"`
}

func (s *Source) Load(ctx context.Context, cfg source.Config) (*source.Batch, error) {
	r, closeFn, err := source.Open(cfg)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return Read(ctx, r)
}

// Read parses JSON Lines from r. Blank lines are ignored; lines that are
// not valid JSON are counted as malformed.
func Read(ctx context.Context, r io.Reader) (*source.Batch, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	batch := source.NewBatch()
	n := 0
	for sc.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var l line
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			batch.Skipped[model.DropMalformed]++
			slog.Debug("malformed jsonl line", "line", n, "error", err)
			continue
		}
		label := parseLabel(l.Label)
		if label == model.LabelUnknown && len(l.Label) > 0 && string(l.Label) != "null" {
			batch.Skipped[model.DropUnlabeled]++
			continue
		}
		rec := model.Record{
			ID:     parseID(l.ID, n),
			Label:  label,
			Source: "jsonl",
		}
		if l.Text != nil {
			rec.Text = *l.Text
		}
		batch.Records = append(batch.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("jsonl: read: %w", err)
	}

	slog.Info("loaded jsonl",
		"records", len(batch.Records),
		"unsupported_label", batch.Skipped[model.DropUnlabeled],
		"malformed", batch.Skipped[model.DropMalformed],
	)
	return batch, nil
}

// parseLabel accepts a JSON string or number. A missing or null label is
// LabelUnknown.
func parseLabel(raw json.RawMessage) model.Label {
	if len(raw) == 0 {
		return model.LabelUnknown
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return model.ParseLabel(s)
	}
	return model.ParseLabel(string(raw))
}

func parseID(raw json.RawMessage, lineNum int) string {
	if len(raw) == 0 || string(raw) == "null" {
		return strconv.Itoa(lineNum)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
