package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hejijunhao/sentiprep/internal/output"
	"github.com/hejijunhao/sentiprep/internal/output/outputtest"
)

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	o := NewWriter(&buf, 3, false)

	if err := o.Write(context.Background(), outputtest.Result()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Fatalf("expected a single JSON line, got: %s", buf.String())
	}

	var s output.Summary
	if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.RunID != "run-1" || s.VocabularySize != 3 {
		t.Errorf("summary = %+v", s)
	}
	if len(s.TopTerms) != 3 {
		t.Errorf("expected 3 top terms, got %d", len(s.TopTerms))
	}
	if len(s.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", s.Warnings)
	}
}

func TestWritePretty(t *testing.T) {
	var buf bytes.Buffer
	o := NewWriter(&buf, 0, true)
	if err := o.Write(context.Background(), outputtest.Result()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"run_id\": \"run-1\"") {
		t.Errorf("expected indented output, got: %s", buf.String())
	}
	if strings.Contains(buf.String(), "top_terms") {
		t.Errorf("top_terms should be omitted when topN is 0")
	}
	if err := o.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
