package file

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hejijunhao/sentiprep/internal/output"
	"github.com/hejijunhao/sentiprep/internal/output/outputtest"
)

func readRows(t *testing.T, path string) []output.Row {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var rows []output.Row
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r output.Row
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		rows = append(rows, r)
	}
	return rows
}

func TestWriteAllRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.ndjson")
	o, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := o.Write(context.Background(), outputtest.Result()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := o.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows := readRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0].ID != "a" || rows[0].Split != "train" || rows[0].Features["movie"] != 0.8 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[2].Row != 2 || rows[2].Split != "test" || rows[2].Label.String() != "positive" {
		t.Errorf("row 2 = %+v", rows[2])
	}
	if o.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3", o.Rows())
	}
}

func TestWriteSplitFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ndjson")
	o, err := New(path, WithSplit(output.SplitTest), WithBufSize(16))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := o.Write(context.Background(), outputtest.Result()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := o.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows := readRows(t, path)
	if len(rows) != 1 || rows[0].ID != "c" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestNewTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.ndjson")
	if err := os.WriteFile(path, []byte("stale\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	o, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := o.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty file, got %q", data)
	}
}

func TestWriteCancelled(t *testing.T) {
	o, err := New(filepath.Join(t.TempDir(), "rows.ndjson"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer o.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := o.Write(ctx, outputtest.Result()); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewBadPath(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing", "rows.ndjson")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
