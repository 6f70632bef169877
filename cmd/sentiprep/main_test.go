package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/sentiprep/internal/engine/testdata"
	"github.com/hejijunhao/sentiprep/internal/model"
	"github.com/hejijunhao/sentiprep/internal/output"
	"github.com/hejijunhao/sentiprep/internal/output/sqlite"
)

// writeCorpus writes the embedded test corpus as JSON Lines.
func writeCorpus(t *testing.T, dir string) string {
	t.Helper()
	entries, err := testdata.LoadCorpus()
	require.NoError(t, err)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, e := range entries {
		require.NoError(t, enc.Encode(map[string]any{"id": i, "text": e.Raw, "label": e.Label}))
	}
	path := filepath.Join(dir, "corpus.jsonl")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if key, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, "SENTIPREP_") {
			t.Setenv(key, "")
		}
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPrepareStoresRun(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := writeCorpus(t, dir)
	db := filepath.Join(dir, "runs.db")
	rows := filepath.Join(dir, "rows.ndjson")
	metricsPath := filepath.Join(dir, "sentiprep.prom")

	out, err := execute(t, "prepare",
		"-i", input, "--source", "jsonl",
		"-o", "sqlite,file", "--db", db, "--out-file", rows,
		"--metrics-textfile", metricsPath,
		"--min-df", "1", "--sample-size", "0",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "retained")
	assert.Contains(t, out, "22")
	assert.Contains(t, out, "18 / 4")

	data, err := os.ReadFile(rows)
	require.NoError(t, err)
	assert.Equal(t, 22, strings.Count(string(data), "\n"))

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "sentiprep_records_retained_total 22")

	out, err = execute(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Train / Test")
	assert.Contains(t, out, "18 / 4")

	out, err = execute(t, "top", "--db", db, "-n", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Mean TF-IDF")
	assert.Contains(t, out, "│ 3 │")
	assert.NotContains(t, out, "│ 4 │")
}

func TestRunsRemove(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := writeCorpus(t, dir)
	db := filepath.Join(dir, "runs.db")

	_, err := execute(t, "prepare", "-i", input, "--source", "jsonl",
		"-o", "sqlite", "--db", db, "--min-df", "1", "--sample-size", "0")
	require.NoError(t, err)

	store, err := sqlite.Open(context.Background(), db)
	require.NoError(t, err)
	runs, err := store.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, runs, 1)
	id := runs[0].ID

	out, err := execute(t, "runs", "rm", id, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted run "+id+" from "+db)

	out, err = execute(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs stored")

	_, err = execute(t, "runs", "rm", id, "--db", db)
	require.ErrorIs(t, err, sqlite.ErrRunNotFound)

	_, err = execute(t, "top", id, "--db", db)
	require.ErrorIs(t, err, sqlite.ErrRunNotFound)
}

func TestPrepareStdoutSummary(t *testing.T) {
	clearEnv(t)
	input := writeCorpus(t, t.TempDir())

	out, err := execute(t, "prepare", "-i", input, "--source", "jsonl", "--min-df", "1", "--sample-size", "0", "--top", "5")
	require.NoError(t, err)

	var s output.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 28, s.Input)
	assert.Equal(t, 22, s.Retained)
	assert.Len(t, s.TopTerms, 5)
}

func TestPrepareWebhook(t *testing.T) {
	clearEnv(t)
	input := writeCorpus(t, t.TempDir())

	var got output.Summary
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
	}))
	defer srv.Close()

	out, err := execute(t, "prepare", "-i", input, "--source", "jsonl",
		"-o", "webhook", "--webhook-url", srv.URL, "--min-df", "1", "--sample-size", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "train / test")
	assert.Equal(t, 22, got.Retained)
	assert.Equal(t, 18, got.Train)
}

func TestPrepareRejectsBadFlags(t *testing.T) {
	clearEnv(t)
	input := writeCorpus(t, t.TempDir())

	_, err := execute(t, "prepare", "-i", input, "--source", "jsonl", "--min-df", "0")
	var cfgErr *model.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "min_df", cfgErr.Option)

	_, err = execute(t, "prepare", "-i", input, "--source", "csv")
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "source.provider", cfgErr.Option)
}

func TestClean(t *testing.T) {
	clearEnv(t)
	input := writeCorpus(t, t.TempDir())

	out, err := execute(t, "clean", "-i", input, "--source", "jsonl")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 22)
	var first cleanedLine
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.NotEmpty(t, first.Text)
	assert.NotEqual(t, model.LabelUnknown, first.Label)
}

func TestTopWithoutRuns(t *testing.T) {
	clearEnv(t)
	_, err := execute(t, "top", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.EqualError(t, err, "no runs stored")

	out, err := execute(t, "runs", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No runs stored")
}
