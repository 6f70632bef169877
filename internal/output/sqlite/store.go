// Package sqlite persists run artifacts (vocabulary, documents and sparse
// features) to a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hejijunhao/sentiprep/internal/model"
	"github.com/hejijunhao/sentiprep/internal/output"
)

// ErrRunNotFound is returned when a run ID is not in the store.
var ErrRunNotFound = errors.New("sqlite: run not found")

// Store is an artifact store backed by SQLite. It implements output.Output.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// RunInfo is the stored header of one run.
type RunInfo struct {
	ID             string
	CreatedAt      time.Time
	Input          int
	Retained       int
	Dropped        map[string]int
	ClassCounts    map[string]int
	VocabularySize int
	TrainRows      int
	TestRows       int
	Warnings       []string
}

// Open creates or opens the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases and pragmas consistent.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: apply pragma %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return s, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Write saves res as a new run under res.RunID. A result without a run ID
// is stored under a fresh one; res itself is not modified.
func (s *Store) Write(ctx context.Context, res *model.Result) error {
	runID := res.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	start := time.Now()
	if err := s.save(ctx, runID, res); err != nil {
		return fmt.Errorf("sqlite: save run %s: %w", runID, err)
	}
	slog.Info("stored run", "run_id", runID, "path", s.path, "rows", len(res.Corpus), "elapsed", time.Since(start))
	return nil
}

func (s *Store) save(ctx context.Context, runID string, res *model.Result) error {
	summary := output.Summarize(res, 0)
	dropped, err := json.Marshal(summary.Dropped)
	if err != nil {
		return err
	}
	classes, err := json.Marshal(summary.ClassCounts)
	if err != nil {
		return err
	}
	warnings := summary.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, input, retained, dropped, class_counts, vocabulary_size, train_rows, test_rows, warnings)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, s.now().UTC().Format(time.RFC3339Nano), summary.Input, summary.Retained,
		string(dropped), string(classes), summary.VocabularySize, summary.Train, summary.Test, string(warningsJSON),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	vocabStmt, err := tx.PrepareContext(ctx, "INSERT INTO vocabulary (run_id, col, term, df, idf, score) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare vocabulary: %w", err)
	}
	defer vocabStmt.Close()
	v := res.Vocabulary
	for col := 0; col < v.Len(); col++ {
		if _, err := vocabStmt.ExecContext(ctx, runID, col, v.Terms[col], v.DF[col], v.IDF[col], v.Score[col]); err != nil {
			return fmt.Errorf("insert term %q: %w", v.Terms[col], err)
		}
	}

	docStmt, err := tx.PrepareContext(ctx, "INSERT INTO documents (run_id, row_num, doc_id, label, split, clean_text) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare documents: %w", err)
	}
	defer docStmt.Close()
	featStmt, err := tx.PrepareContext(ctx, "INSERT INTO features (run_id, row_num, col, weight) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare features: %w", err)
	}
	defer featStmt.Close()

	splits := output.SplitNames(res)
	for i, doc := range res.Corpus {
		if _, err := docStmt.ExecContext(ctx, runID, i, doc.ID, doc.Label.String(), splits[i], doc.Text); err != nil {
			return fmt.Errorf("insert document %d: %w", i, err)
		}
		cols, vals := res.Matrix.Row(i)
		for k, col := range cols {
			if _, err := featStmt.ExecContext(ctx, runID, i, col, vals[k]); err != nil {
				return fmt.Errorf("insert feature (%d, %d): %w", i, col, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, input, retained, dropped, class_counts, vocabulary_size, train_rows, test_rows, warnings
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		info, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list runs: %w", err)
		}
		runs = append(runs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the header of one run or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (RunInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, input, retained, dropped, class_counts, vocabulary_size, train_rows, test_rows, warnings
		 FROM runs WHERE id = ?`, id)
	info, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunInfo{}, ErrRunNotFound
	}
	if err != nil {
		return RunInfo{}, fmt.Errorf("sqlite: get run %s: %w", id, err)
	}
	return info, nil
}

// TopTerms returns the n terms of a run with the highest mean TF-IDF weight
// across its documents, ties broken by term. n <= 0 returns all.
func (s *Store) TopTerms(ctx context.Context, runID string, n int) ([]output.TermWeight, error) {
	info, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if info.Retained == 0 {
		return nil, nil
	}
	if n <= 0 {
		n = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT v.term, v.df, COALESCE(SUM(f.weight), 0) / ? AS mean
		 FROM vocabulary v
		 LEFT JOIN features f ON f.run_id = v.run_id AND f.col = v.col
		 WHERE v.run_id = ?
		 GROUP BY v.col
		 ORDER BY mean DESC, v.term
		 LIMIT ?`, float64(info.Retained), runID, n)
	if err != nil {
		return nil, fmt.Errorf("sqlite: top terms: %w", err)
	}
	defer rows.Close()

	var terms []output.TermWeight
	for rows.Next() {
		var tw output.TermWeight
		if err := rows.Scan(&tw.Term, &tw.DF, &tw.Weight); err != nil {
			return nil, fmt.Errorf("sqlite: top terms: %w", err)
		}
		terms = append(terms, tw)
	}
	return terms, rows.Err()
}

// DeleteRun removes a run and all of its artifacts.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite: delete run %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRunNotFound
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunInfo, error) {
	var (
		info                             RunInfo
		created, dropped, classes, warns string
	)
	if err := sc.Scan(&info.ID, &created, &info.Input, &info.Retained, &dropped, &classes,
		&info.VocabularySize, &info.TrainRows, &info.TestRows, &warns); err != nil {
		return RunInfo{}, err
	}
	var err error
	if info.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return RunInfo{}, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(dropped), &info.Dropped); err != nil {
		return RunInfo{}, fmt.Errorf("decode dropped: %w", err)
	}
	if err := json.Unmarshal([]byte(classes), &info.ClassCounts); err != nil {
		return RunInfo{}, fmt.Errorf("decode class_counts: %w", err)
	}
	if err := json.Unmarshal([]byte(warns), &info.Warnings); err != nil {
		return RunInfo{}, fmt.Errorf("decode warnings: %w", err)
	}
	return info, nil
}

var _ output.Output = (*Store)(nil)
