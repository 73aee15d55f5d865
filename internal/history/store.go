// Package history records evaluation runs in a local SQLite database so that
// scores can be compared across cue or corpus changes.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/grahms/blocktag"
)

// Run is one recorded evaluation.
type Run struct {
	ID           string
	CreatedAt    time.Time
	Instructions string
	Gold         string
	Denominator  string
	Tagged       int
	Scores       blocktag.Scores
}

// Store persists runs.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		instructions TEXT NOT NULL,
		gold TEXT NOT NULL,
		denominator TEXT NOT NULL,
		tagged INTEGER NOT NULL,
		matched INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		answers INTEGER NOT NULL,
		expected INTEGER NOT NULL,
		precision REAL,
		recall REAL,
		f1 REAL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores r. Empty ID and zero CreatedAt are filled in; the stored
// run is returned.
func (s *Store) Record(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, instructions, gold, denominator, tagged,
			matched, correct, answers, expected, precision, recall, f1)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt, r.Instructions, r.Gold, r.Denominator, r.Tagged,
		r.Scores.Matched, r.Scores.Correct, r.Scores.Answers, r.Scores.Expected,
		finite(r.Scores.Precision), finite(r.Scores.Recall), finite(r.Scores.F1))
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return r, nil
}

// List returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT id, created_at, instructions, gold, denominator, tagged,
		matched, correct, answers, expected, precision, recall, f1
		FROM runs ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var p, rc, f sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Instructions, &r.Gold, &r.Denominator, &r.Tagged,
			&r.Scores.Matched, &r.Scores.Correct, &r.Scores.Answers, &r.Scores.Expected,
			&p, &rc, &f); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Scores.Precision = orNaN(p)
		r.Scores.Recall = orNaN(rc)
		r.Scores.F1 = orNaN(f)
		out = append(out, r)
	}
	return out, rows.Err()
}

// finite maps NaN and Inf to NULL.
func finite(f float64) sql.NullFloat64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func orNaN(f sql.NullFloat64) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}
