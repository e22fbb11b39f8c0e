// Package store keeps a history of completed training runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs(
	id TEXT PRIMARY KEY,
	dataset TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	epochs INTEGER NOT NULL,
	learning_rate REAL NOT NULL,
	dimensions TEXT NOT NULL,
	final_loss REAL,
	classification_error REAL,
	duration_ms REAL NOT NULL
)`

// Run is one row of the history.
type Run struct {
	ID           string
	Dataset      string
	StartedAt    time.Time
	Epochs       int
	LearningRate float64
	Dimensions   []int
	// FinalLoss and ClassificationError are NaN when undefined.
	FinalLoss           float64
	ClassificationError float64
	Duration            time.Duration
}

// Store is a run history backed by a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open store %s", path)
	}
	// Concurrent runs share one writer.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set journal mode")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create runs table")
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts r, replacing any previous row with the same id.
func (s *Store) Save(ctx context.Context, r Run) error {
	dims, err := json.Marshal(r.Dimensions)
	if err != nil {
		return errors.Wrap(err, "encode dimensions")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs(id, dataset, started_at, epochs, learning_rate, dimensions, final_loss, classification_error, duration_ms)
		VALUES(?,?,?,?,?,?,?,?,?)`,
		r.ID, r.Dataset, r.StartedAt.UnixMilli(), r.Epochs, r.LearningRate, string(dims),
		nullable(r.FinalLoss), nullable(r.ClassificationError),
		float64(r.Duration)/float64(time.Millisecond),
	)
	return errors.Wrapf(err, "save run %s", r.ID)
}

// List returns up to limit runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dataset, started_at, epochs, learning_rate, dimensions, final_loss, classification_error, duration_ms
		FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r          Run
			started    int64
			dims       string
			loss, ce   sql.NullFloat64
			durationMS float64
		)
		if err := rows.Scan(&r.ID, &r.Dataset, &started, &r.Epochs, &r.LearningRate, &dims, &loss, &ce, &durationMS); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		if err := json.Unmarshal([]byte(dims), &r.Dimensions); err != nil {
			return nil, errors.Wrapf(err, "decode dimensions of run %s", r.ID)
		}
		r.StartedAt = time.UnixMilli(started)
		r.FinalLoss = orNaN(loss)
		r.ClassificationError = orNaN(ce)
		r.Duration = time.Duration(durationMS * float64(time.Millisecond))
		out = append(out, r)
	}
	return out, errors.Wrap(rows.Err(), "iterate runs")
}

// nullable maps NaN and infinities to NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
