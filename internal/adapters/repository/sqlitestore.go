package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite"

	"github.com/okian/freekicks/internal/domain/model"
	"github.com/okian/freekicks/pkg/metrics"
)

// MemoryDSN keeps the SQLite database in memory.
const MemoryDSN = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS kicks (
	seq           INTEGER NOT NULL,
	id            INTEGER PRIMARY KEY,
	origin_x      REAL NOT NULL,
	origin_y      REAL NOT NULL,
	control_x     REAL NOT NULL,
	control_y     REAL NOT NULL,
	target_x      REAL NOT NULL,
	target_y      REAL NOT NULL,
	curve_tension REAL NOT NULL,
	category      TEXT NOT NULL,
	season        TEXT NOT NULL,
	fixture       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS kicks_category ON kicks (category, seq);`

const selectColumns = `SELECT id, origin_x, origin_y, control_x, control_y, target_x, target_y,
	curve_tension, category, season, fixture FROM kicks`

// SQLiteStore keeps the dataset in a SQLite database. Source order is kept
// in the seq column.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens dsn and creates the schema.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Replace swaps the whole dataset in one transaction.
func (s *SQLiteStore) Replace(ctx context.Context, records []model.Record) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM kicks`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO kicks (seq, id, origin_x, origin_y, control_x, control_y,
		target_x, target_y, curve_tension, category, season, fixture) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	seen := make(map[int]struct{}, len(records))
	for i, r := range records {
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}
		if _, err = stmt.ExecContext(ctx, i, r.ID,
			r.Origin.X, r.Origin.Y, r.Control.X, r.Control.Y, r.Target.X, r.Target.Y,
			r.CurveTension, r.Category, r.SeasonLabel, r.FixtureLabel,
		); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}

	metrics.UpdateRecordsLoaded(len(records))
	return nil
}

// Get returns the record with id.
func (s *SQLiteStore) Get(ctx context.Context, id int) (model.Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r, err
}

// All returns every record in source order.
func (s *SQLiteStore) All(ctx context.Context) []model.Record {
	return s.read(ctx, "all", selectColumns+` ORDER BY seq`)
}

// List returns every record in source order or the query error.
func (s *SQLiteStore) List(ctx context.Context) ([]model.Record, error) {
	return s.query(ctx, selectColumns+` ORDER BY seq`)
}

// ByCategory returns the records of category in source order.
func (s *SQLiteStore) ByCategory(ctx context.Context, category string) []model.Record {
	return s.read(ctx, "by_category", selectColumns+` WHERE category = ? ORDER BY seq`, category)
}

// Count returns the number of records.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kicks`).Scan(&n); err != nil {
		metrics.RecordErrorByComponent("repository", "count")
		return 0
	}
	return n
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// read counts a failed query and returns an empty slice.
func (s *SQLiteStore) read(ctx context.Context, op, q string, args ...any) []model.Record {
	out, err := s.query(ctx, q, args...)
	if err != nil {
		metrics.RecordErrorByComponent("repository", op)
		return make([]model.Record, 0)
	}
	return out
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := make([]model.Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (model.Record, error) {
	var r model.Record
	err := sc.Scan(&r.ID,
		&r.Origin.X, &r.Origin.Y, &r.Control.X, &r.Control.Y, &r.Target.X, &r.Target.Y,
		&r.CurveTension, &r.Category, &r.SeasonLabel, &r.FixtureLabel,
	)
	return r, err
}
