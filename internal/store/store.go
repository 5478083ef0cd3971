// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/factcurve/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for raw trial records. Records keep the textual
// response and correctness the practice app logged; normalization happens on
// read, in the pipeline.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trials (
			id INTEGER PRIMARY KEY,
			user_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			level INTEGER NOT NULL,
			item_key TEXT NOT NULL,
			presented_at TEXT NOT NULL,
			response TEXT NOT NULL,
			correct TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trials_level ON trials(level);`,
		`CREATE INDEX IF NOT EXISTS idx_trials_user_item ON trials(user_id, item_key);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertTrials stores raw trial records in one transaction and returns the
// number inserted.
func (s *Store) InsertTrials(ctx context.Context, raws []model.RawTrial) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trials (user_id, session_id, level, item_key, presented_at, response, correct)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, raw := range raws {
		if !model.Level(raw.Level).Valid() {
			err = fmt.Errorf("invalid level %d (expected 1-3)", raw.Level)
			return 0, err
		}
		if _, err = stmt.ExecContext(ctx,
			raw.UserID,
			raw.SessionID,
			raw.Level,
			raw.ItemKey,
			raw.PresentedAt.Format(time.RFC3339Nano),
			raw.Response,
			raw.Correct,
		); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(raws), nil
}

// ListTrials returns one level's raw trials ordered by presentation time,
// with insertion order (rowid) breaking timestamp ties. That order is what
// the normalizer's Seq assignment preserves downstream.
func (s *Store) ListTrials(ctx context.Context, level model.Level) ([]model.RawTrial, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("invalid level %d (expected 1-3)", int(level))
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, session_id, level, item_key, presented_at, response, correct
		 FROM trials
		 WHERE level = ?
		 ORDER BY presented_at ASC, id ASC`, int(level))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.RawTrial
	for rows.Next() {
		var raw model.RawTrial
		var presentedAt string
		if err := rows.Scan(&raw.UserID, &raw.SessionID, &raw.Level, &raw.ItemKey, &presentedAt, &raw.Response, &raw.Correct); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, presentedAt)
		if err != nil {
			return nil, err
		}
		raw.PresentedAt = parsed
		result = append(result, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountTrials returns the total number of stored trial records.
func (s *Store) CountTrials(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trials`).Scan(&count)
	return count, err
}
