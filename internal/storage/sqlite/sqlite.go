// Package sqlite provides the single-file save store used for local play.
// It runs on modernc.org/sqlite, so no cgo toolchain is required.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/idlerpg/internal/game/state"
	"github.com/cory-johannsen/idlerpg/internal/storage"
	"github.com/cory-johannsen/idlerpg/internal/storage/snapshot"
)

//go:embed schema.sql
var schema string

// Store is a storage.Store over a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
// The special path ":memory:" yields a private in-memory database.
//
// Precondition: path must be non-empty.
// Postcondition: Returns a ready Store or a non-nil error.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("opening sqlite store: empty path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	// One writer; an in-memory database exists per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying %s: %w", strings.TrimSpace(p), err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Create inserts a new save.
//
// Postcondition: Returns nil on success or storage.ErrSaveExists on a duplicate id.
func (st *Store) Create(ctx context.Context, s *state.EngineState) error {
	blob, err := snapshot.Encode(s)
	if err != nil {
		return err
	}
	now := nowString()
	res, err := st.db.ExecContext(ctx, `
		INSERT INTO saves (save_id, player_name, level, tick_index, last_tick_at_ms, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(save_id) DO NOTHING`,
		s.SaveID, s.Player.Name, s.Player.Level, s.TickIndex, s.LastTickAtMs, blob, now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting save: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrSaveExists
	}
	return nil
}

// Get loads the save with the given id.
//
// Postcondition: Returns the decoded state or storage.ErrSaveNotFound.
func (st *Store) Get(ctx context.Context, saveID string) (*state.EngineState, error) {
	var blob []byte
	err := st.db.QueryRowContext(ctx, `SELECT state FROM saves WHERE save_id = ?`, saveID).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSaveNotFound
		}
		return nil, fmt.Errorf("querying save: %w", err)
	}
	s, err := snapshot.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", saveID, err)
	}
	return s, nil
}

// Put overwrites an existing save unless the stored copy is further along.
//
// Postcondition: Returns nil, storage.ErrSaveNotFound or storage.ErrStaleSave.
func (st *Store) Put(ctx context.Context, s *state.EngineState) error {
	blob, err := snapshot.Encode(s)
	if err != nil {
		return err
	}
	res, err := st.db.ExecContext(ctx, `
		UPDATE saves
		SET player_name = ?, level = ?, tick_index = ?, last_tick_at_ms = ?, state = ?, updated_at = ?
		WHERE save_id = ? AND tick_index <= ?`,
		s.Player.Name, s.Player.Level, s.TickIndex, s.LastTickAtMs, blob, nowString(), s.SaveID, s.TickIndex,
	)
	if err != nil {
		return fmt.Errorf("updating save: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var one int
	err = st.db.QueryRowContext(ctx, `SELECT 1 FROM saves WHERE save_id = ?`, s.SaveID).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return storage.ErrSaveNotFound
	case err != nil:
		return fmt.Errorf("checking save: %w", err)
	}
	return storage.ErrStaleSave
}

// List returns a summary of every save ordered by save id.
func (st *Store) List(ctx context.Context) ([]storage.Summary, error) {
	rows, err := st.db.QueryContext(ctx, `
		SELECT save_id, player_name, level, tick_index, updated_at
		FROM saves ORDER BY save_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	out := make([]storage.Summary, 0)
	for rows.Next() {
		var (
			sum     storage.Summary
			updated string
		)
		if err := rows.Scan(&sum.SaveID, &sum.PlayerName, &sum.Level, &sum.TickIndex, &updated); err != nil {
			return nil, fmt.Errorf("scanning save row: %w", err)
		}
		if sum.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("parsing updated_at for %s: %w", sum.SaveID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the save with the given id.
func (st *Store) Delete(ctx context.Context, saveID string) error {
	res, err := st.db.ExecContext(ctx, `DELETE FROM saves WHERE save_id = ?`, saveID)
	if err != nil {
		return fmt.Errorf("deleting save: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrSaveNotFound
	}
	return nil
}

// Close closes the database.
func (st *Store) Close() error {
	return st.db.Close()
}

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

var _ storage.Store = (*Store)(nil)
