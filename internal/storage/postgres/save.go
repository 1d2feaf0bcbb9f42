package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/idlerpg/internal/game/state"
	"github.com/cory-johannsen/idlerpg/internal/storage"
	"github.com/cory-johannsen/idlerpg/internal/storage/snapshot"
)

// SaveRepository stores engine snapshots in the saves table.
type SaveRepository struct {
	pool *Pool
	db   *pgxpool.Pool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
// Closing the repository closes the pool.
//
// Precondition: pool must be open and migrated.
func NewSaveRepository(pool *Pool) *SaveRepository {
	return &SaveRepository{pool: pool, db: pool.DB()}
}

// Create inserts a new save.
//
// Precondition: s must be non-nil with a non-empty SaveID.
// Postcondition: Returns nil on success or storage.ErrSaveExists on a duplicate id.
func (r *SaveRepository) Create(ctx context.Context, s *state.EngineState) error {
	blob, err := snapshot.Encode(s)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO saves (save_id, player_name, level, tick_index, last_tick_at_ms, state)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.SaveID, s.Player.Name, s.Player.Level, s.TickIndex, s.LastTickAtMs, blob,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrSaveExists
		}
		return fmt.Errorf("inserting save: %w", err)
	}
	return nil
}

// Get loads the save with the given id.
//
// Postcondition: Returns the decoded state or storage.ErrSaveNotFound.
func (r *SaveRepository) Get(ctx context.Context, saveID string) (*state.EngineState, error) {
	var blob []byte
	err := r.db.QueryRow(ctx, `SELECT state FROM saves WHERE save_id = $1`, saveID).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
// Postcondition: Returns nil on success, storage.ErrSaveNotFound if the save
// does not exist, or storage.ErrStaleSave if the stored tick index exceeds
// s.TickIndex.
func (r *SaveRepository) Put(ctx context.Context, s *state.EngineState) error {
	blob, err := snapshot.Encode(s)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE saves
		SET player_name = $2, level = $3, tick_index = $4, last_tick_at_ms = $5,
		    state = $6, updated_at = NOW()
		WHERE save_id = $1 AND tick_index <= $4`,
		s.SaveID, s.Player.Name, s.Player.Level, s.TickIndex, s.LastTickAtMs, blob,
	)
	if err != nil {
		return fmt.Errorf("updating save: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM saves WHERE save_id = $1)`, s.SaveID).Scan(&exists); err != nil {
		return fmt.Errorf("checking save: %w", err)
	}
	if exists {
		return storage.ErrStaleSave
	}
	return storage.ErrSaveNotFound
}

// List returns a summary of every save ordered by save id.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SaveRepository) List(ctx context.Context) ([]storage.Summary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT save_id, player_name, level, tick_index, updated_at
		FROM saves ORDER BY save_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	out := make([]storage.Summary, 0)
	for rows.Next() {
		var sum storage.Summary
		if err := rows.Scan(&sum.SaveID, &sum.PlayerName, &sum.Level, &sum.TickIndex, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning save row: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the save with the given id.
//
// Postcondition: Returns nil on success or storage.ErrSaveNotFound.
func (r *SaveRepository) Delete(ctx context.Context, saveID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saves WHERE save_id = $1`, saveID)
	if err != nil {
		return fmt.Errorf("deleting save: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrSaveNotFound
	}
	return nil
}

// Close closes the underlying pool.
func (r *SaveRepository) Close() error {
	r.pool.Close()
	return nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}

var _ storage.Store = (*SaveRepository)(nil)
