// Package storage defines the save store contract shared by the Postgres
// and SQLite repositories.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/cory-johannsen/idlerpg/internal/game/state"
)

var (
	// ErrSaveNotFound is returned when no save exists for the requested id.
	ErrSaveNotFound = errors.New("save not found")
	// ErrSaveExists is returned when creating a save whose id is already taken.
	ErrSaveExists = errors.New("save already exists")
	// ErrStaleSave is returned when a write carries an older tick index than
	// the stored save.
	ErrStaleSave = errors.New("stale save")
)

// Summary is the listing view of a stored save.
type Summary struct {
	SaveID     string
	PlayerName string
	Level      int
	TickIndex  int64
	UpdatedAt  time.Time
}

// Store persists engine snapshots keyed by save id.
type Store interface {
	// Create inserts a new save. Returns ErrSaveExists on a duplicate id.
	Create(ctx context.Context, s *state.EngineState) error
	// Get loads a save. Returns ErrSaveNotFound if absent.
	Get(ctx context.Context, saveID string) (*state.EngineState, error)
	// Put overwrites a save. Returns ErrSaveNotFound if absent and
	// ErrStaleSave if s.TickIndex is older than the stored tick index.
	Put(ctx context.Context, s *state.EngineState) error
	// List returns all saves ordered by save id.
	List(ctx context.Context) ([]Summary, error)
	// Delete removes a save. Returns ErrSaveNotFound if absent.
	Delete(ctx context.Context, saveID string) error
	// Close releases the underlying connection.
	Close() error
}
