package store

import (
	"context"
	"errors"
	"time"

	"github.com/jotterhq/jotter/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories to keep concerns tidy and testable.
type Store interface {
	Users() Users
	RefreshSessions() RefreshSessions
	Notes() Notes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns nil
	// and rolling back otherwise. Multi-step session operations (rotation,
	// replace-on-login) go through this.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store: the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Duplicate email or username surfaces as ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// DeleteUser cascades to refresh_sessions and notes (per schema).
	DeleteUser(ctx context.Context, id string) error
}

type RefreshSessions interface {
	// CreateSession inserts a session record. The partial unique index on
	// (user_id, device_id) for active rows surfaces a second live session for
	// the same device as ErrAlreadyExists.
	CreateSession(ctx context.Context, s domain.RefreshSession) error

	GetSessionByID(ctx context.Context, id string) (domain.RefreshSession, error)

	// GetActiveSession returns the single live session for (user, device).
	GetActiveSession(ctx context.Context, userID, deviceID string) (domain.RefreshSession, error)

	// SetSessionState transitions the session with the given id and bumps
	// updated_at. Missing rows surface as ErrNotFound.
	SetSessionState(ctx context.Context, id string, state domain.SessionState) error

	// RevokeActiveSessionsForUser marks every live session of the user
	// revoked. Used by signup's replace-all sweep.
	RevokeActiveSessionsForUser(ctx context.Context, userID string) error

	// RevokeActiveSessionsForUserDevice marks the user's live session on one
	// device revoked. Used by login's replace-on-device.
	RevokeActiveSessionsForUserDevice(ctx context.Context, userID, deviceID string) error

	// RevokeActiveSessionsForDevice marks live sessions carrying the device
	// id revoked regardless of user. Cleanup path for unverifiable refresh
	// tokens, where no trusted user identity exists.
	RevokeActiveSessionsForDevice(ctx context.Context, deviceID string) error

	// DeleteSessionsForUser hard-deletes every session row of the user.
	DeleteSessionsForUser(ctx context.Context, userID string) error

	// PurgeDeadSessions hard-deletes rows that are no longer active or have
	// passed their expiry, returning how many went. Housekeeping calls this.
	PurgeDeadSessions(ctx context.Context, now time.Time) (int64, error)
}

type Notes interface {
	CreateNote(ctx context.Context, n domain.Note) error

	// GetNote is owner-scoped: a note belonging to another user reads as
	// ErrNotFound.
	GetNote(ctx context.Context, userID, noteID string) (domain.Note, error)

	// ListNotesByUser returns the user's notes newest first.
	ListNotesByUser(ctx context.Context, userID string) ([]domain.Note, error)

	// UpdateNote rewrites title and value for the owner's note and bumps
	// updated_at. Missing or foreign notes surface as ErrNotFound.
	UpdateNote(ctx context.Context, n domain.Note) error

	// DeleteNote removes the owner's note. Missing or foreign notes surface
	// as ErrNotFound.
	DeleteNote(ctx context.Context, userID, noteID string) error
}
