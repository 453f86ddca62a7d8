package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cryptguard/cryptguard/internal/logger"
)

// ErrLocalSessionNotFound is returned when no session state has been
// persisted locally.
var ErrLocalSessionNotFound = errors.New("local session not found")

// LocalSessionState is the client's persisted view of the active session:
// who is logged in and when the inactivity timer started. Restoring it
// after a restart lets the timer resume mid-session instead of resetting.
// Secrets (derived keys, plaintext tokens) are never stored here.
type LocalSessionState struct {
	AccountID      int64
	WalletAddress  string
	StartedAt      time.Time
	LastActivityAt time.Time
}

// LocalSessionRepository persists the single active session state on the
// client device.
type LocalSessionRepository interface {
	SaveSessionState(ctx context.Context, state LocalSessionState) error
	LoadSessionState(ctx context.Context) (LocalSessionState, error)
	ClearSessionState(ctx context.Context) error
}

const (
	createSessionStateTable = `CREATE TABLE IF NOT EXISTS session_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		account_id INTEGER NOT NULL,
		wallet_address TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMP NOT NULL,
		last_activity_at TIMESTAMP NOT NULL
	);`

	upsertSessionState = `INSERT INTO session_state (id, account_id, wallet_address, started_at, last_activity_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			account_id = excluded.account_id,
			wallet_address = excluded.wallet_address,
			started_at = excluded.started_at,
			last_activity_at = excluded.last_activity_at;`

	selectSessionState = `SELECT account_id, wallet_address, started_at, last_activity_at
		FROM session_state
		WHERE id = 1;`

	deleteSessionState = `DELETE FROM session_state WHERE id = 1;`
)

// localSessionRepository is the SQLite-backed implementation of
// [LocalSessionRepository]. A CHECK constraint pins the table to one row.
type localSessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewLocalSessionRepository constructs a [LocalSessionRepository] and
// ensures its schema exists.
func NewLocalSessionRepository(ctx context.Context, db *DB, log *logger.Logger) (LocalSessionRepository, error) {
	if _, err := db.ExecContext(ctx, createSessionStateTable); err != nil {
		log.Err(err).Str("func", "NewLocalSessionRepository").Msg("error creating session_state table")
		return nil, fmt.Errorf("create session_state table: %w", err)
	}

	return &localSessionRepository{db: db, logger: log}, nil
}

// SaveSessionState writes or overwrites the single persisted session row.
func (r *localSessionRepository) SaveSessionState(ctx context.Context, state LocalSessionState) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, upsertSessionState,
		state.AccountID, state.WalletAddress, state.StartedAt, state.LastActivityAt)
	if err != nil {
		log.Err(err).Str("func", "*localSessionRepository.SaveSessionState").Msg("error: executing upsert")
		return fmt.Errorf("save session state: %w", err)
	}

	return nil
}

// LoadSessionState reads the persisted session row, if any.
func (r *localSessionRepository) LoadSessionState(ctx context.Context) (LocalSessionState, error) {
	log := logger.FromContext(ctx)

	var state LocalSessionState
	row := r.db.QueryRowContext(ctx, selectSessionState)
	err := row.Scan(&state.AccountID, &state.WalletAddress, &state.StartedAt, &state.LastActivityAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LocalSessionState{}, ErrLocalSessionNotFound
		}
		log.Err(err).Str("func", "*localSessionRepository.LoadSessionState").Msg("error: scanning error")
		return LocalSessionState{}, fmt.Errorf("load session state: %w", err)
	}

	return state, nil
}

// ClearSessionState removes the persisted session row. Clearing an already
// empty store is not an error.
func (r *localSessionRepository) ClearSessionState(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteSessionState); err != nil {
		log.Err(err).Str("func", "*localSessionRepository.ClearSessionState").Msg("error: executing delete")
		return fmt.Errorf("clear session state: %w", err)
	}

	return nil
}
