package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/models"
)

// sessionRepository is the PostgreSQL-backed implementation of
// [SessionRepository]. One row per issued credential pair; a refresh
// rewrites both token hashes in place.
type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection and logger.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateSession persists a new session row and returns it with
// server-assigned fields (SessionID, CreatedAt, UpdatedAt).
func (r *sessionRepository) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createSession,
		session.AccountID, session.AccessTokenHash, session.RefreshTokenHash,
		session.IPAddress, session.UserAgent, session.ExpiresAt)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Msg("error: row is nil")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	created, err := scanSession(row)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Msg("error: scanning error")
		return models.Session{}, err
	}

	return created, nil
}

// FindSessionByRefreshHash retrieves the live session row whose stored
// refresh-token hash matches. Expired rows never match; a rotated-away
// hash never matches. Both cases surface as [ErrSessionNotFound].
func (r *sessionRepository) FindSessionByRefreshHash(ctx context.Context, refreshTokenHash string) (models.Session, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findSessionByRefreshHash, refreshTokenHash)
	if err := row.Err(); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		log.Err(err).Str("func", "*sessionRepository.FindSessionByRefreshHash").Msg("error: row is nil")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		log.Err(err).Str("func", "*sessionRepository.FindSessionByRefreshHash").Msg("error: scanning error")
		return models.Session{}, err
	}

	return session, nil
}

// RotateSession atomically replaces both token hashes on the row currently
// holding oldRefreshTokenHash and extends its expiry. The match and the
// rewrite happen in one UPDATE, so two concurrent rotations of the same
// refresh token cannot both succeed: the second matches nothing and gets
// [ErrSessionNotFound].
func (r *sessionRepository) RotateSession(ctx context.Context, oldRefreshTokenHash, newAccessTokenHash, newRefreshTokenHash string, expiresAt time.Time) (models.Session, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, rotateSession,
		newAccessTokenHash, newRefreshTokenHash, expiresAt, oldRefreshTokenHash)

	if err := row.Err(); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		log.Err(err).Str("func", "*sessionRepository.RotateSession").Msg("error: row is nil")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	rotated, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		log.Err(err).Str("func", "*sessionRepository.RotateSession").Msg("error: scanning error")
		return models.Session{}, err
	}

	return rotated, nil
}

// DeleteSessionsByAccount removes every session row owned by the account.
// Used on logout; deleting zero rows is not an error.
func (r *sessionRepository) DeleteSessionsByAccount(ctx context.Context, accountID int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteSessionsByAccount, accountID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteSessionsByAccount").Msg("error: executing delete")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// DeleteExpiredSessions removes rows past their expiry and reports how many
// were swept. Called periodically by the session sweep worker.
func (r *sessionRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteExpiredSessions)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteExpiredSessions").Msg("error: executing delete")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return affected, nil
}

// CountActiveSessions reports how many live session rows remain. Feeds the
// active-sessions gauge after each sweep.
func (r *sessionRepository) CountActiveSessions(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	var count int64
	if err := r.db.QueryRowContext(ctx, countActiveSessions).Scan(&count); err != nil {
		log.Err(err).Str("func", "*sessionRepository.CountActiveSessions").Msg("error: scanning count")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return count, nil
}

func scanSession(row *sql.Row) (models.Session, error) {
	var session models.Session
	err := row.Scan(
		&session.SessionID, &session.AccountID,
		&session.AccessTokenHash, &session.RefreshTokenHash,
		&session.IPAddress, &session.UserAgent,
		&session.ExpiresAt, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return models.Session{}, err
	}

	return session, nil
}
