package store

import (
	"context"
	"time"

	"github.com/cryptguard/cryptguard/models"
)

// AccountRepository persists account records.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	FindAccountByEmail(ctx context.Context, email string) (models.Account, error)
	FindAccountByWallet(ctx context.Context, walletAddress string) (models.Account, error)
	GetAccountByID(ctx context.Context, accountID int64) (models.Account, error)
	UpdateLastLogin(ctx context.Context, accountID int64) error
}

// SessionRepository persists session rows keyed by token hashes. Lookups go
// through the refresh-token hash, so a rotated session is unreachable via
// its superseded refresh token.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session) (models.Session, error)
	FindSessionByRefreshHash(ctx context.Context, refreshTokenHash string) (models.Session, error)
	RotateSession(ctx context.Context, oldRefreshTokenHash, newAccessTokenHash, newRefreshTokenHash string, expiresAt time.Time) (models.Session, error)
	DeleteSessionsByAccount(ctx context.Context, accountID int64) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
	CountActiveSessions(ctx context.Context) (int64, error)
}
