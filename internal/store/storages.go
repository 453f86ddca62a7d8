package store

import (
	"context"
	"fmt"

	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/logger"
)

// Storages groups the server-side repositories into a single value that can
// be passed to the service layer.
type Storages struct {
	AccountRepository AccountRepository
	SessionRepository SessionRepository
}

// NewStorages connects to PostgreSQL, applies pending migrations, and wires
// the repositories.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Storages{
		AccountRepository: NewAccountRepository(db, log),
		SessionRepository: NewSessionRepository(db, log),
	}, nil
}
