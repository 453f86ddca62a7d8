package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cryptguard/cryptguard/internal/adapter"
	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/service"
	"github.com/cryptguard/cryptguard/internal/session"
	"github.com/cryptguard/cryptguard/internal/store"
)

const tickInterval = time.Second

// Credentials selects the login flow. A wallet address and challenge
// signature take precedence over email and password.
type Credentials struct {
	Email    string
	Password string

	WalletAddress   string
	WalletSignature string
}

// App is the headless client application.
type App struct {
	services *service.ClientServices
	logger   *logger.Logger
}

// NewApp wires the client runtime: HTTP adapter, local SQLite session state,
// and the client service graph.
func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	db, err := store.NewConnectSQLite(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	states, err := store.NewLocalSessionRepository(ctx, db, log)
	if err != nil {
		return nil, fmt.Errorf("create local session store: %w", err)
	}

	services := service.NewClientServices(serverAdapter, states, cfg.Session, nil, log)

	return &App{services: services, logger: log}, nil
}

// Run implements [Client]. It resumes any persisted inactivity window, logs
// in with the given credentials, and then drives the session timer until the
// session ends or ctx is cancelled. Cancellation logs the session out before
// returning.
func (a *App) Run(ctx context.Context, creds Credentials) error {
	auth := a.services.Auth

	if persisted, resumed, err := auth.Resume(ctx); err != nil {
		return fmt.Errorf("resume session: %w", err)
	} else if resumed {
		a.logger.Info().
			Int64("account_id", persisted.AccountID).
			Dur("remaining", auth.Timer().Remaining()).
			Msg("resumed inactivity window from previous run")
	}

	var err error
	switch {
	case creds.WalletAddress != "":
		_, err = auth.LoginWithWallet(ctx, creds.WalletAddress, creds.WalletSignature)
	case creds.Email != "":
		_, err = auth.LoginWithPassword(ctx, creds.Email, creds.Password)
	default:
		return errors.New("no credentials provided")
	}
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	go auth.Timer().Run(ctx, tickInterval)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := auth.Logout(logoutCtx); err != nil {
				a.logger.Warn().Err(err).Msg("logout on shutdown")
			}
			return nil

		case <-ticker.C:
			// The expiry callback tears the session down to Inactive;
			// once that happens there is nothing left to keep alive.
			if auth.Timer().State() == session.StateInactive {
				a.logger.Info().Msg("session ended")
				return nil
			}
		}
	}
}
