package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cryptguard/cryptguard/internal/adapter"
	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/session"
	"github.com/cryptguard/cryptguard/internal/store"
	"github.com/cryptguard/cryptguard/internal/utils"
	"github.com/cryptguard/cryptguard/models"
)

const teardownTimeout = 5 * time.Second

type clientAuthService struct {
	adapter adapter.ServerAdapter
	crypto  ClientCryptoService
	timer   *session.Timer
	logger  *logger.Logger
}

// NewClientAuthService wires the server adapter, the client crypto service,
// and the inactivity timer into one session lifecycle. It registers itself
// as the adapter's session-lost handler and as the timer's expiry callback,
// so a failed refresh storm and a run-out inactivity window both tear the
// session down the same way, exactly once.
func NewClientAuthService(serverAdapter adapter.ServerAdapter, cryptoSvc ClientCryptoService, sessionCfg config.ClientSession, states store.LocalSessionRepository, clock session.Clock, log *logger.Logger) ClientAuthService {
	a := &clientAuthService{
		adapter: serverAdapter,
		crypto:  cryptoSvc,
		logger:  log,
	}

	a.timer = session.NewTimer(sessionCfg, states, clock, session.Callbacks{
		OnWarning: func(remaining time.Duration) {
			log.Warn().Dur("remaining", remaining).Msg("session expiring soon")
		},
		OnExpired: a.teardown,
	}, log)

	serverAdapter.SetSessionLostHandler(func() {
		log.Warn().Msg("server session lost, logging out")
		a.teardown()
	})

	return a
}

func (a *clientAuthService) Register(ctx context.Context, email, password, firstName, lastName string) (models.Account, error) {
	contentKey, wrapped, err := a.crypto.PrepareRegistration(password, email)
	if err != nil {
		return models.Account{}, err
	}

	auth, err := a.adapter.Register(ctx, models.RegisterRequest{
		Email:             email,
		Password:          password,
		FirstName:         firstName,
		LastName:          lastName,
		WrappedContentKey: wrapped,
	})
	if err != nil {
		return models.Account{}, mapAdapterError(err)
	}

	return a.establishSession(ctx, auth, contentKey, "")
}

func (a *clientAuthService) LoginWithPassword(ctx context.Context, email, password string) (models.Account, error) {
	auth, err := a.adapter.Login(ctx, email, password)
	if err != nil {
		return models.Account{}, mapAdapterError(err)
	}

	contentKey, err := a.crypto.DeriveFromPassword(password, email)
	if err != nil {
		return models.Account{}, fmt.Errorf("derive content key: %w", err)
	}

	return a.establishSession(ctx, auth, contentKey, "")
}

func (a *clientAuthService) LoginWithWallet(ctx context.Context, address, signature string) (models.Account, error) {
	auth, err := a.adapter.WalletLogin(ctx, address, signature)
	if err != nil {
		return models.Account{}, mapAdapterError(err)
	}

	contentKey, err := a.crypto.DeriveFromWalletSignature(signature, address)
	if err != nil {
		return models.Account{}, fmt.Errorf("derive content key: %w", err)
	}

	return a.establishSession(ctx, auth, contentKey, address)
}

func (a *clientAuthService) Resume(ctx context.Context) (store.LocalSessionState, bool, error) {
	return a.timer.Resume(ctx)
}

func (a *clientAuthService) Logout(ctx context.Context) error {
	err := a.adapter.Logout(ctx)

	a.crypto.Clear()
	if endErr := a.timer.End(ctx); endErr != nil {
		a.logger.Warn().Err(endErr).Msg("clear persisted session on logout")
	}

	if err != nil {
		return mapAdapterError(err)
	}
	return nil
}

func (a *clientAuthService) Timer() *session.Timer {
	return a.timer
}

// establishSession installs the content key and starts the inactivity
// window after any successful authentication.
func (a *clientAuthService) establishSession(ctx context.Context, auth models.AuthResponse, contentKey []byte, walletAddress string) (models.Account, error) {
	accountID, err := utils.ParseAccountIDFromJWT(auth.AccessToken)
	if err != nil {
		return models.Account{}, fmt.Errorf("parse account id from access token: %w", err)
	}

	a.crypto.SetContentKey(contentKey)

	if err = a.timer.Start(ctx, accountID, walletAddress); err != nil {
		a.logger.Warn().Err(err).Msg("persist session start")
	}

	a.logger.Info().Int64("account_id", accountID).Msg("session established")
	return auth.Account, nil
}

// teardown drops every piece of local session state. Invoked by the timer's
// expiry callback and the adapter's session-lost handler.
func (a *clientAuthService) teardown() {
	ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()

	a.adapter.ClearTokens()
	a.crypto.Clear()
	if err := a.timer.End(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("clear persisted session on teardown")
	}
}
