package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/replay"
	"github.com/cryptguard/cryptguard/internal/service"
	"github.com/cryptguard/cryptguard/models"
)

// ─────────────────────────────────────────────
// Mock: service.AuthService
// ─────────────────────────────────────────────

type mockAuthService struct {
	registerFn     func(ctx context.Context, req models.RegisterRequest) (models.Account, error)
	loginFn        func(ctx context.Context, email, password string) (models.Account, error)
	walletLoginFn  func(ctx context.Context, address, signature string) (models.Account, error)
	issueTokensFn  func(ctx context.Context, account models.Account, origin service.RequestOrigin) (models.TokenPair, error)
	refreshFn      func(ctx context.Context, refreshToken string, origin service.RequestOrigin) (models.TokenPair, error)
	logoutFn       func(ctx context.Context, accountID int64) error
	verifyAccessFn func(ctx context.Context, tokenString string) (models.Token, error)
	getAccountFn   func(ctx context.Context, accountID int64) (models.Account, error)

	verifyIdentityFn func(ctx context.Context, accountID int64, walletAddress string) error
}

func (m *mockAuthService) Register(ctx context.Context, req models.RegisterRequest) (models.Account, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return models.Account{}, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (models.Account, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return models.Account{}, nil
}

func (m *mockAuthService) WalletLogin(ctx context.Context, address, signature string) (models.Account, error) {
	if m.walletLoginFn != nil {
		return m.walletLoginFn(ctx, address, signature)
	}
	return models.Account{}, nil
}

func (m *mockAuthService) IssueTokens(ctx context.Context, account models.Account, origin service.RequestOrigin) (models.TokenPair, error) {
	if m.issueTokensFn != nil {
		return m.issueTokensFn(ctx, account, origin)
	}
	return models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string, origin service.RequestOrigin) (models.TokenPair, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, refreshToken, origin)
	}
	return models.TokenPair{}, service.ErrTokenInvalid
}

func (m *mockAuthService) Logout(ctx context.Context, accountID int64) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, accountID)
	}
	return nil
}

func (m *mockAuthService) VerifyAccess(ctx context.Context, tokenString string) (models.Token, error) {
	if m.verifyAccessFn != nil {
		return m.verifyAccessFn(ctx, tokenString)
	}
	return models.Token{}, service.ErrTokenInvalid
}

func (m *mockAuthService) GetAccount(ctx context.Context, accountID int64) (models.Account, error) {
	if m.getAccountFn != nil {
		return m.getAccountFn(ctx, accountID)
	}
	return models.Account{}, nil
}

func (m *mockAuthService) VerifyIdentity(ctx context.Context, accountID int64, walletAddress string) error {
	if m.verifyIdentityFn != nil {
		return m.verifyIdentityFn(ctx, accountID, walletAddress)
	}
	return nil
}

// mockAppInfoService implements service.AppInfoService for testing.
type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

var testHandlerConfig = config.StructuredConfig{
	App: config.App{
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 168 * time.Hour,
	},
}

func newTestHandler(auth service.AuthService) *Handler {
	services := &service.Services{
		AuthService:    auth,
		AppInfoService: &mockAppInfoService{version: "test-version"},
	}
	return NewHandler(services, testHandlerConfig, replay.NewMemoryGuard(5*time.Minute), logger.Nop())
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_ReturnsNonNil(t *testing.T) {
	h := newTestHandler(&mockAuthService{})

	require.NotNil(t, h)
	require.NotNil(t, h.validate)
	require.NotNil(t, h.guard)
}

func TestNewHandler_StoresServices(t *testing.T) {
	services := &service.Services{AuthService: &mockAuthService{}}
	h := NewHandler(services, testHandlerConfig, replay.NewMemoryGuard(time.Minute), logger.Nop())

	assert.Equal(t, services, h.services)
}

func TestNewHandler_IndependentInstances(t *testing.T) {
	h1 := newTestHandler(&mockAuthService{})
	h2 := newTestHandler(&mockAuthService{})

	assert.NotSame(t, h1, h2)
}
