// Package adapter provides transport-layer abstractions for communicating with
// the cryptguard server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// services from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty, plus a
// [RefreshCoordinator] that serializes token refreshes so a burst of
// concurrent 401 responses never produces more than one refresh round trip.
//
// Error values defined in errors.go are mapped from the server's response
// envelope by mapAPIError so that callers can use [errors.Is] for
// transport-agnostic error handling (e.g. [ErrConflict] for 409,
// [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/cryptguard/cryptguard/models"
)

// ServerAdapter defines transport-agnostic communication with the cryptguard
// server. Implementations are responsible for serialisation, token header
// management, and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// AccessToken returns the access token currently held by the adapter,
	// or an empty string if no session has been established yet.
	AccessToken() string

	// SetTokens stores the token pair that will back all subsequent
	// authenticated requests. It is called automatically after a
	// successful Register, Login, WalletLogin, or Refresh.
	SetTokens(accessToken, refreshToken string)

	// ClearTokens drops both tokens. Subsequent authenticated requests
	// will fail with [ErrUnauthorized] until a new session is established.
	ClearTokens()

	// SetSessionLostHandler registers a callback invoked exactly once per
	// failed refresh storm, after the adapter has dropped its tokens. The
	// client uses it to clear persisted session state and force logout.
	SetSessionLostHandler(fn func())

	// Register creates a new account via POST /api/auth/register and
	// establishes a session from the returned token pair.
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)

	// Login authenticates with email and password via POST /api/auth/login
	// and establishes a session from the returned token pair.
	Login(ctx context.Context, email, password string) (models.AuthResponse, error)

	// WalletLogin authenticates with a wallet signature over the fixed
	// challenge message via POST /api/auth/wallet.
	WalletLogin(ctx context.Context, address, signature string) (models.AuthResponse, error)

	// Refresh exchanges the stored refresh token for a new token pair via
	// POST /api/auth/refresh. Concurrent calls are coalesced: exactly one
	// network refresh happens per storm and every caller receives its
	// outcome. On failure the adapter drops its tokens and notifies the
	// session-lost handler.
	Refresh(ctx context.Context) (models.TokenPair, error)

	// Logout revokes the server-side session via POST /api/auth/logout and
	// drops the stored tokens regardless of the server outcome.
	Logout(ctx context.Context) error

	// Me fetches the authenticated account profile via GET /api/auth/me.
	// A 401 response triggers one refresh-and-retry before giving up.
	Me(ctx context.Context) (models.Account, error)

	// ServerVersion fetches the server build version via GET /api/version.
	ServerVersion(ctx context.Context) (string, error)
}
