package service

import (
	"context"

	"github.com/cryptguard/cryptguard/models"
)

// RequestOrigin records where a login or refresh came from. Stored on the
// session row for audit purposes.
type RequestOrigin struct {
	IPAddress string
	UserAgent string
}

// AuthService owns account registration, credential verification, and the
// token pair lifecycle.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.Account, error)
	Login(ctx context.Context, email, password string) (models.Account, error)
	WalletLogin(ctx context.Context, address, signature string) (models.Account, error)

	IssueTokens(ctx context.Context, account models.Account, origin RequestOrigin) (models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string, origin RequestOrigin) (models.TokenPair, error)
	Logout(ctx context.Context, accountID int64) error

	VerifyAccess(ctx context.Context, tokenString string) (models.Token, error)
	GetAccount(ctx context.Context, accountID int64) (models.Account, error)

	// VerifyIdentity checks that walletAddress is the wallet bound to
	// accountID. Returns ErrIdentityMismatch when the account has no bound
	// wallet or a different one.
	VerifyIdentity(ctx context.Context, accountID int64, walletAddress string) error
}

// AppInfoService exposes build metadata such as the application version.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// KeyService envelope-protects account content keys under the server master
// key. Plaintext keys exist only in memory inside its methods.
type KeyService interface {
	WrapContentKey(ctx context.Context, plainKey []byte) (string, error)
	UnwrapContentKey(ctx context.Context, wrapped string) ([]byte, error)

	// SelfCheck wraps and unwraps a throwaway key to fail fast at startup
	// when the master key is misconfigured.
	SelfCheck(ctx context.Context) error
}
