package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/crypto"
	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/metrics"
	"github.com/cryptguard/cryptguard/internal/store"
	"github.com/cryptguard/cryptguard/internal/utils"
	"github.com/cryptguard/cryptguard/internal/wallet"
	"github.com/cryptguard/cryptguard/models"
)

// authService is the concrete implementation of AuthService.
// It verifies credentials with argon2id, recovers wallet signatures over the
// fixed challenge message, and keeps one session row per issued token pair
// with both token hashes rotated in place on refresh.
type authService struct {
	accounts store.AccountRepository
	sessions store.SessionRepository

	passwordHasher crypto.PasswordHasher
	walletVerifier wallet.Verifier

	// accessSignKey and refreshSignKey are distinct secrets so an access
	// token can never pass refresh validation or vice versa.
	accessSignKey  string
	refreshSignKey string

	// tokenHashKey keys the HMAC digests stored on session rows.
	tokenHashKey string

	tokenIssuer     string
	accessDuration  time.Duration
	refreshDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given repositories
// and populated with token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(accounts store.AccountRepository, sessions store.SessionRepository, cfg config.App, log *logger.Logger) AuthService {
	return &authService{
		accounts:        accounts,
		sessions:        sessions,
		passwordHasher:  crypto.NewPasswordHasher(),
		walletVerifier:  wallet.NewVerifier(),
		accessSignKey:   cfg.AccessSignKey,
		refreshSignKey:  cfg.RefreshSignKey,
		tokenHashKey:    cfg.TokenHashKey,
		tokenIssuer:     cfg.TokenIssuer,
		accessDuration:  cfg.AccessTokenDuration,
		refreshDuration: cfg.RefreshTokenDuration,
		logger:          log,
	}
}

// Register creates an account from an already validated request. The password
// is hashed with argon2id before it ever reaches storage; the wrapped content
// key is persisted opaquely.
//
// Returns store.ErrAccountExists when the email is already taken.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.Account, error) {
	log := logger.FromContext(ctx)

	if req.Email == "" || req.Password == "" || req.WrappedContentKey == "" {
		return models.Account{}, ErrInvalidDataProvided
	}

	passwordHash, err := a.passwordHasher.Hash(req.Password)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.Account{}, fmt.Errorf("password hashing failed: %w", err)
	}

	account := models.Account{
		Email:             strings.ToLower(req.Email),
		PasswordHash:      passwordHash,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		WrappedContentKey: req.WrappedContentKey,
	}

	// A wallet only gets bound when the caller proves control of it.
	if req.WalletAddress != "" {
		recovered, err := a.walletVerifier.Verify(req.WalletAddress, req.WalletSignature)
		if err != nil {
			log.Security("wallet_bind_rejected").Str("address", req.WalletAddress).Err(err).Msg("signature recovery failed")
			return models.Account{}, fmt.Errorf("%w: %w", ErrWalletSignature, err)
		}
		account.WalletAddress = strings.ToLower(recovered)
	}

	created, err := a.accounts.CreateAccount(ctx, account)
	if err != nil {
		log.Err(err).Str("email", account.Email).Msg("account creation failed")
		return models.Account{}, fmt.Errorf("account creation failed: %w", err)
	}

	return created, nil
}

// Login authenticates by email and password. Unknown email and wrong password
// both map to ErrInvalidCredentials.
func (a *authService) Login(ctx context.Context, email, password string) (models.Account, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		return models.Account{}, ErrInvalidDataProvided
	}

	account, err := a.accounts.FindAccountByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			metrics.RecordLogin("password", false)
			return models.Account{}, ErrInvalidCredentials
		}
		log.Err(err).Msg("account lookup failed")
		return models.Account{}, fmt.Errorf("account lookup failed: %w", err)
	}

	ok, err := a.passwordHasher.Verify(password, account.PasswordHash)
	if err != nil {
		log.Err(err).Int64("account_id", account.AccountID).Msg("password verification failed")
		return models.Account{}, fmt.Errorf("password verification failed: %w", err)
	}
	if !ok {
		metrics.RecordLogin("password", false)
		log.Security("invalid_credentials").Int64("account_id", account.AccountID).Msg("wrong password")
		return models.Account{}, ErrInvalidCredentials
	}

	if err := a.accounts.UpdateLastLogin(ctx, account.AccountID); err != nil {
		log.Warn().Err(err).Int64("account_id", account.AccountID).Msg("last login update failed")
	}

	metrics.RecordLogin("password", true)
	return account, nil
}

// WalletLogin authenticates by a personal_sign signature over the fixed
// challenge message. The signature must recover to the claimed address and
// the address must already be bound to an account.
func (a *authService) WalletLogin(ctx context.Context, address, signature string) (models.Account, error) {
	log := logger.FromContext(ctx)

	if address == "" || signature == "" {
		return models.Account{}, ErrInvalidDataProvided
	}

	recovered, err := a.walletVerifier.Verify(address, signature)
	if err != nil {
		metrics.RecordLogin("wallet", false)
		log.Security("wallet_signature_rejected").Str("address", address).Err(err).Msg("signature recovery failed")
		return models.Account{}, fmt.Errorf("%w: %w", ErrWalletSignature, err)
	}

	account, err := a.accounts.FindAccountByWallet(ctx, strings.ToLower(recovered))
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			metrics.RecordLogin("wallet", false)
			return models.Account{}, store.ErrAccountNotFound
		}
		log.Err(err).Msg("account lookup by wallet failed")
		return models.Account{}, fmt.Errorf("account lookup by wallet failed: %w", err)
	}

	if err := a.accounts.UpdateLastLogin(ctx, account.AccountID); err != nil {
		log.Warn().Err(err).Int64("account_id", account.AccountID).Msg("last login update failed")
	}

	metrics.RecordLogin("wallet", true)
	return account, nil
}

// IssueTokens signs a fresh access/refresh pair for account and persists a
// session row holding keyed hashes of both tokens.
func (a *authService) IssueTokens(ctx context.Context, account models.Account, origin RequestOrigin) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	pair, expiresAt, err := a.signPair(account)
	if err != nil {
		log.Err(err).Int64("account_id", account.AccountID).Msg("token generation failed")
		return models.TokenPair{}, err
	}

	session := models.Session{
		AccountID:        account.AccountID,
		AccessTokenHash:  utils.HashString(pair.AccessToken, a.tokenHashKey),
		RefreshTokenHash: utils.HashString(pair.RefreshToken, a.tokenHashKey),
		IPAddress:        origin.IPAddress,
		UserAgent:        origin.UserAgent,
		ExpiresAt:        expiresAt,
	}
	if _, err := a.sessions.CreateSession(ctx, session); err != nil {
		log.Err(err).Int64("account_id", account.AccountID).Msg("session creation failed")
		return models.TokenPair{}, fmt.Errorf("session creation failed: %w", err)
	}

	return pair, nil
}

// Refresh validates refreshToken and rotates its session row to a freshly
// signed pair in a single atomic update. A superseded or unknown refresh
// token no longer matches any row and is rejected with ErrTokenInvalid, so
// each refresh token is usable at most once.
func (a *authService) Refresh(ctx context.Context, refreshToken string, origin RequestOrigin) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(refreshToken, a.refreshSignKey, a.tokenIssuer)
	if err != nil {
		metrics.RecordTokenRefresh(false)
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.TokenPair{}, ErrTokenExpired
		}
		return models.TokenPair{}, ErrTokenInvalid
	}

	account, err := a.accounts.GetAccountByID(ctx, token.AccountID)
	if err != nil {
		metrics.RecordTokenRefresh(false)
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.TokenPair{}, ErrTokenInvalid
		}
		log.Err(err).Int64("account_id", token.AccountID).Msg("account lookup failed")
		return models.TokenPair{}, fmt.Errorf("account lookup failed: %w", err)
	}

	pair, expiresAt, err := a.signPair(account)
	if err != nil {
		metrics.RecordTokenRefresh(false)
		log.Err(err).Int64("account_id", account.AccountID).Msg("token generation failed")
		return models.TokenPair{}, err
	}

	oldHash := utils.HashString(refreshToken, a.tokenHashKey)
	rotated, err := a.sessions.RotateSession(ctx,
		oldHash,
		utils.HashString(pair.AccessToken, a.tokenHashKey),
		utils.HashString(pair.RefreshToken, a.tokenHashKey),
		expiresAt,
	)
	if err != nil {
		metrics.RecordTokenRefresh(false)
		if errors.Is(err, store.ErrSessionNotFound) {
			log.Security("refresh_token_reuse").Int64("account_id", account.AccountID).Msg("refresh token matched no session")
			return models.TokenPair{}, ErrTokenInvalid
		}
		log.Err(err).Int64("account_id", account.AccountID).Msg("session rotation failed")
		return models.TokenPair{}, fmt.Errorf("session rotation failed: %w", err)
	}

	if rotated.AccountID != token.AccountID {
		metrics.RecordTokenRefresh(false)
		metrics.RecordSecurityEvent("identity_mismatch")
		log.Security("identity_mismatch").
			Int64("token_account_id", token.AccountID).
			Int64("session_account_id", rotated.AccountID).
			Msg("refresh token bound to a different account")
		return models.TokenPair{}, ErrIdentityMismatch
	}

	metrics.RecordTokenRefresh(true)
	return pair, nil
}

// Logout deletes every session row owned by accountID, invalidating all
// outstanding refresh tokens.
func (a *authService) Logout(ctx context.Context, accountID int64) error {
	if err := a.sessions.DeleteSessionsByAccount(ctx, accountID); err != nil {
		logger.FromContext(ctx).Err(err).Int64("account_id", accountID).Msg("session deletion failed")
		return fmt.Errorf("session deletion failed: %w", err)
	}
	return nil
}

// VerifyAccess validates an access token string. Expired tokens and invalid
// tokens are distinguished so the transport layer can answer with the right
// error code.
func (a *authService) VerifyAccess(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.accessSignKey, a.tokenIssuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Token{}, ErrTokenExpired
		}
		return models.Token{}, ErrTokenInvalid
	}
	return token, nil
}

// GetAccount loads a profile by id.
func (a *authService) GetAccount(ctx context.Context, accountID int64) (models.Account, error) {
	account, err := a.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return models.Account{}, fmt.Errorf("account lookup failed: %w", err)
	}
	return account, nil
}

// VerifyIdentity enforces the binding between the authenticated account and a
// request-supplied wallet address. The comparison is case-insensitive; an
// account without a bound wallet never matches.
func (a *authService) VerifyIdentity(ctx context.Context, accountID int64, walletAddress string) error {
	log := logger.FromContext(ctx)

	account, err := a.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		log.Err(err).Int64("account_id", accountID).Msg("account lookup failed")
		return fmt.Errorf("account lookup failed: %w", err)
	}

	if account.WalletAddress == "" || !strings.EqualFold(account.WalletAddress, walletAddress) {
		metrics.RecordSecurityEvent("identity_mismatch")
		log.Security("identity_mismatch").
			Int64("account_id", accountID).
			Str("claimed_address", walletAddress).
			Msg("request-supplied wallet does not match the authenticated account")
		return ErrIdentityMismatch
	}

	return nil
}

// signPair signs the access and refresh tokens for account with their
// respective keys. The refresh token carries no email claim.
func (a *authService) signPair(account models.Account) (models.TokenPair, time.Time, error) {
	access, err := utils.GenerateJWTToken(a.tokenIssuer, account.AccountID, account.Email, a.accessDuration, a.accessSignKey)
	if err != nil {
		return models.TokenPair{}, time.Time{}, fmt.Errorf("access token generation failed: %w", err)
	}

	refresh, err := utils.GenerateJWTToken(a.tokenIssuer, account.AccountID, "", a.refreshDuration, a.refreshSignKey)
	if err != nil {
		return models.TokenPair{}, time.Time{}, fmt.Errorf("refresh token generation failed: %w", err)
	}

	pair := models.TokenPair{
		AccessToken:  access.SignedString,
		RefreshToken: refresh.SignedString,
	}
	return pair, refresh.ExpiresAt.Time, nil
}
