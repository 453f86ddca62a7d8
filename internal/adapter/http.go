package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/utils"
	"github.com/cryptguard/cryptguard/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client      *utils.HTTPClient
	coordinator *RefreshCoordinator

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	sessionLost  func()

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.BaseURL, configures the underlying HTTP client with the resolved
// base URL and request timeout, installs the outbound SecureChannel header
// hook for whichever mechanisms adapterCfg enables, and wires a
// [RefreshCoordinator] around the refresh endpoint with
// adapterCfg.RefreshTimeout as its round-trip bound.
//
// Returns an error if adapterCfg.BaseURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, log *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	installSecureChannel(client.Client, adapterCfg)

	h := &httpServerAdapter{client: client, logger: log}
	h.coordinator = NewRefreshCoordinator(h.refreshOnce, adapterCfg.RefreshTimeout, h.dropSession, log)

	return h, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// AccessToken implements [ServerAdapter].
func (h *httpServerAdapter) AccessToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.accessToken
}

// SetTokens implements [ServerAdapter]. Both tokens are stored
// whitespace-trimmed.
func (h *httpServerAdapter) SetTokens(accessToken, refreshToken string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.accessToken = strings.TrimSpace(accessToken)
	h.refreshToken = strings.TrimSpace(refreshToken)
}

// ClearTokens implements [ServerAdapter].
func (h *httpServerAdapter) ClearTokens() {
	h.SetTokens("", "")
}

// SetSessionLostHandler implements [ServerAdapter].
func (h *httpServerAdapter) SetSessionLostHandler(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessionLost = fn
}

// Register implements [ServerAdapter]. It POSTs the registration payload to
// POST /api/auth/register, decodes the [models.AuthResponse] from the
// envelope, and stores the returned token pair.
func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/auth/register")
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("register request: %w", err)
	}

	var auth models.AuthResponse
	if err = decodeEnvelope(resp, &auth); err != nil {
		return models.AuthResponse{}, err
	}

	h.SetTokens(auth.AccessToken, auth.RefreshToken)
	return auth, nil
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// POST /api/auth/login and stores the returned token pair.
func (h *httpServerAdapter) Login(ctx context.Context, email, password string) (models.AuthResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.LoginRequest{Email: email, Password: password}).
		Post("/api/auth/login")
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("login request: %w", err)
	}

	var auth models.AuthResponse
	if err = decodeEnvelope(resp, &auth); err != nil {
		return models.AuthResponse{}, err
	}

	h.SetTokens(auth.AccessToken, auth.RefreshToken)
	return auth, nil
}

// WalletLogin implements [ServerAdapter]. It POSTs the wallet address and
// challenge signature to POST /api/auth/wallet and stores the returned token
// pair.
func (h *httpServerAdapter) WalletLogin(ctx context.Context, address, signature string) (models.AuthResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.WalletLoginRequest{Address: address, Signature: signature}).
		Post("/api/auth/wallet")
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("wallet login request: %w", err)
	}

	var auth models.AuthResponse
	if err = decodeEnvelope(resp, &auth); err != nil {
		return models.AuthResponse{}, err
	}

	h.SetTokens(auth.AccessToken, auth.RefreshToken)
	return auth, nil
}

// Refresh implements [ServerAdapter]. The actual network call happens in
// refreshOnce; the coordinator guarantees at most one of those is in flight.
func (h *httpServerAdapter) Refresh(ctx context.Context) (models.TokenPair, error) {
	return h.coordinator.Refresh(ctx)
}

// refreshOnce performs a single refresh round trip. It is only ever invoked
// by the coordinator.
func (h *httpServerAdapter) refreshOnce(ctx context.Context) (models.TokenPair, error) {
	h.mu.RLock()
	refreshToken := h.refreshToken
	h.mu.RUnlock()

	if refreshToken == "" {
		return models.TokenPair{}, fmt.Errorf("%w: no refresh token held", ErrUnauthorized)
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RefreshRequest{RefreshToken: refreshToken}).
		Post("/api/auth/refresh")
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("refresh request: %w", err)
	}

	var pair models.TokenPair
	if err = decodeEnvelope(resp, &pair); err != nil {
		return models.TokenPair{}, err
	}

	h.SetTokens(pair.AccessToken, pair.RefreshToken)
	return pair, nil
}

// dropSession clears the stored tokens and notifies the session-lost handler.
// Called by the coordinator after a failed refresh.
func (h *httpServerAdapter) dropSession() {
	h.ClearTokens()

	h.mu.RLock()
	fn := h.sessionLost
	h.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Logout implements [ServerAdapter]. The stored tokens are dropped even when
// the server call fails, so a half-revoked session can never linger locally.
func (h *httpServerAdapter) Logout(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Post("/api/auth/logout")
	h.ClearTokens()
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}

	return mapAPIError(resp)
}

// Me implements [ServerAdapter].
func (h *httpServerAdapter) Me(ctx context.Context) (models.Account, error) {
	resp, err := h.doAuthed(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.Get("/api/auth/me")
	})
	if err != nil {
		return models.Account{}, fmt.Errorf("me request: %w", err)
	}

	var account models.Account
	if err = decodeEnvelope(resp, &account); err != nil {
		return models.Account{}, err
	}

	return account, nil
}

// ServerVersion implements [ServerAdapter]. The version endpoint replies with
// a plain-text body, not the JSON envelope.
func (h *httpServerAdapter) ServerVersion(ctx context.Context) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapAPIError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(string(resp.Body())), nil
}

// doAuthed sends an authenticated request and, on a 401 response, performs
// one coordinated refresh and retries the request once with the new access
// token. If the refresh fails the original 401 response is returned so the
// caller maps it to [ErrUnauthorized].
func (h *httpServerAdapter) doAuthed(ctx context.Context, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	resp, err := send(h.authedRequest(ctx))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusUnauthorized {
		return resp, nil
	}

	if _, err = h.Refresh(ctx); err != nil {
		return resp, nil
	}

	return send(h.authedRequest(ctx))
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.AccessToken(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
