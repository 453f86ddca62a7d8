package http

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/service"
	"github.com/cryptguard/cryptguard/internal/utils"
	"github.com/cryptguard/cryptguard/models"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondError(w, http.StatusBadRequest, codeValidationError, "Invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Err(err).Msg("registration request failed validation")
		respondError(w, http.StatusBadRequest, codeValidationError, "Invalid request data")
		return
	}

	account, err := h.services.AuthService.Register(ctx, req)
	if err != nil {
		log.Err(err).Msg("registration failed")
		respondServiceError(w, err)
		return
	}

	pair, err := h.services.AuthService.IssueTokens(ctx, account, originFromRequest(r))
	if err != nil {
		log.Err(err).Msg("token issuance failed")
		respondServiceError(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	respondData(w, http.StatusCreated, models.AuthResponse{
		Account:      account,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Account created")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondError(w, http.StatusBadRequest, codeValidationError, "Invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Err(err).Msg("login request failed validation")
		respondError(w, http.StatusBadRequest, codeValidationError, "Invalid request data")
		return
	}

	account, err := h.services.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Err(err).Msg("login failed")
		respondServiceError(w, err)
		return
	}

	pair, err := h.services.AuthService.IssueTokens(ctx, account, originFromRequest(r))
	if err != nil {
		log.Err(err).Msg("token issuance failed")
		respondServiceError(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	respondData(w, http.StatusOK, models.AuthResponse{
		Account:      account,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Logged in")
}

func (h *Handler) walletLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.WalletLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondError(w, http.StatusBadRequest, codeValidationError, "Invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Err(err).Msg("wallet login request failed validation")
		respondError(w, http.StatusBadRequest, codeValidationError, "Invalid request data")
		return
	}

	account, err := h.services.AuthService.WalletLogin(ctx, req.Address, req.Signature)
	if err != nil {
		log.Err(err).Str("address", req.Address).Msg("wallet login failed")
		respondServiceError(w, err)
		return
	}

	pair, err := h.services.AuthService.IssueTokens(ctx, account, originFromRequest(r))
	if err != nil {
		log.Err(err).Msg("token issuance failed")
		respondServiceError(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	respondData(w, http.StatusOK, models.AuthResponse{
		Account:      account,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Logged in")
}

// refresh rotates the refresh token presented via cookie or request body.
// Every failure clears the auth cookies so a stuck client falls back to a
// fresh login.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	refreshToken := tokenFromCookieOrBody(r)
	if refreshToken == "" {
		respondError(w, http.StatusBadRequest, codeMissingToken, "Refresh token is missing")
		return
	}

	pair, err := h.services.AuthService.Refresh(ctx, refreshToken, originFromRequest(r))
	if err != nil {
		log.Err(err).Msg("token refresh failed")
		h.clearAuthCookies(w)
		respondServiceError(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	respondData(w, http.StatusOK, pair, "Tokens refreshed")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, ok := utils.GetAccountIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no account in request context")
		respondError(w, http.StatusUnauthorized, codeInvalidToken, publicMessage(codeInvalidToken))
		return
	}

	if err := h.services.AuthService.Logout(ctx, accountID); err != nil {
		log.Err(err).Int64("account_id", accountID).Msg("logout failed")
		respondServiceError(w, err)
		return
	}

	h.clearAuthCookies(w)
	respondData(w, http.StatusOK, nil, "Logged out")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, ok := utils.GetAccountIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no account in request context")
		respondError(w, http.StatusUnauthorized, codeInvalidToken, publicMessage(codeInvalidToken))
		return
	}

	account, err := h.services.AuthService.GetAccount(ctx, accountID)
	if err != nil {
		log.Err(err).Int64("account_id", accountID).Msg("account lookup failed")
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, account, "")
}

// setAuthCookies attaches both tokens as HttpOnly cookies. The body carries
// the same values for clients that prefer the Authorization header.
func (h *Handler) setAuthCookies(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(h.app.AccessTokenDuration.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/api/auth",
		MaxAge:   int(h.app.RefreshTokenDuration.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name: accessTokenCookie, Value: "", Path: "/", MaxAge: -1,
		HttpOnly: true, Secure: true, SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name: refreshTokenCookie, Value: "", Path: "/api/auth", MaxAge: -1,
		HttpOnly: true, Secure: true, SameSite: http.SameSiteStrictMode,
	})
}

// tokenFromCookieOrBody resolves the refresh token, preferring the cookie.
func tokenFromCookieOrBody(r *http.Request) string {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

func originFromRequest(r *http.Request) service.RequestOrigin {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return service.RequestOrigin{
		IPAddress: host,
		UserAgent: r.UserAgent(),
	}
}
