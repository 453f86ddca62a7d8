package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/service"
	"github.com/cryptguard/cryptguard/internal/utils"
)

// auth enforces access-token authentication.
//
// The token is resolved from the accessToken cookie first, then from the
// "Authorization: Bearer" header. On success the account id from the token
// subject is stored in the request context under [utils.AccountIDCtxKey].
//
// A missing token answers 400 with code MISSING_TOKEN; an expired or
// otherwise invalid token answers 401 with code INVALID_TOKEN.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := accessTokenFromRequest(r)
		if err != nil {
			log.Err(err).Send()
			respondError(w, http.StatusBadRequest, codeMissingToken, publicMessage(codeMissingToken))
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.VerifyAccess(ctx, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				log.Err(err).Msg("token expired")
			default:
				log.Err(err).Msg("token rejected")
			}
			respondError(w, http.StatusUnauthorized, codeInvalidToken, publicMessage(codeInvalidToken))
			return
		}

		// A request that names a wallet identity must name the one bound to
		// the authenticated account.
		if claimed := claimedWalletAddress(r); claimed != "" {
			if err := h.services.AuthService.VerifyIdentity(ctx, token.AccountID, claimed); err != nil {
				log.Err(err).Int64("account_id", token.AccountID).Msg("identity binding rejected")
				respondServiceError(w, err)
				return
			}
		}

		// Store the authenticated account id in the context so downstream
		// handlers never re-parse the token.
		ctx = context.WithValue(ctx, utils.AccountIDCtxKey, token.AccountID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// claimedWalletAddress resolves the wallet identity a request claims to act
// as: the X-Wallet-Address header first, then the address query parameter.
func claimedWalletAddress(r *http.Request) string {
	if address := r.Header.Get(headerWalletAddress); address != "" {
		return address
	}
	return r.URL.Query().Get("address")
}

// accessTokenFromRequest resolves the access token from the cookie or the
// "Authorization" header, in that order.
func accessTokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrEmptyAuthorizationHeader
	}
	return getTokenFromAuthHeader(authHeader)
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value of the form "<scheme> <token>".
//
// It returns the following sentinel errors:
//   - [ErrInvalidAuthorizationHeader] — if the header contains fewer than
//     two space-separated parts (i.e. the token is missing entirely).
//   - [ErrEmptyToken] — if the second part exists but is an empty string.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
