package http

import (
	"errors"
	"net/http"

	"github.com/cryptguard/cryptguard/internal/service"
	"github.com/cryptguard/cryptguard/internal/store"
)

type errorResponse struct {
	status int
	code   string
}

var errorResponseMap = map[error]errorResponse{
	service.ErrInvalidDataProvided: {http.StatusBadRequest, codeValidationError},
	service.ErrInvalidCredentials:  {http.StatusUnauthorized, codeInvalidCredentials},
	service.ErrWalletSignature:     {http.StatusUnauthorized, codeInvalidCredentials},
	service.ErrTokenExpired:        {http.StatusUnauthorized, codeInvalidToken},
	service.ErrTokenInvalid:        {http.StatusUnauthorized, codeInvalidToken},
	service.ErrIdentityMismatch:    {http.StatusForbidden, codeIdentityMismatch},

	store.ErrAccountExists:   {http.StatusConflict, codeUserExists},
	store.ErrAccountNotFound: {http.StatusNotFound, codeUserNotFound},
	store.ErrSessionNotFound: {http.StatusUnauthorized, codeInvalidToken},

	store.ErrBuildingSQLQuery: {http.StatusInternalServerError, codeInternalError},
	store.ErrExecutingQuery:   {http.StatusInternalServerError, codeInternalError},
	store.ErrScanningRow:      {http.StatusInternalServerError, codeInternalError},
}

func responseFromError(err error) errorResponse {
	for target, response := range errorResponseMap {
		if errors.Is(err, target) {
			return response
		}
	}
	return errorResponse{http.StatusInternalServerError, codeInternalError}
}
