package service

import (
	"errors"
	"strings"

	"github.com/cryptguard/cryptguard/internal/adapter"
	"github.com/cryptguard/cryptguard/internal/store"
)

// mapAdapterError translates the adapter's transport error into a service
// business error. The adapter keeps the server's error code in the wrap, so
// ambiguous statuses (401 covers both bad credentials and bad tokens) are
// disambiguated by code.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		if strings.Contains(msg, "MISSING_TOKEN") {
			return ErrTokenInvalid
		}
		return ErrInvalidDataProvided

	case errors.Is(err, adapter.ErrUnauthorized):
		if strings.Contains(msg, "INVALID_TOKEN") {
			return ErrTokenInvalid
		}
		return ErrInvalidCredentials

	case errors.Is(err, adapter.ErrForbidden):
		return ErrIdentityMismatch

	case errors.Is(err, adapter.ErrNotFound):
		return store.ErrAccountNotFound

	case errors.Is(err, adapter.ErrConflict):
		return store.ErrAccountExists
	}

	return err
}
