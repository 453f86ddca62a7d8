package service

import "errors"

var (
	// ErrInvalidDataProvided is returned when a request fails field-level
	// validation before touching storage.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials covers wrong password and unknown email alike
	// so the response does not reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenExpired marks a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("token is expired")

	// ErrTokenInvalid marks a token that fails signature, issuer, or
	// structural checks, or a refresh token superseded by rotation.
	ErrTokenInvalid = errors.New("token is invalid")

	// ErrIdentityMismatch is returned when a token's subject does not match
	// the identity the request is bound to. Always logged as a security
	// event, never with token contents.
	ErrIdentityMismatch = errors.New("token identity mismatch")

	// ErrWalletSignature is returned when a wallet signature does not
	// recover to the claimed address.
	ErrWalletSignature = errors.New("wallet signature verification failed")

	// ErrMasterKey is returned when the configured master key is missing,
	// malformed, or fails the startup envelope self-check.
	ErrMasterKey = errors.New("master key misconfigured")

	// ErrVersionIsNotSpecified is returned when the application version is
	// absent from the configuration.
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	// ErrNoContentKey is returned by client crypto operations invoked
	// before a content key has been derived or set.
	ErrNoContentKey = errors.New("no content key available")
)
