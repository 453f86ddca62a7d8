package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request carries neither an access-token cookie nor an
	// "Authorization" header.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but cannot be split into at least two space-separated
	// parts (i.e. the token value is missing entirely).
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the "Authorization" header contains the
	// expected scheme prefix but the token value itself is an empty string.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")
)

// Machine-readable error codes carried in the error object of failed API
// responses. Clients branch on the code, not on the message text.
const (
	codeValidationError    = "VALIDATION_ERROR"
	codeUserExists         = "USER_EXISTS"
	codeUserNotFound       = "USER_NOT_FOUND"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeMissingToken       = "MISSING_TOKEN"
	codeInvalidToken       = "INVALID_TOKEN"
	codeIdentityMismatch   = "IDENTITY_MISMATCH"
	codeInternalError      = "INTERNAL_ERROR"

	codeMissingSecurityHeaders = "MISSING_SECURITY_HEADERS"
	codeRequestExpired         = "REQUEST_EXPIRED"
	codeReplayDetected         = "REPLAY_ATTACK_DETECTED"
	codeMissingChecksum        = "MISSING_CHECKSUM"
	codeIntegrityCheckFailed   = "INTEGRITY_CHECK_FAILED"
	codeMissingSignature       = "MISSING_SIGNATURE"
	codeInvalidSignature       = "INVALID_SIGNATURE"
)
