package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidMasterKey indicates the master key is not valid hex or does
	// not decode to exactly 32 bytes.
	ErrInvalidMasterKey = errors.New("master key must be 32 bytes of hex")
	// ErrInvalidSecurityConfigs indicates inconsistent SecureChannel
	// settings (for example, HMAC signing enabled without a secret).
	ErrInvalidSecurityConfigs = errors.New("invalid security configuration")
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing base URL or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidSessionConfigs indicates invalid client session timer
	// settings (for example, a warning lead longer than the session itself).
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidStorageConfigs indicates invalid client storage settings
	// (for example, an empty SQLite DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
