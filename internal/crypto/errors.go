package crypto

import "errors"

var (
	// ErrDerivation is returned when key derivation inputs are empty or
	// malformed. Wrapped by [KeyDeriver.Derive].
	ErrDerivation = errors.New("key derivation failed")

	// ErrIntegrity is returned when an envelope fails authentication on
	// unwrap. It is fatal and non-retryable: either the master key is wrong
	// or the stored envelope was corrupted or tampered with.
	ErrIntegrity = errors.New("envelope integrity check failed")

	// ErrDecryption is returned when CBC decryption fails at the cipher
	// level (bad padding, wrong key, truncated input). CBC cannot detect
	// tampering on its own, so callers must verify payload hashes separately.
	ErrDecryption = errors.New("payload decryption failed")
)
