package crypto

// KeyDeriver deterministically derives content keys from a user secret.
// The secret may be an account password or a wallet signature over a fixed
// message; either way the same (secret, salt) pair always yields the same
// key, so the key itself never has to be persisted.
type KeyDeriver interface {
	// Derive produces a 32-byte key from secret and salt using a slow
	// password-based KDF. Returns an error wrapping [ErrDerivation] if
	// either input is empty.
	Derive(secret, salt []byte) ([]byte, error)
}

// KeyEnvelope wraps and unwraps 32-byte content keys under the process-wide
// master key using an AEAD cipher. Wrapped envelopes are safe to persist;
// the plain content key only ever exists in memory.
type KeyEnvelope interface {
	// Wrap encrypts plainKey under masterKey with a fresh random nonce.
	// The returned envelope serializes as nonce || tag || ciphertext.
	Wrap(plainKey, masterKey []byte) (Envelope, error)

	// Unwrap authenticates and decrypts the envelope. Any tag mismatch
	// fails with an error wrapping [ErrIntegrity] and no plaintext is
	// returned.
	Unwrap(envelope Envelope, masterKey []byte) ([]byte, error)
}

// FileCipher encrypts and decrypts arbitrary payloads under a derived or
// unwrapped content key. It uses an unauthenticated block cipher mode, so
// integrity must be established by an external hash comparison at the
// storage boundary.
type FileCipher interface {
	// Encrypt encrypts payload under key with a fresh random IV.
	Encrypt(payload, key []byte) (ciphertext, iv []byte, err error)

	// Decrypt reverses Encrypt. Cipher-level failures (bad padding, wrong
	// key) surface as errors wrapping [ErrDecryption].
	Decrypt(ciphertext, iv, key []byte) ([]byte, error)
}

// PasswordHasher hashes account passwords for at-rest storage and verifies
// login attempts against stored hashes.
type PasswordHasher interface {
	// Hash produces a self-describing encoded hash of the password,
	// including algorithm parameters and salt.
	Hash(password string) (string, error)

	// Verify reports whether password matches the encoded hash. A
	// malformed encoded hash is an error; a clean mismatch is (false, nil).
	Verify(password, encoded string) (bool, error)
}
