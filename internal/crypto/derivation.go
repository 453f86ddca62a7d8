// Package crypto implements the key lifecycle primitives: deterministic
// content-key derivation, master-key envelope wrapping, payload encryption,
// and password hashing. It knows nothing about the network, the database,
// or accounts.
package crypto

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// keyDeriver is the private implementation of [KeyDeriver].
type keyDeriver struct {
	// PBKDF2 tuning parameters. Stored in the struct so tests can lower the
	// iteration count without touching production values.
	iterations int
	keyLen     int
}

// NewKeyDeriver constructs a [KeyDeriver] using PBKDF2-SHA256 with
// 100,000 iterations and a 256-bit output.
func NewKeyDeriver() KeyDeriver {
	return &keyDeriver{
		iterations: 100_000,
		keyLen:     32, // 256 bits
	}
}

// Derive implements [KeyDeriver]. Identical (secret, salt) pairs always
// produce the identical key, so a wallet signature over a fixed challenge
// can stand in for a password without the key ever being persisted.
func (d *keyDeriver) Derive(secret, salt []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty secret", ErrDerivation)
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", ErrDerivation)
	}

	return pbkdf2.Key(secret, salt, d.iterations, d.keyLen, sha256.New), nil
}

// SaltFromWalletAddress normalizes a wallet address into derivation salt:
// the address is lowercased and a leading "0x" prefix is stripped. Two
// checksummed spellings of the same address therefore yield the same salt.
func SaltFromWalletAddress(address string) []byte {
	normalized := strings.ToLower(strings.TrimSpace(address))
	normalized = strings.TrimPrefix(normalized, "0x")
	return []byte(normalized)
}
