package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/cryptguard/cryptguard/internal/attest"
	"github.com/cryptguard/cryptguard/internal/crypto"
	"github.com/cryptguard/cryptguard/internal/logger"
)

type clientCryptoService struct {
	deriver  crypto.KeyDeriver
	envelope crypto.KeyEnvelope
	cipher   crypto.FileCipher
	verifier attest.Verifier

	mu         sync.RWMutex
	contentKey []byte

	logger *logger.Logger
}

// NewClientCryptoService constructs the client-side crypto service. verifier
// may be nil when no ledger source is configured; VerifyDownload then reports
// [attest.Unavailable] and never blocks.
func NewClientCryptoService(verifier attest.Verifier, log *logger.Logger) ClientCryptoService {
	return &clientCryptoService{
		deriver:  crypto.NewKeyDeriver(),
		envelope: crypto.NewKeyEnvelope(),
		cipher:   crypto.NewFileCipher(),
		verifier: verifier,
		logger:   log,
	}
}

func (c *clientCryptoService) DeriveFromPassword(password, email string) ([]byte, error) {
	return c.deriver.Derive([]byte(password), saltFromEmail(email))
}

func (c *clientCryptoService) DeriveFromWalletSignature(signature, address string) ([]byte, error) {
	return c.deriver.Derive([]byte(signature), crypto.SaltFromWalletAddress(address))
}

func (c *clientCryptoService) PrepareRegistration(password, email string) ([]byte, string, error) {
	contentKey, err := c.DeriveFromPassword(password, email)
	if err != nil {
		return nil, "", fmt.Errorf("derive content key: %w", err)
	}

	wrappingKey, err := c.deriver.Derive([]byte(password), wrapSaltFromEmail(email))
	if err != nil {
		return nil, "", fmt.Errorf("derive wrapping key: %w", err)
	}

	wrapped, err := c.WrapContentKey(contentKey, wrappingKey)
	if err != nil {
		return nil, "", err
	}

	return contentKey, wrapped, nil
}

func (c *clientCryptoService) WrapContentKey(plainKey, wrappingKey []byte) (string, error) {
	env, err := c.envelope.Wrap(plainKey, wrappingKey)
	if err != nil {
		return "", fmt.Errorf("wrap content key: %w", err)
	}

	return base64.StdEncoding.EncodeToString(env.Bytes()), nil
}

func (c *clientCryptoService) UnwrapContentKey(encoded string, wrappingKey []byte) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode wrapped content key: %w", err)
	}

	env, err := crypto.ParseEnvelope(blob)
	if err != nil {
		return nil, fmt.Errorf("parse wrapped content key: %w", err)
	}

	plainKey, err := c.envelope.Unwrap(env, wrappingKey)
	if err != nil {
		return nil, fmt.Errorf("unwrap content key: %w", err)
	}

	return plainKey, nil
}

func (c *clientCryptoService) SetContentKey(key []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	zero(c.contentKey)
	c.contentKey = make([]byte, len(key))
	copy(c.contentKey, key)
}

func (c *clientCryptoService) HasContentKey() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.contentKey) > 0
}

func (c *clientCryptoService) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	zero(c.contentKey)
	c.contentKey = nil
}

func (c *clientCryptoService) EncryptFile(plain []byte) ([]byte, []byte, error) {
	key, err := c.keySnapshot()
	if err != nil {
		return nil, nil, err
	}

	return c.cipher.Encrypt(plain, key)
}

func (c *clientCryptoService) DecryptFile(ciphertext, iv []byte) ([]byte, error) {
	key, err := c.keySnapshot()
	if err != nil {
		return nil, err
	}

	return c.cipher.Decrypt(ciphertext, iv, key)
}

func (c *clientCryptoService) VerifyDownload(ctx context.Context, ref string, payload []byte) attest.Result {
	if c.verifier == nil {
		return attest.Unavailable
	}

	return c.verifier.Verify(ctx, ref, payload)
}

// keySnapshot returns a copy of the installed content key so cipher calls
// never race Clear.
func (c *clientCryptoService) keySnapshot() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.contentKey) == 0 {
		return nil, ErrNoContentKey
	}

	key := make([]byte, len(c.contentKey))
	copy(key, c.contentKey)
	return key, nil
}

// saltFromEmail normalizes an email address into derivation salt.
func saltFromEmail(email string) []byte {
	return []byte(strings.ToLower(strings.TrimSpace(email)))
}

// wrapSaltFromEmail yields the salt for the registration wrapping key. It is
// prefixed so the wrapping key can never coincide with the content key
// derived from the same password and email.
func wrapSaltFromEmail(email string) []byte {
	return append([]byte("wrap:"), saltFromEmail(email)...)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
