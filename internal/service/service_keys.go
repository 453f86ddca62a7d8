package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/crypto"
	"github.com/cryptguard/cryptguard/internal/logger"
)

const masterKeySize = 32

// keyService envelope-protects content keys under the server master key.
// The wrapped form is the base64 of nonce || tag || ciphertext.
type keyService struct {
	envelope  crypto.KeyEnvelope
	masterKey []byte
	logger    *logger.Logger
}

// NewKeyService decodes the hex master key from cfg and returns a KeyService.
// The key must decode to exactly 32 bytes.
func NewKeyService(cfg config.App, log *logger.Logger) (KeyService, error) {
	if cfg.MasterKeyHex == "" {
		return nil, fmt.Errorf("%w: master key is empty", ErrMasterKey)
	}

	masterKey, err := hex.DecodeString(cfg.MasterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: master key is not valid hex", ErrMasterKey)
	}
	if len(masterKey) != masterKeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", ErrMasterKey, masterKeySize, len(masterKey))
	}

	return &keyService{
		envelope:  crypto.NewKeyEnvelope(),
		masterKey: masterKey,
		logger:    log,
	}, nil
}

// WrapContentKey seals plainKey under the master key.
func (k *keyService) WrapContentKey(ctx context.Context, plainKey []byte) (string, error) {
	env, err := k.envelope.Wrap(plainKey, k.masterKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("content key wrap failed")
		return "", fmt.Errorf("content key wrap failed: %w", err)
	}
	return base64.StdEncoding.EncodeToString(env.Bytes()), nil
}

// UnwrapContentKey opens a wrapped content key. A forged or corrupted blob
// fails with crypto.ErrIntegrity before any plaintext is produced.
func (k *keyService) UnwrapContentKey(ctx context.Context, wrapped string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(wrapped)
	if err != nil {
		return nil, fmt.Errorf("wrapped key is not valid base64: %w", err)
	}

	env, err := crypto.ParseEnvelope(blob)
	if err != nil {
		return nil, fmt.Errorf("wrapped key is malformed: %w", err)
	}

	plainKey, err := k.envelope.Unwrap(env, k.masterKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("content key unwrap failed")
		return nil, fmt.Errorf("content key unwrap failed: %w", err)
	}
	return plainKey, nil
}

// SelfCheck round-trips a throwaway key through the envelope so a
// misconfigured master key surfaces at startup instead of on the first
// user request.
func (k *keyService) SelfCheck(ctx context.Context) error {
	sample := make([]byte, masterKeySize)
	if _, err := rand.Read(sample); err != nil {
		return fmt.Errorf("self check entropy failure: %w", err)
	}

	wrapped, err := k.WrapContentKey(ctx, sample)
	if err != nil {
		return fmt.Errorf("%w: self check wrap failed: %w", ErrMasterKey, err)
	}

	unwrapped, err := k.UnwrapContentKey(ctx, wrapped)
	if err != nil {
		return fmt.Errorf("%w: self check unwrap failed: %w", ErrMasterKey, err)
	}

	if !bytes.Equal(sample, unwrapped) {
		return fmt.Errorf("%w: self check round trip mismatch", ErrMasterKey)
	}

	k.logger.Info().Msg("master key envelope self check passed")
	return nil
}
