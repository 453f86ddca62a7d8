package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/crypto"
	"github.com/cryptguard/cryptguard/internal/logger"
)

func newTestKeyService(t *testing.T) KeyService {
	t.Helper()

	masterKey := make([]byte, 32)
	_, err := rand.Read(masterKey)
	require.NoError(t, err)

	svc, err := NewKeyService(config.App{MasterKeyHex: hex.EncodeToString(masterKey)}, logger.NewLogger("test"))
	require.NoError(t, err)
	return svc
}

func TestNewKeyService_InvalidMasterKey(t *testing.T) {
	tests := []struct {
		name         string
		masterKeyHex string
	}{
		{name: "empty", masterKeyHex: ""},
		{name: "not hex", masterKeyHex: "zz" + hex.EncodeToString(make([]byte, 31))},
		{name: "too short", masterKeyHex: hex.EncodeToString(make([]byte, 16))},
		{name: "too long", masterKeyHex: hex.EncodeToString(make([]byte, 48))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKeyService(config.App{MasterKeyHex: tt.masterKeyHex}, logger.NewLogger("test"))
			assert.ErrorIs(t, err, ErrMasterKey)
		})
	}
}

func TestKeyService_WrapUnwrapRoundTrip(t *testing.T) {
	svc := newTestKeyService(t)
	ctx := context.Background()

	contentKey := make([]byte, 32)
	_, err := rand.Read(contentKey)
	require.NoError(t, err)

	wrapped, err := svc.WrapContentKey(ctx, contentKey)
	require.NoError(t, err)
	assert.NotContains(t, wrapped, base64.StdEncoding.EncodeToString(contentKey))

	unwrapped, err := svc.UnwrapContentKey(ctx, wrapped)
	require.NoError(t, err)
	assert.Equal(t, contentKey, unwrapped)
}

func TestKeyService_UnwrapTamperedBlob(t *testing.T) {
	svc := newTestKeyService(t)
	ctx := context.Background()

	wrapped, err := svc.WrapContentKey(ctx, []byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	blob, err := base64.StdEncoding.DecodeString(wrapped)
	require.NoError(t, err)
	blob[len(blob)-1] ^= 0x01

	_, err = svc.UnwrapContentKey(ctx, base64.StdEncoding.EncodeToString(blob))
	assert.ErrorIs(t, err, crypto.ErrIntegrity)
}

func TestKeyService_UnwrapMalformedInput(t *testing.T) {
	svc := newTestKeyService(t)
	ctx := context.Background()

	_, err := svc.UnwrapContentKey(ctx, "not base64!!!")
	assert.Error(t, err)

	// valid base64 but shorter than nonce plus tag
	_, err = svc.UnwrapContentKey(ctx, base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}

func TestKeyService_WrongMasterKeyFailsUnwrap(t *testing.T) {
	ctx := context.Background()

	first := newTestKeyService(t)
	second := newTestKeyService(t)

	wrapped, err := first.WrapContentKey(ctx, []byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	_, err = second.UnwrapContentKey(ctx, wrapped)
	assert.ErrorIs(t, err, crypto.ErrIntegrity)
}

func TestKeyService_SelfCheck(t *testing.T) {
	svc := newTestKeyService(t)

	assert.NoError(t, svc.SelfCheck(context.Background()))
}
