package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"testing"
)

func randomKey(t *testing.T, n int) []byte {
	t.Helper()
	key := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		t.Fatalf("read random key: %v", err)
	}
	return key
}

func TestEnvelope_RoundTrip(t *testing.T) {
	env := NewKeyEnvelope()
	masterKey := randomKey(t, 32)
	contentKey := randomKey(t, 32)

	wrapped, err := env.Wrap(contentKey, masterKey)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}

	if len(wrapped.Nonce) != 12 {
		t.Errorf("nonce length = %d, want 12", len(wrapped.Nonce))
	}
	if len(wrapped.Tag) != 16 {
		t.Errorf("tag length = %d, want 16", len(wrapped.Tag))
	}
	if bytes.Equal(wrapped.Ciphertext, contentKey) {
		t.Error("ciphertext must not equal the plain key")
	}

	unwrapped, err := env.Unwrap(wrapped, masterKey)
	if err != nil {
		t.Fatalf("Unwrap error: %v", err)
	}
	if !bytes.Equal(unwrapped, contentKey) {
		t.Fatal("round trip must return the original key")
	}
}

func TestEnvelope_FreshNoncePerWrap(t *testing.T) {
	env := NewKeyEnvelope()
	masterKey := randomKey(t, 32)
	contentKey := randomKey(t, 32)

	w1, err := env.Wrap(contentKey, masterKey)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	w2, err := env.Wrap(contentKey, masterKey)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}

	if bytes.Equal(w1.Nonce, w2.Nonce) {
		t.Fatal("each wrap must use a fresh nonce")
	}
	if bytes.Equal(w1.Ciphertext, w2.Ciphertext) {
		t.Fatal("same key wrapped twice must produce different ciphertexts")
	}
}

func TestEnvelope_BitFlipFailsClosed(t *testing.T) {
	env := NewKeyEnvelope()
	masterKey := randomKey(t, 32)
	contentKey := randomKey(t, 32)

	wrapped, err := env.Wrap(contentKey, masterKey)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}

	// Flip every single bit in the ciphertext and the tag, one at a time.
	// Unwrap must reject all of them and never return plaintext.
	for _, section := range []struct {
		name string
		data []byte
	}{
		{"ciphertext", wrapped.Ciphertext},
		{"tag", wrapped.Tag},
	} {
		for byteIdx := range section.data {
			for bit := 0; bit < 8; bit++ {
				section.data[byteIdx] ^= 1 << bit

				plain, err := env.Unwrap(wrapped, masterKey)
				if !errors.Is(err, ErrIntegrity) {
					t.Fatalf("%s byte %d bit %d: got err %v, want ErrIntegrity", section.name, byteIdx, bit, err)
				}
				if plain != nil {
					t.Fatalf("%s byte %d bit %d: corrupted envelope returned plaintext", section.name, byteIdx, bit)
				}

				section.data[byteIdx] ^= 1 << bit
			}
		}
	}
}

func TestEnvelope_WrongMasterKey(t *testing.T) {
	env := NewKeyEnvelope()
	contentKey := randomKey(t, 32)

	wrapped, err := env.Wrap(contentKey, randomKey(t, 32))
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}

	if _, err := env.Unwrap(wrapped, randomKey(t, 32)); !errors.Is(err, ErrIntegrity) {
		t.Fatalf("wrong master key: got %v, want ErrIntegrity", err)
	}
}

func TestEnvelope_StorageLayoutRoundTrip(t *testing.T) {
	env := NewKeyEnvelope()
	masterKey := randomKey(t, 32)
	contentKey := randomKey(t, 32)

	wrapped, err := env.Wrap(contentKey, masterKey)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}

	blob := wrapped.Bytes()
	if len(blob) != 12+16+len(wrapped.Ciphertext) {
		t.Fatalf("blob length = %d, want %d", len(blob), 12+16+len(wrapped.Ciphertext))
	}

	parsed, err := ParseEnvelope(blob)
	if err != nil {
		t.Fatalf("ParseEnvelope error: %v", err)
	}

	unwrapped, err := env.Unwrap(parsed, masterKey)
	if err != nil {
		t.Fatalf("Unwrap after parse error: %v", err)
	}
	if !bytes.Equal(unwrapped, contentKey) {
		t.Fatal("serialize-parse-unwrap must return the original key")
	}
}

func TestParseEnvelope_TooShort(t *testing.T) {
	if _, err := ParseEnvelope(make([]byte, 27)); !errors.Is(err, ErrIntegrity) {
		t.Fatalf("short blob: got %v, want ErrIntegrity", err)
	}
}
