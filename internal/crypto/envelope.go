package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

const (
	envelopeNonceSize = 12
	envelopeTagSize   = 16
)

// Envelope is a wrapped content key: the AES-GCM nonce, the authentication
// tag, and the ciphertext, in the order they are persisted. Immutable once
// written; only ever unwrapped in memory.
type Envelope struct {
	Nonce      []byte
	Tag        []byte
	Ciphertext []byte
}

// Bytes serializes the envelope into its storage layout:
// nonce (12 bytes) || tag (16 bytes) || ciphertext.
func (e Envelope) Bytes() []byte {
	blob := make([]byte, 0, len(e.Nonce)+len(e.Tag)+len(e.Ciphertext))
	blob = append(blob, e.Nonce...)
	blob = append(blob, e.Tag...)
	blob = append(blob, e.Ciphertext...)
	return blob
}

// ParseEnvelope splits a stored blob back into its envelope parts. Returns
// an error wrapping [ErrIntegrity] if the blob is too short to contain a
// nonce and a tag.
func ParseEnvelope(blob []byte) (Envelope, error) {
	if len(blob) < envelopeNonceSize+envelopeTagSize {
		return Envelope{}, fmt.Errorf("%w: envelope too short (%d bytes)", ErrIntegrity, len(blob))
	}

	return Envelope{
		Nonce:      blob[:envelopeNonceSize],
		Tag:        blob[envelopeNonceSize : envelopeNonceSize+envelopeTagSize],
		Ciphertext: blob[envelopeNonceSize+envelopeTagSize:],
	}, nil
}

// keyEnvelope is the private implementation of [KeyEnvelope].
type keyEnvelope struct{}

// NewKeyEnvelope constructs a [KeyEnvelope] backed by AES-256-GCM.
func NewKeyEnvelope() KeyEnvelope {
	return &keyEnvelope{}
}

// Wrap implements [KeyEnvelope]. It encrypts plainKey under masterKey with
// AES-256-GCM and a fresh random 12-byte nonce. The GCM seal output ends
// with the authentication tag; the tag is split out so the stored layout is
// nonce || tag || ciphertext.
func (k *keyEnvelope) Wrap(plainKey, masterKey []byte) (Envelope, error) {
	gcm, err := newGCM(masterKey)
	if err != nil {
		return Envelope{}, err
	}

	nonce := make([]byte, envelopeNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return Envelope{}, fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plainKey, nil)

	// Seal appends the tag after the ciphertext.
	split := len(sealed) - envelopeTagSize
	return Envelope{
		Nonce:      nonce,
		Tag:        sealed[split:],
		Ciphertext: sealed[:split],
	}, nil
}

// Unwrap implements [KeyEnvelope]. It reassembles the GCM input from the
// envelope parts and decrypts it. Any authentication failure, whether from
// a flipped ciphertext bit, a modified tag, or a wrong master key, fails
// with [ErrIntegrity] and no plaintext is returned.
func (k *keyEnvelope) Unwrap(envelope Envelope, masterKey []byte) ([]byte, error) {
	if len(envelope.Nonce) != envelopeNonceSize || len(envelope.Tag) != envelopeTagSize {
		return nil, fmt.Errorf("%w: malformed envelope", ErrIntegrity)
	}

	gcm, err := newGCM(masterKey)
	if err != nil {
		return nil, err
	}

	// gcm.Open expects ciphertext || tag.
	sealed := make([]byte, 0, len(envelope.Ciphertext)+len(envelope.Tag))
	sealed = append(sealed, envelope.Ciphertext...)
	sealed = append(sealed, envelope.Tag...)

	plainKey, err := gcm.Open(nil, envelope.Nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrIntegrity, err)
	}

	return plainKey, nil
}

func newGCM(masterKey []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(masterKey)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}
