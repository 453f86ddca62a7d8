package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// fileCipher is the private implementation of [FileCipher].
type fileCipher struct{}

// NewFileCipher constructs a [FileCipher] backed by AES-256-CBC with PKCS#7
// padding. CBC carries no authentication tag, so decryption alone cannot
// detect tampering; the storage boundary compares payload hashes instead.
func NewFileCipher() FileCipher {
	return &fileCipher{}
}

// Encrypt implements [FileCipher]. It pads payload to the block size and
// encrypts it under key with a fresh random 16-byte IV. The IV is returned
// separately so callers control how it travels with the ciphertext.
func (f *fileCipher) Encrypt(payload, key []byte) ([]byte, []byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, fmt.Errorf("generate iv: %w", err)
	}

	padded := padPKCS7(payload, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return ciphertext, iv, nil
}

// Decrypt implements [FileCipher]. Truncated input, a wrong key, or bad
// padding all surface as errors wrapping [ErrDecryption]. A wrong key that
// happens to produce valid-looking padding cannot be detected here.
func (f *fileCipher) Decrypt(ciphertext, iv, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: bad iv length %d", ErrDecryption, len(iv))
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a block multiple", ErrDecryption, len(ciphertext))
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	payload, err := unpadPKCS7(padded, aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecryption, err)
	}

	return payload, nil
}

// padPKCS7 appends 1..blockSize bytes, each equal to the pad length.
// A payload already aligned to the block size gets a full padding block.
func padPKCS7(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

func unpadPKCS7(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, fmt.Errorf("invalid padding byte %d", padLen)
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}

	return data[:len(data)-padLen], nil
}
