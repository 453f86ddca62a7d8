// Package wallet verifies Ethereum personal_sign signatures for
// wallet-based authentication and models provider failures at the
// wallet boundary.
package wallet

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ChallengeMessage is the fixed message a wallet signs to authenticate.
// Deterministic by design: the same wallet always produces recoverable
// signatures over it, so the signature can double as key-derivation input.
const ChallengeMessage = "Welcome to CryptGuard! Please sign this message to authenticate your account"

// Verifier recovers the signer address from a personal_sign signature and
// checks it against a claimed address.
type Verifier interface {
	// Verify checks that signatureHex is a valid personal_sign signature
	// over [ChallengeMessage] by the given address. The address comparison
	// is case-insensitive. Returns the recovered address on success.
	Verify(address, signatureHex string) (string, error)

	// VerifyMessage is the general form of Verify for arbitrary messages,
	// used for per-request signatures under the wallet signing scheme.
	VerifyMessage(address string, message []byte, signatureHex string) (string, error)
}

// ethVerifier is the private implementation of [Verifier].
type ethVerifier struct{}

// NewVerifier constructs a [Verifier] for Ethereum personal_sign signatures.
func NewVerifier() Verifier {
	return &ethVerifier{}
}

// Verify implements [Verifier].
func (v *ethVerifier) Verify(address, signatureHex string) (string, error) {
	return v.VerifyMessage(address, []byte(ChallengeMessage), signatureHex)
}

// VerifyMessage implements [Verifier]. personal_sign prefixes the message
// with "\x19Ethereum Signed Message:\n" + length before hashing, and wallets
// emit V as 27/28 while secp256k1 recovery expects 0/1.
func (v *ethVerifier) VerifyMessage(address string, message []byte, signatureHex string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid wallet address: %s", address)
	}

	signature, err := hexutil.Decode(signatureHex)
	if err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}
	if len(signature) != 65 {
		return "", fmt.Errorf("signature must be 65 bytes, got %d", len(signature))
	}

	hash := personalSignHash(message)

	// Normalize V to 0 or 1 for recovery without mutating the caller's slice.
	sig := make([]byte, 65)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pubKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return "", fmt.Errorf("recover public key: %w", err)
	}

	recovered := crypto.PubkeyToAddress(*pubKey)
	if !strings.EqualFold(recovered.Hex(), address) {
		return "", fmt.Errorf("signature was produced by %s, not %s", recovered.Hex(), address)
	}

	return recovered.Hex(), nil
}

// personalSignHash computes the Ethereum signed-message hash:
// keccak256("\x19Ethereum Signed Message:\n" + len(message) + message).
func personalSignHash(message []byte) []byte {
	return crypto.Keccak256(
		[]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(message))),
		message,
	)
}
