package wallet

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// signChallenge produces a personal_sign signature over ChallengeMessage
// with a freshly generated key, the way a browser wallet would.
func signChallenge(t *testing.T) (address, signatureHex string) {
	t.Helper()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	hash := personalSignHash([]byte(ChallengeMessage))
	sig, err := crypto.Sign(hash, key)
	if err != nil {
		t.Fatalf("sign challenge: %v", err)
	}

	// Wallets emit V as 27/28.
	sig[64] += 27

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(sig)
}

func TestVerify_ValidSignature(t *testing.T) {
	verifier := NewVerifier()
	address, sigHex := signChallenge(t)

	recovered, err := verifier.Verify(address, sigHex)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !strings.EqualFold(recovered, address) {
		t.Fatalf("recovered %s, want %s", recovered, address)
	}
}

func TestVerify_CaseInsensitiveAddress(t *testing.T) {
	verifier := NewVerifier()
	address, sigHex := signChallenge(t)

	if _, err := verifier.Verify(strings.ToLower(address), sigHex); err != nil {
		t.Fatalf("lowercase address must verify: %v", err)
	}
	if _, err := verifier.Verify(strings.ToUpper(strings.TrimPrefix(address, "0x")), sigHex); err == nil {
		// all-uppercase without 0x prefix is not a hex address
		t.Fatal("expected error for malformed address")
	}
}

func TestVerify_WrongAddress(t *testing.T) {
	verifier := NewVerifier()
	_, sigHex := signChallenge(t)
	otherAddress, _ := signChallenge(t)

	if _, err := verifier.Verify(otherAddress, sigHex); err == nil {
		t.Fatal("signature from a different key must not verify")
	}
}

func TestVerify_MalformedInputs(t *testing.T) {
	verifier := NewVerifier()
	address, sigHex := signChallenge(t)

	tests := []struct {
		name      string
		address   string
		signature string
	}{
		{"empty address", "", sigHex},
		{"not an address", "0xzz", sigHex},
		{"empty signature", address, ""},
		{"not hex", address, "0xnothex"},
		{"truncated signature", address, sigHex[:len(sigHex)-4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := verifier.Verify(tt.address, tt.signature); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	verifier := NewVerifier()
	address, sigHex := signChallenge(t)

	sig, _ := hexutil.Decode(sigHex)
	sig[10] ^= 0xFF
	tampered := hexutil.Encode(sig)

	if _, err := verifier.Verify(address, tampered); err == nil {
		t.Fatal("tampered signature must not verify")
	}
}

func TestClassifyProviderError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		message string
		want    ErrorKind
	}{
		{"user rejected by code", 4001, "User rejected the request", KindUserRejected},
		{"request pending", -32002, "Request already pending", KindProviderError},
		{"timeout by message", 0, "Signature request timed out", KindTimeout},
		{"cancel by message", 0, "You cancelled the signature request", KindUserRejected},
		{"unknown", 0, "something odd happened", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyProviderError(tt.code, tt.message)
			if err.Kind != tt.want {
				t.Errorf("Kind = %s, want %s", err.Kind, tt.want)
			}
			if err.Message != tt.message {
				t.Errorf("Message = %q, want %q", err.Message, tt.message)
			}
		})
	}
}
