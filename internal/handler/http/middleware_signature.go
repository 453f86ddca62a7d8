package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/metrics"
)

// requestSignature verifies a per-request signature over the method, path,
// timestamp, and body checksum. Two schemes are supported:
//
//   - "hmac": hex HMAC-SHA256 keyed with the shared signing secret;
//   - "wallet": personal_sign signature recovered against the address in
//     the X-Wallet-Address header.
//
// A no-op when the request-signing flag is off.
func (h *Handler) requestSignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.security.RequestSigning {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		signature := r.Header.Get(headerRequestSignature)
		timestamp := r.Header.Get(headerRequestTimestamp)
		if signature == "" || timestamp == "" {
			respondError(w, http.StatusBadRequest, codeMissingSignature,
				"Missing request signature. Please update your client.")
			return
		}

		payload := signaturePayload(r.Method, r.URL.Path, timestamp, r.Header.Get(headerContentChecksum))

		var err error
		switch h.security.SigningScheme {
		case "wallet":
			address := r.Header.Get(headerWalletAddress)
			_, err = h.wallets.VerifyMessage(address, payload, signature)
		default:
			err = verifyHMACSignature(payload, signature, h.security.SigningSecret)
		}

		if err != nil {
			metrics.RecordSecurityEvent("invalid_signature")
			log.Security("invalid_signature").
				Str("ip", r.RemoteAddr).
				Str("path", r.URL.Path).
				Err(err).
				Msg("request signature rejected")
			respondError(w, http.StatusUnauthorized, codeInvalidSignature,
				"Invalid request signature")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// signaturePayload is the canonical byte string both sides sign:
// method, path, timestamp, and body checksum joined by newlines.
func signaturePayload(method, path, timestamp, checksum string) []byte {
	return []byte(fmt.Sprintf("%s\n%s\n%s\n%s", method, path, timestamp, checksum))
}

func verifyHMACSignature(payload []byte, signatureHex, secret string) error {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := mac.Sum(nil)

	signature, err := hex.DecodeString(signatureHex)
	if err != nil {
		return fmt.Errorf("signature is not valid hex: %w", err)
	}
	if !hmac.Equal(expected, signature) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}
