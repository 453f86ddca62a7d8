package http

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/metrics"
)

// contentIntegrity verifies the SHA-256 checksum a client computed over the
// request body. GET requests carry no body and are skipped. A no-op when the
// content-integrity flag is off.
func (h *Handler) contentIntegrity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.security.ContentIntegrity || r.Method == http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		checksum := r.Header.Get(headerContentChecksum)
		if checksum == "" {
			respondError(w, http.StatusBadRequest, codeMissingChecksum,
				"Missing content checksum. Please update your client.")
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Msg("failed to read request body")
			respondError(w, http.StatusInternalServerError, codeInternalError,
				publicMessage(codeInternalError))
			return
		}
		// restore request body for downstream handlers
		r.Body = io.NopCloser(bytes.NewReader(body))

		sum := sha256.Sum256(body)
		calculated := hex.EncodeToString(sum[:])
		if calculated != checksum {
			metrics.RecordSecurityEvent("integrity_check_failed")
			log.Security("integrity_check_failed").
				Str("ip", r.RemoteAddr).
				Str("path", r.URL.Path).
				Msg("content checksum mismatch")
			respondError(w, http.StatusBadRequest, codeIntegrityCheckFailed,
				"Content integrity check failed")
			return
		}

		next.ServeHTTP(w, r)
	})
}
