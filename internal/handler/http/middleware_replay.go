package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/metrics"
	"github.com/cryptguard/cryptguard/internal/replay"
)

const (
	headerRequestNonce     = "X-Request-Nonce"
	headerRequestTimestamp = "X-Request-Timestamp"
	headerContentChecksum  = "X-Content-Checksum"
	headerRequestSignature = "X-Request-Signature"
	headerWalletAddress    = "X-Wallet-Address"
)

// replayProtection rejects requests whose timestamp drifted outside the
// replay window or whose nonce has been seen before. A no-op when the
// replay-protection flag is off.
//
// Timestamps are Unix milliseconds, matching what clients produce.
func (h *Handler) replayProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.security.ReplayProtection {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		nonce := r.Header.Get(headerRequestNonce)
		timestamp := r.Header.Get(headerRequestTimestamp)
		if nonce == "" || timestamp == "" {
			respondError(w, http.StatusBadRequest, codeMissingSecurityHeaders,
				"Missing security headers. Please update your client.")
			return
		}

		millis, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, codeMissingSecurityHeaders,
				"Malformed request timestamp")
			return
		}

		drift := time.Since(time.UnixMilli(millis))
		if drift < 0 {
			drift = -drift
		}
		if drift > h.security.ReplayWindow {
			log.Security("request_expired").
				Str("nonce", nonce).
				Dur("drift", drift).
				Msg("request timestamp outside replay window")
			respondError(w, http.StatusUnauthorized, codeRequestExpired,
				"Request has expired")
			return
		}

		if err := h.guard.Remember(r.Context(), nonce); err != nil {
			if errors.Is(err, replay.ErrReplayDetected) {
				metrics.RecordReplayRejection()
				log.Security("replay_detected").
					Str("nonce", nonce).
					Str("ip", r.RemoteAddr).
					Msg("nonce reuse detected")
				respondError(w, http.StatusUnauthorized, codeReplayDetected,
					"Duplicate request detected")
				return
			}
			log.Err(err).Msg("replay guard failure")
			respondError(w, http.StatusInternalServerError, codeInternalError,
				publicMessage(codeInternalError))
			return
		}

		next.ServeHTTP(w, r)
	})
}
