package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cryptguard/cryptguard/internal/utils"
)

const traceIDHeader = "X-Trace-ID"

// withTraceID tags every request with a trace id so security events can be
// correlated across the log: an incoming X-Trace-ID is reused, otherwise a
// fresh time-ordered id is minted. The id is stamped on a child logger stored
// in the request context and echoed back in the response header.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	ids := utils.NewUUIDGenerator()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = ids.Generate()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
