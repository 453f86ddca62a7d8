package http

import (
	"net/http"
)

// getServerVersion answers GET /api/version with the build version as plain
// text. The only endpoint outside the JSON envelope.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(serverVersion))
}
