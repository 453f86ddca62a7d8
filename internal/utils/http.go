package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON serializes data to JSON and writes it as the HTTP response.
//
// It sets the "Content-Type" header to "application/json" and writes the
// provided status code before the body. Every JSON endpoint funnels through
// this helper so the response shape stays uniform.
//
// If marshaling fails, it responds with 500 Internal Server Error and
// returns a wrapped error.
//
// Parameters:
//
//	w          - the HTTP response writer
//	data       - any value to serialize as JSON (typically models.APIResponse)
//	statusCode - HTTP status code for the response
//
// Returns:
//
//	int   - number of bytes written to the response body
//	error - non-nil if JSON marshaling fails
//
// Example usage:
//
//	WriteJSON(w, models.APIResponse{Success: true}, http.StatusOK)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}
