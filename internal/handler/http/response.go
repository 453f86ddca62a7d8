package http

import (
	"net/http"

	"github.com/cryptguard/cryptguard/internal/utils"
	"github.com/cryptguard/cryptguard/models"
)

// respondData writes a success envelope with the given payload.
func respondData(w http.ResponseWriter, status int, data any, message string) {
	utils.WriteJSON(w, models.APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	}, status)
}

// respondError writes a failure envelope carrying a machine-readable code.
func respondError(w http.ResponseWriter, status int, code, message string) {
	utils.WriteJSON(w, models.APIResponse{
		Success: false,
		Error:   &models.APIError{Code: code, Message: message},
	}, status)
}

// respondServiceError maps a service or store error onto the response
// envelope using the package error map.
func respondServiceError(w http.ResponseWriter, err error) {
	response := responseFromError(err)
	respondError(w, response.status, response.code, publicMessage(response.code))
}

// publicMessage returns the client-facing message for an error code.
// Internal error detail never leaves the server.
func publicMessage(code string) string {
	switch code {
	case codeValidationError:
		return "Invalid request data"
	case codeUserExists:
		return "An account with this email already exists"
	case codeUserNotFound:
		return "Account not found"
	case codeInvalidCredentials:
		return "Invalid credentials"
	case codeMissingToken:
		return "Authentication token is missing"
	case codeInvalidToken:
		return "Authentication token is invalid or expired"
	case codeIdentityMismatch:
		return "Token does not match the requested identity"
	default:
		return "Internal server error"
	}
}
