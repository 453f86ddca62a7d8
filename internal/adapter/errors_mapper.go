package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cryptguard/cryptguard/models"
	"github.com/go-resty/resty/v2"
)

// responseEnvelope mirrors the server's uniform JSON envelope.
type responseEnvelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *models.APIError `json:"error"`
	Message string           `json:"message"`
}

// mapAPIError translates a non-2xx server response into one of the package
// sentinel errors, keeping the server's error code and message in the wrap.
func mapAPIError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	code, message := parseAPIError(resp)

	var sentinel error
	switch resp.StatusCode() {
	case http.StatusBadRequest:
		sentinel = ErrBadRequest
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	default:
		sentinel = ErrServer
	}

	if code == "" {
		return fmt.Errorf("%w: http %d: %s", sentinel, resp.StatusCode(), message)
	}
	return fmt.Errorf("%w: %s: %s", sentinel, code, message)
}

// parseAPIError extracts the error code and message from the response
// envelope, falling back to the raw body and HTTP status text.
func parseAPIError(resp *resty.Response) (code, message string) {
	var env responseEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err == nil && env.Error != nil {
		return env.Error.Code, env.Error.Message
	}

	message = strings.TrimSpace(string(resp.Body()))
	if message == "" {
		message = http.StatusText(resp.StatusCode())
	}
	return "", message
}

// decodeEnvelope maps the response status to an error and, on success,
// unmarshals the envelope's data field into out (when out is non-nil).
func decodeEnvelope(resp *resty.Response, out any) error {
	if err := mapAPIError(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	var env responseEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("decode response envelope: %w", err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("response envelope has no data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}

	return nil
}
