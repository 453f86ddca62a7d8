package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps resty.Client for the server adapter. It embeds
// *resty.Client to expose all of its methods directly while leaving room for
// application-specific behavior such as the secure-channel request hooks.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().Get("/api/version")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a new HTTPClient with a default-configured
// underlying resty.Client.
//
// Each call returns an independent client with its own configuration,
// connection pool, and state.
//
// Returns:
//
//	*HTTPClient - a ready-to-use HTTP client
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
