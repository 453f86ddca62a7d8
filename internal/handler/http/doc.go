// Package http implements the REST transport of the credential service.
//
// It wires the /api routes, the auth handlers, and the middleware chain:
// request tracing and access logging, response compression, token
// authentication with identity binding, and the feature-flagged
// secure-channel checks (replay guard, content checksum, request signature).
// Requests that pass the chain are delegated to the service layer.
package http
