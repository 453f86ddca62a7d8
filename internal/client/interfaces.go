package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run establishes a session with the given credentials and blocks
	// until the session ends or ctx is cancelled.
	Run(ctx context.Context, creds Credentials) error
}
