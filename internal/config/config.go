package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// cryptguard application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as cryptographic keys,
	// token parameters, and the application version.
	App App `envPrefix:"APP_"`

	// Security holds the per-mechanism SecureChannel feature flags and
	// their tuning parameters.
	Security Security `envPrefix:"SECURITY_"`

	// Storage holds configuration for all persistence backends: the
	// relational database and the optional replay-guard Redis.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds configuration for the client-side HTTP adapter.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Session holds client-side session timer durations.
	Session Session `envPrefix:"SESSION_"`

	// Workers holds configuration for background sweep workers.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control security,
// token lifecycle, and versioning.
type App struct {
	// MasterKeyHex is the hex-encoded 32-byte master key used to
	// envelope-protect user content keys. Must be kept confidential and
	// must never appear in logs or wrapped output.
	// Env: APP_MASTER_KEY
	MasterKeyHex string `env:"MASTER_KEY"`

	// AccessSignKey is the secret key used to sign and verify access
	// tokens. Distinct from RefreshSignKey.
	// Env: APP_ACCESS_SIGN_KEY
	AccessSignKey string `env:"ACCESS_SIGN_KEY"`

	// RefreshSignKey is the secret key used to sign and verify refresh
	// tokens.
	// Env: APP_REFRESH_SIGN_KEY
	RefreshSignKey string `env:"REFRESH_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// AccessTokenDuration is the access-token lifetime (default 15m).
	// Env: APP_ACCESS_TOKEN_DURATION
	AccessTokenDuration time.Duration `env:"ACCESS_TOKEN_DURATION"`

	// RefreshTokenDuration is the refresh-token lifetime (default 168h).
	// Env: APP_REFRESH_TOKEN_DURATION
	RefreshTokenDuration time.Duration `env:"REFRESH_TOKEN_DURATION"`

	// TokenHashKey is the HMAC key used to hash issued tokens before they
	// are written to session rows. Distinct from the sign keys.
	// Env: APP_TOKEN_HASH_KEY
	TokenHashKey string `env:"TOKEN_HASH_KEY"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Security holds the SecureChannel feature flags. Each mechanism is toggled
// independently and is a strict no-op when disabled.
type Security struct {
	// ReplayProtection enables the nonce/timestamp replay guard.
	// Env: SECURITY_REPLAY_PROTECTION
	ReplayProtection bool `env:"REPLAY_PROTECTION"`

	// ContentIntegrity enables the request-body checksum check.
	// Env: SECURITY_CONTENT_INTEGRITY
	ContentIntegrity bool `env:"CONTENT_INTEGRITY"`

	// RequestSigning enables request-signature verification for mutating
	// operations.
	// Env: SECURITY_REQUEST_SIGNING
	RequestSigning bool `env:"REQUEST_SIGNING"`

	// ReplayWindow bounds how far a request timestamp may drift from the
	// server clock and how long seen nonces are retained (default 5m).
	// Env: SECURITY_REPLAY_WINDOW
	ReplayWindow time.Duration `env:"REPLAY_WINDOW"`

	// SigningScheme selects the request-signature verifier: "hmac" for a
	// shared-secret HMAC, "wallet" for wallet-signature recovery.
	// Env: SECURITY_SIGNING_SCHEME
	SigningScheme string `env:"SIGNING_SCHEME"`

	// SigningSecret is the shared secret used by the "hmac" scheme.
	// Env: SECURITY_SIGNING_SECRET
	SigningSecret string `env:"SIGNING_SECRET"`
}

// Storage groups the configuration for all storage backends used by the
// application.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Redis holds the optional shared replay-guard store settings.
	Redis Redis `envPrefix:"REDIS_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the PostgreSQL Data Source Name used to open the database
	// connection. On the client binary this is a SQLite path instead.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Redis holds connection settings for the shared replay-guard store.
// When Addr is empty the in-memory, single-instance guard is used.
type Redis struct {
	// Addr is the Redis server address in "host:port" format.
	// Env: STORAGE_REDIS_ADDR
	Addr string `env:"ADDR"`

	// Password is the optional Redis AUTH password.
	// Env: STORAGE_REDIS_PASSWORD
	Password string `env:"PASSWORD"`

	// DB is the Redis logical database index.
	// Env: STORAGE_REDIS_DB
	DB int `env:"DB"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds configuration for the client-side HTTP adapter.
type Adapter struct {
	// BaseURL is the server base URL the client talks to.
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout is the default timeout for outbound client requests.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RefreshTimeout bounds a single token-refresh round trip so the
	// coordinator can never be stuck in its refreshing state.
	// Env: ADAPTER_REFRESH_TIMEOUT
	RefreshTimeout time.Duration `env:"REFRESH_TIMEOUT"`
}

// Session holds the client-side session timer durations.
type Session struct {
	// Duration is the total session lifetime (default 15m).
	// Env: SESSION_DURATION
	Duration time.Duration `env:"DURATION"`

	// WarningLead is how long before expiry the warning fires (default 1m).
	// Env: SESSION_WARNING_LEAD
	WarningLead time.Duration `env:"WARNING_LEAD"`

	// ActivityResetThreshold throttles activity-based resets: activity
	// only restarts the timer once this much of the session has elapsed
	// (default 5m).
	// Env: SESSION_ACTIVITY_RESET_THRESHOLD
	ActivityResetThreshold time.Duration `env:"ACTIVITY_RESET_THRESHOLD"`
}

// Workers holds configuration for background sweep workers.
type Workers struct {
	// ReplaySweepInterval is how often expired nonces are evicted from the
	// replay guard (default 1m).
	// Env: WORKERS_REPLAY_SWEEP_INTERVAL
	ReplaySweepInterval time.Duration `env:"REPLAY_SWEEP_INTERVAL"`

	// SessionSweepInterval is how often expired session rows are deleted
	// (default 1h).
	// Env: WORKERS_SESSION_SWEEP_INTERVAL
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Defaults are merged in last so explicit zero values from the sources above
// never shadow a required duration.
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
