package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// BaseURL is the server base URL the client talks to.
	BaseURL string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// RefreshTimeout bounds a single token-refresh round trip.
	RefreshTimeout time.Duration
	// HashKey is the HMAC key used by the client for request signing when
	// the "hmac" SecureChannel scheme is enabled.
	HashKey string
	// ReplayProtection mirrors the server flag so generated requests carry
	// nonce and timestamp headers only when the server enforces them.
	ReplayProtection bool
	// ContentIntegrity mirrors the server integrity-checksum flag.
	ContentIntegrity bool
	// RequestSigning mirrors the server request-signing flag.
	RequestSigning bool
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite path used for persisted session state.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientSession holds the client session timer durations.
type ClientSession struct {
	Duration               time.Duration
	WarningLead            time.Duration
	ActivityResetThreshold time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains client transport addresses and timeouts.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Session contains session timer durations.
	Session ClientSession
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			BaseURL:          cfg.Adapter.BaseURL,
			RequestTimeout:   cfg.Adapter.RequestTimeout,
			RefreshTimeout:   cfg.Adapter.RefreshTimeout,
			HashKey:          cfg.Security.SigningSecret,
			ReplayProtection: cfg.Security.ReplayProtection,
			ContentIntegrity: cfg.Security.ContentIntegrity,
			RequestSigning:   cfg.Security.RequestSigning,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Session: ClientSession{
			Duration:               cfg.Session.Duration,
			WarningLead:            cfg.Session.WarningLead,
			ActivityResetThreshold: cfg.Session.ActivityResetThreshold,
		},
	}

	return clientCfg, clientCfg.validate()
}
