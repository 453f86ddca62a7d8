package service

import (
	"github.com/cryptguard/cryptguard/internal/adapter"
	"github.com/cryptguard/cryptguard/internal/attest"
	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/session"
	"github.com/cryptguard/cryptguard/internal/store"
)

// ClientServices aggregates everything the client binary needs.
type ClientServices struct {
	Crypto ClientCryptoService
	Auth   ClientAuthService
}

// NewClientServices wires the client service graph. verifier may be nil when
// no ledger source is configured; states may be nil to disable session
// persistence.
func NewClientServices(serverAdapter adapter.ServerAdapter, states store.LocalSessionRepository, sessionCfg config.ClientSession, verifier attest.Verifier, log *logger.Logger) *ClientServices {
	cryptoSvc := NewClientCryptoService(verifier, log)
	authSvc := NewClientAuthService(serverAdapter, cryptoSvc, sessionCfg, states, session.SystemClock(), log)

	return &ClientServices{
		Crypto: cryptoSvc,
		Auth:   authSvc,
	}
}
