package service

import (
	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/store"
)

// Services aggregates the server-side business services.
type Services struct {
	AuthService    AuthService
	KeyService     KeyService
	AppInfoService AppInfoService
}

// NewServices wires the services to their repositories and configuration.
func NewServices(storages store.Storages, cfg config.StructuredConfig, log *logger.Logger) (*Services, error) {
	keyService, err := NewKeyService(cfg.App, log)
	if err != nil {
		return nil, err
	}

	appInfoService, err := NewAppInfoService(cfg.App, log)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:    NewAuthService(storages.AccountRepository, storages.SessionRepository, cfg.App, log),
		KeyService:     keyService,
		AppInfoService: appInfoService,
	}, nil
}
