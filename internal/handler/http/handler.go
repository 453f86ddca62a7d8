package http

import (
	"github.com/go-playground/validator/v10"

	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/logger"
	"github.com/cryptguard/cryptguard/internal/replay"
	"github.com/cryptguard/cryptguard/internal/service"
	"github.com/cryptguard/cryptguard/internal/wallet"
)

// Handler holds the dependencies of the REST surface: the business services,
// request validation, and the secure-channel configuration with its replay
// guard.
type Handler struct {
	services *service.Services
	validate *validator.Validate

	security config.Security
	app      config.App
	guard    replay.Guard
	wallets  wallet.Verifier

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, guard replay.Guard, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		validate: validator.New(),
		security: cfg.Security,
		app:      cfg.App,
		guard:    guard,
		wallets:  wallet.NewVerifier(),
		logger:   logger,
	}
}
