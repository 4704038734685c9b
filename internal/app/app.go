// Package app wires configuration, adapters and services into an HTTP handler.
package app

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/pkg/adapters/handler"
	"github.com/wadjakorntonsri/knowhub/pkg/adapters/ipfs"
	"github.com/wadjakorntonsri/knowhub/pkg/adapters/llm"
	"github.com/wadjakorntonsri/knowhub/pkg/adapters/repository"
	"github.com/wadjakorntonsri/knowhub/pkg/config"
	"github.com/wadjakorntonsri/knowhub/pkg/core/ledger"
	"github.com/wadjakorntonsri/knowhub/pkg/core/services"
)

type App struct {
	Handler  http.Handler
	Sessions *ledger.Sessions

	logger *zap.Logger
	close  func() error
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	// Initialize Repository
	repo, closeRepo, err := repository.Open(ctx, cfg.DatabaseURL, cfg.SeedPath, logger)
	if err != nil {
		return nil, err
	}

	// Initialize Adapters
	provider, err := llm.NewProvider(ctx, cfg.ChatProvider, cfg.ChatModel, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.GeminiAPIKey, logger)
	if err != nil {
		closeRepo()
		return nil, err
	}
	pinner := ipfs.NewPinataClient(ctx, cfg.PinataJWT, cfg.PinataAPIURL, cfg.IPFSGatewayURL, cfg.UploadMaxAttempts, logger)

	// Initialize Services
	sessions := ledger.NewSessions(nil)
	catalog := services.NewCatalogService(repo, logger)
	interactions := services.NewInteractionService(repo, sessions, logger)
	chat := services.NewChatService(provider, cfg.ChatSystemPrompt, logger)
	publish := services.NewPublishService(pinner, logger)

	return &App{
		Handler:  handler.NewRouter(cfg, logger, catalog, interactions, chat, publish),
		Sessions: sessions,
		logger:   logger,
		close:    closeRepo,
	}, nil
}

func (a *App) Close() error {
	return a.close()
}

// SweepSessions drops idle session ledgers every ttl/2 until ctx is done.
func (a *App) SweepSessions(ctx context.Context, ttl time.Duration) error {
	ticker := time.NewTicker(max(ttl/2, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := a.Sessions.Sweep(ttl); n > 0 {
				a.logger.Debug("Swept idle sessions", zap.Int("dropped", n), zap.Int("active", a.Sessions.Len()))
			}
		}
	}
}
