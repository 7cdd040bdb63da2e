// Package app assembles the two HTTP services from configuration.
package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/config"
	"github.com/zhouzirui/wellness/backend/internal/handler"
	"github.com/zhouzirui/wellness/backend/internal/handler/home"
	"github.com/zhouzirui/wellness/backend/internal/server"
	"github.com/zhouzirui/wellness/backend/internal/service/advisor"
	"github.com/zhouzirui/wellness/backend/internal/service/ai"
)

// NewProxyServer builds the model proxy server.
func NewProxyServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*http.Server, error) {
	if err := cfg.Runtime.Validate(); err != nil {
		return nil, fmt.Errorf("invalid runtime configuration: %w", err)
	}

	chatModel, err := ai.NewChatModel(ctx, cfg.Runtime)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	runtime, err := ai.NewService(ctx, chatModel, ai.NewTagsClient(cfg.Runtime.BaseURL()), cfg.Runtime, logger.Named("runtime"))
	if err != nil {
		return nil, fmt.Errorf("create runtime service: %w", err)
	}

	landing, err := home.New(cfg.Runtime, logger.Named("home"))
	if err != nil {
		return nil, err
	}

	logger.Info("model proxy configured",
		zap.String("provider", cfg.Runtime.Provider),
		zap.String("runtime", cfg.Runtime.BaseURL()),
		zap.String("default_model", cfg.Runtime.DefaultModel),
	)
	return server.New(cfg.Proxy.Addr, handler.NewProxyRouter(runtime, landing, logger)), nil
}

// NewAdvisorServer builds the heuristic advisor server.
func NewAdvisorServer(cfg *config.Config, logger *zap.Logger) *http.Server {
	svc := advisor.NewService(nil, logger.Named("advisor"))
	return server.New(cfg.Advisor.Addr, handler.NewAdvisorRouter(svc, logger))
}
