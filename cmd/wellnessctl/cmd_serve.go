package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zhouzirui/wellness/backend/internal/app"
	"github.com/zhouzirui/wellness/backend/internal/config"
	"github.com/zhouzirui/wellness/backend/internal/server"
	"github.com/zhouzirui/wellness/backend/internal/service/launcher"
)

var (
	requireModel bool
	skipRuntime  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the model proxy and the heuristic advisor together",
	Long: `Ensures the local model runtime is up (starting it when needed), checks that a
model matching the configured marker is installed, then serves both HTTP services
until interrupted. Either service failing stops the other.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Runtime.Validate(); err != nil {
		return err
	}
	if !skipRuntime && cfg.Runtime.Provider == config.ProviderOllama {
		if err := prepareRuntime(ctx); err != nil {
			return err
		}
	}

	proxySrv, err := app.NewProxyServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	advisorSrv := app.NewAdvisorServer(cfg, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, proxySrv, logger.Named("proxy"))
	})
	g.Go(func() error {
		return server.Run(gctx, advisorSrv, logger.Named("advisor"))
	})
	return g.Wait()
}

func prepareRuntime(ctx context.Context) error {
	l := launcher.New(cfg.Runtime, logger.Named("launcher"))

	if !l.Running(ctx) {
		if _, err := l.Require(ctx); err != nil {
			return err
		}
		if err := l.Start(ctx); err != nil {
			return err
		}
	}

	has, err := l.HasModel(ctx, cfg.Runtime.ModelMarker)
	if err != nil {
		logger.Warn("could not list installed models", zap.Error(err))
		return nil
	}
	if !has {
		if requireModel {
			return fmt.Errorf("no model matching %q is installed; run `wellnessctl setup --pull`", cfg.Runtime.ModelMarker)
		}
		logger.Warn("no matching model installed; chat requests will fail until one is pulled",
			zap.String("marker", cfg.Runtime.ModelMarker),
			zap.String("default_model", cfg.Runtime.DefaultModel),
		)
	}
	return nil
}
