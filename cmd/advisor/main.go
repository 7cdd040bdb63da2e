package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/wellness/backend/internal/app"
	"github.com/zhouzirui/wellness/backend/internal/config"
	"github.com/zhouzirui/wellness/backend/internal/logging"
	"github.com/zhouzirui/wellness/backend/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logger.Sync() }()

	srv := app.NewAdvisorServer(cfg, logger)
	if err := server.Run(ctx, srv, logger.Named("advisor")); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
