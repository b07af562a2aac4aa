package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agenthands/mechcheck/internal/app"
	"github.com/agenthands/mechcheck/internal/server"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	err = run(logger)
	if err != nil {
		logger.Error("Server failed", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using defaults")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig("")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	checker, cleanup, err := app.NewChecker(ctx, cfg, app.Options{WriteReports: true}, logger)
	defer cleanup()
	if err != nil {
		return fmt.Errorf("failed to initialise checker: %w", err)
	}

	srv := server.NewServer(cfg, checker, logger)
	return server.ListenAndServe(ctx, ":"+port, srv.SetupRouter(), logger)
}
