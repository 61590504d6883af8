package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"

	"imagegen/internal/config"
	"imagegen/internal/inject"
	"imagegen/internal/log"
	"imagegen/internal/otel"
)

// @title Image Generation API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger := log.New(os.Stdout, cfg.Location(), log.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err.Error())
		os.Exit(1)
	}

	injector := inject.Setup(cfg, logger)
	app, err := do.Invoke[*fiber.App](injector)
	if err != nil {
		logger.Error("failed to build application", "error", err.Error())
		os.Exit(1)
	}

	addr := ":" + cfg.Port
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server_starting", "addr", addr, "image_dir", cfg.Storage.Dir, "bedrock_region", cfg.Bedrock.Region)
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server_stopping")
		return app.ShutdownWithTimeout(time.Duration(cfg.ShutdownTimeoutSec) * time.Second)
	})

	runErr := g.Wait()

	tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(tctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Error("tracing shutdown failed", "error", err.Error())
	}

	if runErr != nil {
		logger.Error("server stopped with error", "error", runErr.Error())
		os.Exit(1)
	}
}
