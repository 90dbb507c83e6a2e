package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/app"
	mcpinternal "github.com/felixgeelhaar/recruitkit/internal/mcp"
	"github.com/felixgeelhaar/recruitkit/pkg/config"
	"github.com/felixgeelhaar/recruitkit/pkg/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := observability.LoggerFromEnv()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}
	logger = observability.NewLogger(observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version))

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		return 1
	}
	defer container.Close()

	if seeded, err := container.EnsureCatalog(ctx); err != nil {
		logger.Error("failed to seed task catalog", "error", err)
		return 1
	} else if seeded {
		logger.Info("seeded task catalog", "source", cfg.CatalogPath)
	}

	cliApp := mcpinternal.NewCLIApp(container, cfg.AthleteID)
	if err := mcpinternal.Serve(ctx, cfg, cliApp, cli.Version, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		return 1
	}
	return 0
}
