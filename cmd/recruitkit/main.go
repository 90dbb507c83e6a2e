package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/adapter/cli/catalog"
	"github.com/felixgeelhaar/recruitkit/adapter/cli/mcp"
	"github.com/felixgeelhaar/recruitkit/adapter/cli/progress"
	"github.com/felixgeelhaar/recruitkit/adapter/cli/task"
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
	slog.SetDefault(logger)
	cli.SetLogger(logger)

	// Commands that don't touch storage (version, help) still work when the
	// container cannot start; the rest report cli.ErrNotInitialized.
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsProduction() {
			logger.Error("failed to initialize container", "error", err)
			return 1
		}
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()

		if _, err := container.EnsureCatalog(ctx); err != nil {
			logger.Warn("failed to seed task catalog", "error", err)
		}
		cli.SetApp(mcpinternal.NewCLIApp(container, cfg.AthleteID))
	}

	cli.AddCommand(task.Cmd)
	cli.AddCommand(progress.Cmd)
	cli.AddCommand(catalog.Cmd)
	cli.AddCommand(mcp.Cmd)

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
