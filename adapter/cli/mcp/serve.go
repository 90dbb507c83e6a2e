package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/pkg/config"
	"github.com/felixgeelhaar/recruitkit/pkg/observability"
	"github.com/spf13/cobra"

	mcpinternal "github.com/felixgeelhaar/recruitkit/internal/mcp"
)

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if addrFlag != "" {
			cfg.MCPAddr = addrFlag
		}

		logger := observability.NewLogger(observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version))

		err = mcpinternal.Serve(cmd.Context(), cfg, app, cli.Version, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (defaults to MCP_ADDR)")
}
