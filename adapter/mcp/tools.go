// Package mcp exposes the recruiting engine as MCP tools, resources and
// prompts.
package mcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/pkg/observability"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App    *cli.App
	Logger *slog.Logger
}

func (d ToolDependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	registerTaskTools(srv, deps)
	registerProgressTools(srv, deps)
	registerCatalogTools(srv, deps)
	return nil
}

// instrument gives each call its own request id and records the call count
// and duration under the tool name.
func instrument[In, Out any](deps ToolDependencies, tool string, fn func(context.Context, In) (Out, error)) func(context.Context, In) (Out, error) {
	return func(ctx context.Context, input In) (Out, error) {
		ctx = observability.NewRequestContext(ctx)
		if deps.App != nil {
			ctx = observability.WithAthleteID(ctx, deps.App.AthleteID)
		}
		metrics := deps.App.MetricsOrNoop()
		metrics.Counter(observability.MetricMCPToolCalls, 1, observability.T("tool", tool))
		return observability.TimeOperationResult(ctx, deps.logger(), metrics, "mcp."+tool, func() (Out, error) {
			return fn(ctx, input)
		})
	}
}
