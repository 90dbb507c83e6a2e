package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/queries"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/infrastructure/catalog"
)

// RegisterResources exposes the catalog and the athlete's checklist.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource("recruitkit://catalog").
		Name("Task catalog").
		Description("The stored recruiting checklist as YAML").
		MimeType("application/yaml").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.CatalogRepo == nil {
				return nil, fmt.Errorf("catalog requires database connection")
			}
			stored, err := app.CatalogRepo.Load(ctx)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			if err := catalog.Encode(&buf, stored, catalog.FormatYAML); err != nil {
				return nil, err
			}
			return &mcp.ResourceContent{URI: uri, MimeType: "application/yaml", Text: buf.String()}, nil
		})

	srv.Resource("recruitkit://tasks").
		Name("Checklist").
		Description("Every task with the athlete's status, lock state and summary counts").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListTasksHandler == nil {
				return nil, fmt.Errorf("task listing requires database connection")
			}
			result, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{AthleteID: app.AthleteID})
			if err != nil {
				return nil, err
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return nil, err
			}
			return &mcp.ResourceContent{URI: uri, MimeType: "application/json", Text: string(data)}, nil
		})

	return nil
}
