package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/commands"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/infrastructure/catalog"
)

type catalogSeedInput struct {
	// Path to a YAML or TOML catalog; empty uses the configured or built-in one.
	Path string `json:"path,omitempty"`
}

type catalogSeedOutput struct {
	Source string `json:"source"`
	*commands.SeedCatalogResult
}

func registerCatalogTools(srv *mcp.Server, deps ToolDependencies) {
	srv.Tool("catalog.seed").
		Description("Replace the stored task catalog from a YAML or TOML file, or the built-in checklist").
		Handler(instrument(deps, "catalog.seed", seedCatalog(deps.App)))
}

func seedCatalog(app *cli.App) func(context.Context, catalogSeedInput) (*catalogSeedOutput, error) {
	return func(ctx context.Context, input catalogSeedInput) (*catalogSeedOutput, error) {
		if app.SeedCatalogHandler == nil {
			return nil, errors.New("catalog seeding requires database connection")
		}
		path := input.Path
		if path == "" {
			path = app.CatalogPath
		}
		loaded, err := catalog.Load(path)
		if err != nil {
			return nil, err
		}
		result, err := app.SeedCatalogHandler.Handle(ctx, commands.SeedCatalogCommand{
			Catalog: loaded.Catalog,
			Source:  loaded.Source,
		})
		if err != nil {
			return nil, err
		}
		return &catalogSeedOutput{Source: loaded.Source, SeedCatalogResult: result}, nil
	}
}
