package catalog

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	internalApp "github.com/felixgeelhaar/recruitkit/internal/app"
	mcpinternal "github.com/felixgeelhaar/recruitkit/internal/mcp"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	"github.com/felixgeelhaar/recruitkit/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallCatalog = `version: 1
tasks:
  - id: profile
    title: Create profile
    grade_level: 9
    required: true
  - id: video
    title: Highlight video
    grade_level: 10
    required: false
    depends_on: [profile]
`

const cyclicCatalog = `version: 1
tasks:
  - id: a
    title: A
    grade_level: 9
    depends_on: [b]
  - id: b
    title: B
    grade_level: 9
    depends_on: [a]
`

func setupLocalModeTestApp(t *testing.T) *cli.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:     "test",
		LogLevel:   "error",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	container, err := internalApp.NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(container.Close)

	app := mcpinternal.NewCLIApp(container, uuid.New())
	cli.SetApp(app)
	t.Cleanup(func() {
		cli.SetApp(nil)
		seedFile = ""
		exportFormat = "yaml"
		exportOut = ""
	})
	return app
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSeedCmd_FromFile(t *testing.T) {
	app := setupLocalModeTestApp(t)
	seedFile = writeFile(t, "catalog.yaml", smallCatalog)

	var buf bytes.Buffer
	seedCmd.SetOut(&buf)
	seedCmd.SetContext(context.Background())
	require.NoError(t, seedCmd.RunE(seedCmd, nil))
	assert.Contains(t, buf.String(), "Seeded 2 tasks (1 required)")

	stored, err := app.CatalogRepo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Len())
}

func TestSeedCmd_DefaultCatalog(t *testing.T) {
	setupLocalModeTestApp(t)
	seedFile = ""

	var buf bytes.Buffer
	seedCmd.SetOut(&buf)
	seedCmd.SetContext(context.Background())
	require.NoError(t, seedCmd.RunE(seedCmd, nil))
	assert.Contains(t, buf.String(), "embedded:default_catalog.yaml")
}

func TestSeedCmd_RejectsCycle(t *testing.T) {
	app := setupLocalModeTestApp(t)
	seedFile = writeFile(t, "cyclic.yaml", cyclicCatalog)

	seedCmd.SetContext(context.Background())
	err := seedCmd.RunE(seedCmd, nil)
	assert.ErrorIs(t, err, task.ErrDependencyCycle)

	stored, err := app.CatalogRepo.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stored.Len())
}

func TestExportCmd(t *testing.T) {
	setupLocalModeTestApp(t)
	seedFile = writeFile(t, "catalog.yaml", smallCatalog)
	seedCmd.SetOut(io.Discard)
	seedCmd.SetContext(context.Background())
	require.NoError(t, seedCmd.RunE(seedCmd, nil))

	t.Run("yaml to stdout", func(t *testing.T) {
		exportFormat = "yaml"
		exportOut = ""
		var buf bytes.Buffer
		exportCmd.SetOut(&buf)
		exportCmd.SetContext(context.Background())
		require.NoError(t, exportCmd.RunE(exportCmd, nil))
		assert.Contains(t, buf.String(), "id: video")
		assert.Contains(t, buf.String(), "- profile")
	})

	t.Run("toml to file round-trips through validate", func(t *testing.T) {
		exportFormat = "toml"
		exportOut = filepath.Join(t.TempDir(), "catalog.toml")
		exportCmd.SetContext(context.Background())
		require.NoError(t, exportCmd.RunE(exportCmd, nil))

		var buf bytes.Buffer
		validateCmd.SetOut(&buf)
		require.NoError(t, validateCmd.RunE(validateCmd, []string{exportOut}))
		assert.Contains(t, buf.String(), "2 tasks, valid")
	})
}

func TestExportCmd_EmptyCatalog(t *testing.T) {
	setupLocalModeTestApp(t)
	exportCmd.SetContext(context.Background())
	assert.ErrorContains(t, exportCmd.RunE(exportCmd, nil), "catalog is empty")
}

func TestValidateCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    func(t *testing.T) []string
		wantErr error
	}{
		{name: "built-in catalog", args: func(*testing.T) []string { return nil }},
		{name: "valid file", args: func(t *testing.T) []string { return []string{writeFile(t, "ok.yaml", smallCatalog)} }},
		{name: "cycle", args: func(t *testing.T) []string { return []string{writeFile(t, "cyclic.yml", cyclicCatalog)} }, wantErr: task.ErrDependencyCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validateCmd.SetOut(io.Discard)
			err := validateCmd.RunE(validateCmd, tt.args(t))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("unsupported extension", func(t *testing.T) {
		err := validateCmd.RunE(validateCmd, []string{writeFile(t, "catalog.json", "{}")})
		assert.Error(t, err)
	})
}
