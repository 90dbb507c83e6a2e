package catalog_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/infrastructure/catalog"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlCatalog = `
version: 1
tasks:
  - id: create-profile
    title: Create recruiting profile
    why_it_matters: Coaches look you up first.
    grade_level: 9
    required: true
  - id: highlight-video
    title: Upload highlight video
    grade_level: 10
    required: true
    depends_on: [create-profile]
`

const tomlCatalog = `
version = 1

[[tasks]]
id = "create-profile"
title = "Create recruiting profile"
grade_level = 9
required = true

[[tasks]]
id = "highlight-video"
title = "Upload highlight video"
grade_level = 10
required = true
depends_on = ["create-profile"]
`

func TestDefault(t *testing.T) {
	loaded, err := catalog.Default()
	require.NoError(t, err)

	assert.Equal(t, catalog.DefaultSource, loaded.Source)
	assert.Greater(t, loaded.Catalog.Len(), 10)
	require.NoError(t, loaded.Catalog.Validate())

	for grade := task.MinGradeLevel; grade <= task.MaxGradeLevel; grade++ {
		assert.NotEmpty(t, loaded.Catalog.ByGradeLevel(grade), "grade %d", grade)
	}
	assert.NotEmpty(t, loaded.Catalog.RequiredTaskIDs())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format catalog.Format
	}{
		{"yaml", yamlCatalog, catalog.FormatYAML},
		{"toml", tomlCatalog, catalog.FormatTOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := catalog.Parse(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)
			require.Equal(t, 2, c.Len())

			video, ok := c.Get("highlight-video")
			require.True(t, ok)
			assert.Equal(t, []string{"create-profile"}, video.DependencyTaskIDs())
			assert.Equal(t, 10, video.GradeLevel())
			assert.True(t, video.Required())
			assert.Equal(t, "create-profile", c.Tasks()[0].ID())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		format  catalog.Format
		wantErr error
	}{
		{"empty yaml", "", catalog.FormatYAML, catalog.ErrNoTasks},
		{"future version", "version: 2\ntasks:\n  - id: a\n    title: A\n    grade_level: 9\n", catalog.FormatYAML, catalog.ErrUnsupportedVersion},
		{"grade out of range", "tasks:\n  - id: a\n    title: A\n    grade_level: 8\n", catalog.FormatYAML, task.ErrInvalidGradeLevel},
		{"duplicate id", "tasks:\n  - id: a\n    title: A\n    grade_level: 9\n  - id: a\n    title: B\n    grade_level: 9\n", catalog.FormatYAML, task.ErrDuplicateTaskID},
		{"unknown format", yamlCatalog, catalog.Format("json"), security.ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse(strings.NewReader(tt.input), tt.format)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("unknown yaml key", func(t *testing.T) {
		_, err := catalog.Parse(strings.NewReader("tasks:\n  - id: a\n    title: A\n    grade_level: 9\n    dependson: [b]\n"), catalog.FormatYAML)
		assert.Error(t, err)
	})

	t.Run("unknown toml key", func(t *testing.T) {
		_, err := catalog.Parse(strings.NewReader("[[tasks]]\nid = \"a\"\ntitle = \"A\"\ngrade_level = 9\nprereqs = []\n"), catalog.FormatTOML)
		assert.Error(t, err)
	})

	t.Run("cycles parse but fail validation", func(t *testing.T) {
		input := "tasks:\n  - id: a\n    title: A\n    grade_level: 9\n    depends_on: [b]\n  - id: b\n    title: B\n    grade_level: 9\n    depends_on: [a]\n"
		c, err := catalog.Parse(strings.NewReader(input), catalog.FormatYAML)
		require.NoError(t, err)
		assert.ErrorIs(t, c.Validate(), task.ErrDependencyCycle)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("empty path uses default", func(t *testing.T) {
		loaded, err := catalog.Load("")
		require.NoError(t, err)
		assert.Equal(t, catalog.DefaultSource, loaded.Source)
	})

	t.Run("reads yaml and toml by extension", func(t *testing.T) {
		for name, content := range map[string]string{"catalog.yaml": yamlCatalog, "catalog.toml": tomlCatalog} {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			loaded, err := catalog.Load(path)
			require.NoError(t, err, name)
			assert.Equal(t, 2, loaded.Catalog.Len(), name)
			assert.Equal(t, path, loaded.Source)
		}
	})

	t.Run("rejects other extensions", func(t *testing.T) {
		_, err := catalog.Load(filepath.Join(dir, "catalog.json"))
		assert.ErrorIs(t, err, security.ErrUnsupportedType)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := catalog.Load(filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestEncode_RoundTrip(t *testing.T) {
	loaded, err := catalog.Default()
	require.NoError(t, err)

	for _, format := range []catalog.Format{catalog.FormatYAML, catalog.FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, catalog.Encode(&buf, loaded.Catalog, format))

			again, err := catalog.Parse(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, catalog.FromCatalog(loaded.Catalog), catalog.FromCatalog(again))
		})
	}
}
