// Package catalog reads recruiting task catalogs from YAML or TOML files.
// A checklist covering grades 9 through 12 is embedded as the default.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/security"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// DefaultSource names the embedded catalog in logs and seed results.
const DefaultSource = "embedded:default_catalog.yaml"

// Format is a catalog file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var (
	ErrUnsupportedVersion = errors.New("unsupported catalog version")
	ErrNoTasks            = errors.New("catalog file declares no tasks")
)

// File is the on-disk catalog layout.
type File struct {
	Version int         `yaml:"version" toml:"version"`
	Tasks   []TaskEntry `yaml:"tasks" toml:"tasks"`
}

// TaskEntry is one task as written in a catalog file.
type TaskEntry struct {
	ID           string   `yaml:"id" toml:"id"`
	Title        string   `yaml:"title" toml:"title"`
	WhyItMatters string   `yaml:"why_it_matters" toml:"why_it_matters"`
	GradeLevel   int      `yaml:"grade_level" toml:"grade_level"`
	Required     bool     `yaml:"required" toml:"required"`
	DependsOn    []string `yaml:"depends_on" toml:"depends_on"`
}

// Loaded is a parsed catalog and where it came from.
type Loaded struct {
	Catalog *task.Catalog
	Source  string
}

// Load reads the catalog at path, or the embedded default when path is
// empty. The catalog is built but not validated; seeding validates it.
func Load(path string) (*Loaded, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}

	ext, err := security.ValidateExtension(path, ".yaml", ".yml", ".toml")
	if err != nil {
		return nil, err
	}
	data, err := security.SafeReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	format := FormatYAML
	if ext == ".toml" {
		format = FormatTOML
	}
	catalog, err := Parse(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Loaded{Catalog: catalog, Source: path}, nil
}

// Default parses the embedded checklist.
func Default() (*Loaded, error) {
	catalog, err := Parse(bytes.NewReader(defaultCatalog), FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("default catalog: %w", err)
	}
	return &Loaded{Catalog: catalog, Source: DefaultSource}, nil
}

// Parse decodes a catalog. Unknown keys are rejected so that typos such as
// `dependson` do not silently drop prerequisites.
func Parse(r io.Reader, format Format) (*task.Catalog, error) {
	var file File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", security.ErrUnsupportedType, format)
	}
	return file.Catalog()
}

// Catalog converts the file into a domain catalog, keeping file order.
func (f File) Catalog() (*task.Catalog, error) {
	if f.Version > 1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}
	if len(f.Tasks) == 0 {
		return nil, ErrNoTasks
	}

	tasks := make([]*task.Task, 0, len(f.Tasks))
	for i, entry := range f.Tasks {
		t, err := task.NewTask(task.Params{
			ID:                entry.ID,
			Title:             entry.Title,
			WhyItMatters:      entry.WhyItMatters,
			GradeLevel:        entry.GradeLevel,
			Required:          entry.Required,
			DependencyTaskIDs: entry.DependsOn,
		})
		if err != nil {
			return nil, fmt.Errorf("task #%d: %w", i+1, err)
		}
		tasks = append(tasks, t)
	}
	return task.NewCatalog(tasks...)
}

// FromCatalog converts a domain catalog back to the file layout.
func FromCatalog(c *task.Catalog) File {
	file := File{Version: 1}
	for _, t := range c.Tasks() {
		file.Tasks = append(file.Tasks, TaskEntry{
			ID:           t.ID(),
			Title:        t.Title(),
			WhyItMatters: t.WhyItMatters(),
			GradeLevel:   t.GradeLevel(),
			Required:     t.Required(),
			DependsOn:    t.DependencyTaskIDs(),
		})
	}
	return file
}

// Encode writes the catalog in the given format.
func Encode(w io.Writer, c *task.Catalog, format Format) error {
	file := FromCatalog(c)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(file)
	default:
		return fmt.Errorf("%w: %s", security.ErrUnsupportedType, format)
	}
}
