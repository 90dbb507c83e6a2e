package task

import (
	"context"
	"errors"
)

// ErrTaskNotFound is returned when a task id is not in the catalog.
var ErrTaskNotFound = errors.New("task not found")

// CatalogRepository persists the task catalog.
type CatalogRepository interface {
	// Load returns the full catalog in seeded order.
	Load(ctx context.Context) (*Catalog, error)
	// Replace swaps the stored catalog for the given one.
	Replace(ctx context.Context, catalog *Catalog) error
}
