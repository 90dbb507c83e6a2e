// Package migrations applies the embedded schema. Every statement is
// idempotent, so migrations run on each start.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationFS embed.FS

// RunSQLiteMigrations applies the SQLite schema in file order.
func RunSQLiteMigrations(ctx context.Context, db *sql.DB) error {
	return apply("sqlite", func(name, stmt string) error {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		return nil
	})
}

// RunPostgresMigrations applies the PostgreSQL schema in file order.
func RunPostgresMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	return apply("postgres", func(name, stmt string) error {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		return nil
	})
}

func apply(dir string, exec func(name, stmt string) error) error {
	files, err := upFiles(dir)
	if err != nil {
		return err
	}
	for _, file := range files {
		body, err := migrationFS.ReadFile(dir + "/" + file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if err := exec(file, string(body)); err != nil {
			return err
		}
	}
	return nil
}

func upFiles(dir string) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
