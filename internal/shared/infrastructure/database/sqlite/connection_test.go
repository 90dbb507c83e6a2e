package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "recruitkit.db")

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
	assert.FileExists(t, path)
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestOpen_Memory(t *testing.T) {
	db, err := Open(context.Background(), MemoryDSN)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE t (id INTEGER)`)
	assert.NoError(t, err)
}

func TestWithPragmas(t *testing.T) {
	assert.Contains(t, withPragmas("a.db"), "a.db?_pragma=")
	assert.Contains(t, withPragmas("file:a.db?mode=rwc"), "mode=rwc&_pragma=")
}
