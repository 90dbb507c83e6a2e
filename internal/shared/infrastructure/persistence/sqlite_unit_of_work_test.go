package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE entries (task_id TEXT PRIMARY KEY, status TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func countEntries(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n))
	return n
}

func TestSQLiteUnitOfWork_CommitPersists(t *testing.T) {
	db := setupTestDB(t)
	uow := NewSQLiteUnitOfWork(db)

	txCtx, err := uow.Begin(context.Background())
	require.NoError(t, err)

	info, ok := SQLiteTxInfoFromContext(txCtx)
	require.True(t, ok)
	assert.True(t, info.Owned)

	_, err = SQLiteExecutor(txCtx, db).ExecContext(txCtx, `INSERT INTO entries VALUES ('profile', 'completed')`)
	require.NoError(t, err)
	require.NoError(t, uow.Commit(txCtx))

	assert.Equal(t, 1, countEntries(t, db))
}

func TestSQLiteUnitOfWork_RollbackDiscards(t *testing.T) {
	db := setupTestDB(t)
	uow := NewSQLiteUnitOfWork(db)

	txCtx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	_, err = SQLiteExecutor(txCtx, db).ExecContext(txCtx, `INSERT INTO entries VALUES ('profile', 'completed')`)
	require.NoError(t, err)
	require.NoError(t, uow.Rollback(txCtx))

	assert.Equal(t, 0, countEntries(t, db))
}

func TestSQLiteUnitOfWork_NestedJoinsOuter(t *testing.T) {
	db := setupTestDB(t)
	uow := NewSQLiteUnitOfWork(db)

	outerCtx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	innerCtx, err := uow.Begin(outerCtx)
	require.NoError(t, err)

	outer, _ := SQLiteTxInfoFromContext(outerCtx)
	inner, ok := SQLiteTxInfoFromContext(innerCtx)
	require.True(t, ok)
	assert.Same(t, outer.Tx, inner.Tx)
	assert.False(t, inner.Owned)

	_, err = SQLiteExecutor(innerCtx, db).ExecContext(innerCtx, `INSERT INTO entries VALUES ('video', 'in_progress')`)
	require.NoError(t, err)

	// The inner commit is a no-op; the outer rollback discards the write.
	require.NoError(t, uow.Commit(innerCtx))
	require.NoError(t, uow.Rollback(outerCtx))
	assert.Equal(t, 0, countEntries(t, db))
}

func TestSQLiteUnitOfWork_NoTransaction(t *testing.T) {
	uow := NewSQLiteUnitOfWork(setupTestDB(t))

	assert.ErrorIs(t, uow.Commit(context.Background()), ErrNoTransaction)
	assert.ErrorIs(t, uow.Rollback(context.Background()), ErrNoTransaction)
}

func TestSQLiteExecutor_FallsBackToDB(t *testing.T) {
	db := setupTestDB(t)
	assert.Same(t, db, SQLiteExecutor(context.Background(), db))
}

func TestTxInfoFromContext_Empty(t *testing.T) {
	_, ok := TxInfoFromContext(context.Background())
	assert.False(t, ok)
	assert.False(t, InTx(context.Background()))
}
