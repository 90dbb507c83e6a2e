package outbox_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteOutbox(t *testing.T) (*sql.DB, *outbox.SQLiteRepository) {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(ctx, db))
	return db, outbox.NewSQLiteRepository(db)
}

func newStoredMessage(routingKey string) *outbox.Message {
	msg := createTestMessage(routingKey)
	msg.EventID = uuid.New()
	msg.Metadata = []byte(`{"correlation_id":"` + uuid.NewString() + `"}`)
	return msg
}

func TestSQLiteRepository_SaveAndGetUnpublished(t *testing.T) {
	_, repo := setupSQLiteOutbox(t)
	ctx := context.Background()

	first := newStoredMessage("recruiting.task.status_changed")
	second := newStoredMessage("recruiting.progress.status_changed")
	second.CreatedAt = first.CreatedAt.Add(time.Millisecond)

	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{first, second}))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	messages, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, first.EventID, messages[0].EventID)
	assert.Equal(t, first.AggregateID, messages[0].AggregateID)
	assert.JSONEq(t, string(first.Payload), string(messages[0].Payload))
	assert.Equal(t, first.CorrelationID(), messages[0].CorrelationID())
	assert.True(t, first.CreatedAt.Equal(messages[0].CreatedAt))
}

func TestSQLiteRepository_Lifecycle(t *testing.T) {
	_, repo := setupSQLiteOutbox(t)
	ctx := context.Background()

	published := newStoredMessage("recruiting.task.status_changed")
	retrying := newStoredMessage("recruiting.task.status_changed")
	dead := newStoredMessage("recruiting.task.status_changed")
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{published, retrying, dead}))

	require.NoError(t, repo.MarkPublished(ctx, published.ID))
	require.NoError(t, repo.MarkFailed(ctx, retrying.ID, "broker down", time.Now().Add(-time.Second)))
	require.NoError(t, repo.MarkDead(ctx, dead.ID, "max retries"))

	unpublished, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unpublished, 1)
	assert.Equal(t, retrying.ID, unpublished[0].ID)
	assert.Equal(t, 1, unpublished[0].RetryCount)
	require.NotNil(t, unpublished[0].LastError)
	assert.Equal(t, "broker down", *unpublished[0].LastError)

	failed, err := repo.GetFailed(ctx, 5, 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, retrying.ID, failed[0].ID)
}

func TestSQLiteRepository_FutureRetryIsHidden(t *testing.T) {
	_, repo := setupSQLiteOutbox(t)
	ctx := context.Background()

	msg := newStoredMessage("recruiting.task.status_changed")
	require.NoError(t, repo.Save(ctx, msg))
	require.NoError(t, repo.MarkFailed(ctx, msg.ID, "broker down", time.Now().Add(time.Hour)))

	messages, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestSQLiteRepository_SaveBatchJoinsTransaction(t *testing.T) {
	db, repo := setupSQLiteOutbox(t)
	uow := sharedPersistence.NewSQLiteUnitOfWork(db)
	ctx := context.Background()

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(txCtx, []*outbox.Message{newStoredMessage("recruiting.task.status_changed")}))
	require.NoError(t, uow.Rollback(txCtx))

	messages, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestSQLiteRepository_DeleteOld(t *testing.T) {
	db, repo := setupSQLiteOutbox(t)
	ctx := context.Background()

	old := newStoredMessage("recruiting.task.status_changed")
	fresh := newStoredMessage("recruiting.task.status_changed")
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{old, fresh}))
	require.NoError(t, repo.MarkPublished(ctx, fresh.ID))

	_, err := db.ExecContext(ctx, `UPDATE outbox SET published_at = ? WHERE id = ?`,
		sharedPersistence.FormatSQLiteTime(time.Now().AddDate(0, 0, -30)), old.ID)
	require.NoError(t, err)

	deleted, err := repo.DeleteOld(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
