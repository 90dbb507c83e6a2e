package commands

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type txKey struct{}

// mockCatalogRepo is a mock implementation of task.CatalogRepository.
type mockCatalogRepo struct {
	mock.Mock
}

func (m *mockCatalogRepo) Load(ctx context.Context) (*task.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Catalog), args.Error(1)
}

func (m *mockCatalogRepo) Replace(ctx context.Context, catalog *task.Catalog) error {
	args := m.Called(ctx, catalog)
	return args.Error(0)
}

// mockLedgerRepo is a mock implementation of ledger.Repository.
type mockLedgerRepo struct {
	mock.Mock
}

func (m *mockLedgerRepo) FindByAthlete(ctx context.Context, athleteID uuid.UUID) (*ledger.Ledger, error) {
	args := m.Called(ctx, athleteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Ledger), args.Error(1)
}

func (m *mockLedgerRepo) Save(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// mockStatusStore is a mock implementation of progress.StatusStore.
type mockStatusStore struct {
	mock.Mock
}

func (m *mockStatusStore) LastStatus(ctx context.Context, athleteID uuid.UUID) (progress.CompositeStatus, bool, error) {
	args := m.Called(ctx, athleteID)
	return args.Get(0).(progress.CompositeStatus), args.Bool(1), args.Error(2)
}

func (m *mockStatusStore) SaveStatus(ctx context.Context, athleteID uuid.UUID, status progress.CompositeStatus) error {
	args := m.Called(ctx, athleteID, status)
	return args.Error(0)
}

// mockOutboxRepo is a mock implementation of outbox.Repository.
type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, err, nextRetryAt)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetFailed(ctx context.Context, maxRetries, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, maxRetries, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

// mockUnitOfWork is a mock implementation of UnitOfWork.
type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func testCatalog(t *testing.T) *task.Catalog {
	t.Helper()
	profile, err := task.NewTask(task.Params{ID: "profile", Title: "Create athlete profile", GradeLevel: 9, Required: true})
	require.NoError(t, err)
	email, err := task.NewTask(task.Params{
		ID:                "email-coaches",
		Title:             "Email coaches",
		GradeLevel:        10,
		Required:          true,
		DependencyTaskIDs: []string{"profile"},
	})
	require.NoError(t, err)
	catalog, err := task.NewCatalog(profile, email)
	require.NoError(t, err)
	return catalog
}

func emptyLedger(t *testing.T, athleteID uuid.UUID) *ledger.Ledger {
	t.Helper()
	l, err := ledger.NewLedger(athleteID)
	require.NoError(t, err)
	return l
}
