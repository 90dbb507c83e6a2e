package queries

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func createTestTask(t *testing.T, id, title string, grade int, required bool, deps ...string) *task.Task {
	t.Helper()
	tk, err := task.NewTask(task.Params{
		ID:                id,
		Title:             title,
		WhyItMatters:      title + " matters",
		GradeLevel:        grade,
		Required:          required,
		DependencyTaskIDs: deps,
	})
	require.NoError(t, err)
	return tk
}

// recruitingCatalog is profile -> video -> email, plus an optional camp.
func recruitingCatalog(t *testing.T) *task.Catalog {
	t.Helper()
	c, err := task.NewCatalog(
		createTestTask(t, "profile", "Create athlete profile", 9, true),
		createTestTask(t, "video", "Record highlight video", 10, true, "profile"),
		createTestTask(t, "email", "Email coaches", 10, true, "profile", "video"),
		createTestTask(t, "camp", "Attend a summer camp", 11, false),
	)
	require.NoError(t, err)
	return c
}

func ledgerWith(t *testing.T, athleteID uuid.UUID, statuses map[string]ledger.Status) *ledger.Ledger {
	t.Helper()
	l, err := ledger.NewLedger(athleteID)
	require.NoError(t, err)
	for id, status := range statuses {
		e, err := l.EntryOrNew(id)
		require.NoError(t, err)
		require.NoError(t, e.TransitionTo(status))
	}
	return l
}
