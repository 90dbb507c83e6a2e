package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/recruitkit/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEntity(t *testing.T) {
	before := time.Now().UTC()
	entity := domain.NewBaseEntity()
	after := time.Now().UTC()

	assert.NotEqual(t, uuid.Nil, entity.ID())
	require.False(t, entity.CreatedAt().Before(before))
	require.False(t, entity.CreatedAt().After(after))
	assert.Equal(t, entity.CreatedAt(), entity.UpdatedAt())
}

func TestRehydrateBaseEntity(t *testing.T) {
	id := uuid.New()
	created := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	entity := domain.RehydrateBaseEntity(id, created, updated)

	assert.Equal(t, id, entity.ID())
	assert.Equal(t, created, entity.CreatedAt())
	assert.Equal(t, updated, entity.UpdatedAt())
}

func TestBaseEntity_Touch(t *testing.T) {
	entity := domain.NewBaseEntity()
	created := entity.CreatedAt()

	time.Sleep(time.Millisecond)
	entity.Touch()

	assert.True(t, entity.UpdatedAt().After(created))
	assert.Equal(t, created, entity.CreatedAt())
}

func TestBaseEntity_SameIdentity(t *testing.T) {
	id := uuid.New()
	a := domain.RehydrateBaseEntity(id, time.Now(), time.Now())
	b := domain.RehydrateBaseEntity(id, time.Now(), time.Now())
	c := domain.NewBaseEntity()

	assert.True(t, a.SameIdentity(b))
	assert.False(t, a.SameIdentity(c))
	assert.False(t, a.SameIdentity(nil))
}
