package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowscope/flowscope/internal/domain"
	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
)

func createTestExperiment(name string) *domain.Experiment {
	now := time.Now()
	return &domain.Experiment{
		ID:          uuid.New(),
		Name:        name,
		Description: "integration test experiment",
		Tags:        []string{"test"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestExperimentRepository_CreateAndGet(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	repo := NewExperimentRepository(db)
	ctx := context.Background()

	exp := createTestExperiment("exp-" + uuid.New().String())
	require.NoError(t, repo.Create(ctx, exp))

	fetched, err := repo.GetByID(ctx, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, exp.Name, fetched.Name)
	assert.Nil(t, fetched.ArchivedAt)

	byName, err := repo.GetByName(ctx, exp.Name)
	require.NoError(t, err)
	assert.Equal(t, exp.ID, byName.ID)
}

func TestExperimentRepository_Archive(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	repo := NewExperimentRepository(db)
	ctx := context.Background()

	exp := createTestExperiment("exp-" + uuid.New().String())
	require.NoError(t, repo.Create(ctx, exp))
	require.NoError(t, repo.Archive(ctx, exp.ID))

	// Archiving twice reports not found.
	err := repo.Archive(ctx, exp.ID)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = repo.GetByName(ctx, exp.Name)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestExperimentRepository_GetMissing(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	repo := NewExperimentRepository(db)
	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}
