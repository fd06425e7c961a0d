package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWRT/taskboard/internal/models"
)

func newTestRepository(t *testing.T) *OperationRepository {
	t.Helper()

	db, err := InitDB(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewOperationRepository(db)
}

func TestInitDB_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	first, err := InitDB(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := InitDB(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestRecordAndList(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, models.Operation{
		Kind:      models.OperationCreate,
		TaskID:    "1",
		Outcome:   models.OutcomeSynced,
		CreatedAt: at,
	}))
	require.NoError(t, repo.Record(ctx, models.Operation{
		Kind:         models.OperationDelete,
		TaskID:       "2",
		Outcome:      models.OutcomeLocal,
		ErrorMessage: "HTTP error, status 503",
		CreatedAt:    at.Add(time.Minute),
	}))
	require.NoError(t, repo.Record(ctx, models.Operation{
		Kind:    models.OperationFetch,
		Outcome: models.OutcomeLocal,
	}))

	ops, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, ops, 3)

	// newest first
	assert.Equal(t, models.OperationFetch, ops[0].Kind)
	assert.Empty(t, ops[0].TaskID)
	assert.False(t, ops[0].CreatedAt.IsZero())

	assert.Equal(t, models.OperationDelete, ops[1].Kind)
	assert.Equal(t, "2", ops[1].TaskID)
	assert.Equal(t, models.OutcomeLocal, ops[1].Outcome)
	assert.Equal(t, "HTTP error, status 503", ops[1].ErrorMessage)
	assert.True(t, ops[1].CreatedAt.Equal(at.Add(time.Minute)))

	assert.Equal(t, models.OperationCreate, ops[2].Kind)
	assert.Equal(t, models.OutcomeSynced, ops[2].Outcome)
	assert.Greater(t, ops[1].ID, ops[2].ID)
}

func TestList_Limit(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(ctx, models.Operation{Kind: models.OperationStats, Outcome: models.OutcomeSynced}))
	}

	ops, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, ops, 2)
}

func TestListLocal(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, models.Operation{Kind: models.OperationUpdate, TaskID: "1", Outcome: models.OutcomeLocal, ErrorMessage: "boom"}))
	require.NoError(t, repo.Record(ctx, models.Operation{Kind: models.OperationUpdate, TaskID: "1", Outcome: models.OutcomeSynced}))
	require.NoError(t, repo.Record(ctx, models.Operation{Kind: models.OperationDelete, TaskID: "2", Outcome: models.OutcomeLocal}))
	require.NoError(t, repo.Record(ctx, models.Operation{Kind: models.OperationDelete, TaskID: "1", Outcome: models.OutcomeLocal}))

	ops, err := repo.ListLocal(ctx, "1")
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, models.OperationUpdate, ops[0].Kind)
	assert.Equal(t, "boom", ops[0].ErrorMessage)
	assert.Equal(t, models.OperationDelete, ops[1].Kind)

	none, err := repo.ListLocal(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}
