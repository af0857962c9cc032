package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyc-gateway/internal/domain"
	"kyc-gateway/pkg/platform/sentinel"
)

func TestUserStoreAutoIDsAreSequential(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryUserStore()

	first, err := store.NextAutoID(ctx)
	require.NoError(t, err)
	second, err := store.NextAutoID(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestApplicationStoreFindActiveByUser(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryApplicationStore()
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	_, err := store.FindActiveByUser(ctx, "u1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	old := domain.NewApplication("u1", now)
	old.Status = domain.ApplicationFailed
	require.NoError(t, store.Save(ctx, old))

	_, err = store.FindActiveByUser(ctx, "u1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound, "terminal applications are not active")

	active := domain.NewApplication("u1", now.Add(time.Hour))
	require.NoError(t, store.Save(ctx, active))

	got, err := store.FindActiveByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)
}

func TestDocumentStoreListsInUploadOrder(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryDocumentStore()
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	// Same timestamp on purpose: insertion order must still hold.
	passport := domain.NewDocument("app-1", domain.DocumentPassport, "ref-1", "passport.jpg", now)
	visa := domain.NewDocument("app-1", domain.DocumentVisa, "ref-2", "visa.jpg", now)
	other := domain.NewDocument("app-2", domain.DocumentIDCard, "ref-3", "id.jpg", now)
	for _, doc := range []domain.Document{passport, visa, other} {
		require.NoError(t, store.Save(ctx, doc))
	}

	docs, err := store.ListByApplication(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, passport.ID, docs[0].ID)
	assert.Equal(t, visa.ID, docs[1].ID)
}

func TestStageStoreUpsertsSingleRow(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStageStore()
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	stg := domain.NewStage("app-1", domain.StageOCRProcessing, domain.StageInProgress, now)
	require.NoError(t, store.Save(ctx, stg))

	stg.Status = domain.StageCompleted
	require.NoError(t, store.Save(ctx, stg))

	stages, err := store.ListByApplication(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, domain.StageCompleted, stages[0].Status)

	found, err := store.Find(ctx, "app-1", domain.StageOCRProcessing)
	require.NoError(t, err)
	assert.Equal(t, stg.ID, found.ID)

	_, err = store.Find(ctx, "app-1", domain.StageFraudCheck)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
