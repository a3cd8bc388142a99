package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/homesignal/backend/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSearch(t *testing.T, dbCtx *DbContext, enabled bool, createdAt time.Time) entities.SavedSearch {

	search := entities.SavedSearch{
		ID:                   uuid.NewString(),
		UserID:               uuid.NewString(),
		Name:                 "test search",
		Filters:              `{}`,
		NotificationsEnabled: enabled,
		CreatedAt:            createdAt,
	}
	require.NoError(t, dbCtx.DB.Create(&search).Error)
	return search
}

func Test_GetNotificationEnabled_ShouldSkipDisabledSearches(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewSavedSearchRepository(dbCtx.DB)

	enabled := seedSearch(t, dbCtx, true, time.Now())
	seedSearch(t, dbCtx, false, time.Now())

	searches, err := repo.GetNotificationEnabled(context.Background(), 10, 0)

	assert.NoError(t, err)
	require.Len(t, searches, 1)
	assert.Equal(t, enabled.ID, searches[0].ID)
}

func Test_GetNotificationEnabled_ShouldPageInCreationOrder(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewSavedSearchRepository(dbCtx.DB)

	oldest := seedSearch(t, dbCtx, true, time.Now().Add(-3*time.Hour))
	middle := seedSearch(t, dbCtx, true, time.Now().Add(-2*time.Hour))
	newest := seedSearch(t, dbCtx, true, time.Now().Add(-time.Hour))

	firstPage, err := repo.GetNotificationEnabled(context.Background(), 2, 0)
	assert.NoError(t, err)
	require.Len(t, firstPage, 2)
	assert.Equal(t, oldest.ID, firstPage[0].ID)
	assert.Equal(t, middle.ID, firstPage[1].ID)

	secondPage, err := repo.GetNotificationEnabled(context.Background(), 2, 2)
	assert.NoError(t, err)
	require.Len(t, secondPage, 1)
	assert.Equal(t, newest.ID, secondPage[0].ID)
}

func Test_UpdateLastSearchedAt_ShouldAdvanceWatermark(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewSavedSearchRepository(dbCtx.DB)

	search := seedSearch(t, dbCtx, true, time.Now())
	watermark := time.Now().Truncate(time.Second)

	require.NoError(t, repo.UpdateLastSearchedAt(context.Background(), search.ID, watermark))

	updated, err := repo.GetByID(context.Background(), search.ID)
	assert.NoError(t, err)
	assert.Equal(t, watermark.UTC(), updated.LastSearchedAt.UTC())
}
