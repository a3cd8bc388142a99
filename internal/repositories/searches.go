package repositories

import (
	"context"
	"time"

	"github.com/homesignal/backend/internal/entities"
	"gorm.io/gorm"
)

type SavedSearches struct {
	db *gorm.DB
}

func NewSavedSearchRepository(db *gorm.DB) *SavedSearches {
	return &SavedSearches{db: db}
}

// GetNotificationEnabled pages through notification-enabled saved
// searches ordered by creation time ascending.
func (repo *SavedSearches) GetNotificationEnabled(ctx context.Context, limit int, offset int) ([]entities.SavedSearch, error) {

	var searches []entities.SavedSearch
	if err := repo.db.WithContext(ctx).
		Where("notifications_enabled = ?", true).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&searches).Error; err != nil {
		return nil, err
	}
	return searches, nil
}

// UpdateLastSearchedAt advances the watermark of a saved search.
func (repo *SavedSearches) UpdateLastSearchedAt(ctx context.Context, id string, t time.Time) error {
	return repo.db.WithContext(ctx).Model(&entities.SavedSearch{}).Where("id = ?", id).
		Updates(map[string]any{
			"last_searched_at": t.UTC(),
		}).Error
}

func (repo *SavedSearches) GetByID(ctx context.Context, id string) (*entities.SavedSearch, error) {

	var search entities.SavedSearch
	if err := repo.db.WithContext(ctx).First(&search, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &search, nil
}
