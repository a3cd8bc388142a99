package repositories

import (
	"context"
	"time"

	"github.com/homesignal/backend/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Notifications struct {
	db *gorm.DB
}

func NewNotificationsRepository(db *gorm.DB) *Notifications {
	return &Notifications{db: db}
}

// FindRecentByUserAndReference returns the newest match notification for
// the user referencing the given saved search created at or after since,
// or nil when none exists.
func (repo *Notifications) FindRecentByUserAndReference(ctx context.Context, userID string,
	reference string, since time.Time) (*entities.Notification, error) {

	var notification entities.Notification
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND reference = ? AND created_at >= ?",
			userID, entities.NotificationTypeSavedSearchMatch, reference, since.UTC()).
		Order("created_at DESC").
		First(&notification).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

func (repo *Notifications) Create(ctx context.Context, notification *entities.Notification) error {
	return repo.db.WithContext(ctx).Create(notification).Error
}

// ListUnsent returns up to limit pending notifications oldest-first,
// joined with the recipient's email and the creator's agency name.
func (repo *Notifications) ListUnsent(ctx context.Context, limit int) ([]entities.PendingNotification, error) {

	var pending []entities.PendingNotification
	err := repo.db.WithContext(ctx).
		Model(&entities.Notification{}).
		Select("notifications.id, notifications.user_id, notifications.title, notifications.message, "+
			"notifications.action_url, notifications.created_at, "+
			"recipients.email AS recipient_email, recipients.first_name AS recipient_name, "+
			"agencies.name AS agency_name").
		Joins("LEFT JOIN users recipients ON recipients.id = notifications.user_id").
		Joins("LEFT JOIN users creators ON creators.id = notifications.creator_id").
		Joins("LEFT JOIN agencies ON agencies.id = creators.agency_id").
		Where("notifications.sent_at IS NULL").
		Order("notifications.created_at ASC").
		Limit(limit).
		Scan(&pending).Error

	if err != nil {
		return nil, err
	}
	return pending, nil
}

// MarkSent sets sent_at once; a notification already marked stays
// untouched.
func (repo *Notifications) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	return repo.db.WithContext(ctx).Model(&entities.Notification{}).
		Where("id = ? AND sent_at IS NULL", id).
		Update("sent_at", sentAt.UTC()).Error
}

func (repo *Notifications) CountUnsent(ctx context.Context) (int64, error) {

	var count int64
	if err := repo.db.WithContext(ctx).Model(&entities.Notification{}).
		Where("sent_at IS NULL").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
