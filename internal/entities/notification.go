package entities

import "time"

const NotificationTypeSavedSearchMatch = "new-match-for-saved-search"

// Notification is one aggregate message for a user. SentAt is nil while
// the notification waits for delivery and is set exactly once by the
// delivery scheduler; it never reverts.
type Notification struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	CreatorID string // user whose action produced the notification, if any
	Type      string
	Title     string
	Message   string
	ActionURL string
	Reference string `gorm:"index"` // originating saved search
	ReadAt    *time.Time
	SentAt    *time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingNotification is an unsent notification joined with enough
// recipient data to send it.
type PendingNotification struct {
	ID             string
	UserID         string
	Title          string
	Message        string
	ActionURL      string
	RecipientEmail string
	RecipientName  string
	AgencyName     string
	CreatedAt      time.Time
}
