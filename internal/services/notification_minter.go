package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/homesignal/backend/internal/entities"
	"github.com/homesignal/backend/internal/events"
	gocache "github.com/patrickmn/go-cache"
)

type notificationRepository interface {
	FindRecentByUserAndReference(ctx context.Context, userID string, reference string, since time.Time) (*entities.Notification, error)
	Create(ctx context.Context, notification *entities.Notification) error
}

// DedupWindow is the interval during which at most one match
// notification per saved search may be created.
const DedupWindow = 24 * time.Hour

// NotificationMinter creates a single aggregate notification per saved
// search per dedup window. A small in-process cache short-circuits the
// store lookup for searches already handled recently.
type NotificationMinter struct {
	bus           EventBus.Bus
	notifications notificationRepository
	recent        *gocache.Cache
}

func NewNotificationMinter(bus EventBus.Bus, notifications notificationRepository) *NotificationMinter {
	return &NotificationMinter{
		bus:           bus,
		notifications: notifications,
		recent:        gocache.New(DedupWindow, time.Hour),
	}
}

// Mint persists one notification for the saved search unless an
// equivalent one was already created inside the dedup window. It returns
// whether a notification was created.
func (m *NotificationMinter) Mint(ctx context.Context, search entities.SavedSearch) (bool, error) {

	if _, found := m.recent.Get(search.ID); found {
		return false, nil
	}

	existing, err := m.notifications.FindRecentByUserAndReference(ctx, search.UserID, search.ID,
		time.Now().Add(-DedupWindow))
	if err != nil {
		return false, err
	}
	if existing != nil {
		m.cacheUntilWindowEnd(search.ID, existing.CreatedAt)
		return false, nil
	}

	notification := entities.Notification{
		ID:     uuid.NewString(),
		UserID: search.UserID,
		Type:   entities.NotificationTypeSavedSearchMatch,
		Title:  fmt.Sprintf("New properties for %q", search.Name),
		Message: fmt.Sprintf("New properties matching your saved search %q have been published. "+
			"Click to view them.", search.Name),
		ActionURL: searchActionURL(search),
		Reference: search.ID,
	}
	if err = m.notifications.Create(ctx, &notification); err != nil {
		return false, err
	}

	m.cacheUntilWindowEnd(search.ID, time.Now())
	m.bus.Publish(events.NotificationMintedTopic, events.NotificationMinted{
		NotificationID: notification.ID,
		SearchID:       search.ID,
		UserID:         search.UserID,
	})
	return true, nil
}

func (m *NotificationMinter) cacheUntilWindowEnd(searchID string, createdAt time.Time) {
	if ttl := time.Until(createdAt.Add(DedupWindow)); ttl > 0 {
		m.recent.Set(searchID, struct{}{}, ttl)
	}
}

// searchActionURL encodes the originating filters so the recipient can
// re-run the search from the notification.
func searchActionURL(search entities.SavedSearch) string {
	params := url.Values{}
	params.Set("savedSearchId", search.ID)
	if search.Filters != "" {
		params.Set("filters", search.Filters)
	}
	return "/search?" + params.Encode()
}
