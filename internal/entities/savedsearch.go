package entities

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// SavedSearch is a persisted filter a user wants re-evaluated over time.
// The matching scheduler is the only writer of LastSearchedAt; everything
// else belongs to the user-facing search feature.
type SavedSearch struct {
	ID                   string `gorm:"primaryKey"`
	UserID               string `gorm:"index"`
	Name                 string
	Filters              string // JSON-encoded SearchFilters
	Status               string
	AgencyID             string
	NotificationsEnabled bool `gorm:"index"`
	LastSearchedAt       time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// FilterSet decodes the serialized filter object.
func (s *SavedSearch) FilterSet() (SearchFilters, error) {
	var filters SearchFilters
	if s.Filters == "" {
		return filters, nil
	}
	if err := json.Unmarshal([]byte(s.Filters), &filters); err != nil {
		return filters, errors.Wrapf(err, "decode filters of saved search %v", s.ID)
	}
	return filters, nil
}

// StatusFilter returns the listing status the search is interested in,
// defaulting to active listings.
func (s *SavedSearch) StatusFilter() string {
	if s.Status == "" {
		return PropertyStatusActive
	}
	return s.Status
}
