package entities

import (
	"time"

	"github.com/homesignal/backend/internal/geo"
)

const (
	PropertyStatusActive = "active"
	PropertyStatusSold   = "sold"
	PropertyStatusRented = "rented"
)

// Property is a listing row. The pipeline only ever reads it; creation
// and updates belong to the listing feature.
type Property struct {
	ID           string `gorm:"primaryKey"`
	AgentID      string `gorm:"index"`
	Status       string
	PropertyType PropertyType
	ListingType  ListingType
	Price        float64
	Rooms        int
	Bedrooms     int
	Bathrooms    int
	HasElevator  bool
	HasBalcony   bool
	HasGarden    bool
	HasParking   bool
	City         string
	Province     string
	ZipCode      string
	Longitude    float64
	Latitude     float64
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

func (p *Property) Point() geo.Point {
	return geo.Point{Lon: p.Longitude, Lat: p.Latitude}
}
