package entities

import (
	"github.com/go-playground/validator/v10"
	"github.com/homesignal/backend/internal/geo"
)

type PropertyType string

const (
	Apartment  PropertyType = "APARTMENT"
	House      PropertyType = "HOUSE"
	Villa      PropertyType = "VILLA"
	Office     PropertyType = "OFFICE"
	Commercial PropertyType = "COMMERCIAL"
	Garage     PropertyType = "GARAGE"
	Land       PropertyType = "LAND"
)

type ListingType string

const (
	Sale ListingType = "SALE"
	Rent ListingType = "RENT"
)

// RadiusFilter constrains matches to a circle around a center point.
type RadiusFilter struct {
	Center geo.Point `json:"center"`
	Km     float64   `json:"km" validate:"gt=0,lte=500"`
}

// SearchFilters is the declarative filter object of a saved search:
// scalar predicates plus at most one geographic constraint. Radius and
// polygon are mutually exclusive by contract; exclusivity is enforced at
// the request boundary, not here.
type SearchFilters struct {
	Location     string       `json:"location,omitempty"`
	PropertyType PropertyType `json:"propertyType,omitempty"`
	ListingType  ListingType  `json:"listingType,omitempty"`
	PriceMin     *float64     `json:"priceMin,omitempty" validate:"omitempty,gte=0"`
	PriceMax     *float64     `json:"priceMax,omitempty" validate:"omitempty,gte=0"`
	Rooms        *int         `json:"rooms,omitempty" validate:"omitempty,gte=0"`
	Bedrooms     *int         `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms    *int         `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	HasElevator  *bool        `json:"hasElevator,omitempty"`
	HasBalcony   *bool        `json:"hasBalcony,omitempty"`
	HasGarden    *bool        `json:"hasGarden,omitempty"`
	HasParking   *bool        `json:"hasParking,omitempty"`

	Radius  *RadiusFilter `json:"radius,omitempty"`
	Polygon []geo.Point   `json:"polygon,omitempty" validate:"omitempty,min=3,max=100,dive"`
}

var filtersValidator = validator.New()

func (f SearchFilters) Validate() error {
	return filtersValidator.Struct(f)
}
