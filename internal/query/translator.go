package query

import (
	"github.com/homesignal/backend/internal/entities"
	"github.com/homesignal/backend/internal/geo"
)

// Translate converts a saved search's filter object into a predicate
// tree. All scalar predicates are combined with AND; absent predicates
// impose no constraint. Pure and deterministic, no I/O.
func Translate(filters entities.SearchFilters) Node {

	var nodes []Node

	if filters.Location != "" {
		nodes = append(nodes, ContainsText{
			Fields: []Field{FieldCity, FieldProvince, FieldZipCode},
			Text:   filters.Location,
		})
	}
	if filters.PropertyType != "" {
		nodes = append(nodes, Cmp{Field: FieldPropertyType, Op: OpEq, Value: string(filters.PropertyType)})
	}
	if filters.ListingType != "" {
		nodes = append(nodes, Cmp{Field: FieldListingType, Op: OpEq, Value: string(filters.ListingType)})
	}
	if filters.PriceMin != nil {
		nodes = append(nodes, Cmp{Field: FieldPrice, Op: OpGte, Value: *filters.PriceMin})
	}
	if filters.PriceMax != nil {
		nodes = append(nodes, Cmp{Field: FieldPrice, Op: OpLte, Value: *filters.PriceMax})
	}
	if filters.Rooms != nil {
		nodes = append(nodes, Cmp{Field: FieldRooms, Op: OpGte, Value: *filters.Rooms})
	}
	if filters.Bedrooms != nil {
		nodes = append(nodes, Cmp{Field: FieldBedrooms, Op: OpGte, Value: *filters.Bedrooms})
	}
	if filters.Bathrooms != nil {
		nodes = append(nodes, Cmp{Field: FieldBathrooms, Op: OpGte, Value: *filters.Bathrooms})
	}

	amenities := []struct {
		field Field
		flag  *bool
	}{
		{FieldHasElevator, filters.HasElevator},
		{FieldHasBalcony, filters.HasBalcony},
		{FieldHasGarden, filters.HasGarden},
		{FieldHasParking, filters.HasParking},
	}
	for _, amenity := range amenities {
		if amenity.flag != nil {
			nodes = append(nodes, Cmp{Field: amenity.field, Op: OpEq, Value: *amenity.flag})
		}
	}

	if spatial := translateGeo(filters); spatial != nil {
		nodes = append(nodes, spatial)
	}

	return And{Nodes: nodes}
}

// translateGeo emits the spatial predicate of the filter, preferring the
// radius constraint when both are somehow set.
func translateGeo(filters entities.SearchFilters) Node {
	if filters.Radius != nil {
		return WithinDistance{
			Center: filters.Radius.Center,
			Meters: filters.Radius.Km * 1000,
		}
	}
	if len(filters.Polygon) >= 3 {
		return ContainsPoint{Ring: geo.CloseRing(filters.Polygon)}
	}
	return nil
}
