package query

import (
	"testing"

	"github.com/homesignal/backend/internal/entities"
	"github.com/homesignal/backend/internal/geo"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func Test_Translate_WhenFiltersEmpty_ShouldReturnEmptyAnd(t *testing.T) {
	node := Translate(entities.SearchFilters{})

	and, ok := node.(And)
	assert.True(t, ok)
	assert.Empty(t, and.Nodes)
}

func Test_Translate_ScalarFilters_ShouldCombineWithAnd(t *testing.T) {
	filters := entities.SearchFilters{
		Location:     "Milano",
		PropertyType: entities.Apartment,
		ListingType:  entities.Sale,
		PriceMin:     ptr(100000.0),
		PriceMax:     ptr(250000.0),
		Rooms:        ptr(3),
		HasElevator:  ptr(true),
	}

	and, ok := Translate(filters).(And)
	assert.True(t, ok)

	assert.Contains(t, and.Nodes, ContainsText{
		Fields: []Field{FieldCity, FieldProvince, FieldZipCode},
		Text:   "Milano",
	})
	assert.Contains(t, and.Nodes, Cmp{Field: FieldPropertyType, Op: OpEq, Value: string(entities.Apartment)})
	assert.Contains(t, and.Nodes, Cmp{Field: FieldListingType, Op: OpEq, Value: string(entities.Sale)})
	assert.Contains(t, and.Nodes, Cmp{Field: FieldPrice, Op: OpGte, Value: 100000.0})
	assert.Contains(t, and.Nodes, Cmp{Field: FieldPrice, Op: OpLte, Value: 250000.0})
	assert.Contains(t, and.Nodes, Cmp{Field: FieldRooms, Op: OpGte, Value: 3})
	assert.Contains(t, and.Nodes, Cmp{Field: FieldHasElevator, Op: OpEq, Value: true})
	assert.Len(t, and.Nodes, 7)
}

func Test_Translate_RadiusFilter_ShouldConvertKmToMeters(t *testing.T) {
	center := geo.Point{Lon: 9.19, Lat: 45.4642}
	filters := entities.SearchFilters{
		Radius: &entities.RadiusFilter{Center: center, Km: 5},
	}

	and := Translate(filters).(And)

	assert.Contains(t, and.Nodes, WithinDistance{Center: center, Meters: 5000})
}

func Test_Translate_PolygonFilter_ShouldCloseRing(t *testing.T) {
	filters := entities.SearchFilters{
		Polygon: []geo.Point{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}},
	}

	and := Translate(filters).(And)

	assert.Len(t, and.Nodes, 1)
	contains, ok := and.Nodes[0].(ContainsPoint)
	assert.True(t, ok)
	assert.Len(t, contains.Ring, 4)
	assert.True(t, contains.Ring[0].Equal(contains.Ring[3]))
}

func Test_Translate_WhenRadiusAndPolygonBothSet_ShouldPreferRadius(t *testing.T) {
	filters := entities.SearchFilters{
		Radius:  &entities.RadiusFilter{Center: geo.Point{Lon: 9.19, Lat: 45.4642}, Km: 2},
		Polygon: []geo.Point{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}},
	}

	and := Translate(filters).(And)

	assert.Len(t, and.Nodes, 1)
	_, ok := and.Nodes[0].(WithinDistance)
	assert.True(t, ok)
}

func Test_Translate_IsDeterministic(t *testing.T) {
	filters := entities.SearchFilters{
		HasElevator: ptr(true),
		HasBalcony:  ptr(false),
		HasGarden:   ptr(true),
		HasParking:  ptr(false),
	}

	first := Translate(filters)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Translate(filters))
	}
}
