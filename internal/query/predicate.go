package query

import "github.com/homesignal/backend/internal/geo"

// Field names a property attribute a predicate compares against. Values
// match the storage column names.
type Field string

const (
	FieldCreatedAt    Field = "created_at"
	FieldStatus       Field = "status"
	FieldPropertyType Field = "property_type"
	FieldListingType  Field = "listing_type"
	FieldPrice        Field = "price"
	FieldRooms        Field = "rooms"
	FieldBedrooms     Field = "bedrooms"
	FieldBathrooms    Field = "bathrooms"
	FieldHasElevator  Field = "has_elevator"
	FieldHasBalcony   Field = "has_balcony"
	FieldHasGarden    Field = "has_garden"
	FieldHasParking   Field = "has_parking"
	FieldCity         Field = "city"
	FieldProvince     Field = "province"
	FieldZipCode      Field = "zip_code"
)

type Op string

const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpLte Op = "<="
)

// Node is one predicate in an engine-agnostic tree. The storage adapter
// translates the tree into whatever query syntax its engine supports.
type Node interface {
	node()
}

type And struct {
	Nodes []Node
}

type Or struct {
	Nodes []Node
}

// Cmp compares a single field against a value.
type Cmp struct {
	Field Field
	Op    Op
	Value any
}

// ContainsText matches when any of the fields contains the text,
// case-insensitively.
type ContainsText struct {
	Fields []Field
	Text   string
}

// AgencyIs restricts matches to listings owned by agents of one agency.
type AgencyIs struct {
	ID string
}

// SpatialPredicate marks the nodes a storage adapter must evaluate
// geographically. There are exactly two variants: WithinDistance and
// ContainsPoint.
type SpatialPredicate interface {
	Node
	spatial()
}

// WithinDistance matches points within Meters of Center.
type WithinDistance struct {
	Center geo.Point
	Meters float64
}

// ContainsPoint matches points inside the closed linear Ring.
type ContainsPoint struct {
	Ring []geo.Point
}

func (And) node()            {}
func (Or) node()             {}
func (Cmp) node()            {}
func (ContainsText) node()   {}
func (AgencyIs) node()       {}
func (WithinDistance) node() {}
func (ContainsPoint) node()  {}

func (WithinDistance) spatial() {}
func (ContainsPoint) spatial()  {}
