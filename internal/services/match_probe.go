package services

import (
	"context"

	"github.com/homesignal/backend/internal/entities"
	"github.com/homesignal/backend/internal/query"
	"github.com/pkg/errors"
)

type propertyRepository interface {
	ExistsMatching(ctx context.Context, pred query.Node) (bool, error)
}

// MatchProbe answers whether at least one eligible property was created
// since a saved search's watermark.
type MatchProbe struct {
	properties propertyRepository
}

func NewMatchProbe(properties propertyRepository) *MatchProbe {
	return &MatchProbe{properties: properties}
}

// HasMatch builds the full predicate for the search and asks the store
// for the existence of one row. Storage errors propagate to the caller.
func (p *MatchProbe) HasMatch(ctx context.Context, search entities.SavedSearch) (bool, error) {

	filters, err := search.FilterSet()
	if err != nil {
		return false, err
	}
	if err = filters.Validate(); err != nil {
		return false, errors.Wrapf(err, "invalid filters of saved search %v", search.ID)
	}

	nodes := []query.Node{
		query.Cmp{Field: query.FieldCreatedAt, Op: query.OpGte, Value: search.LastSearchedAt},
		query.Cmp{Field: query.FieldStatus, Op: query.OpEq, Value: search.StatusFilter()},
	}
	if search.AgencyID != "" {
		nodes = append(nodes, query.AgencyIs{ID: search.AgencyID})
	}
	nodes = append(nodes, query.Translate(filters))

	return p.properties.ExistsMatching(ctx, query.And{Nodes: nodes})
}
