package repositories

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/homesignal/backend/internal/entities"
	"github.com/homesignal/backend/internal/geo"
	"github.com/homesignal/backend/internal/query"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type Properties struct {
	db *gorm.DB
}

func NewPropertiesRepository(db *gorm.DB) *Properties {
	return &Properties{db: db}
}

// Candidates matching the non-spatial part of a predicate are streamed
// in pages of this size while the spatial part is verified in Go.
const spatialCandidatePageSize = 200

// ExistsMatching reports whether at least one property satisfies the
// predicate tree. It stops at the first hit and never materializes the
// full result set.
func (repo *Properties) ExistsMatching(ctx context.Context, pred query.Node) (bool, error) {

	plan, err := compile(pred)
	if err != nil {
		return false, err
	}

	q := repo.db.WithContext(ctx).Model(&entities.Property{})
	if plan.agencyID != "" {
		q = q.Joins("JOIN users agents ON agents.id = properties.agent_id").
			Where("agents.agency_id = ?", plan.agencyID)
	}
	if plan.where != "" {
		q = q.Where(plan.where, plan.args...)
	}
	q = q.Session(&gorm.Session{})

	if len(plan.spatial) == 0 {
		var ids []string
		if err = q.Limit(1).Pluck("properties.id", &ids).Error; err != nil {
			return false, err
		}
		return len(ids) > 0, nil
	}

	// Spatial predicates are verified in Go; the SQL carries only their
	// bounding-box prefilter, so candidates stream in pages until the
	// first exact hit.
	for offset := 0; ; offset += spatialCandidatePageSize {
		var candidates []entities.Property
		if err = q.Order("properties.created_at ASC").
			Limit(spatialCandidatePageSize).
			Offset(offset).
			Find(&candidates).Error; err != nil {
			return false, err
		}

		for _, property := range candidates {
			if matchesSpatial(property, plan.spatial) {
				return true, nil
			}
		}

		if len(candidates) < spatialCandidatePageSize {
			return false, nil
		}
	}
}

// queryPlan is the sqlite rendition of a predicate tree: a WHERE
// fragment, the spatial predicates left for exact evaluation, and the
// agency restriction which needs a join.
type queryPlan struct {
	where    string
	args     []any
	spatial  []query.SpatialPredicate
	agencyID string
}

func compile(node query.Node) (*queryPlan, error) {
	plan := &queryPlan{}
	expr, args, err := plan.compileNode(node)
	if err != nil {
		return nil, err
	}
	plan.where = expr
	plan.args = args
	return plan, nil
}

func (plan *queryPlan) compileNode(node query.Node) (string, []any, error) {
	switch n := node.(type) {
	case query.And:
		return plan.compileJoin(n.Nodes, " AND ")
	case query.Or:
		return plan.compileJoin(n.Nodes, " OR ")
	case query.Cmp:
		switch n.Op {
		case query.OpEq, query.OpGte, query.OpLte:
		default:
			return "", nil, errors.Errorf("unsupported comparison operator %q", n.Op)
		}
		return fmt.Sprintf("properties.%s %s ?", n.Field, n.Op), []any{n.Value}, nil
	case query.ContainsText:
		parts := lo.Map(n.Fields, func(field query.Field, _ int) string {
			return fmt.Sprintf("UPPER(properties.%s) LIKE ?", field)
		})
		pattern := "%" + strings.ToUpper(n.Text) + "%"
		args := make([]any, len(parts))
		for i := range args {
			args[i] = pattern
		}
		return "(" + strings.Join(parts, " OR ") + ")", args, nil
	case query.AgencyIs:
		if plan.agencyID != "" && plan.agencyID != n.ID {
			return "", nil, errors.New("conflicting agency predicates")
		}
		plan.agencyID = n.ID
		return "", nil, nil
	case query.WithinDistance:
		plan.spatial = append(plan.spatial, n)
		return boundingBoxAround(n.Center, n.Meters)
	case query.ContainsPoint:
		plan.spatial = append(plan.spatial, n)
		return boundingBoxOfRing(n.Ring)
	default:
		return "", nil, errors.Errorf("unsupported predicate node %T", node)
	}
}

func (plan *queryPlan) compileJoin(nodes []query.Node, sep string) (string, []any, error) {

	var parts []string
	var args []any

	for _, child := range nodes {
		expr, childArgs, err := plan.compileNode(child)
		if err != nil {
			return "", nil, err
		}
		if expr == "" {
			continue
		}
		parts = append(parts, expr)
		args = append(args, childArgs...)
	}

	if len(parts) == 0 {
		return "", nil, nil
	}
	if len(parts) == 1 {
		return parts[0], args, nil
	}
	joined := strings.Join(parts, sep)
	if sep == " OR " {
		joined = "(" + joined + ")"
	}
	return joined, args, nil
}

const metersPerDegree = 111320.0

func boundingBoxAround(center geo.Point, meters float64) (string, []any, error) {

	latDelta := meters / metersPerDegree
	lonDelta := 180.0
	if cosLat := math.Cos(center.Lat * math.Pi / 180); cosLat > 1e-6 {
		lonDelta = meters / (metersPerDegree * cosLat)
	}

	return "properties.latitude BETWEEN ? AND ? AND properties.longitude BETWEEN ? AND ?",
		[]any{center.Lat - latDelta, center.Lat + latDelta, center.Lon - lonDelta, center.Lon + lonDelta}, nil
}

func boundingBoxOfRing(ring []geo.Point) (string, []any, error) {

	if len(ring) == 0 {
		return "", nil, errors.New("empty polygon ring")
	}

	lons := lo.Map(ring, func(p geo.Point, _ int) float64 { return p.Lon })
	lats := lo.Map(ring, func(p geo.Point, _ int) float64 { return p.Lat })

	return "properties.latitude BETWEEN ? AND ? AND properties.longitude BETWEEN ? AND ?",
		[]any{lo.Min(lats), lo.Max(lats), lo.Min(lons), lo.Max(lons)}, nil
}

func matchesSpatial(property entities.Property, preds []query.SpatialPredicate) bool {

	point := property.Point()
	for _, pred := range preds {
		switch p := pred.(type) {
		case query.WithinDistance:
			if geo.Distance(point, p.Center) > p.Meters {
				return false
			}
		case query.ContainsPoint:
			if !geo.InRing(point, p.Ring) {
				return false
			}
		}
	}
	return true
}
