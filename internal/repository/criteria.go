package repository

import (
	"fmt"
	"strings"
)

// SearchCriteria is the set of optional parcel search filters. Every
// present field contributes one AND-ed condition; absent fields
// contribute none, and an empty criteria matches everything.
//
// Zero values mean "not specified": a caller cannot express "exactly
// zero minimum acreage" as a filter distinct from no minimum. That
// matches the behavior callers already depend on; do not change it
// without a product decision.
type SearchCriteria struct {
	MinAcres     float64   `json:"min_acres"`
	MaxAcres     float64   `json:"max_acres"`
	ZoningType   string    `json:"zoning_type"`
	VacantOnly   bool      `json:"vacant_only"`
	RoadFrontage int       `json:"road_frontage"`
	SlopeRange   []float64 `json:"slope_range"`
}

// buildWhereClause translates criteria into a parameterized WHERE
// predicate and its argument list. Values are never interpolated into
// the SQL text.
//
// VacantOnly matches NULL or empty owner names; the slope range only
// contributes when exactly two elements are supplied.
func buildWhereClause(c SearchCriteria) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if c.MinAcres != 0 {
		args = append(args, c.MinAcres)
		conditions = append(conditions, fmt.Sprintf("acres >= $%d", len(args)))
	}

	if c.MaxAcres != 0 {
		args = append(args, c.MaxAcres)
		conditions = append(conditions, fmt.Sprintf("acres <= $%d", len(args)))
	}

	if c.ZoningType != "" {
		args = append(args, c.ZoningType)
		conditions = append(conditions, fmt.Sprintf("zoning_code = $%d", len(args)))
	}

	if c.VacantOnly {
		conditions = append(conditions, "(owner_name IS NULL OR owner_name = '')")
	}

	if c.RoadFrontage != 0 {
		args = append(args, c.RoadFrontage)
		conditions = append(conditions, fmt.Sprintf("road_frontage >= $%d", len(args)))
	}

	if len(c.SlopeRange) == 2 {
		args = append(args, c.SlopeRange[0], c.SlopeRange[1])
		conditions = append(conditions, fmt.Sprintf("slope_percent BETWEEN $%d AND $%d", len(args)-1, len(args)))
	}

	if len(conditions) == 0 {
		return "1=1", nil
	}

	return strings.Join(conditions, " AND "), args
}
