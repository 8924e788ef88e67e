package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildWhereClause_Empty(t *testing.T) {
	clause, args := buildWhereClause(SearchCriteria{})

	assert.Equal(t, "1=1", clause)
	assert.Nil(t, args)
}

func TestBuildWhereClause_AllFilters(t *testing.T) {
	clause, args := buildWhereClause(SearchCriteria{
		MinAcres:     1,
		MaxAcres:     10,
		ZoningType:   "R-3",
		VacantOnly:   true,
		RoadFrontage: 50,
		SlopeRange:   []float64{0, 15},
	})

	assert.Equal(t,
		"acres >= $1 AND acres <= $2 AND zoning_code = $3 AND "+
			"(owner_name IS NULL OR owner_name = '') AND "+
			"road_frontage >= $4 AND slope_percent BETWEEN $5 AND $6",
		clause)
	assert.Equal(t, []interface{}{1.0, 10.0, "R-3", 50, 0.0, 15.0}, args)
}

func TestBuildWhereClause_ZeroValuesAreUnspecified(t *testing.T) {
	clause, args := buildWhereClause(SearchCriteria{
		MinAcres:     0,
		MaxAcres:     0,
		ZoningType:   "",
		RoadFrontage: 0,
	})

	assert.Equal(t, "1=1", clause)
	assert.Empty(t, args)
}

func TestBuildWhereClause_VacantOnlyIsParenthesized(t *testing.T) {
	clause, args := buildWhereClause(SearchCriteria{
		MinAcres:   2,
		VacantOnly: true,
	})

	assert.Equal(t, "acres >= $1 AND (owner_name IS NULL OR owner_name = '')", clause)
	assert.Equal(t, []interface{}{2.0}, args)
}

func TestBuildWhereClause_SlopeRangeRequiresTwoElements(t *testing.T) {
	tests := []struct {
		name  string
		slope []float64
		want  string
	}{
		{"nil", nil, "1=1"},
		{"empty", []float64{}, "1=1"},
		{"single element", []float64{5}, "1=1"},
		{"pair", []float64{5, 15}, "slope_percent BETWEEN $1 AND $2"},
		{"three elements", []float64{5, 15, 25}, "1=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, _ := buildWhereClause(SearchCriteria{SlopeRange: tt.slope})
			assert.Equal(t, tt.want, clause)
		})
	}
}

func TestBuildWhereClause_PlaceholdersStayOrdinal(t *testing.T) {
	// Skipped filters must not leave gaps in the placeholder numbering.
	clause, args := buildWhereClause(SearchCriteria{
		MaxAcres:   25,
		SlopeRange: []float64{1, 8},
	})

	assert.Equal(t, "acres <= $1 AND slope_percent BETWEEN $2 AND $3", clause)
	assert.Equal(t, []interface{}{25.0, 1.0, 8.0}, args)
}
