package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landmap/internal/models"
)

var searchColumns = []string{
	"parcel_id", "address", "owner_name", "acres", "zoning_code",
	"land_use", "road_frontage", "slope_percent", "utilities", "geometry",
}

var detailColumns = []string{
	"id", "parcel_id", "address", "owner_name", "owner_address", "acres",
	"zoning_code", "land_use", "road_frontage", "slope_percent",
	"utilities", "geometry", "created_at", "updated_at",
}

var regulationColumns = []string{
	"id", "zone_code", "zone_description", "min_lot_size", "max_density",
	"front_setback", "side_setback", "rear_setback", "max_height",
	"max_coverage", "allowed_uses", "created_at",
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func testParcel() *models.Parcel {
	return &models.Parcel{
		ParcelID:     "P001",
		Address:      strPtr("123 Main St"),
		OwnerName:    strPtr("John Doe"),
		OwnerAddress: strPtr("456 Oak Ave"),
		Acres:        floatPtr(5.2),
		ZoningCode:   strPtr("R-3"),
		LandUse:      strPtr(models.LandUseResidential),
		RoadFrontage: intPtr(444),
		Utilities:    []string{"Water", "Sewer", "Electric"},
		Geometry: models.Polygon{
			Coordinates: [][][2]float64{{{0, 0}, {0.001, 0}, {0.001, 0.001}, {0, 0.001}, {0, 0}}},
			SRID:        4326,
		},
	}
}

func TestUpsertParcel(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepository(mock)
	parcel := testParcel()

	geomJSON, err := parcel.Geometry.Value()
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO parcels").
		WithArgs(
			parcel.ParcelID,
			parcel.Address,
			parcel.OwnerName,
			parcel.OwnerAddress,
			parcel.Acres,
			parcel.ZoningCode,
			parcel.LandUse,
			parcel.RoadFrontage,
			parcel.SlopePercent,
			parcel.Utilities,
			geomJSON,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.UpsertParcel(context.Background(), parcel)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertParcel_ExecError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepository(mock)

	mock.ExpectExec("INSERT INTO parcels").
		WillReturnError(assert.AnError)

	err = repo.UpsertParcel(context.Background(), testParcel())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "P001")
}

func TestUpsertZoningRegulation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepository(mock)

	mock.ExpectExec("INSERT INTO zoning_regulations").
		WithArgs("R-3", "Single family residential").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.UpsertZoningRegulation(context.Background(), "R-3", "Single family residential")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchParcels_NoCriteria(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepository(mock)

	geomJSON := []byte(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`)
	rows := pgxmock.NewRows(searchColumns).
		AddRow("P002", strPtr("9 Elm St"), strPtr("Jane Roe"), floatPtr(12.5), strPtr("AG-1"),
			strPtr(models.LandUseAgricultural), intPtr(800), (*float64)(nil), []string{"Water"}, geomJSON).
		AddRow("P001", strPtr("123 Main St"), (*string)(nil), floatPtr(5.2), strPtr("R-3"),
			strPtr(models.LandUseResidential), intPtr(444), (*float64)(nil), []string{"Water", "Sewer", "Electric"}, nil)

	mock.ExpectQuery(`(?s)SELECT.+FROM parcels.+WHERE 1=1.+ORDER BY acres DESC.+LIMIT 100`).
		WillReturnRows(rows)

	results, err := repo.SearchParcels(context.Background(), SearchCriteria{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "P002", results[0].ParcelID)
	assert.Equal(t, 12.5, *results[0].Acres)
	require.Len(t, results[0].Geometry.Coordinates, 1)
	assert.Equal(t, 4326, results[0].Geometry.SRID)

	assert.Equal(t, "P001", results[1].ParcelID)
	assert.Nil(t, results[1].OwnerName)
	assert.True(t, results[1].Geometry.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchParcels_WithFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepository(mock)

	mock.ExpectQuery(`(?s)FROM parcels.+WHERE acres >= \$1 AND zoning_code = \$2`).
		WithArgs(5.0, "R-3").
		WillReturnRows(pgxmock.NewRows(searchColumns))

	results, err := repo.SearchParcels(context.Background(), SearchCriteria{
		MinAcres:   5,
		ZoningType: "R-3",
	})
	require.NoError(t, err)

	// No matches still yields an empty slice, not nil.
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchParcels_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepository(mock)

	mock.ExpectQuery("FROM parcels").WillReturnError(assert.AnError)

	_, err = repo.SearchParcels(context.Background(), SearchCriteria{})
	assert.Error(t, err)
}

func TestGetParcelByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepository(mock)

	now := time.Now()
	geomJSON := []byte(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`)
	rows := pgxmock.NewRows(detailColumns).
		AddRow(int64(7), "P001", strPtr("123 Main St"), strPtr("John Doe"), strPtr("456 Oak Ave"),
			floatPtr(5.2), strPtr("R-3"), strPtr(models.LandUseResidential), intPtr(444),
			(*float64)(nil), []string{"Water", "Sewer", "Electric"}, geomJSON, now, now)

	mock.ExpectQuery(`(?s)FROM parcels.+WHERE parcel_id = \$1`).
		WithArgs("P001").
		WillReturnRows(rows)

	parcel, err := repo.GetParcelByID(context.Background(), "P001")
	require.NoError(t, err)
	require.NotNil(t, parcel)

	assert.Equal(t, int64(7), parcel.ID)
	assert.Equal(t, "P001", parcel.ParcelID)
	assert.Equal(t, "John Doe", *parcel.OwnerName)
	assert.Equal(t, now, parcel.CreatedAt)
	require.Len(t, parcel.Geometry.Coordinates, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetParcelByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepository(mock)

	mock.ExpectQuery(`(?s)FROM parcels.+WHERE parcel_id = \$1`).
		WithArgs("MISSING").
		WillReturnError(pgx.ErrNoRows)

	parcel, err := repo.GetParcelByID(context.Background(), "MISSING")
	require.NoError(t, err)
	assert.Nil(t, parcel)
}

func TestGetZoningRegulation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepository(mock)

	rows := pgxmock.NewRows(regulationColumns).
		AddRow(int64(1), "R-3", strPtr("Single family residential"), (*float64)(nil), (*float64)(nil),
			(*int)(nil), (*int)(nil), (*int)(nil), (*int)(nil), (*float64)(nil), []string(nil), time.Now())

	mock.ExpectQuery(`(?s)FROM zoning_regulations.+WHERE zone_code = \$1`).
		WithArgs("R-3").
		WillReturnRows(rows)

	reg, err := repo.GetZoningRegulation(context.Background(), "R-3")
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Equal(t, "R-3", reg.ZoneCode)
	assert.Equal(t, "Single family residential", *reg.ZoneDescription)
}

func TestGetZoningRegulation_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepository(mock)

	mock.ExpectQuery(`(?s)FROM zoning_regulations.+WHERE zone_code = \$1`).
		WithArgs("UNKNOWN").
		WillReturnError(pgx.ErrNoRows)

	reg, err := repo.GetZoningRegulation(context.Background(), "UNKNOWN")
	require.NoError(t, err)
	assert.Nil(t, reg)
}

func TestListZoningRegulations(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepository(mock)

	now := time.Now()
	rows := pgxmock.NewRows(regulationColumns).
		AddRow(int64(1), "C-1", strPtr("Neighborhood commercial"), (*float64)(nil), (*float64)(nil),
			(*int)(nil), (*int)(nil), (*int)(nil), (*int)(nil), (*float64)(nil), []string(nil), now).
		AddRow(int64(2), "R-3", strPtr("Single family residential"), (*float64)(nil), (*float64)(nil),
			(*int)(nil), (*int)(nil), (*int)(nil), (*int)(nil), (*float64)(nil), []string(nil), now)

	mock.ExpectQuery(`(?s)FROM zoning_regulations.+ORDER BY zone_code`).
		WillReturnRows(rows)

	regs, err := repo.ListZoningRegulations(context.Background())
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, "C-1", regs[0].ZoneCode)
	assert.Equal(t, "R-3", regs[1].ZoneCode)
}

func TestInsertOwnerContact(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepository(mock)

	verified := time.Now()
	contact := &models.OwnerContact{
		Name:         "John Doe",
		Phone:        "555-123-4567",
		Email:        "john.doe@example.com",
		Address:      "123 Main St, Charlotte, NC",
		Source:       "Mock Data",
		LastVerified: &verified,
	}

	mock.ExpectExec("INSERT INTO owner_contacts").
		WithArgs(contact.ParcelID, contact.Name, contact.Phone, contact.Email,
			contact.Address, contact.Source, contact.LastVerified).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.InsertOwnerContact(context.Background(), contact)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
