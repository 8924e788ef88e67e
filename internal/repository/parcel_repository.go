package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"landmap/internal/database"
	"landmap/internal/models"
)

// maxSearchResults caps search responses; there is no pagination
// beyond this.
const maxSearchResults = 100

// ParcelRepository defines data access for parcels, zoning regulations
// and owner contacts.
type ParcelRepository interface {
	// UpsertParcel inserts or updates a parcel keyed on parcel_id.
	// Re-ingestion overwrites all mutable fields and bumps updated_at.
	UpsertParcel(ctx context.Context, parcel *models.Parcel) error

	// UpsertZoningRegulation inserts or updates a regulation keyed on
	// zone_code; the description is overwritten on conflict.
	UpsertZoningRegulation(ctx context.Context, zoneCode, zoneDescription string) error

	// SearchParcels returns parcels matching the criteria, ordered by
	// acreage descending, capped at maxSearchResults rows.
	SearchParcels(ctx context.Context, criteria SearchCriteria) ([]models.Parcel, error)

	// GetParcelByID returns the parcel with the given external id.
	// Returns nil, nil when no such parcel exists.
	GetParcelByID(ctx context.Context, parcelID string) (*models.Parcel, error)

	// GetZoningRegulation returns the regulation for a zone code.
	// Returns nil, nil when no such regulation exists.
	GetZoningRegulation(ctx context.Context, zoneCode string) (*models.ZoningRegulation, error)

	// ListZoningRegulations returns all stored regulations.
	ListZoningRegulations(ctx context.Context) ([]models.ZoningRegulation, error)

	// InsertOwnerContact records an owner contact lookup result.
	InsertOwnerContact(ctx context.Context, contact *models.OwnerContact) error
}

// parcelRepository is the concrete pgx-backed implementation.
type parcelRepository struct {
	db database.Querier
}

// NewParcelRepository creates a ParcelRepository on top of a pgx pool
// (or anything satisfying database.Querier).
func NewParcelRepository(db database.Querier) ParcelRepository {
	return &parcelRepository{db: db}
}

// UpsertParcel writes a parcel with INSERT ... ON CONFLICT. Geometry
// is bound as a GeoJSON parameter and converted by PostGIS; no value
// is ever interpolated into the statement text.
func (r *parcelRepository) UpsertParcel(ctx context.Context, parcel *models.Parcel) error {
	query := `
		INSERT INTO parcels (
			parcel_id, address, owner_name, owner_address, acres,
			zoning_code, land_use, road_frontage, slope_percent,
			utilities, geometry
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, ST_GeomFromGeoJSON($11)
		)
		ON CONFLICT (parcel_id)
		DO UPDATE SET
			address = EXCLUDED.address,
			owner_name = EXCLUDED.owner_name,
			owner_address = EXCLUDED.owner_address,
			acres = EXCLUDED.acres,
			zoning_code = EXCLUDED.zoning_code,
			land_use = EXCLUDED.land_use,
			road_frontage = EXCLUDED.road_frontage,
			slope_percent = EXCLUDED.slope_percent,
			utilities = EXCLUDED.utilities,
			geometry = EXCLUDED.geometry,
			updated_at = CURRENT_TIMESTAMP
	`

	geomJSON, err := parcel.Geometry.Value()
	if err != nil {
		return fmt.Errorf("failed to encode geometry for parcel %s: %w", parcel.ParcelID, err)
	}

	_, err = r.db.Exec(ctx, query,
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
	)
	if err != nil {
		return fmt.Errorf("failed to upsert parcel %s: %w", parcel.ParcelID, err)
	}

	return nil
}

// UpsertZoningRegulation writes a (zone_code, zone_description) pair.
func (r *parcelRepository) UpsertZoningRegulation(ctx context.Context, zoneCode, zoneDescription string) error {
	query := `
		INSERT INTO zoning_regulations (zone_code, zone_description)
		VALUES ($1, $2)
		ON CONFLICT (zone_code)
		DO UPDATE SET zone_description = EXCLUDED.zone_description
	`

	if _, err := r.db.Exec(ctx, query, zoneCode, zoneDescription); err != nil {
		return fmt.Errorf("failed to upsert zoning regulation %s: %w", zoneCode, err)
	}

	return nil
}

// SearchParcels builds the filter predicate from the criteria and
// returns matching rows with geometry serialized back to GeoJSON.
func (r *parcelRepository) SearchParcels(ctx context.Context, criteria SearchCriteria) ([]models.Parcel, error) {
	whereClause, args := buildWhereClause(criteria)

	query := fmt.Sprintf(`
		SELECT
			parcel_id, address, owner_name, acres, zoning_code,
			land_use, road_frontage, slope_percent, utilities,
			ST_AsGeoJSON(geometry) as geometry
		FROM parcels
		WHERE %s
		ORDER BY acres DESC
		LIMIT %d
	`, whereClause, maxSearchResults)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search parcels: %w", err)
	}
	defer rows.Close()

	var results []models.Parcel

	for rows.Next() {
		var parcel models.Parcel
		var geomJSON []byte

		err := rows.Scan(
			&parcel.ParcelID,
			&parcel.Address,
			&parcel.OwnerName,
			&parcel.Acres,
			&parcel.ZoningCode,
			&parcel.LandUse,
			&parcel.RoadFrontage,
			&parcel.SlopePercent,
			&parcel.Utilities,
			&geomJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan parcel row: %w", err)
		}

		if geomJSON != nil {
			if err := parcel.Geometry.Scan(geomJSON); err != nil {
				return nil, fmt.Errorf("failed to parse geometry for parcel %s: %w", parcel.ParcelID, err)
			}
		}

		results = append(results, parcel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parcel rows: %w", err)
	}

	if results == nil {
		results = []models.Parcel{}
	}

	return results, nil
}

// GetParcelByID reads one parcel including timestamps.
func (r *parcelRepository) GetParcelByID(ctx context.Context, parcelID string) (*models.Parcel, error) {
	query := `
		SELECT
			id, parcel_id, address, owner_name, owner_address, acres,
			zoning_code, land_use, road_frontage, slope_percent,
			utilities, ST_AsGeoJSON(geometry) as geometry,
			created_at, updated_at
		FROM parcels
		WHERE parcel_id = $1
	`

	var parcel models.Parcel
	var geomJSON []byte

	err := r.db.QueryRow(ctx, query, parcelID).Scan(
		&parcel.ID,
		&parcel.ParcelID,
		&parcel.Address,
		&parcel.OwnerName,
		&parcel.OwnerAddress,
		&parcel.Acres,
		&parcel.ZoningCode,
		&parcel.LandUse,
		&parcel.RoadFrontage,
		&parcel.SlopePercent,
		&parcel.Utilities,
		&geomJSON,
		&parcel.CreatedAt,
		&parcel.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query parcel %s: %w", parcelID, err)
	}

	if geomJSON != nil {
		if err := parcel.Geometry.Scan(geomJSON); err != nil {
			return nil, fmt.Errorf("failed to parse geometry for parcel %s: %w", parcelID, err)
		}
	}

	return &parcel, nil
}

// GetZoningRegulation reads one regulation by zone code.
func (r *parcelRepository) GetZoningRegulation(ctx context.Context, zoneCode string) (*models.ZoningRegulation, error) {
	query := `
		SELECT
			id, zone_code, zone_description, min_lot_size, max_density,
			front_setback, side_setback, rear_setback, max_height,
			max_coverage, allowed_uses, created_at
		FROM zoning_regulations
		WHERE zone_code = $1
	`

	var reg models.ZoningRegulation

	err := r.db.QueryRow(ctx, query, zoneCode).Scan(
		&reg.ID,
		&reg.ZoneCode,
		&reg.ZoneDescription,
		&reg.MinLotSize,
		&reg.MaxDensity,
		&reg.FrontSetback,
		&reg.SideSetback,
		&reg.RearSetback,
		&reg.MaxHeight,
		&reg.MaxCoverage,
		&reg.AllowedUses,
		&reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query zoning regulation %s: %w", zoneCode, err)
	}

	return &reg, nil
}

// ListZoningRegulations reads all regulations ordered by zone code.
func (r *parcelRepository) ListZoningRegulations(ctx context.Context) ([]models.ZoningRegulation, error) {
	query := `
		SELECT
			id, zone_code, zone_description, min_lot_size, max_density,
			front_setback, side_setback, rear_setback, max_height,
			max_coverage, allowed_uses, created_at
		FROM zoning_regulations
		ORDER BY zone_code
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list zoning regulations: %w", err)
	}
	defer rows.Close()

	var results []models.ZoningRegulation

	for rows.Next() {
		var reg models.ZoningRegulation

		err := rows.Scan(
			&reg.ID,
			&reg.ZoneCode,
			&reg.ZoneDescription,
			&reg.MinLotSize,
			&reg.MaxDensity,
			&reg.FrontSetback,
			&reg.SideSetback,
			&reg.RearSetback,
			&reg.MaxHeight,
			&reg.MaxCoverage,
			&reg.AllowedUses,
			&reg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan zoning regulation row: %w", err)
		}

		results = append(results, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating zoning regulation rows: %w", err)
	}

	if results == nil {
		results = []models.ZoningRegulation{}
	}

	return results, nil
}

// InsertOwnerContact appends a contact record; contacts are never
// updated in place, each lookup appends a fresh row.
func (r *parcelRepository) InsertOwnerContact(ctx context.Context, contact *models.OwnerContact) error {
	query := `
		INSERT INTO owner_contacts (
			parcel_id, name, phone, email, address, source, last_verified
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		contact.ParcelID,
		contact.Name,
		contact.Phone,
		contact.Email,
		contact.Address,
		contact.Source,
		contact.LastVerified,
	)
	if err != nil {
		return fmt.Errorf("failed to insert owner contact: %w", err)
	}

	return nil
}
