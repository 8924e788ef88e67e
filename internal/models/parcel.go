package models

import (
	"time"
)

// Land-use categories assigned by the importer based on zoning codes.
const (
	LandUseResidential  = "Residential"
	LandUseCommercial   = "Commercial"
	LandUseIndustrial   = "Industrial"
	LandUseAgricultural = "Agricultural"
	LandUseMixedUse     = "Mixed Use"
)

// Parcel represents a single unit of land with boundary geometry.
// ParcelID is the stable external identifier (tax parcel number);
// re-ingesting the same identifier overwrites all mutable fields.
// Nullable columns use pointers to distinguish zero values from NULL.
// An empty or NULL OwnerName marks the parcel as vacant.
type Parcel struct {
	ID           int64     `json:"id"`
	ParcelID     string    `json:"parcel_id"`
	Address      *string   `json:"address,omitempty"`
	OwnerName    *string   `json:"owner_name,omitempty"`
	OwnerAddress *string   `json:"owner_address,omitempty"`
	Acres        *float64  `json:"acres,omitempty"`
	ZoningCode   *string   `json:"zoning_code,omitempty"`
	LandUse      *string   `json:"land_use,omitempty"`
	RoadFrontage *int      `json:"road_frontage,omitempty"`
	SlopePercent *float64  `json:"slope_percent,omitempty"`
	Utilities    []string  `json:"utilities,omitempty"`
	Geometry     Polygon   `json:"geometry"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

// ZoningRegulation describes the rules attached to a zoning code.
// Only zone_code and zone_description are populated by ingestion; the
// remaining columns are reserved for a future regulations source.
type ZoningRegulation struct {
	ID              int64     `json:"id"`
	ZoneCode        string    `json:"zone_code"`
	ZoneDescription *string   `json:"zone_description,omitempty"`
	MinLotSize      *float64  `json:"min_lot_size,omitempty"`
	MaxDensity      *float64  `json:"max_density,omitempty"`
	FrontSetback    *int      `json:"front_setback,omitempty"`
	SideSetback     *int      `json:"side_setback,omitempty"`
	RearSetback     *int      `json:"rear_setback,omitempty"`
	MaxHeight       *int      `json:"max_height,omitempty"`
	MaxCoverage     *float64  `json:"max_coverage,omitempty"`
	AllowedUses     []string  `json:"allowed_uses,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
}

// OwnerContact holds contact details for a parcel owner. Rows are
// written only by the owner-lookup path; ingestion never touches this
// table. ParcelID is nullable because lookups by name or address may
// not resolve to a stored parcel.
type OwnerContact struct {
	ID           int64      `json:"id"`
	ParcelID     *string    `json:"parcel_id,omitempty"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone,omitempty"`
	Email        string     `json:"email,omitempty"`
	Address      string     `json:"address,omitempty"`
	Source       string     `json:"source"`
	LastVerified *time.Time `json:"last_verified,omitempty"`
	CreatedAt    time.Time  `json:"created_at,omitzero"`
}
