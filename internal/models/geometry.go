package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Polygon represents a parcel boundary stored as a PostGIS
// GEOMETRY(POLYGON, 4326). Coordinates follow the GeoJSON structure:
// [rings][points][lon,lat].
type Polygon struct {
	Coordinates [][][2]float64
	SRID        int
}

// IsZero reports whether no geometry is set.
func (p Polygon) IsZero() bool {
	return len(p.Coordinates) == 0
}

// Scan implements sql.Scanner for reading polygon geometry selected
// with ST_AsGeoJSON.
func (p *Polygon) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan Polygon: expected []byte or string, got %T", value)
	}

	var geom struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}

	if err := json.Unmarshal(bytes, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal polygon geometry: %w", err)
	}

	if geom.Type != "Polygon" {
		return fmt.Errorf("expected Polygon type, got %s", geom.Type)
	}

	p.Coordinates = geom.Coordinates
	p.SRID = 4326

	return nil
}

// Value implements driver.Valuer. It returns a GeoJSON string for use
// with ST_GeomFromGeoJSON in parameterized queries, or nil when the
// polygon is empty.
func (p Polygon) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}

	geoJSON, err := json.Marshal(map[string]interface{}{
		"type":        "Polygon",
		"coordinates": p.Coordinates,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal polygon to GeoJSON: %w", err)
	}

	return string(geoJSON), nil
}

// MarshalJSON implements json.Marshaler so API responses carry
// GeoJSON-compliant geometry.
func (p Polygon) MarshalJSON() ([]byte, error) {
	geom := struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}{
		Type:        "Polygon",
		Coordinates: p.Coordinates,
	}
	return json.Marshal(geom)
}

// UnmarshalJSON implements json.Unmarshaler for parsing GeoJSON input.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var geom struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}

	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal polygon: %w", err)
	}

	if geom.Type != "" && geom.Type != "Polygon" {
		return fmt.Errorf("expected Polygon type, got %s", geom.Type)
	}

	p.Coordinates = geom.Coordinates
	p.SRID = 4326

	return nil
}
