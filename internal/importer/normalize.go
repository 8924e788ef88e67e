package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"landmap/internal/arcgis"
	"landmap/internal/geo"
	"landmap/internal/models"
)

// Normalization failures. All of them mean "skip this feature", never
// "abort the batch".
var (
	ErrMissingParcelID = errors.New("feature has no parcel identifier")
	ErrMissingGeometry = errors.New("feature has no geometry")
	ErrNotPolygon      = errors.New("feature geometry is not a polygon")
)

// Source layers use different field names for the same concepts.
// Each canonical field resolves against an ordered candidate list;
// the first present, non-empty value wins.
var (
	parcelIDKeys     = []string{"PID", "parcel_id"}
	addressKeys      = []string{"Mailing_Address", "ADDRESS", "address"}
	ownerAddressKeys = []string{"Mailing_Address"}
	acresKeys        = []string{"Total_Acreage", "ACRES", "acres"}
	zoningKeys       = []string{"ZoneDes", "ZONING", "zoning"}
)

// defaultUtilities is a placeholder until a real utility data source
// exists; every ingested parcel gets the same set.
var defaultUtilities = []string{"Water", "Sewer", "Electric"}

// NormalizeFeature maps one raw GIS feature into a canonical Parcel
// record. It returns an error when the feature lacks a parcel
// identifier or a decodable polygon geometry; callers log and skip
// such features.
func NormalizeFeature(f arcgis.Feature) (*models.Parcel, error) {
	parcelID := firstString(f.Properties, parcelIDKeys)
	if parcelID == "" {
		return nil, ErrMissingParcelID
	}

	if len(f.Geometry) == 0 {
		return nil, ErrMissingGeometry
	}

	var g geom.T
	if err := geojson.Unmarshal(f.Geometry, &g); err != nil {
		return nil, fmt.Errorf("decoding geometry: %w", err)
	}

	poly, ok := g.(*geom.Polygon)
	if !ok {
		// The store only holds polygons; reject here rather than
		// letting the insert fail later.
		return nil, ErrNotPolygon
	}

	parcel := &models.Parcel{
		ParcelID:     parcelID,
		Address:      optionalString(firstString(f.Properties, addressKeys)),
		OwnerName:    strPtr(combineOwnerNames(f.Properties)),
		OwnerAddress: optionalString(firstString(f.Properties, ownerAddressKeys)),
		Acres:        parseAcres(firstValue(f.Properties, acresKeys)),
		RoadFrontage: geo.EstimateFrontage(g),
		SlopePercent: nil, // needs an elevation source
		Utilities:    defaultUtilities,
		Geometry:     toPolygonModel(poly),
	}

	if zoning := firstString(f.Properties, zoningKeys); zoning != "" {
		parcel.ZoningCode = strPtr(zoning)
	}
	parcel.LandUse = strPtr(classifyLandUse(firstString(f.Properties, zoningKeys)))

	return parcel, nil
}

// combineOwnerNames joins the first and last name fields, trimming
// whitespace. Both absent yields "", which marks the parcel vacant.
func combineOwnerNames(props map[string]interface{}) string {
	first := strings.TrimSpace(stringValue(props["Owner_FirstName"]))
	last := strings.TrimSpace(stringValue(props["Owner_LastName"]))

	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}

// parseAcres converts an acreage property to a float. Missing or
// non-numeric values yield nil, not an error; ingestion continues with
// acreage unset.
func parseAcres(value interface{}) *float64 {
	switch v := value.(type) {
	case float64:
		return &v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

// classifyLandUse infers a land-use category from the zoning code by
// substring match. First rule wins.
func classifyLandUse(zoning string) string {
	code := strings.ToUpper(zoning)

	switch {
	case strings.Contains(code, "R-") || strings.Contains(code, "RES"):
		return models.LandUseResidential
	case strings.Contains(code, "C-") || strings.Contains(code, "COM"):
		return models.LandUseCommercial
	case strings.Contains(code, "I-") || strings.Contains(code, "IND"):
		return models.LandUseIndustrial
	case strings.Contains(code, "AG") || strings.Contains(code, "AGR"):
		return models.LandUseAgricultural
	default:
		return models.LandUseMixedUse
	}
}

// toPolygonModel converts a decoded go-geom polygon into the storage
// geometry type, GeoJSON ring structure preserved.
func toPolygonModel(poly *geom.Polygon) models.Polygon {
	rings := make([][][2]float64, 0, poly.NumLinearRings())
	for i := 0; i < poly.NumLinearRings(); i++ {
		coords := poly.LinearRing(i).Coords()
		ring := make([][2]float64, 0, len(coords))
		for _, c := range coords {
			ring = append(ring, [2]float64{c.X(), c.Y()})
		}
		rings = append(rings, ring)
	}
	return models.Polygon{Coordinates: rings, SRID: 4326}
}

// firstValue returns the first present, non-nil property among the
// candidate keys.
func firstValue(props map[string]interface{}, keys []string) interface{} {
	for _, key := range keys {
		if v, ok := props[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// firstString is firstValue with conversion to string. Numeric values
// are formatted without a trailing fraction so numeric parcel ids
// round-trip cleanly.
func firstString(props map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if s := stringValue(props[key]); s != "" {
			return s
		}
	}
	return ""
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func strPtr(s string) *string {
	return &s
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
