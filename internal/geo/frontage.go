package geo

import (
	"math"

	"github.com/twpayne/go-geom"
)

// degreesToFeet is the rough scale factor from degrees of arc to feet
// used by the frontage estimate. One degree of latitude is about
// 111km, and the stored value is an estimate, not a survey figure.
const degreesToFeet = 111000

// EstimateFrontage approximates road frontage in feet from a parcel
// boundary by measuring the perimeter of the outer ring in native
// degree coordinates and scaling to feet. A proper computation would
// intersect the boundary with road centerlines; until a centerline
// source is wired in, the perimeter stands in for it.
//
// Returns nil for anything that is not a polygon. Never fails.
func EstimateFrontage(g geom.T) *int {
	poly, ok := g.(*geom.Polygon)
	if !ok || poly == nil || poly.NumLinearRings() == 0 {
		return nil
	}

	coords := poly.LinearRing(0).Coords()
	if len(coords) < 2 {
		return nil
	}

	perimeter := 0.0
	for i := 0; i+1 < len(coords); i++ {
		dx := coords[i+1].X() - coords[i].X()
		dy := coords[i+1].Y() - coords[i].Y()
		perimeter += math.Hypot(dx, dy)
	}

	frontage := int(perimeter * degreesToFeet)
	return &frontage
}
