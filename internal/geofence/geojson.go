package geofence

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotPolygon        = errors.New("geometry must be a GeoJSON Polygon")
	ErrRingTooShort      = errors.New("polygon ring must have at least 4 coordinates including closure")
	ErrTooFewVertices    = errors.New("polygon ring must have at least 3 distinct vertices")
	ErrCoordinateRange   = errors.New("coordinate out of range")
	ErrMalformedPosition = errors.New("each position must be a [lon, lat] pair")
)

// GeoJSONPolygon is the interchange form administrators submit and receive.
// Positions are [lon, lat], matching the GeoJSON spec.
type GeoJSONPolygon struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

// ToWKT validates the exterior ring and renders it as POLYGON((lon lat, ...)).
// An open ring is closed automatically; everything else malformed is
// rejected here, before any SQL runs. Self-intersection is checked
// server-side with ST_IsValid at upsert time.
func (p GeoJSONPolygon) ToWKT() (string, error) {
	if p.Type != "Polygon" || len(p.Coordinates) == 0 {
		return "", ErrNotPolygon
	}

	ring := p.Coordinates[0] // exterior ring
	for _, pos := range ring {
		if len(pos) < 2 {
			return "", ErrMalformedPosition
		}
		lon, lat := pos[0], pos[1]
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return "", ErrCoordinateRange
		}
	}

	// Close the ring if needed.
	if len(ring) > 0 {
		first, last := ring[0], ring[len(ring)-1]
		if first[0] != last[0] || first[1] != last[1] {
			ring = append(ring, first)
		}
	}

	if len(ring) < 4 {
		return "", ErrRingTooShort
	}

	distinct := make(map[[2]float64]struct{}, len(ring))
	for _, pos := range ring {
		distinct[[2]float64{pos[0], pos[1]}] = struct{}{}
	}
	if len(distinct) < 3 {
		return "", ErrTooFewVertices
	}

	coords := make([]string, 0, len(ring))
	for _, pos := range ring {
		coords = append(coords, fmt.Sprintf("%v %v", pos[0], pos[1]))
	}
	return fmt.Sprintf("POLYGON((%s))", strings.Join(coords, ", ")), nil
}
