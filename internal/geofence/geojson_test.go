package geofence

import (
	"errors"
	"strings"
	"testing"
)

func squareRing() [][]float64 {
	return [][]float64{
		{2.3512, 48.8556},
		{2.3532, 48.8556},
		{2.3532, 48.8576},
		{2.3512, 48.8576},
		{2.3512, 48.8556},
	}
}

func TestToWKT_ClosedRing(t *testing.T) {
	p := GeoJSONPolygon{Type: "Polygon", Coordinates: [][][]float64{squareRing()}}

	wkt, err := p.ToWKT()
	if err != nil {
		t.Fatalf("ToWKT: %v", err)
	}
	if !strings.HasPrefix(wkt, "POLYGON((") || !strings.HasSuffix(wkt, "))") {
		t.Errorf("unexpected WKT shape: %s", wkt)
	}
	if !strings.Contains(wkt, "2.3512 48.8556") {
		t.Errorf("expected lon lat order in WKT, got: %s", wkt)
	}
}

func TestToWKT_ClosesOpenRing(t *testing.T) {
	ring := squareRing()
	ring = ring[:len(ring)-1] // drop closure

	p := GeoJSONPolygon{Type: "Polygon", Coordinates: [][][]float64{ring}}
	wkt, err := p.ToWKT()
	if err != nil {
		t.Fatalf("ToWKT: %v", err)
	}

	// First and last positions must match after closing.
	inner := strings.TrimSuffix(strings.TrimPrefix(wkt, "POLYGON(("), "))")
	coords := strings.Split(inner, ", ")
	if coords[0] != coords[len(coords)-1] {
		t.Errorf("ring not closed: first=%q last=%q", coords[0], coords[len(coords)-1])
	}
}

func TestToWKT_Rejections(t *testing.T) {
	cases := []struct {
		name string
		poly GeoJSONPolygon
		want error
	}{
		{
			name: "wrong type",
			poly: GeoJSONPolygon{Type: "Point", Coordinates: [][][]float64{squareRing()}},
			want: ErrNotPolygon,
		},
		{
			name: "no rings",
			poly: GeoJSONPolygon{Type: "Polygon"},
			want: ErrNotPolygon,
		},
		{
			name: "short position",
			poly: GeoJSONPolygon{Type: "Polygon", Coordinates: [][][]float64{{{2.35}}}},
			want: ErrMalformedPosition,
		},
		{
			name: "latitude out of range",
			poly: GeoJSONPolygon{Type: "Polygon", Coordinates: [][][]float64{
				{{2.35, 91.0}, {2.36, 48.85}, {2.36, 48.86}, {2.35, 91.0}},
			}},
			want: ErrCoordinateRange,
		},
		{
			name: "longitude out of range",
			poly: GeoJSONPolygon{Type: "Polygon", Coordinates: [][][]float64{
				{{-181.0, 48.85}, {2.36, 48.85}, {2.36, 48.86}, {-181.0, 48.85}},
			}},
			want: ErrCoordinateRange,
		},
		{
			name: "too few positions",
			poly: GeoJSONPolygon{Type: "Polygon", Coordinates: [][][]float64{
				{{2.35, 48.85}, {2.36, 48.86}},
			}},
			want: ErrRingTooShort,
		},
		{
			name: "degenerate ring",
			poly: GeoJSONPolygon{Type: "Polygon", Coordinates: [][][]float64{
				{{2.35, 48.85}, {2.35, 48.85}, {2.36, 48.86}, {2.35, 48.85}},
			}},
			want: ErrTooFewVertices,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.poly.ToWKT()
			if !errors.Is(err, tc.want) {
				t.Errorf("ToWKT error = %v, want %v", err, tc.want)
			}
		})
	}
}
