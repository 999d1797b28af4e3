package tile

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestNewMVTConverter(t *testing.T) {
	converter := NewMVTConverter()
	if converter.options.CoordinateSystem != CoordSystemTileLocal {
		t.Errorf("Expected default coordinate system %s, got %s", CoordSystemTileLocal, converter.options.CoordinateSystem)
	}
}

func TestNewMVTConverterWithOptions(t *testing.T) {
	options := &ConversionOptions{
		CoordinateSystem: CoordSystemWGS84,
		SimplifyGeometry: true,
	}

	converter, err := NewMVTConverterWithOptions(options)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	if converter.options.CoordinateSystem != CoordSystemWGS84 {
		t.Errorf("Expected coordinate system %s, got %s", CoordSystemWGS84, converter.options.CoordinateSystem)
	}
}

func TestValidateConversionOptions(t *testing.T) {
	tests := []struct {
		name    string
		options *ConversionOptions
		wantErr bool
	}{
		{
			name:    "valid tile-local",
			options: &ConversionOptions{CoordinateSystem: CoordSystemTileLocal},
			wantErr: false,
		},
		{
			name:    "valid wgs84",
			options: &ConversionOptions{CoordinateSystem: CoordSystemWGS84},
			wantErr: false,
		},
		{
			name:    "invalid coordinate system",
			options: &ConversionOptions{CoordinateSystem: "invalid"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConversionOptions(tt.options)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConversionOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContains(t *testing.T) {
	slice := []string{"water", "roads", "buildings"}

	if !contains(slice, "water") {
		t.Error("Expected 'water' to be found in slice")
	}

	if contains(slice, "parks") {
		t.Error("Expected 'parks' not to be found in slice")
	}
}

func TestReprojectGeometryCenterTile(t *testing.T) {
	// Tile 0/0/0 covers the whole world; its center in tile-local
	// coordinates (extent/2, extent/2) must reproject to (0, 0) lon/lat.
	extent := 4096
	geom := orb.Point{float64(extent) / 2, float64(extent) / 2}

	result := reprojectGeometry(geom, 0, 0, 0, extent)
	pt, ok := result.(orb.Point)
	if !ok {
		t.Fatalf("reprojectGeometry() = %T, want orb.Point", result)
	}

	if math.Abs(pt[0]) > 0.01 {
		t.Errorf("longitude = %f, want ~0", pt[0])
	}
	if math.Abs(pt[1]) > 0.01 {
		t.Errorf("latitude = %f, want ~0", pt[1])
	}
}

func TestReprojectGeometryNilAndZeroExtent(t *testing.T) {
	if reprojectGeometry(nil, 0, 0, 0, 4096) != nil {
		t.Error("expected nil geometry to pass through unchanged")
	}

	geom := orb.Point{1, 1}
	if result := reprojectGeometry(geom, 0, 0, 0, 0); result != geom {
		t.Error("expected zero-extent geometry to pass through unchanged")
	}
}

func TestApplyGeometryTransformMultiPolygon(t *testing.T) {
	translate := func(p orb.Point) orb.Point {
		return orb.Point{p[0] + 1, p[1] + 1}
	}

	mp := orb.MultiPolygon{
		orb.Polygon{orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}}},
	}

	result := applyGeometryTransform(mp, translate)
	out, ok := result.(orb.MultiPolygon)
	if !ok {
		t.Fatalf("applyGeometryTransform() = %T, want orb.MultiPolygon", result)
	}
	if out[0][0][0][0] != 1 || out[0][0][0][1] != 1 {
		t.Errorf("first point = %v, want {1 1}", out[0][0][0])
	}
}
