package mvtgeojson

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/valpere/mvtdecode/pkg/mvt"
)

func collection(paths ...[]mvt.Point[int32]) *mvt.GeometryCollection[int32] {
	return &mvt.GeometryCollection[int32]{Paths: paths}
}

func TestToGeometryPoint(t *testing.T) {
	coll := collection([]mvt.Point[int32]{{X: 1, Y: 2}})
	geom, err := ToGeometry(coll, mvt.GeomPoint)
	if err != nil {
		t.Fatalf("ToGeometry() error = %v", err)
	}
	pt, ok := geom.(orb.Point)
	if !ok {
		t.Fatalf("ToGeometry() = %T, want orb.Point", geom)
	}
	if pt[0] != 1 || pt[1] != 2 {
		t.Errorf("ToGeometry() = %v, want {1 2}", pt)
	}
}

func TestToGeometryMultiPoint(t *testing.T) {
	coll := collection([]mvt.Point[int32]{{X: 1, Y: 1}, {X: 2, Y: 2}})
	geom, err := ToGeometry(coll, mvt.GeomPoint)
	if err != nil {
		t.Fatalf("ToGeometry() error = %v", err)
	}
	if _, ok := geom.(orb.MultiPoint); !ok {
		t.Errorf("ToGeometry() = %T, want orb.MultiPoint", geom)
	}
}

func TestToGeometryLineString(t *testing.T) {
	coll := collection([]mvt.Point[int32]{{X: 0, Y: 0}, {X: 10, Y: 0}})
	geom, err := ToGeometry(coll, mvt.GeomLineString)
	if err != nil {
		t.Fatalf("ToGeometry() error = %v", err)
	}
	ls, ok := geom.(orb.LineString)
	if !ok || len(ls) != 2 {
		t.Errorf("ToGeometry() = %v, want 2-point LineString", geom)
	}
}

func TestToGeometryPolygonWithHole(t *testing.T) {
	// Exterior ring wound clockwise (positive signed area with this
	// implementation's shoelace sign convention), hole wound the
	// opposite way and folded into the same polygon.
	exterior := []mvt.Point[int32]{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	hole := []mvt.Point[int32]{{X: 2, Y: 2}, {X: 2, Y: 8}, {X: 8, Y: 8}, {X: 8, Y: 2}}

	coll := collection(exterior, hole)
	geom, err := ToGeometry(coll, mvt.GeomPolygon)
	if err != nil {
		t.Fatalf("ToGeometry() error = %v", err)
	}
	poly, ok := geom.(orb.Polygon)
	if !ok {
		t.Fatalf("ToGeometry() = %T, want orb.Polygon", geom)
	}
	if len(poly) != 2 {
		t.Errorf("len(poly) = %d, want 2 rings (exterior + hole)", len(poly))
	}
}

func TestToGeometryPolygonTooFewPoints(t *testing.T) {
	coll := collection([]mvt.Point[int32]{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if _, err := ToGeometry(coll, mvt.GeomPolygon); err == nil {
		t.Fatal("expected error for ring with fewer than 4 points")
	}
}

func TestToGeometryUnsupportedType(t *testing.T) {
	coll := collection([]mvt.Point[int32]{{X: 0, Y: 0}})
	if _, err := ToGeometry(coll, mvt.GeomUnknown); err == nil {
		t.Fatal("expected error for unsupported geometry type")
	}
}
