// Package mvtgeojson bridges the decoder's generic GeometryCollection
// to orb's geometry and GeoJSON types. Ring grouping into polygons,
// multigeometry promotion, and GeoJSON assembly all live here: the
// core decoder stays generic over its output container and never
// imports a geometry-consumer library itself.
package mvtgeojson

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/valpere/mvtdecode/pkg/mvt"
)

// ToGeometry converts a decoded geometry collection into the orb
// geometry best matching its contents: a single point becomes an
// orb.Point and several an orb.MultiPoint; a single non-empty path of
// a line feature becomes an orb.LineString and several an
// orb.MultiLineString. Polygon rings are grouped by winding direction
// into an orb.Polygon or orb.MultiPolygon.
func ToGeometry[C mvt.Coordinate](coll *mvt.GeometryCollection[C], geomType mvt.GeomType) (orb.Geometry, error) {
	switch geomType {
	case mvt.GeomPoint:
		return pointGeometry(coll)
	case mvt.GeomLineString:
		return lineGeometry(coll)
	case mvt.GeomPolygon:
		return polygonGeometry(coll)
	default:
		return nil, fmt.Errorf("mvtgeojson: unsupported geometry type %v", geomType)
	}
}

func pointGeometry[C mvt.Coordinate](coll *mvt.GeometryCollection[C]) (orb.Geometry, error) {
	if len(coll.Paths) == 0 || len(coll.Paths[0]) == 0 {
		return nil, fmt.Errorf("mvtgeojson: point feature has no coordinates")
	}
	pts := orbPoints(coll.Paths[0])
	if len(pts) == 1 {
		return pts[0], nil
	}
	mp := make(orb.MultiPoint, len(pts))
	copy(mp, pts)
	return mp, nil
}

func lineGeometry[C mvt.Coordinate](coll *mvt.GeometryCollection[C]) (orb.Geometry, error) {
	lines := make([]orb.LineString, 0, len(coll.Paths))
	for _, path := range coll.Paths {
		if len(path) == 0 {
			continue
		}
		lines = append(lines, orb.LineString(orbPoints(path)))
	}
	switch len(lines) {
	case 0:
		return nil, fmt.Errorf("mvtgeojson: line feature has no coordinates")
	case 1:
		return lines[0], nil
	default:
		return orb.MultiLineString(lines), nil
	}
}

// polygonGeometry groups rings into polygons using the vector tile
// winding convention: a ring with positive signed area opens a new
// polygon (an exterior ring); a non-positive-area ring is a hole
// folded into the most recently opened polygon. A malformed tile
// whose first ring is a hole is treated as its own exterior — the
// decoder never rejects a tile for this.
func polygonGeometry[C mvt.Coordinate](coll *mvt.GeometryCollection[C]) (orb.Geometry, error) {
	var polygons []orb.Polygon
	for _, path := range coll.Paths {
		if len(path) < 4 {
			continue
		}
		ring := orb.Ring(orbPoints(path))
		if len(polygons) == 0 || signedArea(ring) > 0 {
			polygons = append(polygons, orb.Polygon{ring})
			continue
		}
		last := &polygons[len(polygons)-1]
		*last = append(*last, ring)
	}

	switch len(polygons) {
	case 0:
		return nil, fmt.Errorf("mvtgeojson: polygon feature has no rings")
	case 1:
		return polygons[0], nil
	default:
		return orb.MultiPolygon(polygons), nil
	}
}

// signedArea computes twice the shoelace area of ring; its sign
// identifies winding direction without needing a square root.
func signedArea(ring orb.Ring) float64 {
	var sum float64
	for i := range ring {
		j := (i + 1) % len(ring)
		sum += ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
	}
	return sum
}

func orbPoints[C mvt.Coordinate](path []mvt.Point[C]) []orb.Point {
	pts := make([]orb.Point, len(path))
	for i, p := range path {
		pts[i] = orb.Point{float64(p.X), float64(p.Y)}
	}
	return pts
}

// ToFeature decodes f's geometry and properties into a GeoJSON
// feature carrying tile-local coordinates (0..extent). Callers that
// want geographic coordinates must reproject the returned feature's
// Geometry themselves (see internal/tile for the tile -> lon/lat
// math); this package never assumes a particular tile address.
func ToFeature[C mvt.Coordinate](f *mvt.Feature, scale float32) (*geojson.Feature, error) {
	coll, err := mvt.Geometries[C](f, scale)
	if err != nil {
		return nil, fmt.Errorf("mvtgeojson: decode geometry: %w", err)
	}
	geom, err := ToGeometry(coll, f.Type())
	if err != nil {
		return nil, fmt.Errorf("mvtgeojson: feature %v: %w", f.ID(), err)
	}

	props, err := f.Properties()
	if err != nil {
		return nil, fmt.Errorf("mvtgeojson: feature properties: %w", err)
	}

	feature := geojson.NewFeature(geom)
	feature.Properties = make(geojson.Properties, len(props))
	for k, v := range props {
		feature.Properties[k] = v.Raw()
	}
	if id := f.ID(); id.Kind == mvt.IdentifierU64 {
		feature.ID = id.U64
	}
	return feature, nil
}
