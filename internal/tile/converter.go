// internal/tile/converter.go - MVT to GeoJSON conversion implementation
package tile

import (
	"fmt"
	"log"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/simplify"

	"github.com/valpere/mvtdecode/pkg/mvt"
	"github.com/valpere/mvtdecode/pkg/mvtgeojson"
)

// Coordinate system constants for ConversionOptions.CoordinateSystem.
const (
	CoordSystemTileLocal = "tile-local"
	CoordSystemWGS84     = "wgs84"
)

// ConversionOptions configures the conversion process.
type ConversionOptions struct {
	IncludeMetadata  bool     // Include tile metadata in output
	LayerFilter      []string // Only include specified layers
	PropertyFilter   []string // Only include specified properties
	SimplifyGeometry bool     // Simplify geometries using Douglas-Peucker
	CoordinateSystem string   // "tile-local" or "wgs84"
}

// ConversionMetadata contains metadata about the conversion process.
type ConversionMetadata struct {
	Layers       []string `json:"layers"`
	FeatureCount int      `json:"feature_count"`
	Version      uint32   `json:"version"`
	Extent       uint32   `json:"extent"`
}

// MVTConverter decodes raw tile bytes into a single merged GeoJSON
// FeatureCollection, tagging each feature with the layer it came from.
type MVTConverter struct {
	options *ConversionOptions
}

// NewMVTConverter creates a converter with default options: every
// layer and property kept, geometries left in tile-local coordinates.
func NewMVTConverter() *MVTConverter {
	return &MVTConverter{options: &ConversionOptions{CoordinateSystem: CoordSystemTileLocal}}
}

// NewMVTConverterWithOptions creates a converter with custom options.
func NewMVTConverterWithOptions(options *ConversionOptions) (*MVTConverter, error) {
	if err := ValidateConversionOptions(options); err != nil {
		return nil, fmt.Errorf("invalid conversion options: %w", err)
	}
	return &MVTConverter{options: options}, nil
}

// ValidateConversionOptions validates the conversion options.
func ValidateConversionOptions(options *ConversionOptions) error {
	if options.CoordinateSystem != CoordSystemTileLocal && options.CoordinateSystem != CoordSystemWGS84 {
		return fmt.Errorf("invalid coordinate system: %s, must be '%s' or '%s'",
			options.CoordinateSystem, CoordSystemTileLocal, CoordSystemWGS84)
	}
	return nil
}

// Convert transforms MVT binary data addressed at z/x/y into GeoJSON.
func (c *MVTConverter) Convert(data []byte, z, x, y int) (map[string]interface{}, *ConversionMetadata, error) {
	t, err := mvt.New(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode tile: %w", err)
	}

	fc := geojson.NewFeatureCollection()
	var version, extent uint32
	var conversionErrors int

	for _, name := range t.LayerNames() {
		if len(c.options.LayerFilter) > 0 && !contains(c.options.LayerFilter, name) {
			continue
		}

		layer, err := t.GetLayer(name)
		if err != nil {
			return nil, nil, fmt.Errorf("layer %s: %w", name, err)
		}
		if layer.Version() > version {
			version = layer.Version()
		}
		if layer.Extent() > extent {
			extent = layer.Extent()
		}

		for i := 0; i < layer.FeatureCount(); i++ {
			feature, err := layer.Feature(i)
			if err != nil {
				conversionErrors++
				log.Printf("tile %d/%d/%d: layer %s: feature %d: %v", z, x, y, name, i, err)
				continue
			}

			geoFeature, err := mvtgeojson.ToFeature[int32](feature, 1)
			if err != nil {
				conversionErrors++
				log.Printf("tile %d/%d/%d: layer %s: feature %d: %v", z, x, y, name, i, err)
				continue
			}

			if len(c.options.PropertyFilter) > 0 {
				filtered := make(geojson.Properties, len(c.options.PropertyFilter))
				for _, key := range c.options.PropertyFilter {
					if v, ok := geoFeature.Properties[key]; ok {
						filtered[key] = v
					}
				}
				geoFeature.Properties = filtered
			}
			geoFeature.Properties["_layer"] = name

			if c.options.CoordinateSystem == CoordSystemWGS84 {
				geoFeature.Geometry = reprojectGeometry(geoFeature.Geometry, z, x, y, int(layer.Extent()))
			}

			if c.options.SimplifyGeometry && geoFeature.Geometry != nil {
				geoFeature.Geometry = simplify.DouglasPeucker(1.0).Simplify(geoFeature.Geometry)
			}

			fc.Append(geoFeature)
		}
	}

	if conversionErrors > 0 {
		log.Printf("tile %d/%d/%d: conversion completed with %d feature errors", z, x, y, conversionErrors)
	}

	metadata := &ConversionMetadata{
		Layers:       t.LayerNames(),
		FeatureCount: len(fc.Features),
		Version:      version,
		Extent:       extent,
	}

	result := map[string]interface{}{
		"type":     "FeatureCollection",
		"features": fc.Features,
	}
	if c.options.IncludeMetadata {
		result["metadata"] = metadata
	}

	return result, metadata, nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// reprojectGeometry maps a feature's tile-local coordinates (0..extent)
// onto WGS84 longitude/latitude using the standard slippy-map inverse
// projection: longitude is linear across the tile's bound, latitude
// follows the Mercator Gudermannian function of the fractional tile
// row.
func reprojectGeometry(geom orb.Geometry, z, x, y, extent int) orb.Geometry {
	if geom == nil || extent == 0 {
		return geom
	}

	bound := maptile.New(uint32(x), uint32(y), maptile.Zoom(z)).Bound()
	tileCount := math.Exp2(float64(z))

	transform := func(p orb.Point) orb.Point {
		lon := bound.Min[0] + p[0]/float64(extent)*(bound.Max[0]-bound.Min[0])
		yFrac := (float64(y) + p[1]/float64(extent)) / tileCount
		latRad := math.Pi * (1 - 2*yFrac)
		lat := 180 / math.Pi * math.Atan(math.Sinh(latRad))
		return orb.Point{lon, lat}
	}

	return applyGeometryTransform(geom, transform)
}

// applyGeometryTransform walks geom's points through transform,
// rebuilding each orb geometry variant it recognizes. Geometry types
// outside orb's vector-tile-relevant set pass through unchanged.
func applyGeometryTransform(geom orb.Geometry, transform func(orb.Point) orb.Point) orb.Geometry {
	switch g := geom.(type) {
	case orb.Point:
		return transform(g)
	case orb.MultiPoint:
		out := make(orb.MultiPoint, len(g))
		for i, p := range g {
			out[i] = transform(p)
		}
		return out
	case orb.LineString:
		out := make(orb.LineString, len(g))
		for i, p := range g {
			out[i] = transform(p)
		}
		return out
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(g))
		for i, ls := range g {
			out[i] = applyGeometryTransform(ls, transform).(orb.LineString)
		}
		return out
	case orb.Polygon:
		out := make(orb.Polygon, len(g))
		for i, ring := range g {
			transformed := make(orb.Ring, len(ring))
			for j, p := range ring {
				transformed[j] = transform(p)
			}
			out[i] = transformed
		}
		return out
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(g))
		for i, poly := range g {
			out[i] = applyGeometryTransform(poly, transform).(orb.Polygon)
		}
		return out
	default:
		return geom
	}
}
