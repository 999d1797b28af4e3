package mvt

// GeomType is a feature's geometry type, per the MVT GeomType enum.
// The zero value, GeomUnknown, is also the default for a feature whose
// TYPE field is absent.
type GeomType int32

const (
	GeomUnknown GeomType = iota
	GeomPoint
	GeomLineString
	GeomPolygon
)

func (t GeomType) String() string {
	switch t {
	case GeomPoint:
		return "Point"
	case GeomLineString:
		return "LineString"
	case GeomPolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}
