package mvt

import "github.com/paulmach/protoscan"

// Layer is a fully-parsed MVT layer: its shared key/value tables and
// an ordered list of raw feature views. A Layer is immutable after
// construction and holds references into its parent Tile's backing
// buffer.
type Layer struct {
	name     string
	version  uint32
	extent   uint32
	keys     []string
	keyIndex map[string][]int
	values   [][]byte
	features [][]byte
}

// parseLayer iterates every field of a layer sub-message once,
// building the key/value tables and collecting raw feature views.
// Unknown tags are skipped for forward compatibility.
func parseLayer(view []byte) (*Layer, error) {
	l := &Layer{keyIndex: make(map[string][]int)}

	var haveName, haveExtent, haveVersion bool

	m := protoscan.New(view)
	for m.Next() {
		switch m.FieldNumber() {
		case layerFieldName:
			name, err := m.String()
			if err != nil {
				return nil, newErr(KindMalformed, "layer name", err)
			}
			l.name = name
			haveName = true
		case layerFieldFeatures:
			fview, err := m.MessageData()
			if err != nil {
				return nil, newErr(KindMalformed, "feature view", err)
			}
			l.features = append(l.features, fview)
		case layerFieldKeys:
			key, err := m.String()
			if err != nil {
				return nil, newErr(KindMalformed, "layer key", err)
			}
			l.keyIndex[key] = append(l.keyIndex[key], len(l.keys))
			l.keys = append(l.keys, key)
		case layerFieldValues:
			vview, err := m.MessageData()
			if err != nil {
				return nil, newErr(KindMalformed, "layer value", err)
			}
			l.values = append(l.values, vview)
		case layerFieldExtent:
			extent, err := m.Uint32()
			if err != nil {
				return nil, newErr(KindMalformed, "layer extent", err)
			}
			l.extent = extent
			haveExtent = true
		case layerFieldVersion:
			version, err := m.Uint32()
			if err != nil {
				return nil, newErr(KindMalformed, "layer version", err)
			}
			l.version = version
			haveVersion = true
		default:
			if err := m.Skip(); err != nil {
				return nil, newErr(KindMalformed, "layer field", err)
			}
		}
	}

	if !haveName {
		return nil, missingField("name")
	}
	if !haveExtent {
		return nil, missingField("extent")
	}
	if !haveVersion {
		return nil, missingField("version")
	}

	return l, nil
}

// Name returns the layer's name.
func (l *Layer) Name() string { return l.name }

// Version returns the layer's version (1 or 2, per the MVT spec).
func (l *Layer) Version() uint32 { return l.version }

// Extent returns the layer's tile-local coordinate grid resolution
// (conventionally 4096).
func (l *Layer) Extent() uint32 { return l.extent }

// Keys returns the layer's shared key table, in wire order.
func (l *Layer) Keys() []string {
	out := make([]string, len(l.keys))
	copy(out, l.keys)
	return out
}

// FeatureCount returns the number of features in the layer.
func (l *Layer) FeatureCount() int { return len(l.features) }

// FeatureView returns the raw byte view of the i-th feature, bounds
// checked against FeatureCount.
func (l *Layer) FeatureView(i int) ([]byte, error) {
	if i < 0 || i >= len(l.features) {
		return nil, &Error{Kind: KindIndexOutOfRange, Message: "feature index"}
	}
	return l.features[i], nil
}

// Feature parses the i-th feature, returning a cursor bound to this
// layer.
func (l *Layer) Feature(i int) (*Feature, error) {
	view, err := l.FeatureView(i)
	if err != nil {
		return nil, err
	}
	return bindFeature(view, l)
}

// value parses and returns the j-th entry of the layer's value table.
// Value views are stored raw and parsed only on demand.
func (l *Layer) value(j uint32) (Value, error) {
	if int(j) >= len(l.values) {
		return Value{}, &Error{Kind: KindValueIndexOutOfRange, Message: "value index"}
	}
	return parseValue(l.values[j])
}
