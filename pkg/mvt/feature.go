package mvt

import (
	"encoding/binary"
	"fmt"

	"github.com/paulmach/protoscan"
)

// Feature field numbers, per the MVT wire format.
const (
	featureFieldID       = 1
	featureFieldTags     = 2
	featureFieldType     = 3
	featureFieldGeometry = 4
)

// Feature is a lightweight cursor over one feature's raw view, bound
// to the Layer that owns its key/value tables. A Feature never
// outlives its Layer.
type Feature struct {
	layer    *Layer
	id       Identifier
	geomType GeomType
	tags     []uint32
	geometry []uint32
}

// bindFeature scans a feature message once, capturing its id, type,
// and the raw tag/geometry parameter ranges. Unknown tags are
// skipped.
func bindFeature(view []byte, layer *Layer) (*Feature, error) {
	f := &Feature{layer: layer, id: nullIdentifier}

	m := protoscan.New(view)
	for m.Next() {
		switch m.FieldNumber() {
		case featureFieldID:
			id, err := m.Uint64()
			if err != nil {
				return nil, newErr(KindMalformed, "feature id", err)
			}
			f.id = Identifier{Kind: IdentifierU64, U64: id}
		case featureFieldTags:
			raw, err := m.MessageData()
			if err != nil {
				return nil, newErr(KindMalformed, "feature tags", err)
			}
			tags, err := decodePackedUint32(raw)
			if err != nil {
				return nil, newErr(KindMalformed, "feature tags", err)
			}
			f.tags = tags
		case featureFieldType:
			typ, err := m.Uint32()
			if err != nil {
				return nil, newErr(KindMalformed, "feature type", err)
			}
			f.geomType = GeomType(typ)
		case featureFieldGeometry:
			raw, err := m.MessageData()
			if err != nil {
				return nil, newErr(KindMalformed, "feature geometry", err)
			}
			geom, err := decodePackedUint32(raw)
			if err != nil {
				return nil, newErr(KindMalformed, "feature geometry", err)
			}
			f.geometry = geom
		default:
			if err := m.Skip(); err != nil {
				return nil, newErr(KindMalformed, "feature field", err)
			}
		}
	}

	return f, nil
}

// decodePackedUint32 unpacks a length-delimited field body as a
// sequence of unsigned varints narrowed to uint32, per the protobuf
// "packed repeated" convention MVT uses for TAGS and GEOMETRY.
// protoscan's typed reads cover individual scalar fields; packing
// several varints into one field body is specific to this encoding,
// so it's decoded here rather than assumed as a library primitive.
func decodePackedUint32(body []byte) ([]uint32, error) {
	out := make([]uint32, 0, len(body)/2)
	for i := 0; i < len(body); {
		v, n := binary.Uvarint(body[i:])
		if n <= 0 {
			return nil, fmt.Errorf("mvt: malformed packed varint")
		}
		out = append(out, uint32(v))
		i += n
	}
	return out, nil
}

// Type returns the feature's geometry type, GeomUnknown if absent.
func (f *Feature) Type() GeomType { return f.geomType }

// ID returns the feature's identifier, IdentifierNull if absent.
func (f *Feature) ID() Identifier { return f.id }

// GetValue looks up a single property by key. If the key is absent
// from the layer's key table it returns (Value{Kind: ValueNull},
// NoWarning, nil) rather than an error. If the layer tolerated
// duplicate keys and key resolves to more than one key-index, the
// first matching tag pair wins and WarningDuplicateKeys is returned
// alongside it.
func (f *Feature) GetValue(key string) (Value, Warning, error) {
	indices, ok := f.layer.keyIndex[key]
	if !ok {
		return Value{Kind: ValueNull}, NoWarning, nil
	}

	if len(f.tags)%2 != 0 {
		return Value{}, NoWarning, ErrUnevenTags
	}

	for p := 0; p < len(f.tags); p += 2 {
		keyIdx := f.tags[p]
		valIdx := f.tags[p+1]
		if !containsIndex(indices, int(keyIdx)) {
			continue
		}
		val, err := f.layer.value(valIdx)
		if err != nil {
			return Value{}, NoWarning, err
		}
		warning := NoWarning
		if len(indices) > 1 {
			warning = WarningDuplicateKeys
		}
		return val, warning, nil
	}

	return Value{Kind: ValueNull}, NoWarning, nil
}

func containsIndex(indices []int, idx int) bool {
	for _, v := range indices {
		if v == idx {
			return true
		}
	}
	return false
}

// Properties decodes every tag pair in order into a key -> Value
// mapping. On a duplicate key name, the later pair's value overwrites
// the earlier one, matching wire order.
func (f *Feature) Properties() (map[string]Value, error) {
	if len(f.tags)%2 != 0 {
		return nil, ErrUnevenTags
	}

	keys := f.layer.keys
	props := make(map[string]Value, len(f.tags)/2)
	for p := 0; p < len(f.tags); p += 2 {
		keyIdx := int(f.tags[p])
		valIdx := f.tags[p+1]
		if keyIdx < 0 || keyIdx >= len(keys) {
			return nil, ErrKeyIndexOutOfRange
		}
		val, err := f.layer.value(valIdx)
		if err != nil {
			return nil, err
		}
		props[keys[keyIdx]] = val
	}
	return props, nil
}

// Geometries runs the geometry command interpreter over the feature's
// packed GEOMETRY words, scaling each accumulated coordinate by scale
// and narrowing it to C.
func Geometries[C Coordinate](f *Feature, scale float32) (*GeometryCollection[C], error) {
	return decodeGeometry[C](f.geometry, f.geomType, scale)
}
