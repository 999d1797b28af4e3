package mvt

import (
	"encoding/binary"
	"math"
)

// Minimal protobuf wire-format builders used only by this package's
// tests, to construct fixture tiles without a full encoder
// dependency. Mirrors the hand-rolled append* helpers real MVT
// encoders use on the wire.

func tagVarint(buf []byte, field int, v uint64) []byte {
	buf = binary.AppendUvarint(buf, uint64(field)<<3|0)
	return binary.AppendUvarint(buf, v)
}

func tagBytes(buf []byte, field int, v []byte) []byte {
	buf = binary.AppendUvarint(buf, uint64(field)<<3|2)
	buf = binary.AppendUvarint(buf, uint64(len(v)))
	return append(buf, v...)
}

func tagString(buf []byte, field int, s string) []byte {
	return tagBytes(buf, field, []byte(s))
}

func tagFixed32(buf []byte, field int, bits uint32) []byte {
	buf = binary.AppendUvarint(buf, uint64(field)<<3|5)
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], bits)
	return append(buf, b[:]...)
}

func tagFixed64(buf []byte, field int, bits uint64) []byte {
	buf = binary.AppendUvarint(buf, uint64(field)<<3|1)
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], bits)
	return append(buf, b[:]...)
}

func tagPacked(buf []byte, field int, words []uint32) []byte {
	var body []byte
	for _, w := range words {
		body = binary.AppendUvarint(body, uint64(w))
	}
	return tagBytes(buf, field, body)
}

func zigzag32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func cmdWord(id, count int) uint32 {
	return uint32((count << 3) | id)
}

// The buildValue* helpers construct raw MVT Value messages.
func buildValueString(s string) []byte {
	return tagString(nil, valueFieldString, s)
}

func buildValueFloat(f float32) []byte {
	return tagFixed32(nil, valueFieldFloat, math.Float32bits(f))
}

func buildValueDouble(d float64) []byte {
	return tagFixed64(nil, valueFieldDouble, math.Float64bits(d))
}

func buildValueInt(i int64) []byte {
	return tagVarint(nil, valueFieldInt, uint64(i))
}

func buildValueUint(u uint64) []byte {
	return tagVarint(nil, valueFieldUint, u)
}

func buildValueSint(i int64) []byte {
	return tagVarint(nil, valueFieldSint, uint64(zigzag32(int32(i))))
}

func buildValueBool(b bool) []byte {
	v := uint64(0)
	if b {
		v = 1
	}
	return tagVarint(nil, valueFieldBool, v)
}

// buildFeature constructs a raw MVT Feature message.
type featureSpec struct {
	id       *uint64
	tags     []uint32
	geomType GeomType
	geometry []uint32
}

func buildFeature(spec featureSpec) []byte {
	var buf []byte
	if spec.id != nil {
		buf = tagVarint(buf, featureFieldID, *spec.id)
	}
	if len(spec.tags) > 0 {
		buf = tagPacked(buf, featureFieldTags, spec.tags)
	}
	if spec.geomType != GeomUnknown {
		buf = tagVarint(buf, featureFieldType, uint64(spec.geomType))
	}
	if len(spec.geometry) > 0 {
		buf = tagPacked(buf, featureFieldGeometry, spec.geometry)
	}
	return buf
}

// layerSpec describes a layer to build for a fixture tile.
type layerSpec struct {
	name     string
	version  uint32
	extent   uint32
	keys     []string
	values   [][]byte
	features [][]byte
}

func buildLayer(spec layerSpec) []byte {
	var buf []byte
	buf = tagString(buf, layerFieldName, spec.name)
	for _, f := range spec.features {
		buf = tagBytes(buf, layerFieldFeatures, f)
	}
	for _, k := range spec.keys {
		buf = tagString(buf, layerFieldKeys, k)
	}
	for _, v := range spec.values {
		buf = tagBytes(buf, layerFieldValues, v)
	}
	buf = tagVarint(buf, layerFieldExtent, uint64(spec.extent))
	buf = tagVarint(buf, layerFieldVersion, uint64(spec.version))
	return buf
}

func buildTile(layers ...[]byte) []byte {
	var buf []byte
	for _, l := range layers {
		buf = tagBytes(buf, tileFieldLayers, l)
	}
	return buf
}
