package mvt

import "github.com/paulmach/protoscan"

// ValueKind discriminates the variant held by a Value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueUint
	ValueInt
	ValueDouble
	ValueString
)

// Value is the tagged sum the MVT `Value` message decodes to. Null is
// a distinct variant, not a sentinel over a missing field.
type Value struct {
	Kind ValueKind
	Bool bool
	Uint uint64
	Int  int64
	Dbl  float64
	Str  string
}

// Raw returns the variant's payload as an interface{}, nil for
// ValueNull. Convenient for callers that want to round-trip a Value
// through encoding/json or a map[string]interface{}.
func (v Value) Raw() interface{} {
	switch v.Kind {
	case ValueBool:
		return v.Bool
	case ValueUint:
		return v.Uint
	case ValueInt:
		return v.Int
	case ValueDouble:
		return v.Dbl
	case ValueString:
		return v.Str
	default:
		return nil
	}
}

// Value wire field numbers, per the MVT wire format.
const (
	valueFieldString = 1
	valueFieldFloat  = 2
	valueFieldDouble = 3
	valueFieldInt    = 4
	valueFieldUint   = 5
	valueFieldSint   = 6
	valueFieldBool   = 7
)

// parseValue decodes a raw MVT `Value` message view. It returns the
// first value-bearing field encountered; an empty message decodes to
// ValueNull.
func parseValue(view []byte) (Value, error) {
	m := protoscan.New(view)
	for m.Next() {
		switch m.FieldNumber() {
		case valueFieldString:
			str, err := m.String()
			if err != nil {
				return Value{}, newErr(KindMalformed, "value string", err)
			}
			return Value{Kind: ValueString, Str: str}, nil
		case valueFieldFloat:
			f, err := m.Float()
			if err != nil {
				return Value{}, newErr(KindMalformed, "value float", err)
			}
			return Value{Kind: ValueDouble, Dbl: float64(f)}, nil
		case valueFieldDouble:
			d, err := m.Double()
			if err != nil {
				return Value{}, newErr(KindMalformed, "value double", err)
			}
			return Value{Kind: ValueDouble, Dbl: d}, nil
		case valueFieldInt:
			// MVT's int_value is a plain (non-zig-zag) varint; casting
			// the raw uint64 recovers the signed value via two's
			// complement, same as protoscan's own Int64 would.
			u, err := m.Uint64()
			if err != nil {
				return Value{}, newErr(KindMalformed, "value int", err)
			}
			return Value{Kind: ValueInt, Int: int64(u)}, nil
		case valueFieldUint:
			u, err := m.Uint64()
			if err != nil {
				return Value{}, newErr(KindMalformed, "value uint", err)
			}
			return Value{Kind: ValueUint, Uint: u}, nil
		case valueFieldSint:
			i, err := m.Sint64()
			if err != nil {
				return Value{}, newErr(KindMalformed, "value sint", err)
			}
			return Value{Kind: ValueInt, Int: i}, nil
		case valueFieldBool:
			b, err := m.Bool()
			if err != nil {
				return Value{}, newErr(KindMalformed, "value bool", err)
			}
			return Value{Kind: ValueBool, Bool: b}, nil
		default:
			if err := m.Skip(); err != nil {
				return Value{}, newErr(KindMalformed, "value field", err)
			}
		}
	}
	return Value{Kind: ValueNull}, nil
}

// IdentifierKind discriminates the variant held by an Identifier.
type IdentifierKind int

const (
	IdentifierNull IdentifierKind = iota
	IdentifierU64
	IdentifierI64
	IdentifierDouble
	IdentifierString
)

// Identifier is the tagged sum for a feature's id field. The MVT wire
// schema only defines a uint64 id. Feature decoding reads the id field
// as an unsigned varint only, so it yields IdentifierNull or
// IdentifierU64; the I64, Double and String variants are never set by
// this package, and an id field of another wire type fails the feature
// with KindMalformed.
type Identifier struct {
	Kind IdentifierKind
	U64  uint64
	I64  int64
	Dbl  float64
	Str  string
}

var nullIdentifier = Identifier{Kind: IdentifierNull}
