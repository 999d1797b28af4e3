package mvt

import "fmt"

// Kind identifies the taxonomy of a decode failure. Callers that need
// to branch on failure type should compare against these constants
// with errors.Is rather than matching error strings.
type Kind int

const (
	// KindMalformed covers protobuf wire-format corruption that
	// doesn't map to one of the more specific kinds below (a
	// truncated varint, an out-of-range length prefix, and so on).
	KindMalformed Kind = iota
	KindMissingLayerName
	KindLayerNotFound
	KindMissingRequiredField
	KindIndexOutOfRange
	KindUnevenTags
	KindKeyIndexOutOfRange
	KindValueIndexOutOfRange
	KindUnknownCommand
	KindTruncatedParameters
	KindCoordinateOutOfRange
)

func (k Kind) String() string {
	switch k {
	case KindMissingLayerName:
		return "MissingLayerName"
	case KindLayerNotFound:
		return "LayerNotFound"
	case KindMissingRequiredField:
		return "MissingRequiredField"
	case KindIndexOutOfRange:
		return "IndexOutOfRange"
	case KindUnevenTags:
		return "UnevenTags"
	case KindKeyIndexOutOfRange:
		return "KeyIndexOutOfRange"
	case KindValueIndexOutOfRange:
		return "ValueIndexOutOfRange"
	case KindUnknownCommand:
		return "UnknownCommand"
	case KindTruncatedParameters:
		return "TruncatedParameters"
	case KindCoordinateOutOfRange:
		return "CoordinateOutOfRange"
	default:
		return "Malformed"
	}
}

// Error is the concrete error type returned by every failing
// operation in this package. Field holds the name of a missing
// required field for KindMissingRequiredField; it is empty otherwise.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("mvt: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("mvt: %s", msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target shares this error's Kind, so callers can
// write errors.Is(err, mvt.ErrLayerNotFound) style checks.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func missingField(which string) *Error {
	return &Error{Kind: KindMissingRequiredField, Field: which, Message: "missing required field"}
}

// Sentinel values for errors.Is comparisons against a specific kind
// without constructing a full message.
var (
	ErrMissingLayerName      = &Error{Kind: KindMissingLayerName}
	ErrLayerNotFound         = &Error{Kind: KindLayerNotFound}
	ErrMissingRequiredField  = &Error{Kind: KindMissingRequiredField}
	ErrIndexOutOfRange       = &Error{Kind: KindIndexOutOfRange}
	ErrUnevenTags            = &Error{Kind: KindUnevenTags}
	ErrKeyIndexOutOfRange    = &Error{Kind: KindKeyIndexOutOfRange}
	ErrValueIndexOutOfRange  = &Error{Kind: KindValueIndexOutOfRange}
	ErrUnknownCommand        = &Error{Kind: KindUnknownCommand}
	ErrTruncatedParameters   = &Error{Kind: KindTruncatedParameters}
	ErrCoordinateOutOfRange  = &Error{Kind: KindCoordinateOutOfRange}
)

// Warning is a non-fatal condition surfaced alongside a successful
// result. The zero value means "no warning".
type Warning int

const (
	NoWarning Warning = iota
	// WarningDuplicateKeys is returned by Feature.GetValue when the
	// requested key name resolves to more than one key-index in the
	// layer's key table.
	WarningDuplicateKeys
)

func (w Warning) String() string {
	switch w {
	case WarningDuplicateKeys:
		return "duplicate keys with different tag ids are found"
	default:
		return ""
	}
}
