package mapjson

import "github.com/spf13/mapjson/internal/encoding/codec"

// ConfigurationError denotes a map type that does not expose a key and a
// value type.
type ConfigurationError = codec.ConfigurationError

// FormatError denotes a value whose outer token has the wrong shape, such
// as an array where a map's object is expected.
type FormatError = codec.FormatError

// ParseError denotes object members in an order that cannot be decoded,
// such as a property name without a value.
type ParseError = codec.ParseError

// ValueError denotes scalar text that does not parse as the target type.
type ValueError = codec.ValueError

// UnsupportedTypeError is returned when no converter accepts a type.
type UnsupportedTypeError = codec.UnsupportedTypeError

// UnsupportedValueError is returned for values with no JSON representation.
type UnsupportedValueError = codec.UnsupportedValueError

// InvalidUnmarshalError describes an invalid argument passed to Unmarshal.
type InvalidUnmarshalError = codec.InvalidUnmarshalError

const (
	// ErrConverterAlreadyRegistered is returned when a converter with the same name is already registered.
	ErrConverterAlreadyRegistered = codec.ErrConverterAlreadyRegistered

	// ErrTrailingData is returned by Unmarshal when input continues after the value.
	ErrTrailingData = codec.ErrTrailingData
)
