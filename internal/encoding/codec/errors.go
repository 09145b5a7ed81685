package codec

import (
	"fmt"
	"reflect"

	"github.com/spf13/mapjson/internal/encoding/token"
)

type encodingError string

func (e encodingError) Error() string {
	return string(e)
}

const (
	// ErrConverterAlreadyRegistered is returned when a converter with the same name is already registered.
	ErrConverterAlreadyRegistered = encodingError("converter already registered with this name")

	// ErrTrailingData is returned when input continues after a complete value.
	ErrTrailingData = encodingError("invalid data after top-level value")
)

// ConfigurationError denotes a map type that does not expose exactly
// two type parameters.
type ConfigurationError struct {
	Type   reflect.Type
	Params int
}

// Error returns the formatted configuration error.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("map type %s exposes %d type parameters, need key and value", e.Type, e.Params)
}

// FormatError denotes a value whose outer token does not have the
// shape its type requires.
type FormatError struct {
	Type reflect.Type
	Want token.Kind
	Got  token.Kind
}

// Error returns the formatted format error.
func (e *FormatError) Error() string {
	if e.Want == token.BeginObject {
		return fmt.Sprintf("%s not represented as an object: got %s", e.Type, e.Got)
	}
	return fmt.Sprintf("cannot decode %s from %s, want %s", e.Type, e.Got, e.Want)
}

// ParseError denotes tokens in an order the decoder cannot accept.
type ParseError struct {
	Type reflect.Type
	Msg  string
}

// Error returns the formatted parse error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("decoding %s: %s", e.Type, e.Msg)
}

// UnsupportedTypeError is returned when no converter accepts a type.
type UnsupportedTypeError struct {
	Type reflect.Type
}

// Error returns the formatted unsupported type error.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s", e.Type)
}

// UnsupportedValueError is returned for values of a supported type
// that have no representation, such as NaN.
type UnsupportedValueError struct {
	Value reflect.Value
	Str   string
}

// Error returns the formatted unsupported value error.
func (e *UnsupportedValueError) Error() string {
	return "unsupported value: " + e.Str
}

// InvalidUnmarshalError describes an invalid argument passed to Unmarshal.
type InvalidUnmarshalError struct {
	Type reflect.Type
}

// Error returns the formatted error.
func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "unmarshal target is nil"
	}
	if e.Type.Kind() != reflect.Pointer {
		return fmt.Sprintf("unmarshal target is non-pointer %s", e.Type)
	}
	return fmt.Sprintf("unmarshal target is nil %s", e.Type)
}

// ValueError denotes scalar text that cannot be parsed as, or does not
// fit in, the target type.
type ValueError struct {
	Type reflect.Type
	Text string
	Err  error
}

// Error returns the formatted value error.
func (e *ValueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot decode %q as %s: %v", e.Text, e.Type, e.Err)
	}
	return fmt.Sprintf("cannot decode %q as %s", e.Text, e.Type)
}

func (e *ValueError) Unwrap() error { return e.Err }
