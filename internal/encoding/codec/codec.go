package codec

import (
	"reflect"

	"github.com/spf13/mapjson/internal/encoding/token"
)

// Serializer writes one value of any supported type, recursing into the
// registered converters for nested values.
type Serializer interface {
	Serialize(w token.Writer, v reflect.Value) error
}

// Deserializer reads one complete value of type t from r.
type Deserializer interface {
	Deserialize(r token.Reader, t reflect.Type) (reflect.Value, error)
}

// Converter handles the token representation of the types it accepts.
type Converter interface {
	// Name identifies the converter in the registry and in diagnostics.
	Name() string

	// CanConvert reports whether the converter governs t.
	CanConvert(t reflect.Type) bool

	// Decode reads a value of type t from r. The reader is positioned before
	// the value's first token; Decode must consume exactly that value.
	// existing is the current value of the destination and may be invalid.
	Decode(r token.Reader, t reflect.Type, existing reflect.Value, d Deserializer) (reflect.Value, error)

	// Encode writes v to w.
	Encode(w token.Writer, v reflect.Value, s Serializer) error
}

// Associative is implemented by map-like containers other than builtin Go maps.
//
// Implementations with pointer receivers must have a usable zero value: the
// decoder allocates them with reflect.New.
type Associative interface {
	// TypeParams returns the key and value types, in that order.
	TypeParams() []reflect.Type

	// Len returns the number of entries.
	Len() int

	// Range calls yield for each entry in iteration order until it returns false.
	Range(yield func(key, value reflect.Value) bool)

	// Store inserts or replaces the entry for key.
	Store(key, value reflect.Value)
}

// AssociativeType is the reflect.Type of Associative.
var AssociativeType = reflect.TypeFor[Associative]()
