package mapjson

import (
	"reflect"

	"github.com/spf13/mapjson/internal/encoding/codec"
	"github.com/spf13/mapjson/internal/encoding/mapcodec"
	"github.com/spf13/mapjson/internal/encoding/token"
)

// Converter handles the token representation of the types it accepts.
// Registered converters take precedence over the built-in ones, which lets
// a key type supply its own string form.
type Converter = codec.Converter

// Serializer is the recursive encoder handed to converters.
type Serializer = codec.Serializer

// Deserializer is the recursive decoder handed to converters.
type Deserializer = codec.Deserializer

// Associative is implemented by map containers other than builtin Go maps.
// Such containers are encoded as objects in their own iteration order.
type Associative = codec.Associative

// Token types used by converters.
type (
	Token       = token.Token
	TokenKind   = token.Kind
	TokenReader = token.Reader
	TokenWriter = token.Writer
)

// WithConverter registers a [Converter] when the Codec is created.
func WithConverter(conv Converter) Option {
	return optionFunc(func(c *Codec) {
		c.converters = append(c.converters, conv)
	})
}

// RegisterConverter registers a [Converter] on the package level Codec.
//
// The error is [ErrConverterAlreadyRegistered] if the name is taken.
func RegisterConverter(conv Converter) error { return c.RegisterConverter(conv) }

func (c *Codec) RegisterConverter(conv Converter) error {
	return c.registry.RegisterConverter(conv)
}

// Converters returns the names of the converters in lookup order.
func (c *Codec) Converters() []string {
	return c.registry.Names()
}

// CanConvert reports whether t is encoded as an object by the map converter:
// a builtin map, or a type whose value or pointer implements [Associative].
func CanConvert(t reflect.Type) bool {
	return mapcodec.CanConvert(t)
}
