// Copyright © 2014 Steve Francia <spf@spf13.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package mapjson encodes Go values as JSON, writing every map as a JSON
// object whatever its key type.
//
// A map key is rendered with the same converters used for values. When the
// rendering is a JSON string its quotes are dropped and the text becomes the
// property name, so map[uuid.UUID]int encodes as
//
//	{"7d444840-9dc0-11d1-b245-5ffdce74fad2":1}
//
// instead of an array of pairs. Decoding hands each property name back to
// the key type's converter as a string.
//
// Key types must render to a single scalar. This is not checked: a key that
// renders to an object or array produces a property name holding that raw
// JSON text.
package mapjson

import (
	"bytes"
	"io"
	"reflect"

	slog "github.com/sagikazarmark/slog-shim"

	"github.com/spf13/mapjson/internal/encoding"
	"github.com/spf13/mapjson/internal/encoding/builtin"
	"github.com/spf13/mapjson/internal/encoding/mapcodec"
	"github.com/spf13/mapjson/internal/encoding/token"
)

var c *Codec

func init() {
	c = New()
}

// Codec is the recursive (de)serializer every converter calls back into.
// It is safe for concurrent use.
type Codec struct {
	registry *encoding.ConverterRegistry

	indent        string
	deterministic bool
	converters    []Converter

	logger *slog.Logger
}

// Option configures a Codec using the functional options paradigm
// popularized by Rob Pike and Dave Cheney.
type Option interface {
	apply(c *Codec)
}

type optionFunc func(c *Codec)

func (fn optionFunc) apply(c *Codec) {
	fn(c)
}

// WithIndent makes Marshal and Encoder produce multiline output indented by indent.
func WithIndent(indent string) Option {
	return optionFunc(func(c *Codec) {
		c.indent = indent
	})
}

// WithDeterministic sorts the entries of builtin Go maps by property name.
// Without it they follow Go's map iteration order.
func WithDeterministic(deterministic bool) Option {
	return optionFunc(func(c *Codec) {
		c.deterministic = deterministic
	})
}

// New returns an initialized Codec instance.
func New(opts ...Option) *Codec {
	c := new(Codec)
	c.logger = slog.New(&discardHandler{})

	for _, opt := range opts {
		opt.apply(c)
	}

	c.registry = encoding.NewConverterRegistry(c.logger,
		builtin.Text{},
		mapcodec.New(c.deterministic),
		builtin.Bytes{},
		builtin.Scalar{},
		builtin.Sequence{},
		builtin.NewStruct(),
		builtin.Pointer{},
		builtin.Interface{},
	)

	for _, conv := range c.converters {
		if err := c.registry.RegisterConverter(conv); err != nil {
			c.logger.Warn("skipping converter", "converter", conv.Name(), "error", err)
		}
	}

	return c
}

// Reset is intended for testing, will reset all to default settings.
func Reset() {
	c = New()
}

// Default returns the package level Codec.
func Default() *Codec {
	return c
}

// Serialize writes v to w through the converter registered for its type.
func (c *Codec) Serialize(w token.Writer, v reflect.Value) error {
	if !v.IsValid() {
		return w.WriteToken(token.NullValue)
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return w.WriteToken(token.NullValue)
		}
		return c.Serialize(w, v.Elem())
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return w.WriteToken(token.NullValue)
		}
	}

	conv, ok := c.registry.Lookup(v.Type())
	if !ok {
		return &UnsupportedTypeError{Type: v.Type()}
	}
	return conv.Encode(w, v, c)
}

// Deserialize reads one value of type t from r. A null decodes to the zero
// value of pointers, maps, slices and interfaces.
func (c *Codec) Deserialize(r token.Reader, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
		kind, err := r.PeekKind()
		if err != nil {
			return reflect.Value{}, err
		}
		if kind == token.Null {
			if _, err := r.ReadToken(); err != nil {
				return reflect.Value{}, err
			}
			return reflect.Zero(t), nil
		}
	}

	conv, ok := c.registry.Lookup(t)
	if !ok {
		return reflect.Value{}, &UnsupportedTypeError{Type: t}
	}
	return conv.Decode(r, t, reflect.Value{}, c)
}

// Marshal returns the JSON encoding of v.
func Marshal(v any) ([]byte, error) { return c.Marshal(v) }

func (c *Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Serialize(token.NewJSONWriter(&buf, c.indent), reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Unmarshal parses the JSON value in data into the value pointed to by v.
func Unmarshal(data []byte, v any) error { return c.Unmarshal(data, v) }

func (c *Codec) Unmarshal(data []byte, v any) error {
	r := token.NewJSONReader(bytes.NewReader(data))
	if err := c.decodeInto(r, v); err != nil {
		return err
	}

	_, err := r.PeekKind()
	switch err {
	case io.EOF:
		return nil
	case nil:
		return ErrTrailingData
	}
	return err
}

func (c *Codec) decodeInto(r token.Reader, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &InvalidUnmarshalError{Type: reflect.TypeOf(v)}
	}

	out, err := c.Deserialize(r, rv.Type().Elem())
	if err != nil {
		return err
	}
	rv.Elem().Set(out)
	return nil
}

// An Encoder writes a stream of JSON values.
type Encoder struct {
	codec *Codec
	w     *token.JSONWriter
}

// NewEncoder returns an Encoder writing to w.
func (c *Codec) NewEncoder(w io.Writer) *Encoder {
	return &Encoder{codec: c, w: token.NewJSONWriter(w, c.indent)}
}

// Encode writes the JSON encoding of v followed by a newline.
func (e *Encoder) Encode(v any) error {
	return e.codec.Serialize(e.w, reflect.ValueOf(v))
}

// A Decoder reads a stream of JSON values.
type Decoder struct {
	codec *Codec
	r     *token.JSONReader
}

// NewDecoder returns a Decoder reading from r.
func (c *Codec) NewDecoder(r io.Reader) *Decoder {
	return &Decoder{codec: c, r: token.NewJSONReader(r)}
}

// Decode reads the next JSON value into v. It returns io.EOF once the
// stream is exhausted.
func (d *Decoder) Decode(v any) error {
	return d.codec.decodeInto(d.r, v)
}

// More reports whether another value follows.
func (d *Decoder) More() bool {
	_, err := d.r.PeekKind()
	return err == nil
}
