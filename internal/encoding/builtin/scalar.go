// Package builtin provides the converters for Go's predeclared kinds.
//
// Scalar decoders accept either the matching token kind or a string token
// holding the scalar's text, so that property names replayed as strings
// decode into numeric and boolean key types.
package builtin

import (
	"math"
	"reflect"
	"strconv"

	"github.com/spf13/cast"

	"github.com/spf13/mapjson/internal/encoding/codec"
	"github.com/spf13/mapjson/internal/encoding/token"
)

// Scalar handles booleans, integers, floats and strings.
type Scalar struct{}

func (Scalar) Name() string { return "scalar" }

func (Scalar) CanConvert(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func (Scalar) Encode(w token.Writer, v reflect.Value, _ codec.Serializer) error {
	switch v.Kind() {
	case reflect.Bool:
		return w.WriteToken(token.BoolValue(v.Bool()))
	case reflect.String:
		return w.WriteToken(token.Str(v.String()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return w.WriteToken(token.Int(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return w.WriteToken(token.Uint(v.Uint()))
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &codec.UnsupportedValueError{Value: v, Str: strconv.FormatFloat(f, 'g', -1, 64)}
		}
		return w.WriteToken(token.Float(f, v.Type().Bits()))
	}
	return &codec.UnsupportedTypeError{Type: v.Type()}
}

func (Scalar) Decode(r token.Reader, t reflect.Type, _ reflect.Value, _ codec.Deserializer) (reflect.Value, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return reflect.Value{}, err
	}

	out := reflect.New(t).Elem()

	switch t.Kind() {
	case reflect.String:
		s, ok := tok.Value.(string)
		if tok.Kind != token.String || !ok {
			return reflect.Value{}, &codec.FormatError{Type: t, Want: token.String, Got: tok.Kind}
		}
		out.SetString(s)
		return out, nil

	case reflect.Bool:
		if tok.Kind != token.Bool && tok.Kind != token.String {
			return reflect.Value{}, &codec.FormatError{Type: t, Want: token.Bool, Got: tok.Kind}
		}
		b, err := cast.ToBoolE(tok.Value)
		if err != nil {
			text, _ := tok.Text()
			return reflect.Value{}, &codec.ValueError{Type: t, Text: text, Err: err}
		}
		out.SetBool(b)
		return out, nil
	}

	text, err := numberText(t, tok)
	if err != nil {
		return reflect.Value{}, err
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil || out.OverflowInt(n) {
			return reflect.Value{}, &codec.ValueError{Type: t, Text: text, Err: err}
		}
		out.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(text, 10, 64)
		if err != nil || out.OverflowUint(n) {
			return reflect.Value{}, &codec.ValueError{Type: t, Text: text, Err: err}
		}
		out.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(text)
		if err != nil || out.OverflowFloat(f) {
			return reflect.Value{}, &codec.ValueError{Type: t, Text: text, Err: err}
		}
		out.SetFloat(f)
	}

	return out, nil
}

// numberText returns the digits of a number token, or of a string token
// carrying a number.
func numberText(t reflect.Type, tok token.Token) (string, error) {
	switch tok.Kind {
	case token.Number, token.String:
		if text, ok := tok.Text(); ok {
			return text, nil
		}
	}
	return "", &codec.FormatError{Type: t, Want: token.Number, Got: tok.Kind}
}
