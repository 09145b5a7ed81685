package builtin

import (
	"reflect"

	"github.com/spf13/cast"

	"github.com/spf13/mapjson/internal/encoding/codec"
	"github.com/spf13/mapjson/internal/encoding/token"
)

var (
	objectType = reflect.TypeFor[map[string]any]()
	arrayType  = reflect.TypeFor[[]any]()
)

// Pointer handles non-nil pointers by converting the value they point to.
// Nil pointers never reach it.
type Pointer struct{}

func (Pointer) Name() string { return "pointer" }

func (Pointer) CanConvert(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer
}

func (Pointer) Encode(w token.Writer, v reflect.Value, s codec.Serializer) error {
	return s.Serialize(w, v.Elem())
}

func (Pointer) Decode(r token.Reader, t reflect.Type, _ reflect.Value, d codec.Deserializer) (reflect.Value, error) {
	v, err := d.Deserialize(r, t.Elem())
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(t.Elem())
	p.Elem().Set(v)
	return p, nil
}

// Interface decodes into the empty interface: objects become map[string]any,
// arrays []any and numbers float64.
type Interface struct{}

func (Interface) Name() string { return "interface" }

func (Interface) CanConvert(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

func (Interface) Encode(w token.Writer, v reflect.Value, s codec.Serializer) error {
	return s.Serialize(w, v.Elem())
}

func (Interface) Decode(r token.Reader, t reflect.Type, _ reflect.Value, d codec.Deserializer) (reflect.Value, error) {
	kind, err := r.PeekKind()
	if err != nil {
		return reflect.Value{}, err
	}

	var v reflect.Value
	switch kind {
	case token.BeginObject:
		if v, err = d.Deserialize(r, objectType); err != nil {
			return reflect.Value{}, err
		}
	case token.BeginArray:
		if v, err = d.Deserialize(r, arrayType); err != nil {
			return reflect.Value{}, err
		}
	default:
		tok, err := r.ReadToken()
		if err != nil {
			return reflect.Value{}, err
		}
		if v, err = scalarValue(t, tok); err != nil {
			return reflect.Value{}, err
		}
	}

	out := reflect.New(t).Elem()
	if v.IsValid() {
		out.Set(v)
	}
	return out, nil
}

func scalarValue(t reflect.Type, tok token.Token) (reflect.Value, error) {
	switch tok.Kind {
	case token.Null:
		return reflect.Value{}, nil
	case token.String, token.Bool:
		return reflect.ValueOf(tok.Value), nil
	case token.Number:
		text, _ := tok.Text()
		f, err := cast.ToFloat64E(text)
		if err != nil {
			return reflect.Value{}, &codec.ValueError{Type: t, Text: text, Err: err}
		}
		return reflect.ValueOf(f), nil
	}
	return reflect.Value{}, &codec.ParseError{Type: t, Msg: "unexpected " + tok.Kind.String()}
}
