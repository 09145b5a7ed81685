package builtin

import (
	"encoding"
	"reflect"

	"github.com/spf13/mapjson/internal/encoding/codec"
	"github.com/spf13/mapjson/internal/encoding/token"
)

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Text handles types that marshal to and from text, writing them as strings.
// This is what makes types like uuid.UUID and time.Time usable as map keys.
type Text struct{}

func (Text) Name() string { return "text" }

func (Text) CanConvert(t reflect.Type) bool {
	return t.Kind() != reflect.Pointer &&
		t.Implements(textMarshalerType) &&
		reflect.PointerTo(t).Implements(textUnmarshalerType)
}

func (Text) Encode(w token.Writer, v reflect.Value, _ codec.Serializer) error {
	b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return err
	}
	return w.WriteToken(token.Str(string(b)))
}

func (Text) Decode(r token.Reader, t reflect.Type, _ reflect.Value, _ codec.Deserializer) (reflect.Value, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return reflect.Value{}, err
	}
	s, ok := tok.Value.(string)
	if tok.Kind != token.String || !ok {
		return reflect.Value{}, &codec.FormatError{Type: t, Want: token.String, Got: tok.Kind}
	}

	p := reflect.New(t)
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return reflect.Value{}, err
	}
	return p.Elem(), nil
}
