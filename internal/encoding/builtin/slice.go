package builtin

import (
	"encoding/base64"
	"reflect"

	"github.com/spf13/mapjson/internal/encoding/codec"
	"github.com/spf13/mapjson/internal/encoding/token"
)

// Bytes writes byte slices as standard base64 strings.
type Bytes struct{}

func (Bytes) Name() string { return "bytes" }

func (Bytes) CanConvert(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 &&
		!reflect.PointerTo(t.Elem()).Implements(textUnmarshalerType)
}

func (Bytes) Encode(w token.Writer, v reflect.Value, _ codec.Serializer) error {
	return w.WriteToken(token.Str(base64.StdEncoding.EncodeToString(v.Bytes())))
}

func (Bytes) Decode(r token.Reader, t reflect.Type, _ reflect.Value, _ codec.Deserializer) (reflect.Value, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return reflect.Value{}, err
	}
	s, ok := tok.Value.(string)
	if tok.Kind != token.String || !ok {
		return reflect.Value{}, &codec.FormatError{Type: t, Want: token.String, Got: tok.Kind}
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return reflect.Value{}, &codec.ValueError{Type: t, Text: s, Err: err}
	}

	out := reflect.New(t).Elem()
	out.SetBytes(b)
	return out, nil
}

// Sequence handles slices and arrays as JSON arrays.
type Sequence struct{}

func (Sequence) Name() string { return "sequence" }

func (Sequence) CanConvert(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

func (Sequence) Encode(w token.Writer, v reflect.Value, s codec.Serializer) error {
	if err := w.WriteToken(token.ArrayStart); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		if err := s.Serialize(w, v.Index(i)); err != nil {
			return err
		}
	}
	return w.WriteToken(token.ArrayEnd)
}

// Decode reads an array. Arrays keep zero values for missing elements and
// drop extra ones.
func (Sequence) Decode(r token.Reader, t reflect.Type, _ reflect.Value, d codec.Deserializer) (reflect.Value, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return reflect.Value{}, err
	}
	if tok.Kind != token.BeginArray {
		return reflect.Value{}, &codec.FormatError{Type: t, Want: token.BeginArray, Got: tok.Kind}
	}

	out := reflect.New(t).Elem()
	if t.Kind() == reflect.Slice {
		out.Set(reflect.MakeSlice(t, 0, 0))
	}

	for i := 0; ; i++ {
		kind, err := r.PeekKind()
		if err != nil {
			return reflect.Value{}, err
		}
		if kind == token.EndArray {
			_, err := r.ReadToken()
			return out, err
		}

		elem, err := d.Deserialize(r, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		switch {
		case t.Kind() == reflect.Slice:
			out = reflect.Append(out, elem)
		case i < t.Len():
			out.Index(i).Set(elem)
		}
	}
}
