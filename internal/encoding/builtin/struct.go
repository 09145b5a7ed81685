package builtin

import (
	"reflect"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/spf13/mapjson/internal/encoding/codec"
	"github.com/spf13/mapjson/internal/encoding/token"
)

var anyType = reflect.TypeFor[any]()

type field struct {
	name      string
	index     int
	omitEmpty bool
}

// Struct handles structs as objects of their exported fields. Field names
// follow the `json:"name,omitempty"` tag convention; `json:"-"` skips a field.
type Struct struct {
	fields *xsync.MapOf[reflect.Type, []field]
}

// NewStruct returns a Struct converter with an empty field cache.
func NewStruct() *Struct {
	return &Struct{fields: xsync.NewMapOf[reflect.Type, []field]()}
}

func (*Struct) Name() string { return "struct" }

func (*Struct) CanConvert(t reflect.Type) bool {
	return t.Kind() == reflect.Struct
}

func (c *Struct) fieldsOf(t reflect.Type) []field {
	fields, _ := c.fields.LoadOrCompute(t, func() []field {
		return typeFields(t)
	})
	return fields
}

func typeFields(t reflect.Type) []field {
	var fields []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = sf.Name
		}

		fields = append(fields, field{
			name:      name,
			index:     i,
			omitEmpty: strings.Contains(","+opts+",", ",omitempty,"),
		})
	}
	return fields
}

func (c *Struct) Encode(w token.Writer, v reflect.Value, s codec.Serializer) error {
	if err := w.WriteToken(token.ObjectStart); err != nil {
		return err
	}
	for _, f := range c.fieldsOf(v.Type()) {
		fv := v.Field(f.index)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if err := w.WriteToken(token.Name(f.name)); err != nil {
			return err
		}
		if err := s.Serialize(w, fv); err != nil {
			return err
		}
	}
	return w.WriteToken(token.ObjectEnd)
}

// Decode reads an object into a new struct. Members without a matching
// field are read and discarded.
func (c *Struct) Decode(r token.Reader, t reflect.Type, _ reflect.Value, d codec.Deserializer) (reflect.Value, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return reflect.Value{}, err
	}
	if tok.Kind != token.BeginObject {
		return reflect.Value{}, &codec.FormatError{Type: t, Want: token.BeginObject, Got: tok.Kind}
	}

	out := reflect.New(t).Elem()
	fields := c.fieldsOf(t)

	for {
		tok, err := r.ReadToken()
		if err != nil {
			return reflect.Value{}, err
		}

		switch tok.Kind {
		case token.EndObject:
			return out, nil
		case token.PropertyName:
		default:
			return reflect.Value{}, &codec.ParseError{Type: t, Msg: "expected property name, got " + tok.Kind.String()}
		}

		name, _ := tok.Value.(string)
		f, ok := lookupField(fields, name)
		if !ok {
			if _, err := d.Deserialize(r, anyType); err != nil {
				return reflect.Value{}, err
			}
			continue
		}

		fv := out.Field(f.index)
		v, err := d.Deserialize(r, fv.Type())
		if err != nil {
			return reflect.Value{}, err
		}
		fv.Set(v)
	}
}

func lookupField(fields []field, name string) (field, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}
	for _, f := range fields {
		if strings.EqualFold(f.name, name) {
			return f, true
		}
	}
	return field{}, false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}
