// Package mapcodec converts maps with arbitrary key types to and from
// object-shaped token streams.
//
// Keys are rendered through the same recursive serializer as values. A key
// whose rendering is a single JSON string becomes the property name with its
// quotes removed; any other rendering is used verbatim. Decoding feeds the
// property name back to the key type's deserializer as a string token.
//
// The codec does not check that a key renders to a single scalar. A key type
// that serializes to an object or array produces its raw JSON text as the
// property name, which will not decode back to the same key.
package mapcodec

import (
	"bytes"
	"reflect"
	"sort"

	"github.com/spf13/mapjson/internal/encoding/codec"
	"github.com/spf13/mapjson/internal/encoding/token"
)

var stringType = reflect.TypeFor[string]()

// Codec is the map converter. The zero value is ready to use.
type Codec struct {
	// Deterministic sorts the entries of builtin Go maps by property name
	// on encode. Associative containers always keep their own order.
	Deterministic bool
}

// New returns a map Codec.
func New(deterministic bool) *Codec {
	return &Codec{Deterministic: deterministic}
}

func (*Codec) Name() string { return "map" }

// CanConvert reports whether t is a builtin map or an associative container.
func (*Codec) CanConvert(t reflect.Type) bool {
	return CanConvert(t)
}

// CanConvert reports whether t is a builtin map, implements
// codec.Associative, or has a pointer type that does.
func CanConvert(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Map {
		return true
	}
	if t.Implements(codec.AssociativeType) {
		return true
	}
	return t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(codec.AssociativeType)
}

// shape is the introspected layout of one accepted map type.
type shape struct {
	typ         reflect.Type
	key         reflect.Type
	elem        reflect.Type
	isStringKey bool
	builtin     bool
}

// introspect extracts the key and value types of t.
func introspect(t reflect.Type) (shape, error) {
	s := shape{typ: t}

	var params []reflect.Type
	if t.Kind() == reflect.Map {
		s.builtin = true
		params = []reflect.Type{t.Key(), t.Elem()}
	} else {
		params = newAssociative(t).assoc.TypeParams()
	}

	if len(params) < 2 {
		return s, &codec.ConfigurationError{Type: t, Params: len(params)}
	}

	s.key, s.elem = params[0], params[1]
	s.isStringKey = s.key == stringType

	return s, nil
}

// instance is a freshly constructed map together with its Associative view.
type instance struct {
	result reflect.Value
	assoc  codec.Associative
}

func newAssociative(t reflect.Type) instance {
	if t.Kind() == reflect.Pointer {
		p := reflect.New(t.Elem())
		return instance{result: p, assoc: p.Interface().(codec.Associative)}
	}

	p := reflect.New(t)
	return instance{result: p.Elem(), assoc: p.Interface().(codec.Associative)}
}

func (s shape) newInstance() instance {
	if s.builtin {
		m := reflect.MakeMap(s.typ)
		return instance{result: m, assoc: builtinMap{m}}
	}
	return newAssociative(s.typ)
}

// view returns the Associative view of an existing map value.
func (s shape) view(v reflect.Value) codec.Associative {
	if s.builtin {
		return builtinMap{v}
	}
	if v.Kind() != reflect.Pointer && v.CanAddr() {
		v = v.Addr()
	} else if v.Kind() != reflect.Pointer {
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		v = p
	}
	return v.Interface().(codec.Associative)
}

// builtinMap adapts a reflect.Value of kind Map to codec.Associative.
type builtinMap struct {
	m reflect.Value
}

func (b builtinMap) TypeParams() []reflect.Type {
	return []reflect.Type{b.m.Type().Key(), b.m.Type().Elem()}
}

func (b builtinMap) Len() int { return b.m.Len() }

func (b builtinMap) Range(yield func(key, value reflect.Value) bool) {
	iter := b.m.MapRange()
	for iter.Next() {
		if !yield(iter.Key(), iter.Value()) {
			return
		}
	}
}

func (b builtinMap) Store(key, value reflect.Value) {
	b.m.SetMapIndex(key, value)
}

// decodeState is the cursor of the object body parser.
type decodeState uint8

const (
	awaitingKey decodeState = iota
	haveKey
)

// Decode reads an object from r into a new map of type t.
func (c *Codec) Decode(r token.Reader, t reflect.Type, _ reflect.Value, d codec.Deserializer) (reflect.Value, error) {
	s, err := introspect(t)
	if err != nil {
		return reflect.Value{}, err
	}

	tok, err := r.ReadToken()
	if err != nil {
		return reflect.Value{}, err
	}
	if tok.Kind != token.BeginObject {
		return reflect.Value{}, &codec.FormatError{Type: t, Want: token.BeginObject, Got: tok.Kind}
	}

	out := s.newInstance()

	state := awaitingKey
	var pending reflect.Value

	for {
		kind, err := r.PeekKind()
		if err != nil {
			return reflect.Value{}, err
		}

		switch kind {
		case token.EndObject:
			if _, err := r.ReadToken(); err != nil {
				return reflect.Value{}, err
			}
			if state == haveKey {
				return reflect.Value{}, &codec.ParseError{Type: t, Msg: "object ends after a property name with no value"}
			}
			return out.result, nil

		case token.PropertyName:
			tok, err := r.ReadToken()
			if err != nil {
				return reflect.Value{}, err
			}
			if state == haveKey {
				return reflect.Value{}, &codec.ParseError{Type: t, Msg: "property name follows a property name with no value"}
			}
			name, ok := tok.Value.(string)
			if !ok {
				return reflect.Value{}, &codec.ParseError{Type: t, Msg: "property name is not a string"}
			}

			key, err := s.decodeKey(name, d)
			if err != nil {
				return reflect.Value{}, err
			}
			pending, state = key, haveKey

		default:
			if state == awaitingKey {
				return reflect.Value{}, &codec.ParseError{Type: t, Msg: "value " + kind.String() + " has no preceding property name"}
			}

			value, err := d.Deserialize(r, s.elem)
			if err != nil {
				return reflect.Value{}, err
			}
			out.assoc.Store(pending, value)
			pending, state = reflect.Value{}, awaitingKey
		}
	}
}

func (s shape) decodeKey(name string, d codec.Deserializer) (reflect.Value, error) {
	if s.isStringKey {
		return reflect.ValueOf(name), nil
	}
	return d.Deserialize(token.NewSliceReader(token.Str(name)), s.key)
}

type entry struct {
	name  string
	value reflect.Value
}

// Encode writes v as an object with one property per entry.
func (c *Codec) Encode(w token.Writer, v reflect.Value, ser codec.Serializer) error {
	s, err := introspect(v.Type())
	if err != nil {
		return err
	}

	assoc := s.view(v)
	entries := make([]entry, 0, assoc.Len())

	var rangeErr error
	assoc.Range(func(key, value reflect.Value) bool {
		name, err := s.propertyName(key, ser)
		if err != nil {
			rangeErr = err
			return false
		}
		entries = append(entries, entry{name: name, value: value})
		return true
	})
	if rangeErr != nil {
		return rangeErr
	}

	if c.Deterministic && s.builtin {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].name < entries[j].name
		})
	}

	if err := w.WriteToken(token.ObjectStart); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.WriteToken(token.Name(e.name)); err != nil {
			return err
		}
		if err := ser.Serialize(w, e.value); err != nil {
			return err
		}
	}
	return w.WriteToken(token.ObjectEnd)
}

func (s shape) propertyName(key reflect.Value, ser codec.Serializer) (string, error) {
	if s.isStringKey {
		return key.String(), nil
	}
	return RenderKey(key, ser)
}

// RenderKey serializes key into a private buffer and strips one layer of
// enclosing double quotes from the result. Escape sequences inside the
// rendering are left as they are.
func RenderKey(key reflect.Value, ser codec.Serializer) (string, error) {
	var buf bytes.Buffer
	if err := ser.Serialize(token.NewJSONWriter(&buf, ""), key); err != nil {
		return "", err
	}
	return stripQuotes(string(bytes.TrimRight(buf.Bytes(), "\n"))), nil
}

func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
