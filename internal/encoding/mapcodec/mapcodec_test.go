package mapcodec

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spf13/mapjson/internal/encoding/builtin"
	"github.com/spf13/mapjson/internal/encoding/codec"
	"github.com/spf13/mapjson/internal/encoding/token"
)

// host is a minimal recursive (de)serializer over a fixed converter list.
type host struct {
	converters []codec.Converter
}

func newHost(extra ...codec.Converter) *host {
	return &host{converters: append(extra,
		New(true),
		builtin.Scalar{},
		builtin.Sequence{},
		builtin.Interface{},
	)}
}

func (h *host) lookup(t reflect.Type) codec.Converter {
	for _, c := range h.converters {
		if c.CanConvert(t) {
			return c
		}
	}
	return nil
}

func (h *host) Serialize(w token.Writer, v reflect.Value) error {
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	c := h.lookup(v.Type())
	if c == nil {
		return &codec.UnsupportedTypeError{Type: v.Type()}
	}
	return c.Encode(w, v, h)
}

func (h *host) Deserialize(r token.Reader, t reflect.Type) (reflect.Value, error) {
	c := h.lookup(t)
	if c == nil {
		return reflect.Value{}, &codec.UnsupportedTypeError{Type: t}
	}
	return c.Decode(r, t, reflect.Value{}, h)
}

func encode(t *testing.T, h *host, v any) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, h.Serialize(token.NewJSONWriter(&buf, ""), reflect.ValueOf(v)))
	return strings.TrimSpace(buf.String())
}

func decode[T any](h *host, r token.Reader) (T, error) {
	var zero T
	v, err := h.Deserialize(r, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}

// label is a key type with its own converter: it renders as a bare string
// and records every string it is decoded from.
type label struct {
	s string
}

type labelConverter struct {
	seen []string
	err  error
}

func (*labelConverter) Name() string { return "label" }

func (*labelConverter) CanConvert(t reflect.Type) bool { return t == reflect.TypeFor[label]() }

func (c *labelConverter) Decode(r token.Reader, _ reflect.Type, _ reflect.Value, _ codec.Deserializer) (reflect.Value, error) {
	if c.err != nil {
		return reflect.Value{}, c.err
	}
	tok, err := r.ReadToken()
	if err != nil {
		return reflect.Value{}, err
	}
	s, _ := tok.Value.(string)
	c.seen = append(c.seen, s)
	return reflect.ValueOf(label{s: s}), nil
}

func (*labelConverter) Encode(w token.Writer, v reflect.Value, _ codec.Serializer) error {
	return w.WriteToken(token.Str(v.Interface().(label).s))
}

// point renders as an object, which is not a valid key rendering.
type point struct {
	X, Y int
}

type pointConverter struct{}

func (pointConverter) Name() string { return "point" }

func (pointConverter) CanConvert(t reflect.Type) bool { return t == reflect.TypeFor[point]() }

func (pointConverter) Decode(r token.Reader, t reflect.Type, _ reflect.Value, _ codec.Deserializer) (reflect.Value, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.Value{}, &codec.FormatError{Type: t, Want: token.BeginObject, Got: tok.Kind}
}

func (pointConverter) Encode(w token.Writer, v reflect.Value, _ codec.Serializer) error {
	p := v.Interface().(point)
	for _, tok := range []token.Token{
		token.ObjectStart,
		token.Name("x"), token.Int(int64(p.X)),
		token.Name("y"), token.Int(int64(p.Y)),
		token.ObjectEnd,
	} {
		if err := w.WriteToken(tok); err != nil {
			return err
		}
	}
	return nil
}

// pairs is an insertion ordered associative container.
type pairs struct {
	keys []string
	vals []int
}

func (p *pairs) TypeParams() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[string](), reflect.TypeFor[int]()}
}

func (p *pairs) Len() int { return len(p.keys) }

func (p *pairs) Range(yield func(key, value reflect.Value) bool) {
	for i := range p.keys {
		if !yield(reflect.ValueOf(p.keys[i]), reflect.ValueOf(p.vals[i])) {
			return
		}
	}
}

func (p *pairs) Store(key, value reflect.Value) {
	p.keys = append(p.keys, key.String())
	p.vals = append(p.vals, int(value.Int()))
}

// single claims to be associative but only reports one type parameter.
type single struct{}

func (*single) TypeParams() []reflect.Type { return []reflect.Type{reflect.TypeFor[string]()} }

func (*single) Len() int { return 0 }

func (*single) Range(func(key, value reflect.Value) bool) {}

func (*single) Store(key, value reflect.Value) {}

func TestCanConvert(t *testing.T) {
	tests := []struct {
		typ      reflect.Type
		expected bool
	}{
		{reflect.TypeFor[map[string]int](), true},
		{reflect.TypeFor[map[label][]string](), true},
		{reflect.TypeFor[pairs](), true},
		{reflect.TypeFor[*pairs](), true},
		{reflect.TypeFor[int](), false},
		{reflect.TypeFor[[]string](), false},
		{reflect.TypeFor[point](), false},
		{reflect.TypeFor[*map[string]int](), false},
		{nil, false},
	}

	for _, test := range tests {
		name := "nil"
		if test.typ != nil {
			name = test.typ.String()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, CanConvert(test.typ))
		})
	}
}

func TestIntrospect(t *testing.T) {
	t.Run("StringKey", func(t *testing.T) {
		s, err := introspect(reflect.TypeFor[map[string]bool]())
		require.NoError(t, err)

		assert.True(t, s.isStringKey)
		assert.True(t, s.builtin)
		assert.Equal(t, reflect.TypeFor[bool](), s.elem)
	})

	t.Run("NamedStringKey", func(t *testing.T) {
		type name string

		s, err := introspect(reflect.TypeFor[map[name]bool]())
		require.NoError(t, err)

		assert.False(t, s.isStringKey)
	})

	t.Run("Associative", func(t *testing.T) {
		s, err := introspect(reflect.TypeFor[*pairs]())
		require.NoError(t, err)

		assert.True(t, s.isStringKey)
		assert.False(t, s.builtin)
		assert.Equal(t, reflect.TypeFor[int](), s.elem)
	})

	t.Run("MissingTypeParam", func(t *testing.T) {
		_, err := introspect(reflect.TypeFor[single]())

		var cerr *codec.ConfigurationError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, 1, cerr.Params)
	})
}

func TestEncode(t *testing.T) {
	t.Run("StringKeys", func(t *testing.T) {
		h := newHost()

		actual := encode(t, h, map[string]string{"key2": "val2", "key1": "val1"})

		assert.Equal(t, `{"key1":"val1","key2":"val2"}`, actual)
	})

	t.Run("CustomKey", func(t *testing.T) {
		h := newHost(&labelConverter{})

		actual := encode(t, h, map[label]int{{s: "key1"}: 7})

		assert.Equal(t, `{"key1":7}`, actual)
	})

	t.Run("IntKeys", func(t *testing.T) {
		h := newHost()

		actual := encode(t, h, map[int]string{10: "b", 2: "a"})

		// sorted as text, not numerically
		assert.Equal(t, `{"10":"b","2":"a"}`, actual)
	})

	t.Run("Empty", func(t *testing.T) {
		h := newHost()

		assert.Equal(t, `{}`, encode(t, h, map[string]int{}))
	})

	t.Run("AssociativeOrder", func(t *testing.T) {
		h := newHost()
		p := &pairs{keys: []string{"z", "a", "m"}, vals: []int{1, 2, 3}}

		assert.Equal(t, `{"z":1,"a":2,"m":3}`, encode(t, h, p))
	})

	t.Run("AssociativeValue", func(t *testing.T) {
		h := newHost()
		p := pairs{keys: []string{"b", "a"}, vals: []int{1, 2}}

		assert.Equal(t, `{"b":1,"a":2}`, encode(t, h, p))
	})

	t.Run("NestedMaps", func(t *testing.T) {
		h := newHost()

		actual := encode(t, h, map[bool]map[int][]int{true: {1: {1, 2}}})

		assert.Equal(t, `{"true":{"1":[1,2]}}`, actual)
	})

	t.Run("ObjectShapedKeyIsNotValidated", func(t *testing.T) {
		// Known limitation: a key rendering to an object is used verbatim as
		// the property name instead of failing.
		h := newHost(pointConverter{})

		actual := encode(t, h, map[point]int{{X: 1, Y: 2}: 3})

		assert.Equal(t, `{"{\"x\":1,\"y\":2}":3}`, actual)
	})

	t.Run("ConfigurationError", func(t *testing.T) {
		h := newHost()

		err := h.Serialize(token.NewJSONWriter(&bytes.Buffer{}, ""), reflect.ValueOf(&single{}))

		var cerr *codec.ConfigurationError
		assert.ErrorAs(t, err, &cerr)
	})

	t.Run("KeyRenderError", func(t *testing.T) {
		h := newHost()

		err := h.Serialize(&token.Recorder{}, reflect.ValueOf(map[complex64]int{1: 1}))

		var uerr *codec.UnsupportedTypeError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, reflect.TypeFor[complex64](), uerr.Type)
	})

	t.Run("Tokens", func(t *testing.T) {
		h := newHost(&labelConverter{})
		rec := &token.Recorder{}

		require.NoError(t, h.Serialize(rec, reflect.ValueOf(map[label]int{{s: "k"}: 1})))

		// the key is rendered aside and never reaches the main stream
		assert.Equal(t, []token.Token{token.ObjectStart, token.Name("k"), token.Int(1), token.ObjectEnd}, rec.Tokens)
	})
}

func TestDecode(t *testing.T) {
	t.Run("StringKeys", func(t *testing.T) {
		h := newHost()
		r := token.NewJSONReader(strings.NewReader(`{"key1":"val1","key2":"val2"}`))

		m, err := decode[map[string]string](h, r)
		require.NoError(t, err)

		assert.Equal(t, map[string]string{"key1": "val1", "key2": "val2"}, m)
	})

	t.Run("CustomKey", func(t *testing.T) {
		conv := &labelConverter{}
		h := newHost(conv)
		r := token.NewJSONReader(strings.NewReader(`{"key1":7}`))

		m, err := decode[map[label]int](h, r)
		require.NoError(t, err)

		assert.Equal(t, map[label]int{{s: "key1"}: 7}, m)
		assert.Equal(t, []string{"key1"}, conv.seen)
	})

	t.Run("IntKeys", func(t *testing.T) {
		h := newHost()
		r := token.NewJSONReader(strings.NewReader(`{"1":"a","-20":"b"}`))

		m, err := decode[map[int8]string](h, r)
		require.NoError(t, err)

		assert.Equal(t, map[int8]string{1: "a", -20: "b"}, m)
	})

	t.Run("InvalidIntKey", func(t *testing.T) {
		h := newHost()
		r := token.NewJSONReader(strings.NewReader(`{"300":"a"}`))

		_, err := decode[map[int8]string](h, r)

		var verr *codec.ValueError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "300", verr.Text)
	})

	t.Run("NestedValues", func(t *testing.T) {
		h := newHost()
		r := token.NewJSONReader(strings.NewReader(`{"a":{"x":[1,2]},"b":{}}`))

		m, err := decode[map[string]map[string][]int](h, r)
		require.NoError(t, err)

		assert.Equal(t, map[string]map[string][]int{"a": {"x": {1, 2}}, "b": {}}, m)
	})

	t.Run("AssociativeOrder", func(t *testing.T) {
		h := newHost()
		r := token.NewJSONReader(strings.NewReader(`{"z":1,"a":2,"m":3}`))

		p, err := decode[*pairs](h, r)
		require.NoError(t, err)

		assert.Equal(t, []string{"z", "a", "m"}, p.keys)
		assert.Equal(t, []int{1, 2, 3}, p.vals)
	})

	t.Run("AssociativeValue", func(t *testing.T) {
		h := newHost()
		r := token.NewJSONReader(strings.NewReader(`{"b":1}`))

		p, err := decode[pairs](h, r)
		require.NoError(t, err)

		assert.Equal(t, []string{"b"}, p.keys)
	})

	t.Run("NotAnObject", func(t *testing.T) {
		h := newHost()
		r := token.NewSliceReader(token.ArrayStart, token.Int(1), token.Int(2), token.Int(3), token.ArrayEnd)

		_, err := decode[map[string]int](h, r)

		var ferr *codec.FormatError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, token.BeginArray, ferr.Got)
		// only the opening token was consumed
		assert.Equal(t, 4, r.Len())
	})

	t.Run("ValueWithoutName", func(t *testing.T) {
		h := newHost()
		r := token.NewSliceReader(token.ObjectStart, token.Int(1), token.ObjectEnd)

		_, err := decode[map[string]int](h, r)

		var perr *codec.ParseError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("NameWithoutValue", func(t *testing.T) {
		h := newHost()
		r := token.NewSliceReader(token.ObjectStart, token.Name("a"), token.ObjectEnd)

		_, err := decode[map[string]int](h, r)

		var perr *codec.ParseError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("TwoNames", func(t *testing.T) {
		h := newHost()
		r := token.NewSliceReader(token.ObjectStart, token.Name("a"), token.Name("b"), token.Int(1), token.ObjectEnd)

		_, err := decode[map[string]int](h, r)

		var perr *codec.ParseError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("NameNotString", func(t *testing.T) {
		h := newHost()
		r := token.NewSliceReader(token.ObjectStart, token.Token{Kind: token.PropertyName, Value: 5}, token.Int(1), token.ObjectEnd)

		_, err := decode[map[string]int](h, r)

		var perr *codec.ParseError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("Truncated", func(t *testing.T) {
		h := newHost()
		r := token.NewSliceReader(token.ObjectStart, token.Name("a"), token.Int(1))

		_, err := decode[map[string]int](h, r)

		assert.Error(t, err)
	})

	t.Run("KeyErrorIsNotWrapped", func(t *testing.T) {
		boom := errors.New("boom")
		h := newHost(&labelConverter{err: boom})
		r := token.NewJSONReader(strings.NewReader(`{"key1":7}`))

		_, err := decode[map[label]int](h, r)

		assert.Same(t, boom, err)
	})

	t.Run("ValueErrorIsNotWrapped", func(t *testing.T) {
		boom := errors.New("boom")
		h := newHost(&labelConverter{err: boom})
		r := token.NewJSONReader(strings.NewReader(`{"k":"v"}`))

		_, err := decode[map[string]label](h, r)

		assert.Same(t, boom, err)
	})

	t.Run("ConfigurationError", func(t *testing.T) {
		h := newHost()
		r := token.NewJSONReader(strings.NewReader(`{}`))

		_, err := decode[*single](h, r)

		var cerr *codec.ConfigurationError
		assert.ErrorAs(t, err, &cerr)
	})
}

func TestRoundTrip(t *testing.T) {
	h := newHost(&labelConverter{})
	in := map[label][]any{
		{s: "a"}: {"x", 1.5, true},
		{s: "b"}: {},
	}

	r := token.NewJSONReader(strings.NewReader(encode(t, h, in)))
	out, err := decode[map[label][]any](h, r)
	require.NoError(t, err)

	assert.Equal(t, in, out)
}

func TestStripQuotes(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{`"key1"`, `key1`},
		{`""`, ``},
		{`"`, `"`},
		{`7`, `7`},
		{`"a\"b"`, `a\"b`},
		{`{"a":1}`, `{"a":1}`},
	}

	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			assert.Equal(t, test.expected, stripQuotes(test.in))
		})
	}
}

func TestRenderKey(t *testing.T) {
	h := newHost()

	name, err := RenderKey(reflect.ValueOf("plain"), h)
	require.NoError(t, err)
	assert.Equal(t, "plain", name)

	// escapes produced by the string encoding are kept
	name, err = RenderKey(reflect.ValueOf(`say "hi"`), h)
	require.NoError(t, err)
	assert.Equal(t, `say \"hi\"`, name)

	name, err = RenderKey(reflect.ValueOf(uint16(42)), h)
	require.NoError(t, err)
	assert.Equal(t, "42", name)
}
