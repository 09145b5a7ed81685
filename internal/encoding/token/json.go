package token

import (
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

type frame struct {
	object bool
	// wantName is set while the next token inside an object is a member name.
	wantName bool
}

// JSONReader adapts a jsontext.Decoder to the Reader contract.
//
// jsontext reports member names as plain strings; the reader keeps its own
// container stack so that names surface as PropertyName tokens.
type JSONReader struct {
	dec   *jsontext.Decoder
	stack []frame

	peeked  bool
	next    Token
	nextErr error
}

// NewJSONReader returns a Reader over the JSON text in r.
// Duplicate member names are accepted.
func NewJSONReader(r io.Reader) *JSONReader {
	return &JSONReader{
		dec: jsontext.NewDecoder(r, jsontext.AllowDuplicateNames(true)),
	}
}

func (r *JSONReader) PeekKind() (Kind, error) {
	if !r.peeked {
		r.next, r.nextErr = r.read()
		r.peeked = true
	}
	return r.next.Kind, r.nextErr
}

func (r *JSONReader) ReadToken() (Token, error) {
	if r.peeked {
		r.peeked = false
		return r.next, r.nextErr
	}
	return r.read()
}

func (r *JSONReader) read() (Token, error) {
	tok, err := r.dec.ReadToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind() {
	case '{':
		r.stack = append(r.stack, frame{object: true, wantName: true})
		return ObjectStart, nil
	case '[':
		r.stack = append(r.stack, frame{})
		return ArrayStart, nil
	case '}':
		r.pop()
		return ObjectEnd, nil
	case ']':
		r.pop()
		return ArrayEnd, nil
	case '"':
		s := tok.String()
		if top := r.top(); top != nil && top.object && top.wantName {
			top.wantName = false
			return Name(s), nil
		}
		r.valueDone()
		return Str(s), nil
	case '0':
		r.valueDone()
		return Token{Kind: Number, Value: Num(tok.String())}, nil
	case 't', 'f':
		r.valueDone()
		return BoolValue(tok.Bool()), nil
	case 'n':
		r.valueDone()
		return NullValue, nil
	}

	return Token{}, fmt.Errorf("unexpected JSON token kind %v", tok.Kind())
}

func (r *JSONReader) top() *frame {
	if len(r.stack) == 0 {
		return nil
	}
	return &r.stack[len(r.stack)-1]
}

func (r *JSONReader) pop() {
	if len(r.stack) > 0 {
		r.stack = r.stack[:len(r.stack)-1]
	}
	r.valueDone()
}

// valueDone records that a complete value was read at the current depth.
func (r *JSONReader) valueDone() {
	if top := r.top(); top != nil && top.object {
		top.wantName = true
	}
}

// JSONWriter adapts a jsontext.Encoder to the Writer contract.
type JSONWriter struct {
	enc *jsontext.Encoder
}

// NewJSONWriter returns a Writer emitting JSON text to w. A non-empty indent
// switches to multiline output.
func NewJSONWriter(w io.Writer, indent string) *JSONWriter {
	var opts []jsontext.Options
	if indent != "" {
		opts = append(opts, jsontext.WithIndent(indent))
	}
	return &JSONWriter{enc: jsontext.NewEncoder(w, opts...)}
}

func (w *JSONWriter) WriteToken(t Token) error {
	switch t.Kind {
	case BeginObject:
		return w.enc.WriteToken(jsontext.BeginObject)
	case EndObject:
		return w.enc.WriteToken(jsontext.EndObject)
	case BeginArray:
		return w.enc.WriteToken(jsontext.BeginArray)
	case EndArray:
		return w.enc.WriteToken(jsontext.EndArray)
	case PropertyName, String:
		s, ok := t.Value.(string)
		if !ok {
			return fmt.Errorf("%v token carries %T, want string", t.Kind, t.Value)
		}
		return w.enc.WriteToken(jsontext.String(s))
	case Number:
		n, ok := t.Value.(Num)
		if !ok {
			return fmt.Errorf("number token carries %T, want token.Num", t.Value)
		}
		return w.enc.WriteValue(jsontext.Value(n))
	case Bool:
		b, ok := t.Value.(bool)
		if !ok {
			return fmt.Errorf("bool token carries %T, want bool", t.Value)
		}
		return w.enc.WriteToken(jsontext.Bool(b))
	case Null:
		return w.enc.WriteToken(jsontext.Null)
	}

	return fmt.Errorf("cannot write %v token", t.Kind)
}
