// Package token defines the lexical units converters read and write.
package token

import (
	"fmt"
	"strconv"
)

// Kind identifies the lexical class of a Token.
type Kind uint8

const (
	Invalid Kind = iota
	BeginObject
	EndObject
	BeginArray
	EndArray
	PropertyName
	String
	Number
	Bool
	Null
)

var kindNames = [...]string{
	Invalid:      "invalid",
	BeginObject:  "begin-object",
	EndObject:    "end-object",
	BeginArray:   "begin-array",
	EndArray:     "end-array",
	PropertyName: "property-name",
	String:       "string",
	Number:       "number",
	Bool:         "bool",
	Null:         "null",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Scalar reports whether the kind holds a single value without nesting.
func (k Kind) Scalar() bool {
	switch k {
	case String, Number, Bool, Null:
		return true
	}
	return false
}

// Num is the raw decimal text of a JSON number.
type Num string

// Token is one lexical unit of an object-structured stream.
//
// Value holds a string for PropertyName and String, a Num for Number,
// a bool for Bool and nil otherwise.
type Token struct {
	Kind  Kind
	Value any
}

var (
	ObjectStart = Token{Kind: BeginObject}
	ObjectEnd   = Token{Kind: EndObject}
	ArrayStart  = Token{Kind: BeginArray}
	ArrayEnd    = Token{Kind: EndArray}
	NullValue   = Token{Kind: Null}
)

// Name returns a property name token.
func Name(s string) Token { return Token{Kind: PropertyName, Value: s} }

// Str returns a string token.
func Str(s string) Token { return Token{Kind: String, Value: s} }

// BoolValue returns a boolean token.
func BoolValue(b bool) Token { return Token{Kind: Bool, Value: b} }

// Int returns a number token for a signed integer.
func Int(n int64) Token { return Token{Kind: Number, Value: Num(strconv.FormatInt(n, 10))} }

// Uint returns a number token for an unsigned integer.
func Uint(n uint64) Token { return Token{Kind: Number, Value: Num(strconv.FormatUint(n, 10))} }

// Float returns a number token for f using the shortest representation
// that round-trips at the given bit size.
func Float(f float64, bits int) Token {
	return Token{Kind: Number, Value: Num(strconv.FormatFloat(f, 'g', -1, bits))}
}

// Text returns the textual content of a scalar token: the string itself for
// names and strings, the raw digits for numbers and "true"/"false" for bools.
func (t Token) Text() (string, bool) {
	switch v := t.Value.(type) {
	case string:
		return v, true
	case Num:
		return string(v), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

func (t Token) String() string {
	if s, ok := t.Text(); ok {
		return fmt.Sprintf("%s(%q)", t.Kind, s)
	}
	return t.Kind.String()
}

// Reader is a sequential token cursor. It advances one token at a time and
// never rewinds. At the end of input both methods return io.EOF.
type Reader interface {
	// ReadToken consumes and returns the next token.
	ReadToken() (Token, error)

	// PeekKind reports the kind of the next token without consuming it.
	PeekKind() (Kind, error)
}

// Writer accepts tokens in stream order.
type Writer interface {
	WriteToken(t Token) error
}
