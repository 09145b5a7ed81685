package token

import "io"

// SliceReader replays a fixed sequence of tokens.
type SliceReader struct {
	toks []Token
}

// NewSliceReader returns a Reader yielding toks in order, then io.EOF.
func NewSliceReader(toks ...Token) *SliceReader {
	return &SliceReader{toks: toks}
}

func (r *SliceReader) PeekKind() (Kind, error) {
	if len(r.toks) == 0 {
		return Invalid, io.EOF
	}
	return r.toks[0].Kind, nil
}

func (r *SliceReader) ReadToken() (Token, error) {
	if len(r.toks) == 0 {
		return Token{}, io.EOF
	}
	t := r.toks[0]
	r.toks = r.toks[1:]
	return t, nil
}

// Len returns the number of tokens not yet read.
func (r *SliceReader) Len() int { return len(r.toks) }

// Recorder is a Writer that keeps every token written to it.
type Recorder struct {
	Tokens []Token
}

func (r *Recorder) WriteToken(t Token) error {
	r.Tokens = append(r.Tokens, t)
	return nil
}
