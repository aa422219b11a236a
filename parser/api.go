package parser

import (
	"errors"
	"io"
)

// ParseString tokenizes and parses Lox source text. Lexical errors abort
// before parsing and are returned joined; otherwise the per-declaration
// results of [Parse] are returned.
func ParseString(src string, opts ...Option) ([]Result, error) {
	tokens, errs := Split(Tokenize(src))
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return Parse(Filter(tokens), opts...), nil
}

// ParseReader consumes Lox source from an io.Reader.
func ParseReader(r io.Reader, opts ...Option) ([]Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseString(string(data), opts...)
}
