package matio

import "errors"

var (
	// ErrInputUnavailable wraps open and read failures of an input file.
	ErrInputUnavailable = errors.New("matio: input unavailable")

	// ErrMalformed indicates a header or value that does not parse, or a
	// value count that does not match the declared shape.
	ErrMalformed = errors.New("matio: malformed matrix text")
)
