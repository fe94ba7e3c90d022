package annoviz

import "errors"

// Errors reported by the conversion engine and the drawing functions. They are always returned
// wrapped with context, test for them with errors.Is.
var (
	ErrInvalidShape   = errors.New("invalid image shape")
	ErrUnknownFormat  = errors.New("unknown box format")
	ErrLengthMismatch = errors.New("length mismatch")
)
