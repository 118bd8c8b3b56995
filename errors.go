package shaderpack

import (
	"errors"
	"fmt"
)

// Container errors.
var (
	// ErrTruncated is returned when a blob ends before a field is complete.
	ErrTruncated = errors.New("shaderpack: blob truncated")

	// ErrUnknownStage is returned when the stage field holds an unknown value.
	ErrUnknownStage = errors.New("shaderpack: unknown stage")

	// ErrMalformedEntryPoint is returned when the entry point field is empty,
	// is not NUL-terminated, or contains an embedded NUL.
	ErrMalformedEntryPoint = errors.New("shaderpack: malformed entry point")

	// ErrInvalidBlob is returned when a blob violates a container invariant.
	ErrInvalidBlob = errors.New("shaderpack: invalid blob")
)

// DecodeError reports where decoding a blob failed.
type DecodeError struct {
	// Field is the name of the field being read.
	Field string
	// Offset is the byte offset at which the field starts.
	Offset int
	// Err is the underlying cause.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("shaderpack: decode %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// invalidf builds an ErrInvalidBlob error with detail.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidBlob, fmt.Sprintf(format, args...))
}
