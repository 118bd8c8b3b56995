package build

import (
	"errors"
	"fmt"
)

var (
	// ErrNoVariants is returned when a compile result carries no variant.
	ErrNoVariants = errors.New("build: no variants to pack")

	// ErrUnknownLanguage is returned for inputs whose extension is not
	// .glsl, .hlsl, .wgsl or .spv.
	ErrUnknownLanguage = errors.New("build: unknown source language")

	// ErrNoOutput is returned when the output list runs out before the
	// inputs do.
	ErrNoOutput = errors.New("build: no output for input")
)

// SourceReadError reports an input that could not be read.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("build: could not read %q: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// WriteError reports a blob that could not be saved, even after creating
// the parent directory.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("build: could not write %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
