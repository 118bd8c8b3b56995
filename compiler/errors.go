package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/backend"
)

var (
	// ErrUnsupportedFormat is recorded for requested formats the build
	// pipeline cannot produce (Private, MetalLib).
	ErrUnsupportedFormat = errors.New("compiler: format cannot be built")

	// ErrNoFormats is returned when the requested format mask is empty.
	ErrNoFormats = errors.New("compiler: no formats requested")

	// ErrInvalidSPIRV is returned for SPIR-V input without a valid header.
	ErrInvalidSPIRV = errors.New("compiler: invalid SPIR-V")
)

// FrontEndError reports a source that could not be compiled to IR.
// No variant is produced.
type FrontEndError struct {
	Source   string
	Language backend.Language
	Err      error
}

func (e *FrontEndError) Error() string {
	return fmt.Sprintf("compiler: %s: %v front end: %v", e.Source, e.Language, e.Err)
}

func (e *FrontEndError) Unwrap() error { return e.Err }

// ReflectionError reports IR whose resources could not be reflected.
type ReflectionError struct {
	Source string
	Err    error
}

func (e *ReflectionError) Error() string {
	return fmt.Sprintf("compiler: %s: reflection: %v", e.Source, e.Err)
}

func (e *ReflectionError) Unwrap() error { return e.Err }

// TranslationError reports one format that failed. It is non-fatal.
type TranslationError struct {
	Format shaderpack.Format
	Err    error
}

func (e TranslationError) Error() string {
	return fmt.Sprintf("%v: %v", e.Format, e.Err)
}

func (e TranslationError) Unwrap() error { return e.Err }

// AllBackendsFailedError is returned when every requested format failed.
type AllBackendsFailedError struct {
	Source   string
	Failures []TranslationError
}

func (e *AllBackendsFailedError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("compiler: %s: all backends failed: %s", e.Source, strings.Join(parts, "; "))
}

// Unwrap returns every per-format failure.
func (e *AllBackendsFailedError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}
