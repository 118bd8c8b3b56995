package loader

import (
	"errors"
	"fmt"

	"github.com/gogpu/shaderpack"
)

var (
	// ErrNoMatchingVariant is returned when no variant of a blob is in the
	// device's supported formats.
	ErrNoMatchingVariant = errors.New("loader: no variant matches the device formats")

	// ErrStageMismatch is returned when a compute blob is loaded as a
	// shader or a graphics blob as a compute pipeline. It matches
	// ErrNoMatchingVariant: the blob has nothing usable for the request.
	ErrStageMismatch = fmt.Errorf("loader: stage mismatch: %w", ErrNoMatchingVariant)
)

// CreationError reports a device that rejected a selected variant.
type CreationError struct {
	Stage  shaderpack.Stage
	Format shaderpack.Format
	Err    error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("loader: device could not create %s %s: %v", e.Format, e.Stage, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }
