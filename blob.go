package shaderpack

import (
	"strings"
)

// Variant is the bytecode one backend produced for one format.
type Variant struct {
	Format Format
	Code   []byte
}

// Blob is the in-memory form of a shader container: stage, metadata, and
// one compiled variant per format.
//
// A Blob is built once and never mutated. Use NewBlob to construct one so
// that Formats is derived from the variants.
type Blob struct {
	// Stage is the pipeline stage.
	Stage Stage

	// Formats is the union of the variant formats.
	Formats FormatMask

	// Resources is GraphicsResources for vertex and fragment blobs and
	// ComputeResources for compute blobs.
	Resources Resources

	// EntryPoint is the entry function name, without the NUL terminator.
	EntryPoint string

	// Variants are stored in emission order.
	Variants []Variant
}

// NewBlob assembles and validates a blob. The declared format mask is
// computed from variants.
func NewBlob(stage Stage, res Resources, entryPoint string, variants []Variant) (*Blob, error) {
	b := &Blob{
		Stage:      stage,
		Resources:  res,
		EntryPoint: entryPoint,
		Variants:   variants,
	}
	for _, v := range variants {
		b.Formats = b.Formats.With(v.Format)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the container invariants.
func (b *Blob) Validate() error {
	if !b.Stage.Valid() {
		return invalidf("%v", b.Stage)
	}
	if !resourcesMatchStage(b.Resources, b.Stage) {
		return invalidf("resources %T do not match %v stage", b.Resources, b.Stage)
	}
	if b.EntryPoint == "" {
		return invalidf("empty entry point")
	}
	if strings.IndexByte(b.EntryPoint, 0) >= 0 {
		return invalidf("entry point %q contains NUL", b.EntryPoint)
	}

	var seen FormatMask
	for i, v := range b.Variants {
		if !v.Format.Valid() {
			return invalidf("variant %d has format %v", i, v.Format)
		}
		if seen.Has(v.Format) {
			return invalidf("duplicate %v variant", v.Format)
		}
		seen = seen.With(v.Format)
	}
	if seen != b.Formats {
		return invalidf("declared formats %v, variants provide %v", b.Formats, seen)
	}
	return nil
}

// Select returns the first variant, in stored order, whose format is in
// supported.
func (b *Blob) Select(supported FormatMask) (Variant, bool) {
	for _, v := range b.Variants {
		if supported.Has(v.Format) {
			return v, true
		}
	}
	return Variant{}, false
}

// Variant returns the variant for format f.
func (b *Blob) Variant(f Format) (Variant, bool) {
	for _, v := range b.Variants {
		if v.Format == f {
			return v, true
		}
	}
	return Variant{}, false
}

// MetalEntryPoint returns the entry point name a Metal shader library
// exposes for an entry declared as name. Metal reserves "main", so shaders
// declared with it are published as "main0".
func MetalEntryPoint(name string) string {
	if name == "main" {
		return "main0"
	}
	return name
}
