package build

import (
	"context"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/backend"
	"github.com/gogpu/shaderpack/compiler"
)

// BuildBlob packs a compile result into a blob. The declared format mask
// is the union of the emitted variants, which keep their build order.
func BuildBlob(res *compiler.Result, stage shaderpack.Stage, entry string) (*shaderpack.Blob, error) {
	if res == nil || len(res.Variants) == 0 {
		return nil, ErrNoVariants
	}
	return shaderpack.NewBlob(stage, res.Resources, entry, res.Variants)
}

// Compile compiles src for formats and returns the encoded blob.
func Compile(ctx context.Context, c *compiler.Compiler, src backend.Source, formats shaderpack.FormatMask) ([]byte, error) {
	_, data, err := compileBlob(ctx, c, src, formats)
	return data, err
}

func compileBlob(ctx context.Context, c *compiler.Compiler, src backend.Source, formats shaderpack.FormatMask) (*compiler.Result, []byte, error) {
	res, err := c.Compile(ctx, src, formats)
	if err != nil {
		return nil, nil, err
	}
	blob, err := BuildBlob(res, src.Stage, res.EntryPoint)
	if err != nil {
		return nil, nil, err
	}
	data, err := shaderpack.Encode(blob)
	if err != nil {
		return nil, nil, err
	}
	return res, data, nil
}
