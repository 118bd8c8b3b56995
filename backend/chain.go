package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/shaderpack"
)

// Chain is a Toolchain that tries each member in order. A member that
// returns ErrUnsupported is skipped; any other result ends the search.
type Chain []Toolchain

// Name returns the member names joined with "+".
func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, t := range c {
		names[i] = t.Name()
	}
	return strings.Join(names, "+")
}

// CompileIR implements FrontEnd.
func (c Chain) CompileIR(ctx context.Context, src Source) (*IR, error) {
	for _, t := range c {
		ir, err := t.CompileIR(ctx, src)
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		return ir, err
	}
	return nil, fmt.Errorf("%w: no toolchain in %q compiles %v", ErrUnsupported, c.Name(), src.Language)
}

// Reflect implements Reflector.
func (c Chain) Reflect(ctx context.Context, ir *IR, stage shaderpack.Stage) (shaderpack.Resources, error) {
	for _, t := range c {
		res, err := t.Reflect(ctx, ir, stage)
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		return res, err
	}
	return nil, fmt.Errorf("%w: no toolchain in %q reflects this IR", ErrUnsupported, c.Name())
}

// Translate implements Translator.
func (c Chain) Translate(ctx context.Context, ir *IR, stage shaderpack.Stage, entry string, format shaderpack.Format) ([]byte, error) {
	for _, t := range c {
		code, err := t.Translate(ctx, ir, stage, entry, format)
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		return code, err
	}
	return nil, fmt.Errorf("%w: no toolchain in %q produces %v", ErrUnsupported, c.Name(), format)
}
