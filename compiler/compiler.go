package compiler

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/backend"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// Compiler drives a toolchain through the build pipeline. It holds no
// per-call state and is safe for concurrent use when its toolchain is.
type Compiler struct {
	tc backend.Toolchain
}

// New creates a Compiler over tc.
func New(tc backend.Toolchain) *Compiler {
	return &Compiler{tc: tc}
}

// Toolchain returns the toolchain the compiler drives.
func (c *Compiler) Toolchain() backend.Toolchain { return c.tc }

// Result is the output of one successful Compile.
type Result struct {
	Stage      shaderpack.Stage
	EntryPoint string
	Resources  shaderpack.Resources

	// Variants are in shaderpack.BuildOrder.
	Variants []shaderpack.Variant

	// Failures lists the requested formats that were dropped.
	Failures []TranslationError
}

// Formats returns the union of the produced variant formats.
func (r *Result) Formats() shaderpack.FormatMask {
	var m shaderpack.FormatMask
	for _, v := range r.Variants {
		m = m.With(v.Format)
	}
	return m
}

// Compile runs src through the pipeline for every format in formats.
//
// The error is a *FrontEndError, a *ReflectionError or an
// *AllBackendsFailedError; context cancellation is returned as is.
// Individual format failures are reported in Result.Failures.
func (c *Compiler) Compile(ctx context.Context, src backend.Source, formats shaderpack.FormatMask) (*Result, error) {
	if c.tc == nil {
		return nil, fmt.Errorf("compiler: %w: no toolchain", backend.ErrNotAvailable)
	}
	if !src.Stage.Valid() {
		return nil, fmt.Errorf("compiler: %s: %w: %v", src.Name, shaderpack.ErrUnknownStage, src.Stage)
	}
	if formats.Empty() {
		return nil, ErrNoFormats
	}

	log := shaderpack.Logger()
	entry := src.Entry()
	start := time.Now()

	ir, err := c.frontEnd(ctx, src)
	if err != nil {
		return nil, err
	}
	log.Debug("compiler: IR ready", "source", src.Name, "spirv_bytes", len(ir.SPIRV))

	res, err := c.tc.Reflect(ctx, ir, src.Stage)
	if err != nil {
		return nil, &ReflectionError{Source: src.Name, Err: err}
	}
	log.Debug("compiler: reflected", "source", src.Name, "resources", fmt.Sprintf("%+v", res))

	result := &Result{Stage: src.Stage, EntryPoint: entry, Resources: res}
	for _, f := range formats.Formats() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		code, err := c.translate(ctx, ir, src.Stage, entry, f)
		if err != nil {
			log.Warn("compiler: format dropped", "source", src.Name, "format", f.String(), "err", err)
			result.Failures = append(result.Failures, TranslationError{Format: f, Err: err})
			continue
		}
		result.Variants = append(result.Variants, shaderpack.Variant{Format: f, Code: code})
	}

	if len(result.Variants) == 0 {
		return nil, &AllBackendsFailedError{Source: src.Name, Failures: result.Failures}
	}
	log.Debug("compiler: done",
		"source", src.Name,
		"formats", result.Formats().String(),
		"elapsed", time.Since(start))
	return result, nil
}

// frontEnd produces the IR. SPIR-V sources are their own IR.
func (c *Compiler) frontEnd(ctx context.Context, src backend.Source) (*backend.IR, error) {
	if src.Language == backend.LanguageSPIRV {
		if err := checkSPIRV(src.Code); err != nil {
			return nil, &FrontEndError{Source: src.Name, Language: src.Language, Err: err}
		}
		return &backend.IR{SPIRV: src.Code, Stage: src.Stage, EntryPoint: src.Entry()}, nil
	}
	ir, err := c.tc.CompileIR(ctx, src)
	if err != nil {
		return nil, &FrontEndError{Source: src.Name, Language: src.Language, Err: err}
	}
	return ir, nil
}

// translate produces one variant. SPIR-V is copied from the IR; MSL is
// NUL-terminated so it can be handed to C loaders as a string.
func (c *Compiler) translate(ctx context.Context, ir *backend.IR, stage shaderpack.Stage, entry string, f shaderpack.Format) ([]byte, error) {
	if !f.Buildable() {
		return nil, ErrUnsupportedFormat
	}
	if f == shaderpack.FormatSPIRV {
		return bytes.Clone(ir.SPIRV), nil
	}
	code, err := c.tc.Translate(ctx, ir, stage, entry, f)
	if err != nil {
		return nil, err
	}
	if f == shaderpack.FormatMSL && (len(code) == 0 || code[len(code)-1] != 0) {
		code = append(code, 0)
	}
	return code, nil
}

func checkSPIRV(code []byte) error {
	if len(code) < 20 || len(code)%4 != 0 {
		return fmt.Errorf("%w: %d bytes is not a whole module", ErrInvalidSPIRV, len(code))
	}
	if magic := binary.LittleEndian.Uint32(code); magic != spirvMagic {
		return fmt.Errorf("%w: magic %#08x", ErrInvalidSPIRV, magic)
	}
	return nil
}
