package naga

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/naga/dxil"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/naga/wgsl"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/backend"
)

func init() {
	backend.Register(backend.NameNaga, func() backend.Toolchain {
		return New(DefaultOptions())
	})
}

// Options configures code generation.
type Options struct {
	SPIRVVersion spirv.Version
	MSLVersion   msl.Version
	ShaderModel  dxil.ShaderModel

	// SkipValidation disables IR validation after lowering.
	SkipValidation bool
}

// DefaultOptions returns SPIR-V 1.3, MSL 2.1 and shader model 6.0.
func DefaultOptions() Options {
	return Options{
		SPIRVVersion: spirv.Version1_3,
		MSLVersion:   msl.Version2_1,
		ShaderModel:  dxil.SM6_0,
	}
}

// Toolchain implements backend.Toolchain with naga.
type Toolchain struct {
	opts Options
}

// New creates a toolchain with the given options.
func New(opts Options) *Toolchain {
	return &Toolchain{opts: opts}
}

// Name returns backend.NameNaga.
func (*Toolchain) Name() string { return backend.NameNaga }

// CompileIR parses, lowers and validates WGSL, then generates the SPIR-V
// form of the IR.
func (t *Toolchain) CompileIR(ctx context.Context, src backend.Source) (*backend.IR, error) {
	if src.Language != backend.LanguageWGSL {
		return nil, fmt.Errorf("%w: naga compiles WGSL, not %v", backend.ErrUnsupported, src.Language)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	module, err := lower(string(src.Code))
	if err != nil {
		return nil, err
	}
	if !t.opts.SkipValidation {
		if err := validate(module); err != nil {
			return nil, err
		}
	}

	entry := src.Entry()
	if _, err := findEntryPoint(module, entry, src.Stage); err != nil {
		return nil, err
	}

	opts := spirv.DefaultOptions()
	opts.Version = t.opts.SPIRVVersion
	code, err := spirv.NewBackend(opts).Compile(module)
	if err != nil {
		return nil, fmt.Errorf("naga: spirv: %w", err)
	}

	shaderpack.Logger().Debug("naga: lowered WGSL",
		"source", src.Name,
		"entry", entry,
		"entry_points", len(module.EntryPoints),
		"spirv_bytes", len(code))

	return &backend.IR{
		SPIRV:      code,
		Stage:      src.Stage,
		EntryPoint: entry,
		Native:     module,
	}, nil
}

// Reflect counts the bound resources of the module behind rep.
func (t *Toolchain) Reflect(_ context.Context, rep *backend.IR, stage shaderpack.Stage) (shaderpack.Resources, error) {
	module, ok := nativeModule(rep)
	if !ok {
		return nil, fmt.Errorf("%w: IR has no naga module", backend.ErrUnsupported)
	}
	ep, err := findEntryPoint(module, rep.EntryPoint, stage)
	if err != nil {
		return nil, err
	}
	return reflectResources(module, ep, stage), nil
}

// Translate generates code for format. SPIR-V is the IR itself.
func (t *Toolchain) Translate(ctx context.Context, rep *backend.IR, stage shaderpack.Stage, entry string, format shaderpack.Format) ([]byte, error) {
	module, ok := nativeModule(rep)
	if !ok {
		return nil, fmt.Errorf("%w: IR has no naga module", backend.ErrUnsupported)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch format {
	case shaderpack.FormatSPIRV:
		return bytes.Clone(rep.SPIRV), nil
	case shaderpack.FormatMSL:
		return t.translateMSL(module, stage, entry)
	case shaderpack.FormatDXIL:
		return t.translateDXIL(module, stage, entry)
	default:
		return nil, fmt.Errorf("%w: naga does not emit %v", backend.ErrUnsupported, format)
	}
}

func (t *Toolchain) translateDXIL(module *ir.Module, stage shaderpack.Stage, entry string) ([]byte, error) {
	ep, err := findEntryPoint(module, entry, stage)
	if err != nil {
		return nil, err
	}
	// dxil.Compile emits the first entry point only.
	single := *module
	single.EntryPoints = []ir.EntryPoint{*ep}

	opts := dxil.DefaultOptions()
	opts.ShaderModel = t.opts.ShaderModel
	code, err := dxil.Compile(&single, opts)
	if err != nil {
		return nil, fmt.Errorf("naga: dxil: %w", err)
	}
	return code, nil
}

func nativeModule(rep *backend.IR) (*ir.Module, bool) {
	if rep == nil {
		return nil, false
	}
	m, ok := rep.Native.(*ir.Module)
	return m, ok && m != nil
}

func lower(source string) (*ir.Module, error) {
	tokens, err := wgsl.NewLexer(source).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("naga: tokenize: %w", err)
	}
	ast, err := wgsl.NewParser(tokens).Parse()
	if err != nil {
		return nil, fmt.Errorf("naga: parse: %w", err)
	}
	module, err := wgsl.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("naga: lower: %w", err)
	}
	return module, nil
}

func validate(module *ir.Module) error {
	verrs, err := ir.Validate(module)
	if err != nil {
		return fmt.Errorf("naga: validate: %w", err)
	}
	if len(verrs) == 0 {
		return nil
	}
	errs := make([]error, len(verrs))
	for i := range verrs {
		errs[i] = verrs[i]
	}
	return fmt.Errorf("naga: validate: %w", errors.Join(errs...))
}

// findEntryPoint returns the entry point named name, which must have the
// requested stage.
func findEntryPoint(module *ir.Module, name string, stage shaderpack.Stage) (*ir.EntryPoint, error) {
	want, ok := irStage(stage)
	if !ok {
		return nil, fmt.Errorf("naga: unsupported stage %v", stage)
	}
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		if ep.Name != name {
			continue
		}
		if ep.Stage != want {
			return nil, fmt.Errorf("naga: entry point %q is not a %v shader", name, stage)
		}
		return ep, nil
	}
	return nil, fmt.Errorf("naga: entry point %q not found", name)
}

func irStage(s shaderpack.Stage) (ir.ShaderStage, bool) {
	switch s {
	case shaderpack.StageVertex:
		return ir.StageVertex, true
	case shaderpack.StageFragment:
		return ir.StageFragment, true
	case shaderpack.StageCompute:
		return ir.StageCompute, true
	default:
		return 0, false
	}
}
