package compiler

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/backend"
)

// fakeToolchain produces "<format>" bytecode and fails the formats in fail.
type fakeToolchain struct {
	irErr      error
	reflectErr error
	fail       map[shaderpack.Format]error
	compiled   int
	translated []shaderpack.Format
	res        shaderpack.Resources
}

func (f *fakeToolchain) Name() string { return "fake" }

func (f *fakeToolchain) CompileIR(_ context.Context, src backend.Source) (*backend.IR, error) {
	f.compiled++
	if f.irErr != nil {
		return nil, f.irErr
	}
	return &backend.IR{SPIRV: validSPIRV(), Stage: src.Stage, EntryPoint: src.Entry()}, nil
}

func (f *fakeToolchain) Reflect(_ context.Context, _ *backend.IR, stage shaderpack.Stage) (shaderpack.Resources, error) {
	if f.reflectErr != nil {
		return nil, f.reflectErr
	}
	if f.res != nil {
		return f.res, nil
	}
	if stage == shaderpack.StageCompute {
		return shaderpack.ComputeResources{ThreadCountX: 64, ThreadCountY: 1, ThreadCountZ: 1}, nil
	}
	return shaderpack.GraphicsResources{UniformBuffers: 1}, nil
}

func (f *fakeToolchain) Translate(_ context.Context, _ *backend.IR, _ shaderpack.Stage, _ string, format shaderpack.Format) ([]byte, error) {
	f.translated = append(f.translated, format)
	if err := f.fail[format]; err != nil {
		return nil, err
	}
	return []byte(format.String()), nil
}

func validSPIRV() []byte {
	code := make([]byte, 20)
	binary.LittleEndian.PutUint32(code, spirvMagic)
	return code
}

func glslSource() backend.Source {
	return backend.Source{Name: "blit.vert.glsl", Code: []byte("void main(){}"), Language: backend.LanguageGLSL, Stage: shaderpack.StageVertex}
}

func formatsOf(vs []shaderpack.Variant) []shaderpack.Format {
	out := make([]shaderpack.Format, len(vs))
	for i, v := range vs {
		out[i] = v.Format
	}
	return out
}

func TestCompileAllFormats(t *testing.T) {
	tc := &fakeToolchain{}
	res, err := New(tc).Compile(context.Background(), glslSource(), shaderpack.AllBuildFormats)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := []shaderpack.Format{shaderpack.FormatDXIL, shaderpack.FormatDXBC, shaderpack.FormatMSL, shaderpack.FormatSPIRV}
	got := formatsOf(res.Variants)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("variant order = %v, want %v", got, want)
	}
	if res.Formats() != shaderpack.AllBuildFormats {
		t.Errorf("Formats() = %v", res.Formats())
	}
	if res.EntryPoint != "main" || res.Stage != shaderpack.StageVertex {
		t.Errorf("result = %+v", res)
	}
	if len(res.Failures) != 0 {
		t.Errorf("Failures = %v", res.Failures)
	}
	// SPIR-V is copied from the IR, never translated.
	for _, f := range tc.translated {
		if f == shaderpack.FormatSPIRV {
			t.Error("SPIR-V was sent to the translator")
		}
	}
}

func TestCompileVertexExample(t *testing.T) {
	res, err := New(&fakeToolchain{}).Compile(context.Background(), glslSource(),
		shaderpack.MaskOf(shaderpack.FormatSPIRV, shaderpack.FormatMSL))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	got := formatsOf(res.Variants)
	if len(got) != 2 || got[0] != shaderpack.FormatMSL || got[1] != shaderpack.FormatSPIRV {
		t.Errorf("variants = %v, want [msl spirv]", got)
	}
	if res.Resources != (shaderpack.GraphicsResources{UniformBuffers: 1}) {
		t.Errorf("Resources = %+v", res.Resources)
	}
}

func TestCompileMSLIsNULTerminated(t *testing.T) {
	res, err := New(&fakeToolchain{}).Compile(context.Background(), glslSource(), shaderpack.MaskOf(shaderpack.FormatMSL))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := string(res.Variants[0].Code); got != "msl\x00" {
		t.Errorf("MSL code = %q, want trailing NUL", got)
	}
}

func TestCompilePartialFailure(t *testing.T) {
	dxilErr := errors.New("dxil: unsupported intrinsic")
	tc := &fakeToolchain{fail: map[shaderpack.Format]error{shaderpack.FormatDXIL: dxilErr}}

	res, err := New(tc).Compile(context.Background(), glslSource(), shaderpack.MaskOf(shaderpack.FormatDXIL, shaderpack.FormatSPIRV))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if res.Formats() != shaderpack.MaskOf(shaderpack.FormatSPIRV) {
		t.Errorf("Formats() = %v, want spirv only", res.Formats())
	}
	if len(res.Failures) != 1 || res.Failures[0].Format != shaderpack.FormatDXIL || !errors.Is(res.Failures[0], dxilErr) {
		t.Errorf("Failures = %v", res.Failures)
	}
}

func TestCompileAllBackendsFailed(t *testing.T) {
	dxbcErr := errors.New("fxc missing")
	mslErr := errors.New("msl: bad binding")
	tc := &fakeToolchain{fail: map[shaderpack.Format]error{
		shaderpack.FormatDXBC: dxbcErr,
		shaderpack.FormatMSL:  mslErr,
	}}

	_, err := New(tc).Compile(context.Background(), glslSource(), shaderpack.MaskOf(shaderpack.FormatDXBC, shaderpack.FormatMSL))
	var all *AllBackendsFailedError
	if !errors.As(err, &all) {
		t.Fatalf("Compile() error = %v, want *AllBackendsFailedError", err)
	}
	if len(all.Failures) != 2 {
		t.Errorf("Failures = %v", all.Failures)
	}
	if !errors.Is(err, dxbcErr) || !errors.Is(err, mslErr) {
		t.Errorf("error %v does not unwrap to each failure", err)
	}
}

func TestCompileUnbuildableFormat(t *testing.T) {
	_, err := New(&fakeToolchain{}).Compile(context.Background(), glslSource(), shaderpack.MaskOf(shaderpack.FormatMetalLib))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Compile(metallib) error = %v, want ErrUnsupportedFormat", err)
	}

	res, err := New(&fakeToolchain{}).Compile(context.Background(), glslSource(), shaderpack.MaskOf(shaderpack.FormatSPIRV, shaderpack.FormatPrivate))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(res.Failures) != 1 || !errors.Is(res.Failures[0], ErrUnsupportedFormat) {
		t.Errorf("Failures = %v", res.Failures)
	}
}

func TestCompileFrontEndError(t *testing.T) {
	syntax := errors.New("syntax error at 1:5")
	tc := &fakeToolchain{irErr: syntax}
	_, err := New(tc).Compile(context.Background(), glslSource(), shaderpack.AllBuildFormats)

	var fe *FrontEndError
	if !errors.As(err, &fe) {
		t.Fatalf("Compile() error = %v, want *FrontEndError", err)
	}
	if fe.Language != backend.LanguageGLSL || !errors.Is(err, syntax) {
		t.Errorf("FrontEndError = %+v", fe)
	}
	if len(tc.translated) != 0 {
		t.Errorf("translator called after front-end failure: %v", tc.translated)
	}
}

func TestCompileReflectionError(t *testing.T) {
	tc := &fakeToolchain{reflectErr: errors.New("no entry point")}
	_, err := New(tc).Compile(context.Background(), glslSource(), shaderpack.AllBuildFormats)
	var re *ReflectionError
	if !errors.As(err, &re) {
		t.Fatalf("Compile() error = %v, want *ReflectionError", err)
	}
}

func TestCompileSPIRVSkipsFrontEnd(t *testing.T) {
	tc := &fakeToolchain{}
	src := backend.Source{Name: "prebuilt.comp.spv", Code: validSPIRV(), Language: backend.LanguageSPIRV, Stage: shaderpack.StageCompute, EntryPoint: "cs"}

	res, err := New(tc).Compile(context.Background(), src, shaderpack.MaskOf(shaderpack.FormatSPIRV, shaderpack.FormatMSL))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if tc.compiled != 0 {
		t.Errorf("front end called %d times for SPIR-V input", tc.compiled)
	}
	spv, ok := res.Variants[1], res.Variants[1].Format == shaderpack.FormatSPIRV
	if !ok || string(spv.Code) != string(src.Code) {
		t.Errorf("SPIR-V variant = %+v, want input copied through", spv)
	}
	if _, ok := res.Resources.(shaderpack.ComputeResources); !ok {
		t.Errorf("Resources = %T, want ComputeResources", res.Resources)
	}
	if res.EntryPoint != "cs" {
		t.Errorf("EntryPoint = %q", res.EntryPoint)
	}
}

func TestCompileInvalidSPIRV(t *testing.T) {
	src := backend.Source{Name: "bad.spv", Code: []byte("not spirv at all, really"), Language: backend.LanguageSPIRV}
	_, err := New(&fakeToolchain{}).Compile(context.Background(), src, shaderpack.AllBuildFormats)
	var fe *FrontEndError
	if !errors.As(err, &fe) || !errors.Is(err, ErrInvalidSPIRV) {
		t.Errorf("Compile() error = %v, want FrontEndError wrapping ErrInvalidSPIRV", err)
	}
}

func TestCompileArgumentErrors(t *testing.T) {
	if _, err := New(&fakeToolchain{}).Compile(context.Background(), glslSource(), 0); !errors.Is(err, ErrNoFormats) {
		t.Errorf("empty mask error = %v, want ErrNoFormats", err)
	}
	src := glslSource()
	src.Stage = 7
	if _, err := New(&fakeToolchain{}).Compile(context.Background(), src, shaderpack.AllBuildFormats); !errors.Is(err, shaderpack.ErrUnknownStage) {
		t.Errorf("bad stage error = %v, want ErrUnknownStage", err)
	}
	if _, err := New(nil).Compile(context.Background(), glslSource(), shaderpack.AllBuildFormats); !errors.Is(err, backend.ErrNotAvailable) {
		t.Errorf("nil toolchain error = %v, want ErrNotAvailable", err)
	}
}

func TestCompileCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(&fakeToolchain{}).Compile(ctx, glslSource(), shaderpack.AllBuildFormats)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Compile() error = %v, want context.Canceled", err)
	}
}
