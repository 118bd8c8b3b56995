package backend

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/shaderpack"
)

// fakeToolchain handles one language and a fixed set of formats.
type fakeToolchain struct {
	name    string
	lang    Language
	formats shaderpack.FormatMask
	fail    error
}

func (f *fakeToolchain) Name() string { return f.name }

func (f *fakeToolchain) CompileIR(_ context.Context, src Source) (*IR, error) {
	if src.Language != f.lang {
		return nil, ErrUnsupported
	}
	if f.fail != nil {
		return nil, f.fail
	}
	return &IR{SPIRV: []byte(f.name), Stage: src.Stage, EntryPoint: src.Entry(), Native: f.name}, nil
}

func (f *fakeToolchain) Reflect(_ context.Context, ir *IR, _ shaderpack.Stage) (shaderpack.Resources, error) {
	if ir.Native != f.name {
		return nil, ErrUnsupported
	}
	return shaderpack.GraphicsResources{Samplers: 1}, nil
}

func (f *fakeToolchain) Translate(_ context.Context, _ *IR, _ shaderpack.Stage, _ string, format shaderpack.Format) ([]byte, error) {
	if !f.formats.Has(format) {
		return nil, ErrUnsupported
	}
	return []byte(f.name + ":" + format.String()), nil
}

func TestLanguageFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"shaders/blit.vert.glsl", LanguageGLSL},
		{"a.HLSL", LanguageHLSL},
		{"compute.comp.wgsl", LanguageWGSL},
		{"prebuilt.frag.spv", LanguageSPIRV},
		{"readme.md", LanguageUnknown},
		{"noext", LanguageUnknown},
	}
	for _, tt := range tests {
		if got := LanguageFromPath(tt.path); got != tt.want {
			t.Errorf("LanguageFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSourceEntry(t *testing.T) {
	if got := (Source{}).Entry(); got != "main" {
		t.Errorf("Entry() = %q, want main", got)
	}
	if got := (Source{EntryPoint: "vs"}).Entry(); got != "vs" {
		t.Errorf("Entry() = %q, want vs", got)
	}
}

func TestChainFallsThroughUnsupported(t *testing.T) {
	wgsl := &fakeToolchain{name: "w", lang: LanguageWGSL, formats: shaderpack.MaskOf(shaderpack.FormatMSL)}
	glsl := &fakeToolchain{name: "g", lang: LanguageGLSL, formats: shaderpack.MaskOf(shaderpack.FormatMSL, shaderpack.FormatDXBC)}
	chain := Chain{wgsl, glsl}
	ctx := context.Background()

	ir, err := chain.CompileIR(ctx, Source{Language: LanguageGLSL})
	if err != nil {
		t.Fatalf("CompileIR() error = %v", err)
	}
	if ir.Native != "g" {
		t.Errorf("CompileIR handled by %v, want g", ir.Native)
	}

	if _, err := chain.Reflect(ctx, ir, shaderpack.StageVertex); err != nil {
		t.Errorf("Reflect() error = %v", err)
	}

	code, err := chain.Translate(ctx, ir, shaderpack.StageVertex, "main", shaderpack.FormatMSL)
	if err != nil || string(code) != "w:msl" {
		t.Errorf("Translate(msl) = %q, %v; want first member", code, err)
	}
	code, err = chain.Translate(ctx, ir, shaderpack.StageVertex, "main", shaderpack.FormatDXBC)
	if err != nil || string(code) != "g:dxbc" {
		t.Errorf("Translate(dxbc) = %q, %v", code, err)
	}
	if _, err := chain.Translate(ctx, ir, shaderpack.StageVertex, "main", shaderpack.FormatDXIL); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Translate(dxil) error = %v, want ErrUnsupported", err)
	}
	if _, err := chain.CompileIR(ctx, Source{Language: LanguageHLSL}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("CompileIR(hlsl) error = %v, want ErrUnsupported", err)
	}
}

func TestChainStopsOnRealError(t *testing.T) {
	boom := errors.New("syntax error")
	chain := Chain{
		&fakeToolchain{name: "a", lang: LanguageWGSL, fail: boom},
		&fakeToolchain{name: "b", lang: LanguageWGSL},
	}
	if _, err := chain.CompileIR(context.Background(), Source{Language: LanguageWGSL}); !errors.Is(err, boom) {
		t.Errorf("CompileIR() error = %v, want %v", err, boom)
	}
	if got := chain.Name(); got != "a+b" {
		t.Errorf("Name() = %q, want a+b", got)
	}
}

func registerFake(t *testing.T, name string) {
	t.Helper()
	Register(name, func() Toolchain { return &fakeToolchain{name: name} })
	t.Cleanup(func() { Unregister(name) })
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registerFake(t, "test-a")

	if !IsRegistered("test-a") {
		t.Fatal("test-a should be registered")
	}
	tc := Get("test-a")
	if tc == nil || tc.Name() != "test-a" {
		t.Fatalf("Get(test-a) = %v", tc)
	}
	if Get("nonexistent") != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryUnregister(t *testing.T) {
	Register("test-gone", func() Toolchain { return &fakeToolchain{name: "test-gone"} })
	Unregister("test-gone")
	if IsRegistered("test-gone") {
		t.Error("test-gone should be unregistered")
	}
}

func TestRegistryPriority(t *testing.T) {
	registerFake(t, "zz-extra")
	registerFake(t, NameShaderCross)
	registerFake(t, NameNaga)

	names := Available()
	iNaga := slices.Index(names, NameNaga)
	iCross := slices.Index(names, NameShaderCross)
	iExtra := slices.Index(names, "zz-extra")
	if iNaga < 0 || iCross < 0 || iExtra < 0 {
		t.Fatalf("Available() = %v", names)
	}
	if iNaga >= iCross || iCross >= iExtra {
		t.Errorf("Available() order = %v, want naga, shadercross, then others", names)
	}

	chain, ok := Default().(Chain)
	if !ok {
		t.Fatalf("Default() = %T, want Chain", Default())
	}
	if chain[0].Name() != NameNaga {
		t.Errorf("Default()[0] = %q, want naga", chain[0].Name())
	}
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustDefault() panicked: %v", r)
		}
	}()
	_ = MustDefault()
}

func TestSelect(t *testing.T) {
	registerFake(t, "test-x")
	registerFake(t, "test-y")

	tc, err := Select("test-y, test-x")
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got := tc.Name(); got != "test-y+test-x" {
		t.Errorf("Select().Name() = %q", got)
	}
	if _, err := Select("test-x,missing"); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("Select(missing) error = %v, want ErrNotAvailable", err)
	}
	if tc, err := Select("auto"); err != nil || tc == nil {
		t.Errorf("Select(auto) = %v, %v", tc, err)
	}
}
