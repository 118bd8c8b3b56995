package shaderpack

import (
	"errors"
	"testing"
)

func TestNewBlobComputesMask(t *testing.T) {
	b, err := NewBlob(StageFragment, GraphicsResources{}, "main", []Variant{
		{Format: FormatDXIL, Code: []byte{1}},
		{Format: FormatMSL, Code: []byte{2}},
	})
	if err != nil {
		t.Fatalf("NewBlob() error = %v", err)
	}
	if want := MaskOf(FormatDXIL, FormatMSL); b.Formats != want {
		t.Errorf("Formats = %v, want %v", b.Formats, want)
	}
}

func TestBlobValidate(t *testing.T) {
	valid := func() Blob {
		return Blob{
			Stage:      StageVertex,
			Formats:    MaskOf(FormatSPIRV),
			Resources:  GraphicsResources{},
			EntryPoint: "main",
			Variants:   []Variant{{Format: FormatSPIRV, Code: []byte{0}}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Blob)
		ok     bool
	}{
		{"valid", func(*Blob) {}, true},
		{"unknown stage", func(b *Blob) { b.Stage = 3 }, false},
		{"compute with graphics resources", func(b *Blob) { b.Stage = StageCompute }, false},
		{"graphics with compute resources", func(b *Blob) { b.Resources = ComputeResources{} }, false},
		{"nil resources", func(b *Blob) { b.Resources = nil }, false},
		{"empty entry point", func(b *Blob) { b.EntryPoint = "" }, false},
		{"entry point with NUL", func(b *Blob) { b.EntryPoint = "ma\x00in" }, false},
		{"multi-bit variant format", func(b *Blob) {
			b.Variants[0].Format = FormatSPIRV | FormatMSL
			b.Formats = MaskOf(FormatSPIRV, FormatMSL)
		}, false},
		{"duplicate format", func(b *Blob) {
			b.Variants = append(b.Variants, Variant{Format: FormatSPIRV})
		}, false},
		{"mask missing variant format", func(b *Blob) { b.Formats = 0 }, false},
		{"mask claims extra format", func(b *Blob) { b.Formats = b.Formats.With(FormatMSL) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid()
			tt.mutate(&b)
			err := b.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidBlob) {
				t.Errorf("Validate() error = %v, want ErrInvalidBlob", err)
			}
		})
	}
}

func TestBlobSelect(t *testing.T) {
	b, err := NewBlob(StageFragment, GraphicsResources{Samplers: 1}, "main", []Variant{
		{Format: FormatDXIL, Code: []byte("dxil")},
		{Format: FormatMSL, Code: []byte("msl")},
		{Format: FormatSPIRV, Code: []byte("spv")},
	})
	if err != nil {
		t.Fatalf("NewBlob() error = %v", err)
	}

	tests := []struct {
		name      string
		supported FormatMask
		want      Format
		ok        bool
	}{
		{"spirv only", MaskOf(FormatSPIRV), FormatSPIRV, true},
		{"msl only", MaskOf(FormatMSL), FormatMSL, true},
		{"first stored wins", MaskOf(FormatSPIRV, FormatMSL), FormatMSL, true},
		{"dxil before spirv", MaskOf(FormatSPIRV, FormatDXIL), FormatDXIL, true},
		{"dxbc absent", MaskOf(FormatDXBC), 0, false},
		{"empty mask", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 3 {
				v, ok := b.Select(tt.supported)
				if ok != tt.ok || v.Format != tt.want {
					t.Fatalf("Select(%v) = %v, %v; want %v, %v", tt.supported, v.Format, ok, tt.want, tt.ok)
				}
			}
		})
	}
}

func TestBlobVariant(t *testing.T) {
	b := vertexBlob(t)
	v, ok := b.Variant(FormatSPIRV)
	if !ok || len(v.Code) != 4 {
		t.Errorf("Variant(spirv) = %v, %v", v, ok)
	}
	if _, ok := b.Variant(FormatDXBC); ok {
		t.Error("Variant(dxbc) found, want absent")
	}
}

func TestMetalEntryPoint(t *testing.T) {
	tests := []struct{ in, want string }{
		{"main", "main0"},
		{"main0", "main0"},
		{"vs_main", "vs_main"},
		{"Main", "Main"},
	}
	for _, tt := range tests {
		if got := MetalEntryPoint(tt.in); got != tt.want {
			t.Errorf("MetalEntryPoint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
