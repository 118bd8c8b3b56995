package shaderpack

import (
	"slices"
	"testing"
)

func TestFormatValues(t *testing.T) {
	tests := []struct {
		f    Format
		want uint32
	}{
		{FormatPrivate, 0x01},
		{FormatSPIRV, 0x02},
		{FormatDXBC, 0x04},
		{FormatDXIL, 0x08},
		{FormatMSL, 0x10},
		{FormatMetalLib, 0x20},
	}
	for _, tt := range tests {
		if uint32(tt.f) != tt.want {
			t.Errorf("%v = %#x, want %#x", tt.f, uint32(tt.f), tt.want)
		}
		if !tt.f.Valid() {
			t.Errorf("%v.Valid() = false", tt.f)
		}
	}
}

func TestFormatValid(t *testing.T) {
	for _, f := range []Format{0, FormatSPIRV | FormatMSL, 1 << 6, 1 << 31} {
		if f.Valid() {
			t.Errorf("Format(%#x).Valid() = true", uint32(f))
		}
	}
}

func TestFormatBuildable(t *testing.T) {
	for _, f := range BuildOrder {
		if !f.Buildable() {
			t.Errorf("%v.Buildable() = false", f)
		}
	}
	for _, f := range []Format{FormatPrivate, FormatMetalLib} {
		if f.Buildable() {
			t.Errorf("%v.Buildable() = true", f)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"spirv", FormatSPIRV, false},
		{"SPV", FormatSPIRV, false},
		{"spir-v", FormatSPIRV, false},
		{"metal", FormatMSL, false},
		{" dxil ", FormatDXIL, false},
		{"dxbc", FormatDXBC, false},
		{"metallib", FormatMetalLib, false},
		{"glsl", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatTextRoundTrip(t *testing.T) {
	for _, f := range BuildOrder {
		text, err := f.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", f, err)
		}
		var got Format
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if got != f {
			t.Errorf("round trip %v -> %q -> %v", f, text, got)
		}
	}
	if _, err := Format(0).MarshalText(); err == nil {
		t.Error("MarshalText(0) succeeded")
	}
}

func TestFormatMask(t *testing.T) {
	m := MaskOf(FormatSPIRV, FormatMSL)
	if !m.Has(FormatSPIRV) || !m.Has(FormatMSL) || m.Has(FormatDXIL) {
		t.Errorf("Has on %v wrong", m)
	}
	if m.Has(0) {
		t.Error("Has(0) = true")
	}
	if m.Without(FormatMSL) != MaskOf(FormatSPIRV) {
		t.Errorf("Without(msl) = %v", m.Without(FormatMSL))
	}
	if !m.Intersects(MaskOf(FormatMSL, FormatDXBC)) {
		t.Error("Intersects = false")
	}
	if m.Intersects(MaskOf(FormatDXBC)) {
		t.Error("Intersects(dxbc) = true")
	}
	if !FormatMask(0).Empty() || m.Empty() {
		t.Error("Empty wrong")
	}
}

func TestFormatMaskFormatsOrder(t *testing.T) {
	m := FormatMask(FormatPrivate | FormatSPIRV | FormatDXBC | FormatDXIL | FormatMSL | FormatMetalLib)
	want := []Format{FormatDXIL, FormatDXBC, FormatMSL, FormatSPIRV, FormatPrivate, FormatMetalLib}
	if got := m.Formats(); !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestFormatMaskString(t *testing.T) {
	tests := []struct {
		m    FormatMask
		want string
	}{
		{0, "none"},
		{MaskOf(FormatSPIRV), "spirv"},
		{AllBuildFormats, "dxil|dxbc|msl|spirv"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseFormatMask(t *testing.T) {
	tests := []struct {
		in      string
		want    FormatMask
		wantErr bool
	}{
		{"", 0, false},
		{"spirv", MaskOf(FormatSPIRV), false},
		{"spirv,msl", MaskOf(FormatSPIRV, FormatMSL), false},
		{"dxil|dxbc", MaskOf(FormatDXIL, FormatDXBC), false},
		{"spv, metal", MaskOf(FormatSPIRV, FormatMSL), false},
		{"spirv,wat", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFormatMask(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormatMask(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormatMask(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
