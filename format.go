package shaderpack

import (
	"fmt"
	"math/bits"
	"strings"
)

// Format identifies one GPU bytecode format. Each Format is a single bit;
// the values match SDL_GPUShaderFormat so blobs can be consumed by SDL
// loaders without translation.
type Format uint32

const (
	FormatPrivate  Format = 1 << 0
	FormatSPIRV    Format = 1 << 1
	FormatDXBC     Format = 1 << 2
	FormatDXIL     Format = 1 << 3
	FormatMSL      Format = 1 << 4
	FormatMetalLib Format = 1 << 5
)

// BuildOrder is the order in which formats are produced at build time.
// It is also the variant order inside a blob, and therefore the preference
// order the loader applies when a device accepts more than one format.
// SPIR-V, being the IR-native format, comes last.
var BuildOrder = [...]Format{FormatDXIL, FormatDXBC, FormatMSL, FormatSPIRV}

// String returns the short lower-case format name.
func (f Format) String() string {
	switch f {
	case FormatPrivate:
		return "private"
	case FormatSPIRV:
		return "spirv"
	case FormatDXBC:
		return "dxbc"
	case FormatDXIL:
		return "dxil"
	case FormatMSL:
		return "msl"
	case FormatMetalLib:
		return "metallib"
	default:
		return fmt.Sprintf("Format(%#x)", uint32(f))
	}
}

// Valid reports whether f is exactly one known format bit.
func (f Format) Valid() bool {
	return f != 0 && bits.OnesCount32(uint32(f)) == 1 && f <= FormatMetalLib
}

// Buildable reports whether the build pipeline can produce f.
func (f Format) Buildable() bool {
	for _, b := range BuildOrder {
		if b == f {
			return true
		}
	}
	return false
}

// ParseFormat parses a format name. Common aliases are accepted
// ("spv" for SPIR-V, "metal" for MSL).
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "spirv", "spv", "spir-v":
		return FormatSPIRV, nil
	case "dxbc":
		return FormatDXBC, nil
	case "dxil":
		return FormatDXIL, nil
	case "msl", "metal":
		return FormatMSL, nil
	case "metallib":
		return FormatMetalLib, nil
	case "private":
		return FormatPrivate, nil
	default:
		return 0, fmt.Errorf("shaderpack: unknown format %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("shaderpack: cannot marshal %v", f)
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// FormatMask is a set of formats, for example the formats a blob declares
// or the formats a device can consume.
type FormatMask uint32

// AllBuildFormats is the default build request: every buildable format.
const AllBuildFormats = FormatMask(FormatSPIRV | FormatDXBC | FormatDXIL | FormatMSL)

// MaskOf returns the mask containing the given formats.
func MaskOf(formats ...Format) FormatMask {
	var m FormatMask
	for _, f := range formats {
		m |= FormatMask(f)
	}
	return m
}

// Has reports whether f is in the mask.
func (m FormatMask) Has(f Format) bool {
	return f != 0 && m&FormatMask(f) == FormatMask(f)
}

// With returns m with f added.
func (m FormatMask) With(f Format) FormatMask {
	return m | FormatMask(f)
}

// Without returns m with f removed.
func (m FormatMask) Without(f Format) FormatMask {
	return m &^ FormatMask(f)
}

// Intersects reports whether m and other share at least one format.
func (m FormatMask) Intersects(other FormatMask) bool {
	return m&other != 0
}

// Empty reports whether the mask contains no format.
func (m FormatMask) Empty() bool {
	return m == 0
}

// Formats returns the formats in m. Buildable formats come first in
// BuildOrder, followed by any remaining bits in ascending order.
func (m FormatMask) Formats() []Format {
	out := make([]Format, 0, bits.OnesCount32(uint32(m)))
	rest := m
	for _, f := range BuildOrder {
		if m.Has(f) {
			out = append(out, f)
			rest = rest.Without(f)
		}
	}
	for rest != 0 {
		f := Format(1) << bits.TrailingZeros32(uint32(rest))
		out = append(out, f)
		rest = rest.Without(f)
	}
	return out
}

// String returns the formats joined with "|", or "none".
func (m FormatMask) String() string {
	if m == 0 {
		return "none"
	}
	formats := m.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, "|")
}

// ParseFormatMask parses a comma or pipe separated list of format names.
// An empty string yields an empty mask.
func ParseFormatMask(list string) (FormatMask, error) {
	var m FormatMask
	fields := strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == '|' || r == ' '
	})
	for _, name := range fields {
		f, err := ParseFormat(name)
		if err != nil {
			return 0, err
		}
		m = m.With(f)
	}
	return m, nil
}
