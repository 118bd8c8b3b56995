package backend

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/gogpu/shaderpack"
)

// Common toolchain errors.
var (
	// ErrUnsupported is returned when a toolchain cannot handle a request
	// (source language, IR origin, or output format). A Chain moves on to
	// the next toolchain when it sees this error.
	ErrUnsupported = errors.New("backend: unsupported")

	// ErrNotAvailable is returned when a requested toolchain is not
	// registered or its executables cannot be found.
	ErrNotAvailable = errors.New("backend: not available")
)

// Language is the authoring language of a shader source.
type Language uint8

const (
	LanguageUnknown Language = iota
	LanguageGLSL
	LanguageHLSL
	LanguageWGSL
	// LanguageSPIRV is already-compiled IR and skips the front end.
	LanguageSPIRV
)

// String returns the language name.
func (l Language) String() string {
	switch l {
	case LanguageGLSL:
		return "glsl"
	case LanguageHLSL:
		return "hlsl"
	case LanguageWGSL:
		return "wgsl"
	case LanguageSPIRV:
		return "spirv"
	default:
		return "unknown"
	}
}

// LanguageFromPath classifies a file by its extension.
func LanguageFromPath(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glsl":
		return LanguageGLSL
	case ".hlsl":
		return LanguageHLSL
	case ".wgsl":
		return LanguageWGSL
	case ".spv":
		return LanguageSPIRV
	default:
		return LanguageUnknown
	}
}

// Source is one shader translation unit.
type Source struct {
	// Name identifies the source in diagnostics, usually the file path.
	Name string

	Code     []byte
	Language Language
	Stage    shaderpack.Stage

	// EntryPoint is the entry function name, "main" when empty.
	EntryPoint string
}

// Entry returns the entry point name with the default applied.
func (s Source) Entry() string {
	if s.EntryPoint == "" {
		return DefaultEntryPoint
	}
	return s.EntryPoint
}

// DefaultEntryPoint is used when a source does not name its entry function.
const DefaultEntryPoint = "main"

// IR is the intermediate representation shared by every backend step.
// SPIRV is always populated; Native carries a toolchain-private form
// (for example a parsed module) and is nil for SPIR-V inputs.
type IR struct {
	SPIRV      []byte
	Stage      shaderpack.Stage
	EntryPoint string
	Native     any
}

// FrontEnd compiles a high-level source to IR.
type FrontEnd interface {
	CompileIR(ctx context.Context, src Source) (*IR, error)
}

// Reflector extracts the resource counts of the IR entry point.
type Reflector interface {
	Reflect(ctx context.Context, ir *IR, stage shaderpack.Stage) (shaderpack.Resources, error)
}

// Translator converts IR into GPU bytecode for one format.
type Translator interface {
	Translate(ctx context.Context, ir *IR, stage shaderpack.Stage, entry string, format shaderpack.Format) ([]byte, error)
}

// Toolchain bundles the three collaborators behind one name.
type Toolchain interface {
	Name() string
	FrontEnd
	Reflector
	Translator
}
