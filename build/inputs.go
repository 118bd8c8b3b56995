package build

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/backend"
)

// DefaultExtension is appended to targets inside an output folder.
const DefaultExtension = ".bin"

// Input is one command-line input with the stage given alongside it.
type Input struct {
	Path  string
	Stage shaderpack.Stage
}

// Target is one source file and the blob it builds.
type Target struct {
	Input    string
	Output   string
	Stage    shaderpack.Stage
	Language backend.Language
}

// IsFolder reports whether path names a folder: it ends with '/', '\' or '.'.
func IsFolder(path string) bool {
	if path == "" {
		return false
	}
	switch path[len(path)-1] {
	case '/', '\\', '.':
		return true
	}
	return false
}

// ExpandInputs replaces folder inputs with the regular files they contain,
// in name order, and checks that file inputs exist. Sub-directories are
// skipped. Inputs that cannot be read are reported in the joined error;
// the rest are still returned.
func ExpandInputs(fsys FileSystem, inputs []Input) ([]Input, error) {
	var (
		out  []Input
		errs []error
	)
	for _, in := range inputs {
		if !IsFolder(in.Path) {
			if _, err := fsys.Stat(in.Path); err != nil {
				errs = append(errs, &SourceReadError{Path: in.Path, Err: err})
				continue
			}
			out = append(out, in)
			continue
		}

		entries, err := fsys.ReadDir(in.Path)
		if err != nil {
			errs = append(errs, &SourceReadError{Path: in.Path, Err: err})
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			out = append(out, Input{Path: filepath.Join(in.Path, e.Name()), Stage: in.Stage})
		}
	}
	return out, errors.Join(errs...)
}

// PlanTargets pairs inputs with outputs.
//
// A file output is used by exactly one input and then the next output is
// taken. A folder output stays current for every following input, which is
// written to folder/base+extension where base is the input file name
// without its language extension ("blit.vert.glsl" becomes "blit.vert").
// An empty extension selects DefaultExtension.
//
// The stage comes from a ".vert", ".frag" or ".comp" infix before the
// language extension, falling back to the input's stage. Inputs with an
// unknown language or no output left are reported in the joined error.
func PlanTargets(inputs []Input, outputs []string, extension string) ([]Target, error) {
	if extension == "" {
		extension = DefaultExtension
	}
	var (
		targets []Target
		errs    []error
		next    int
	)
	for _, in := range inputs {
		lang := backend.LanguageFromPath(in.Path)
		if lang == backend.LanguageUnknown {
			errs = append(errs, fmt.Errorf("%w: %q (supported: .glsl, .hlsl, .wgsl, .spv)", ErrUnknownLanguage, in.Path))
			continue
		}
		if next >= len(outputs) {
			errs = append(errs, fmt.Errorf("%w %q", ErrNoOutput, in.Path))
			continue
		}

		out := outputs[next]
		var target string
		if IsFolder(out) {
			target = filepath.Join(out, baseName(in.Path)+extension)
		} else {
			target = out
			next++
		}
		targets = append(targets, Target{
			Input:    in.Path,
			Output:   target,
			Stage:    StageFromName(in.Path, in.Stage),
			Language: lang,
		})
	}
	return targets, errors.Join(errs...)
}

// StageFromName returns the stage named by the infix before the language
// extension, or fallback.
func StageFromName(path string, fallback shaderpack.Stage) shaderpack.Stage {
	switch strings.ToLower(filepath.Ext(baseName(path))) {
	case ".vert":
		return shaderpack.StageVertex
	case ".frag":
		return shaderpack.StageFragment
	case ".comp":
		return shaderpack.StageCompute
	default:
		return fallback
	}
}

// baseName returns the file name without directory and language
// extension. Both separators are accepted regardless of host OS.
func baseName(path string) string {
	name := path[strings.LastIndexAny(path, `/\`)+1:]
	if backend.LanguageFromPath(name) != backend.LanguageUnknown {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
