package naga

import (
	"fmt"
	"regexp"

	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"

	"github.com/gogpu/shaderpack"
)

// translateMSL emits Metal source for one entry point. The generated entry
// function is renamed to shaderpack.MetalEntryPoint(entry) so the loader
// can find it without knowing the generator's naming rules.
func (t *Toolchain) translateMSL(module *ir.Module, stage shaderpack.Stage, entry string) ([]byte, error) {
	ep, err := findEntryPoint(module, entry, stage)
	if err != nil {
		return nil, err
	}

	opts := msl.DefaultOptions()
	opts.LangVersion = t.opts.MSLVersion
	src, info, err := msl.CompileWithPipeline(module, opts, msl.PipelineOptions{
		EntryPoint: &msl.EntryPointSelector{Stage: ep.Stage, Name: entry},
	})
	if err != nil {
		return nil, fmt.Errorf("naga: msl: %w", err)
	}

	want := shaderpack.MetalEntryPoint(entry)
	if got, ok := info.EntryPointNames[entry]; ok && got != want {
		renamed, ok := renameEntryPoint(src, got, want)
		if !ok {
			return nil, fmt.Errorf("naga: msl: entry point %q: no unique %q declaration", entry, got)
		}
		src = renamed
		shaderpack.Logger().Debug("naga: renamed MSL entry point", "from", got, "to", want)
	}
	return []byte(src), nil
}

// entryDecl matches a Metal stage function declaration and captures the
// function name.
var entryDecl = regexp.MustCompile(`(?m)^(?:vertex|fragment|kernel)\s[^\n(;{]*?\b(\w+)\s*\(`)

// renameEntryPoint renames the stage function declared as from. Members,
// locals and other functions that share the name are left alone. It
// reports false unless exactly one stage declaration is named from.
func renameEntryPoint(src, from, to string) (string, bool) {
	var span []int
	for _, m := range entryDecl.FindAllStringSubmatchIndex(src, -1) {
		if src[m[2]:m[3]] != from {
			continue
		}
		if span != nil {
			return src, false
		}
		span = m[2:4]
	}
	if span == nil {
		return src, false
	}
	return src[:span[0]] + to + src[span[1]:], true
}
