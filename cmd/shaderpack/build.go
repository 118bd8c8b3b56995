package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/backend"
	"github.com/gogpu/shaderpack/build"
	"github.com/gogpu/shaderpack/compiler"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] <input>... -o <output>...",
		Short: "Compile shaders into blobs",
		Long: `Compile GLSL, HLSL, WGSL or SPIR-V shaders into blobs.

Inputs and outputs may be folders, marked by a trailing "/", "\" or ".".
Every file in an input folder is compiled. A file output takes one input;
a folder output takes every following input, named <base><extension>.

The stage comes from a .vert, .frag or .comp infix before the language
extension (blit.vert.glsl), else from the flag that named the input, else
from --stage.

Inputs named by -v, -f and -c keep their command line order and are
paired with outputs before positional inputs.`,
		Example: `  shaderpack build -o bin/ shaders/
  shaderpack build -f sprite.spv -v sprite_vs.spv -o bin/ --spv --msl`,
	}

	// -v, -f and -c append to one list so inputs keep their order.
	var staged []build.Input
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, args, staged)
	}

	f := cmd.Flags()
	f.StringArrayP("output", "o", nil, "output file or folder (repeatable)")
	f.VarP(&stageInputs{list: &staged, stage: shaderpack.StageVertex}, "vertex", "v", "vertex shader input (repeatable)")
	f.VarP(&stageInputs{list: &staged, stage: shaderpack.StageFragment}, "fragment", "f", "fragment shader input (repeatable)")
	f.VarP(&stageInputs{list: &staged, stage: shaderpack.StageCompute}, "compute", "c", "compute shader input (repeatable)")
	f.String("stage", "vertex", "stage of positional inputs without a stage infix")
	f.Bool("spv", false, "include SPIR-V variants")
	f.Bool("msl", false, "include MSL variants")
	f.Bool("dxil", false, "include DXIL variants")
	f.Bool("dxbc", false, "include DXBC variants")
	f.StringP("entry", "e", "", `entry point of the shader code (default "main")`)
	f.String("extension", "", `output extension for folder outputs (default ".bin")`)
	f.Bool("silent", false, "print errors only")
	f.Bool("recompile", false, "recompile targets that are up to date")
	f.IntP("jobs", "j", 0, "files compiled in parallel (default GOMAXPROCS)")
	f.String("toolchain", "auto", "comma-separated toolchains to try in order ("+backend.NameNaga+", "+backend.NameShaderCross+")")
	f.String("manifest", "", "build manifest path, or \"off\"")
	return cmd
}

// stageInputs is a repeatable flag that appends inputs of one stage to a
// list shared with the other stage flags.
type stageInputs struct {
	list  *[]build.Input
	stage shaderpack.Stage
}

func (s *stageInputs) Set(path string) error {
	*s.list = append(*s.list, build.Input{Path: path, Stage: s.stage})
	return nil
}

func (s *stageInputs) Type() string { return "path" }

func (s *stageInputs) String() string {
	var paths []string
	for _, in := range *s.list {
		if in.Stage == s.stage {
			paths = append(paths, in.Path)
		}
	}
	return "[" + strings.Join(paths, ",") + "]"
}

type buildOptions struct {
	inputs    []build.Input
	outputs   []string
	cfg       build.Config
	toolchain string
	manifest  string
	silent    bool
}

func runBuild(cmd *cobra.Command, args []string, staged []build.Input) error {
	opts, err := readBuildOptions(cmd, args, staged)
	if err != nil {
		return err
	}
	if len(opts.inputs) == 0 {
		return errors.New("no input files")
	}

	tc, err := backend.Select(opts.toolchain)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	fsys := build.OSFileSystem{}

	// Bad inputs are reported, the rest still build.
	var failed int
	inputs, err := build.ExpandInputs(fsys, opts.inputs)
	failed += reportJoined(errOut, err)
	targets, err := build.PlanTargets(inputs, opts.outputs, opts.cfg.Extension)
	failed += reportJoined(errOut, err)

	builderOpts := []build.Option{build.WithProgress(func(r build.FileResult) {
		printResult(out, errOut, r, opts.silent)
	})}
	if opts.manifest != "" {
		m, err := build.OpenManifest(fsys, opts.manifest)
		if err != nil {
			return err
		}
		builderOpts = append(builderOpts, build.WithManifest(m))
	}

	b := build.NewBuilder(compiler.New(tc), opts.cfg, builderOpts...)
	report, err := b.Build(cmd.Context(), targets)
	if err != nil {
		return err
	}
	failed += report.Count(build.StatusFailed)

	if !opts.silent {
		fmt.Fprintf(out, "%s %d compiled, %d up to date, %d failed\n",
			headingColor.Sprint("shaderpack:"),
			report.Count(build.StatusCompiled), report.Count(build.StatusSkipped), failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d shader(s) failed", failed)
	}
	return nil
}

// readBuildOptions merges flags over the config file.
func readBuildOptions(cmd *cobra.Command, args []string, staged []build.Input) (*buildOptions, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	pc, err := resolveConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := pc.registerTools(); err != nil {
		return nil, err
	}

	f := cmd.Flags()
	opts := &buildOptions{
		toolchain: pc.Build.Toolchain,
		manifest:  pc.manifestPath(),
	}
	if opts.cfg.Formats, err = pc.formats(); err != nil {
		return nil, err
	}
	opts.cfg.EntryPoint = pc.Build.Entry
	opts.cfg.Extension = pc.Build.Extension
	opts.cfg.Jobs = pc.Build.Jobs

	stageName, _ := f.GetString("stage")
	stage, err := shaderpack.ParseStage(stageName)
	if err != nil {
		return nil, err
	}
	opts.inputs = append(opts.inputs, staged...)
	for _, a := range args {
		opts.inputs = append(opts.inputs, build.Input{Path: a, Stage: stage})
	}
	opts.outputs, _ = f.GetStringArray("output")

	var flagFormats shaderpack.FormatMask
	for _, ff := range []struct {
		flag   string
		format shaderpack.Format
	}{
		{"spv", shaderpack.FormatSPIRV},
		{"msl", shaderpack.FormatMSL},
		{"dxil", shaderpack.FormatDXIL},
		{"dxbc", shaderpack.FormatDXBC},
	} {
		if on, _ := f.GetBool(ff.flag); on {
			flagFormats = flagFormats.With(ff.format)
		}
	}
	if !flagFormats.Empty() {
		opts.cfg.Formats = flagFormats
	}

	if f.Changed("entry") {
		opts.cfg.EntryPoint, _ = f.GetString("entry")
	}
	if f.Changed("extension") {
		opts.cfg.Extension, _ = f.GetString("extension")
	}
	if f.Changed("jobs") {
		opts.cfg.Jobs, _ = f.GetInt("jobs")
	}
	if f.Changed("toolchain") || opts.toolchain == "" {
		opts.toolchain, _ = f.GetString("toolchain")
	}
	if f.Changed("manifest") {
		m, _ := f.GetString("manifest")
		opts.manifest = m
		if m == "off" {
			opts.manifest = ""
		}
	}
	opts.cfg.Recompile, _ = f.GetBool("recompile")
	opts.silent, _ = f.GetBool("silent")
	return opts, nil
}

func printResult(out, errOut io.Writer, r build.FileResult, silent bool) {
	switch r.Status {
	case build.StatusFailed:
		printError(errOut, r.Err)
		return
	case build.StatusSkipped:
		if !silent {
			fmt.Fprintf(out, "%s %s\n", skippedColor.Sprint("up to date"), r.Target.Output)
		}
		return
	}
	if !silent {
		fmt.Fprintf(out, "%s %s -> %s [%s] (%s)\n", okColor.Sprint("compiled"),
			filepath.ToSlash(r.Target.Input), filepath.ToSlash(r.Target.Output), r.Formats, r.Elapsed.Round(time.Millisecond))
	}
	for _, f := range r.Failures {
		fmt.Fprintf(errOut, "%s %s: %v\n", warnColor.Sprint("warning:"), r.Target.Input, f)
	}
}

// reportJoined prints each error of a joined error and returns how many
// there were.
func reportJoined(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}
	for _, e := range errs {
		printError(w, e)
	}
	return len(errs)
}
