package shadercross

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/backend"
)

func init() {
	backend.Register(backend.NameShaderCross, func() backend.Toolchain {
		return New(DefaultTools(), nil)
	})
}

// Tools names the executables. Empty names fall back to DefaultTools.
type Tools struct {
	Glslc       string
	DXC         string
	ShaderCross string

	// Timeout bounds each invocation; zero means no limit.
	Timeout time.Duration
}

// DefaultTools resolves the executables from PATH.
func DefaultTools() Tools {
	return Tools{
		Glslc:       "glslc",
		DXC:         "dxc",
		ShaderCross: "shadercross",
	}
}

func (t Tools) withDefaults() Tools {
	d := DefaultTools()
	if t.Glslc == "" {
		t.Glslc = d.Glslc
	}
	if t.DXC == "" {
		t.DXC = d.DXC
	}
	if t.ShaderCross == "" {
		t.ShaderCross = d.ShaderCross
	}
	return t
}

// Toolchain implements backend.Toolchain over external executables.
type Toolchain struct {
	tools  Tools
	runner Runner
}

// New creates a toolchain. A nil runner uses ExecRunner.
func New(tools Tools, runner Runner) *Toolchain {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Toolchain{tools: tools.withDefaults(), runner: runner}
}

// Name returns backend.NameShaderCross.
func (*Toolchain) Name() string { return backend.NameShaderCross }

// CompileIR compiles GLSL with glslc and HLSL with dxc.
func (t *Toolchain) CompileIR(ctx context.Context, src backend.Source) (*backend.IR, error) {
	var (
		spirv []byte
		err   error
	)
	switch src.Language {
	case backend.LanguageGLSL:
		spirv, err = t.compileGLSL(ctx, src)
	case backend.LanguageHLSL:
		spirv, err = t.compileHLSL(ctx, src)
	default:
		return nil, fmt.Errorf("%w: shadercross compiles GLSL and HLSL, not %v", backend.ErrUnsupported, src.Language)
	}
	if err != nil {
		return nil, err
	}
	shaderpack.Logger().Debug("shadercross: compiled to SPIR-V",
		"source", src.Name,
		"language", src.Language.String(),
		"spirv_bytes", len(spirv))
	return &backend.IR{SPIRV: spirv, Stage: src.Stage, EntryPoint: src.Entry()}, nil
}

func (t *Toolchain) compileGLSL(ctx context.Context, src backend.Source) ([]byte, error) {
	stage, err := glslcStage(src.Stage)
	if err != nil {
		return nil, err
	}
	args := []string{
		"-fshader-stage=" + stage,
		"-fentry-point=" + src.Entry(),
	}
	if src.Name != "" {
		args = append(args, "-I", filepath.Dir(src.Name))
	}
	args = append(args, "-o", "-", "-")
	return t.run(ctx, Command{Name: t.tools.Glslc, Args: args, Stdin: src.Code})
}

func (t *Toolchain) compileHLSL(ctx context.Context, src backend.Source) ([]byte, error) {
	profile, err := dxcProfile(src.Stage)
	if err != nil {
		return nil, err
	}
	return t.withWorkDir(func(dir string) ([]byte, error) {
		in := filepath.Join(dir, "input.hlsl")
		out := filepath.Join(dir, "output.spv")
		if err := os.WriteFile(in, src.Code, 0o600); err != nil {
			return nil, fmt.Errorf("shadercross: %w", err)
		}
		args := []string{"-spirv", "-T", profile, "-E", src.Entry(), "-Fo", out}
		if src.Name != "" {
			args = append(args, "-I", filepath.Dir(src.Name))
		}
		args = append(args, in)
		if _, err := t.run(ctx, Command{Name: t.tools.DXC, Args: args, Dir: dir}); err != nil {
			return nil, err
		}
		return readOutput(out)
	})
}

// Reflect runs shadercross with a JSON destination.
func (t *Toolchain) Reflect(ctx context.Context, rep *backend.IR, stage shaderpack.Stage) (shaderpack.Resources, error) {
	if rep == nil {
		return nil, fmt.Errorf("%w: nil IR", backend.ErrUnsupported)
	}
	data, err := t.cross(ctx, rep, stage, rep.EntryPoint, "JSON", "json")
	if err != nil {
		return nil, err
	}
	return parseReflection(data, stage)
}

// Translate converts the IR's SPIR-V to format.
func (t *Toolchain) Translate(ctx context.Context, rep *backend.IR, stage shaderpack.Stage, entry string, format shaderpack.Format) ([]byte, error) {
	switch format {
	case shaderpack.FormatSPIRV:
		return bytes.Clone(rep.SPIRV), nil
	case shaderpack.FormatDXBC:
		return t.cross(ctx, rep, stage, entry, "DXBC", "dxbc")
	case shaderpack.FormatDXIL:
		return t.cross(ctx, rep, stage, entry, "DXIL", "dxil")
	case shaderpack.FormatMSL:
		return t.cross(ctx, rep, stage, entry, "MSL", "metal")
	default:
		return nil, fmt.Errorf("%w: shadercross does not emit %v", backend.ErrUnsupported, format)
	}
}

// cross runs "shadercross input.spv -s SPIRV -d dest -t stage -e entry -o out".
func (t *Toolchain) cross(ctx context.Context, rep *backend.IR, stage shaderpack.Stage, entry, dest, ext string) ([]byte, error) {
	if rep == nil || len(rep.SPIRV) == 0 {
		return nil, fmt.Errorf("%w: IR has no SPIR-V", backend.ErrUnsupported)
	}
	if !stage.Valid() {
		return nil, fmt.Errorf("shadercross: unsupported stage %v", stage)
	}
	return t.withWorkDir(func(dir string) ([]byte, error) {
		in := filepath.Join(dir, "input.spv")
		out := filepath.Join(dir, "output."+ext)
		if err := os.WriteFile(in, rep.SPIRV, 0o600); err != nil {
			return nil, fmt.Errorf("shadercross: %w", err)
		}
		args := []string{in, "-s", "SPIRV", "-d", dest, "-t", stage.String(), "-e", entry, "-o", out}
		if _, err := t.run(ctx, Command{Name: t.tools.ShaderCross, Args: args, Dir: dir}); err != nil {
			return nil, err
		}
		return readOutput(out)
	})
}

func (t *Toolchain) run(ctx context.Context, cmd Command) ([]byte, error) {
	if t.tools.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.tools.Timeout)
		defer cancel()
	}
	shaderpack.Logger().Debug("shadercross: run", "cmd", cmd.Name, "args", cmd.Args)
	return t.runner.Run(ctx, cmd)
}

func (t *Toolchain) withWorkDir(fn func(dir string) ([]byte, error)) ([]byte, error) {
	dir, err := os.MkdirTemp("", "shaderpack-*")
	if err != nil {
		return nil, fmt.Errorf("shadercross: work dir: %w", err)
	}
	defer os.RemoveAll(dir)
	return fn(dir)
}

func readOutput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shadercross: unable to read output %q: %w", filepath.Base(path), err)
	}
	return data, nil
}

func glslcStage(s shaderpack.Stage) (string, error) {
	switch s {
	case shaderpack.StageVertex:
		return "vert", nil
	case shaderpack.StageFragment:
		return "frag", nil
	case shaderpack.StageCompute:
		return "comp", nil
	default:
		return "", fmt.Errorf("shadercross: unsupported stage %v", s)
	}
}

func dxcProfile(s shaderpack.Stage) (string, error) {
	switch s {
	case shaderpack.StageVertex:
		return "vs_6_0", nil
	case shaderpack.StageFragment:
		return "ps_6_0", nil
	case shaderpack.StageCompute:
		return "cs_6_0", nil
	default:
		return "", fmt.Errorf("shadercross: unsupported stage %v", s)
	}
}
