package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/backend"
	"github.com/gogpu/shaderpack/compiler"
)

// project writes sources to a temp dir and plans them into out/.
func project(t *testing.T, sources map[string]string) (string, []Target) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range sources {
		path := filepath.Join(dir, "src", name)
		writeFile(t, path, content)
		age(t, path)
	}
	inputs, err := ExpandInputs(OSFileSystem{}, []Input{{Path: filepath.Join(dir, "src") + "/", Stage: shaderpack.StageFragment}})
	if err != nil {
		t.Fatalf("ExpandInputs() error = %v", err)
	}
	targets, err := PlanTargets(inputs, []string{filepath.Join(dir, "out") + "/"}, "")
	if err != nil {
		t.Fatalf("PlanTargets() error = %v", err)
	}
	return dir, targets
}

func TestBuilderBuild(t *testing.T) {
	dir, targets := project(t, map[string]string{
		"a.vert.glsl": "void main(){}",
		"b.frag.hlsl": "float4 main() : SV_Target { return 1; }",
		"c.comp.glsl": "broken",
		"d.frag.glsl": "void main(){}",
	})
	if len(targets) != 4 {
		t.Fatalf("targets = %d, want 4", len(targets))
	}

	var calls atomic.Int32
	b := NewBuilder(compiler.New(&fakeToolchain{}), Config{
		Formats: shaderpack.MaskOf(shaderpack.FormatSPIRV, shaderpack.FormatMSL),
		Jobs:    2,
	}, WithProgress(func(FileResult) { calls.Add(1) }))

	report, err := b.Build(context.Background(), targets)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := report.Count(StatusCompiled); got != 3 {
		t.Errorf("compiled = %d, want 3", got)
	}
	if got := report.Count(StatusFailed); got != 1 {
		t.Errorf("failed = %d, want 1", got)
	}
	if calls.Load() != 4 {
		t.Errorf("progress calls = %d, want 4", calls.Load())
	}

	var fe *compiler.FrontEndError
	if !errors.As(report.Err(), &fe) {
		t.Errorf("Report.Err() = %v, want *FrontEndError", report.Err())
	}
	if r := report.Results[2]; r.Status != StatusFailed || r.Target.Input != filepath.Join(dir, "src", "c.comp.glsl") {
		t.Errorf("results out of target order: %+v", r)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out", "a.vert.bin"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	blob, err := shaderpack.Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if blob.Stage != shaderpack.StageVertex {
		t.Errorf("Stage = %v, want vertex", blob.Stage)
	}
	if want := shaderpack.MaskOf(shaderpack.FormatSPIRV, shaderpack.FormatMSL); blob.Formats != want || report.Results[0].Formats != want {
		t.Errorf("Formats = %v / %v, want %v", blob.Formats, report.Results[0].Formats, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "c.comp.bin")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("failed target was written: %v", err)
	}
}

func TestBuilderSkipsUpToDate(t *testing.T) {
	_, targets := project(t, map[string]string{"a.vert.glsl": "void main(){}"})
	tc := &fakeToolchain{}
	c := compiler.New(tc)

	first, err := NewBuilder(c, Config{}).Build(context.Background(), targets)
	if err != nil || first.Results[0].Status != StatusCompiled {
		t.Fatalf("first build = %+v, %v", first.Results, err)
	}

	second, err := NewBuilder(c, Config{}).Build(context.Background(), targets)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if second.Results[0].Status != StatusSkipped {
		t.Errorf("second build status = %v, want skipped", second.Results[0].Status)
	}
	if tc.compiled.Load() != 1 {
		t.Errorf("front end ran %d times, want 1", tc.compiled.Load())
	}

	forced, err := NewBuilder(c, Config{Recompile: true}).Build(context.Background(), targets)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if forced.Results[0].Status != StatusCompiled {
		t.Errorf("recompile status = %v, want compiled", forced.Results[0].Status)
	}
}

func TestBuilderManifestDetectsOptionChange(t *testing.T) {
	dir, targets := project(t, map[string]string{"a.frag.glsl": "void main(){}"})
	c := compiler.New(&fakeToolchain{})
	manifestPath := filepath.Join(dir, DefaultManifestName)

	run := func(formats shaderpack.FormatMask) Status {
		t.Helper()
		m, err := OpenManifest(OSFileSystem{}, manifestPath)
		if err != nil {
			t.Fatalf("OpenManifest() error = %v", err)
		}
		report, err := NewBuilder(c, Config{Formats: formats}, WithManifest(m)).Build(context.Background(), targets)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		return report.Results[0].Status
	}

	spirv := shaderpack.MaskOf(shaderpack.FormatSPIRV)
	if got := run(spirv); got != StatusCompiled {
		t.Fatalf("first build = %v", got)
	}
	if got := run(spirv); got != StatusSkipped {
		t.Errorf("same options = %v, want skipped", got)
	}
	if got := run(spirv.With(shaderpack.FormatDXIL)); got != StatusCompiled {
		t.Errorf("changed formats = %v, want compiled", got)
	}
}

func TestBuilderWriteError(t *testing.T) {
	_, targets := project(t, map[string]string{"a.vert.glsl": "void main(){}"})
	b := NewBuilder(compiler.New(&fakeToolchain{}), Config{}, WithFileSystem(&readOnlyFS{}))
	report, err := b.Build(context.Background(), targets)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	var we *WriteError
	if !errors.As(report.Results[0].Err, &we) {
		t.Errorf("result error = %v, want *WriteError", report.Results[0].Err)
	}
}

func TestBuilderMissingSource(t *testing.T) {
	targets := []Target{{Input: filepath.Join(t.TempDir(), "gone.glsl"), Output: "x.bin", Language: backend.LanguageGLSL}}
	report, err := NewBuilder(compiler.New(&fakeToolchain{}), Config{}).Build(context.Background(), targets)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	var re *SourceReadError
	if !errors.As(report.Err(), &re) {
		t.Errorf("Report.Err() = %v, want *SourceReadError", report.Err())
	}
}

func TestBuilderCanceled(t *testing.T) {
	_, targets := project(t, map[string]string{"a.vert.glsl": "void main(){}"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := NewBuilder(compiler.New(&fakeToolchain{}), Config{}).Build(ctx, targets)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
	if got := report.Count(StatusCompiled); got != 0 {
		t.Errorf("Count(StatusCompiled) = %d, want 0", got)
	}
	if got := report.Count(StatusPending); got != len(targets) {
		t.Errorf("Count(StatusPending) = %d, want %d", got, len(targets))
	}
	for _, r := range report.Results {
		if r.Target.Input == "" {
			t.Errorf("pending result lost its target: %+v", r)
		}
	}
}

func TestBuilderEmpty(t *testing.T) {
	report, err := NewBuilder(compiler.New(&fakeToolchain{}), Config{}).Build(context.Background(), nil)
	if err != nil || len(report.Results) != 0 {
		t.Errorf("Build(nil) = %+v, %v", report, err)
	}
}

func TestStatusString(t *testing.T) {
	for s, want := range map[Status]string{StatusPending: "pending", StatusCompiled: "compiled", StatusSkipped: "up to date", StatusFailed: "failed", 9: "Status(9)"} {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", uint8(s), got, want)
		}
	}
}
