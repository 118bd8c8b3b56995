package build

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/backend"
	"github.com/gogpu/shaderpack/compiler"
)

// Status is the outcome of one target.
type Status uint8

const (
	// StatusPending marks a target that never started because the batch
	// was canceled.
	StatusPending Status = iota
	StatusCompiled
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompiled:
		return "compiled"
	case StatusSkipped:
		return "up to date"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// FileResult is the outcome of one target.
type FileResult struct {
	Target Target
	Status Status

	// Formats lists the variants written for a compiled target.
	Formats shaderpack.FormatMask

	// Failures holds the formats that could not be produced. A compiled
	// target may still carry failures.
	Failures []compiler.TranslationError

	// Err is set when Status is StatusFailed.
	Err error

	Elapsed time.Duration
}

// Report collects the results of a batch, in target order.
type Report struct {
	Results []FileResult
}

// Count returns the number of results with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Status == s {
			n++
		}
	}
	return n
}

// Err joins the errors of every failed target, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for i := range r.Results {
		if r.Results[i].Err != nil {
			errs = append(errs, r.Results[i].Err)
		}
	}
	return errors.Join(errs...)
}

// Option configures a Builder.
type Option func(*Builder)

// WithFileSystem replaces the host file system.
func WithFileSystem(fsys FileSystem) Option {
	return func(b *Builder) { b.fsys = fsys }
}

// WithManifest records build digests in m.
func WithManifest(m *Manifest) Option {
	return func(b *Builder) { b.manifest = m }
}

// WithProgress calls fn as each target finishes. fn is called from worker
// goroutines and must be safe for concurrent use.
func WithProgress(fn func(FileResult)) Option {
	return func(b *Builder) { b.progress = fn }
}

// Builder compiles batches of targets in parallel.
type Builder struct {
	compiler *compiler.Compiler
	cfg      Config
	fsys     FileSystem
	manifest *Manifest
	progress func(FileResult)
}

// NewBuilder returns a Builder compiling with c.
func NewBuilder(c *compiler.Compiler, cfg Config, opts ...Option) *Builder {
	b := &Builder{
		compiler: c,
		cfg:      cfg.withDefaults(),
		fsys:     OSFileSystem{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the effective configuration.
func (b *Builder) Config() Config { return b.cfg }

// Build compiles every target, at most Config.Jobs at a time. Failures of
// single targets are recorded in the report and do not stop the batch.
// The returned error is non-nil only when ctx is canceled or the manifest
// cannot be saved.
func (b *Builder) Build(ctx context.Context, targets []Target) (*Report, error) {
	report := &Report{Results: make([]FileResult, len(targets))}
	if len(targets) == 0 {
		return report, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(b.cfg.Jobs, len(targets)))

	for i, t := range targets {
		report.Results[i] = FileResult{Target: t, Status: StatusPending}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// Each index belongs to one goroutine.
			report.Results[i] = b.buildOne(gctx, t)
			if b.progress != nil {
				b.progress(report.Results[i])
			}
			return nil
		})
	}

	err := g.Wait()
	if saveErr := b.manifest.Save(); saveErr != nil {
		err = errors.Join(err, saveErr)
	}
	return report, err
}

func (b *Builder) buildOne(ctx context.Context, t Target) FileResult {
	start := time.Now()
	res := FileResult{Target: t}
	fail := func(err error) FileResult {
		res.Status = StatusFailed
		res.Err = err
		res.Elapsed = time.Since(start)
		shaderpack.Logger().Info("build: failed", "input", t.Input, "err", err)
		return res
	}

	if t.Language == backend.LanguageUnknown {
		return fail(fmt.Errorf("%w: %q", ErrUnknownLanguage, t.Input))
	}
	srcInfo, err := b.fsys.Stat(t.Input)
	if err != nil {
		return fail(&SourceReadError{Path: t.Input, Err: err})
	}
	code, err := b.fsys.ReadFile(t.Input)
	if err != nil {
		return fail(&SourceReadError{Path: t.Input, Err: err})
	}

	digest := DigestOf(code, t, b.cfg, b.toolchainName())
	if b.upToDate(t, srcInfo.ModTime(), digest) {
		res.Status = StatusSkipped
		res.Elapsed = time.Since(start)
		shaderpack.Logger().Info("build: up to date", "input", t.Input, "output", t.Output)
		return res
	}

	src := backend.Source{
		Name:       t.Input,
		Code:       code,
		Language:   t.Language,
		Stage:      t.Stage,
		EntryPoint: b.cfg.EntryPoint,
	}
	out, data, err := compileBlob(ctx, b.compiler, src, b.cfg.Formats)
	if err != nil {
		return fail(fmt.Errorf("%s: %w", t.Input, err))
	}
	if err := saveFile(b.fsys, t.Output, data); err != nil {
		return fail(err)
	}

	formats := out.Formats()
	b.manifest.Record(t.Output, ManifestEntry{
		Source:  t.Input,
		Digest:  digest,
		Formats: uint32(formats),
		Built:   time.Now(),
	})

	res.Status = StatusCompiled
	res.Formats = formats
	res.Failures = out.Failures
	res.Elapsed = time.Since(start)
	shaderpack.Logger().Info("build: compiled", "input", t.Input, "output", t.Output,
		"formats", formats.String(), "bytes", len(data))
	return res
}

// upToDate reports whether t.Output is newer than its source and, when a
// manifest is in use, was built from the same digest.
func (b *Builder) upToDate(t Target, srcMod time.Time, digest Digest) bool {
	if b.cfg.Recompile {
		return false
	}
	info, err := b.fsys.Stat(t.Output)
	if err != nil || !info.ModTime().After(srcMod) {
		return false
	}
	if e, ok := b.manifest.Lookup(t.Output); ok && e.Digest != digest {
		return false
	}
	return true
}

func (b *Builder) toolchainName() string {
	if b.compiler == nil || b.compiler.Toolchain() == nil {
		return ""
	}
	return b.compiler.Toolchain().Name()
}
