// Package build assembles compiled shaders into blobs and drives batch
// builds.
//
// BuildBlob and Compile handle a single source. Builder compiles many
// targets in parallel, skips targets that are up to date, and reports each
// file's outcome independently: one broken shader never stops the batch.
//
//	inputs, err := build.ExpandInputs(build.OSFileSystem{}, []build.Input{{Path: "shaders/"}})
//	targets, err := build.PlanTargets(inputs, []string{"out/"}, "")
//	b := build.NewBuilder(compiler.New(backend.Default()), build.Config{})
//	report, err := b.Build(ctx, targets)
package build
