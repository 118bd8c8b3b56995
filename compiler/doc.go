// Package compiler turns one shader source into reflected resources and a
// set of per-format bytecode variants.
//
// The pipeline is: front end (skipped for SPIR-V input), reflection, then
// one translation per requested format in shaderpack.BuildOrder. A failed
// translation drops only its format; the compile fails only when the front
// end or reflection fails, or when no format at all could be produced.
//
//	c := compiler.New(backend.Default())
//	res, err := c.Compile(ctx, src, shaderpack.AllBuildFormats)
//	for _, f := range res.Failures {
//		log.Printf("skipped %v: %v", f.Format, f.Err)
//	}
package compiler
