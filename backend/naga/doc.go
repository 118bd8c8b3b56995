// Package naga is the in-process toolchain built on the pure Go
// github.com/gogpu/naga shader compiler.
//
// It accepts WGSL sources, keeps the lowered naga module as the IR's native
// form, reflects resource counts from the module's global variables, and
// translates to SPIR-V, MSL and DXIL. DXBC and non-WGSL sources answer
// backend.ErrUnsupported so a backend.Chain can hand them to another
// toolchain.
//
// Importing the package registers it under backend.NameNaga:
//
//	import _ "github.com/gogpu/shaderpack/backend/naga"
package naga
