// Package backend defines the collaborators the shader build pipeline
// drives: a front end that compiles source to IR, a reflector that counts
// the resources the IR binds, and a translator that emits GPU bytecode.
//
// # Toolchain Registration
//
// Toolchains are registered via init() functions and selected at runtime:
//
//	import _ "github.com/gogpu/shaderpack/backend/naga"
//	import _ "github.com/gogpu/shaderpack/backend/shadercross"
//
// # Toolchain Selection
//
// Default returns every registered toolchain as a Chain, in priority order.
// Each request goes to the first member that does not answer
// ErrUnsupported, so the in-process naga compiler handles WGSL and the
// external tools cover GLSL, HLSL, SPIR-V inputs and DXBC output:
//
//	tc := backend.Default()
//
//	// Or request specific toolchains
//	tc, err := backend.Select("shadercross")
//
// # Available Toolchains
//
//   - "naga": pure Go, WGSL input, SPIR-V/MSL/DXIL output
//   - "shadercross": glslc, dxc and shadercross executables
package backend
