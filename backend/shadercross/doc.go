// Package shadercross is the toolchain that drives external executables:
// glslc compiles GLSL, dxc compiles HLSL, and the SDL_shadercross command
// line tool reflects SPIR-V and translates it to DXBC, DXIL and MSL.
//
// Every tool runs under exec.CommandContext, so builds honour cancellation
// and Tools.Timeout. Intermediate files live in a private temporary
// directory that is removed after each call.
//
// Importing the package registers it under backend.NameShaderCross with
// DefaultTools:
//
//	import _ "github.com/gogpu/shaderpack/backend/shadercross"
package shadercross
