// Package shaderpack defines the shader blob container: one file holding a
// shader compiled for several GPU bytecode formats together with the
// metadata needed to create a pipeline resource from any of them.
//
// # Overview
//
// A blob is produced at build time from one shader source (GLSL, HLSL, WGSL
// or SPIR-V) and consumed at run time by a loader that picks the variant
// the active device understands:
//
//	source -> compiler -> build.BuildBlob -> Encode -> file
//	file -> Decode -> Blob.Select(device formats) -> device
//
// This package holds the data model and the binary codec. Compilation lives
// in the compiler, backend and build packages; run-time loading lives in
// loader and gpu.
//
// # Container Layout
//
// Every integer is little-endian, independent of host byte order:
//
//	offset  size  field
//	0       4     declared formats (FormatMask)
//	4       4     stage (0 vertex, 1 fragment, 2 compute)
//	8       4     samplers
//	12      4     uniform buffers
//	16      4     storage buffers (compute: read-write)
//	20      4     storage textures (compute: read-write)
//	        20    compute only: read-only storage buffers, read-only
//	              storage textures, thread count x, y, z
//	        4     variant count
//	        4     entry point length including NUL
//	        n     entry point bytes, NUL-terminated
//	per variant:
//	        4     format
//	        8     code size
//	        m     code
//
// Variants appear in BuildOrder. The loader takes the first variant the
// device supports, so the build order is the run-time preference order.
//
// # Quick Start
//
//	b, err := shaderpack.NewBlob(shaderpack.StageVertex,
//		shaderpack.GraphicsResources{UniformBuffers: 1},
//		"main",
//		[]shaderpack.Variant{{Format: shaderpack.FormatSPIRV, Code: spirv}})
//	if err != nil {
//		return err
//	}
//	data, err := shaderpack.Encode(b)
//
// # Logging
//
// shaderpack is silent by default. Call SetLogger to route diagnostics from
// all sub-packages to a slog.Logger.
package shaderpack

// Version is the current version of the library.
const Version = "0.1.0"
