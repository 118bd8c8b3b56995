// Package gpu adapts gogpu/wgpu HAL devices to the loader.
//
// Device implements loader.Device over a hal.Device. Shaders are created
// from SPIR-V variants; bind group layouts follow the blob's resource
// counts with one group per resource class:
//
//	graphics: group 0 sampled textures + samplers, storage textures,
//	          storage buffers; group 1 uniform buffers
//	compute:  group 0 sampled textures + samplers, read-only storage
//	          textures, read-only storage buffers; group 1 read-write
//	          storage textures, read-write storage buffers; group 2
//	          uniform buffers
//
// Open creates a standalone device on a registered HAL backend, which is
// what the shaderpack CLI uses to check blobs against real hardware.
package gpu
