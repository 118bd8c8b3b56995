package loader

import "github.com/gogpu/shaderpack"

// Device is the GPU device the loader creates resources on.
type Device interface {
	// SupportedFormats returns the bytecode formats the device accepts.
	SupportedFormats() shaderpack.FormatMask

	CreateShader(desc *ShaderDescriptor) (Shader, error)
	CreateComputePipeline(desc *ComputePipelineDescriptor) (ComputePipeline, error)
}

// Shader is a device shader object for a vertex or fragment stage.
type Shader interface {
	Destroy()
}

// ComputePipeline is a device compute pipeline.
type ComputePipeline interface {
	Destroy()
}

// ShaderDescriptor describes a graphics shader to create.
type ShaderDescriptor struct {
	Stage  shaderpack.Stage
	Format shaderpack.Format
	Code   []byte

	// EntryPoint is the name to create the shader with, after the Metal
	// rename.
	EntryPoint string

	Samplers        uint32
	UniformBuffers  uint32
	StorageBuffers  uint32
	StorageTextures uint32
}

// ComputePipelineDescriptor describes a compute pipeline to create.
type ComputePipelineDescriptor struct {
	Format     shaderpack.Format
	Code       []byte
	EntryPoint string

	Samplers                 uint32
	UniformBuffers           uint32
	ReadWriteStorageBuffers  uint32
	ReadWriteStorageTextures uint32
	ReadOnlyStorageBuffers   uint32
	ReadOnlyStorageTextures  uint32
	ThreadCountX             uint32
	ThreadCountY             uint32
	ThreadCountZ             uint32
}

// ShaderDescriptorFor builds the descriptor for variant v of a graphics
// blob.
func ShaderDescriptorFor(b *shaderpack.Blob, v shaderpack.Variant) *ShaderDescriptor {
	r := b.Resources.Common()
	return &ShaderDescriptor{
		Stage:           b.Stage,
		Format:          v.Format,
		Code:            v.Code,
		EntryPoint:      entryPointFor(b, v),
		Samplers:        r.Samplers,
		UniformBuffers:  r.UniformBuffers,
		StorageBuffers:  r.StorageBuffers,
		StorageTextures: r.StorageTextures,
	}
}

// ComputePipelineDescriptorFor builds the descriptor for variant v of a
// compute blob.
func ComputePipelineDescriptorFor(b *shaderpack.Blob, v shaderpack.Variant) *ComputePipelineDescriptor {
	r, _ := b.Resources.(shaderpack.ComputeResources)
	return &ComputePipelineDescriptor{
		Format:                   v.Format,
		Code:                     v.Code,
		EntryPoint:               entryPointFor(b, v),
		Samplers:                 r.Samplers,
		UniformBuffers:           r.UniformBuffers,
		ReadWriteStorageBuffers:  r.ReadWriteStorageBuffers,
		ReadWriteStorageTextures: r.ReadWriteStorageTextures,
		ReadOnlyStorageBuffers:   r.ReadOnlyStorageBuffers,
		ReadOnlyStorageTextures:  r.ReadOnlyStorageTextures,
		ThreadCountX:             r.ThreadCountX,
		ThreadCountY:             r.ThreadCountY,
		ThreadCountZ:             r.ThreadCountZ,
	}
}

func entryPointFor(b *shaderpack.Blob, v shaderpack.Variant) string {
	if v.Format == shaderpack.FormatMSL {
		return shaderpack.MetalEntryPoint(b.EntryPoint)
	}
	return b.EntryPoint
}
