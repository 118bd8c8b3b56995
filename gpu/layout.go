package gpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/loader"
)

// layoutBuilder appends entries to one bind group with sequential bindings.
type layoutBuilder struct {
	stage   shaderpack.Stage
	entries []gputypes.BindGroupLayoutEntry
}

func (b *layoutBuilder) add(e gputypes.BindGroupLayoutEntry) {
	e.Binding = uint32(len(b.entries))
	switch b.stage {
	case shaderpack.StageVertex:
		e.Visibility = gputypes.ShaderStageVertex
	case shaderpack.StageFragment:
		e.Visibility = gputypes.ShaderStageFragment
	default:
		e.Visibility = gputypes.ShaderStageCompute
	}
	b.entries = append(b.entries, e)
}

// sampled adds n texture and sampler pairs.
func (b *layoutBuilder) sampled(n uint32) {
	for range n {
		b.add(gputypes.BindGroupLayoutEntry{
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		})
		b.add(gputypes.BindGroupLayoutEntry{
			Sampler: &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		})
	}
}

// readOnlyTextures adds n textures read without a sampler.
func (b *layoutBuilder) readOnlyTextures(n uint32) {
	for range n {
		b.add(gputypes.BindGroupLayoutEntry{
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		})
	}
}

func (b *layoutBuilder) storageTextures(n uint32) {
	for range n {
		b.add(gputypes.BindGroupLayoutEntry{
			StorageTexture: &gputypes.StorageTextureBindingLayout{
				Access:        gputypes.StorageTextureAccessReadWrite,
				Format:        gputypes.TextureFormatRGBA8Unorm,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		})
	}
}

func (b *layoutBuilder) buffers(n uint32, t gputypes.BufferBindingType) {
	for range n {
		b.add(gputypes.BindGroupLayoutEntry{
			Buffer: &gputypes.BufferBindingLayout{Type: t},
		})
	}
}

// GraphicsLayout returns the bind group layout entries of a vertex or
// fragment shader: resources in group 0, uniform buffers in group 1.
func GraphicsLayout(desc *loader.ShaderDescriptor) [][]gputypes.BindGroupLayoutEntry {
	resources := layoutBuilder{stage: desc.Stage}
	resources.sampled(desc.Samplers)
	resources.storageTextures(desc.StorageTextures)
	resources.buffers(desc.StorageBuffers, gputypes.BufferBindingTypeReadOnlyStorage)

	uniforms := layoutBuilder{stage: desc.Stage}
	uniforms.buffers(desc.UniformBuffers, gputypes.BufferBindingTypeUniform)

	return [][]gputypes.BindGroupLayoutEntry{resources.entries, uniforms.entries}
}

// ComputeLayout returns the bind group layout entries of a compute
// pipeline: read-only resources in group 0, read-write resources in
// group 1, uniform buffers in group 2.
func ComputeLayout(desc *loader.ComputePipelineDescriptor) [][]gputypes.BindGroupLayoutEntry {
	readOnly := layoutBuilder{stage: shaderpack.StageCompute}
	readOnly.sampled(desc.Samplers)
	readOnly.readOnlyTextures(desc.ReadOnlyStorageTextures)
	readOnly.buffers(desc.ReadOnlyStorageBuffers, gputypes.BufferBindingTypeReadOnlyStorage)

	readWrite := layoutBuilder{stage: shaderpack.StageCompute}
	readWrite.storageTextures(desc.ReadWriteStorageTextures)
	readWrite.buffers(desc.ReadWriteStorageBuffers, gputypes.BufferBindingTypeStorage)

	uniforms := layoutBuilder{stage: shaderpack.StageCompute}
	uniforms.buffers(desc.UniformBuffers, gputypes.BufferBindingTypeUniform)

	return [][]gputypes.BindGroupLayoutEntry{readOnly.entries, readWrite.entries, uniforms.entries}
}
