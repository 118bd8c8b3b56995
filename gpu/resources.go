package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderpack"
)

// resources owns the HAL objects created for one blob.
type resources struct {
	device         hal.Device
	module         hal.ShaderModule
	bindLayouts    []hal.BindGroupLayout
	pipelineLayout hal.PipelineLayout
	pipeline       hal.ComputePipeline
	destroyed      bool
}

func (r *resources) createLayouts(groups [][]gputypes.BindGroupLayoutEntry, label string) error {
	for i, entries := range groups {
		layout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("shaderpack_%s_group%d", label, i),
			Entries: entries,
		})
		if err != nil {
			return fmt.Errorf("gpu: failed to create bind group layout %d: %w", i, err)
		}
		r.bindLayouts = append(r.bindLayouts, layout)
	}
	return nil
}

// Destroy cleans up all GPU resources in the correct order. Calling it
// again is a no-op.
func (r *resources) Destroy() {
	if r.device == nil || r.destroyed {
		return
	}
	r.destroyed = true

	if r.pipeline != nil {
		r.device.DestroyComputePipeline(r.pipeline)
	}
	if r.pipelineLayout != nil {
		r.device.DestroyPipelineLayout(r.pipelineLayout)
	}
	for _, l := range r.bindLayouts {
		if l != nil {
			r.device.DestroyBindGroupLayout(l)
		}
	}
	if r.module != nil {
		r.device.DestroyShaderModule(r.module)
	}
}

// Shader is a vertex or fragment shader module with its bind group
// layouts. Render pipelines are assembled by the caller.
type Shader struct {
	*resources
	Stage      shaderpack.Stage
	EntryPoint string
}

// Module returns the HAL shader module.
func (s *Shader) Module() hal.ShaderModule { return s.module }

// BindGroupLayouts returns the resource group and the uniform group.
func (s *Shader) BindGroupLayouts() []hal.BindGroupLayout { return s.bindLayouts }

// ComputePipeline is a compute pipeline and the objects it was built from.
type ComputePipeline struct {
	*resources
	EntryPoint  string
	ThreadCount [3]uint32
}

// Pipeline returns the HAL compute pipeline.
func (p *ComputePipeline) Pipeline() hal.ComputePipeline { return p.pipeline }

// Layout returns the pipeline layout.
func (p *ComputePipeline) Layout() hal.PipelineLayout { return p.pipelineLayout }

// BindGroupLayouts returns the read-only, read-write and uniform groups.
func (p *ComputePipeline) BindGroupLayouts() []hal.BindGroupLayout { return p.bindLayouts }
