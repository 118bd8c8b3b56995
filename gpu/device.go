package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/loader"
)

// ErrUnsupportedFormat is returned when the device is asked to create a
// variant it cannot consume.
var ErrUnsupportedFormat = errors.New("gpu: unsupported shader format")

// Device implements loader.Device over a HAL device.
type Device struct {
	dev     hal.Device
	formats shaderpack.FormatMask
}

// NewDevice wraps dev. HAL shader modules are built from SPIR-V, so the
// device advertises SPIR-V only.
func NewDevice(dev hal.Device) *Device {
	return &Device{dev: dev, formats: shaderpack.MaskOf(shaderpack.FormatSPIRV)}
}

// HAL returns the wrapped device.
func (d *Device) HAL() hal.Device { return d.dev }

// SupportedFormats implements loader.Device.
func (d *Device) SupportedFormats() shaderpack.FormatMask { return d.formats }

// CreateShader implements loader.Device.
func (d *Device) CreateShader(desc *loader.ShaderDescriptor) (loader.Shader, error) {
	res := &resources{device: d.dev}
	module, err := d.createModule(desc.Format, desc.Code, desc.Stage.String()+":"+desc.EntryPoint)
	if err != nil {
		return nil, err
	}
	res.module = module

	if err := res.createLayouts(GraphicsLayout(desc), desc.Stage.String()); err != nil {
		res.Destroy()
		return nil, err
	}
	return &Shader{resources: res, Stage: desc.Stage, EntryPoint: desc.EntryPoint}, nil
}

// CreateComputePipeline implements loader.Device.
func (d *Device) CreateComputePipeline(desc *loader.ComputePipelineDescriptor) (loader.ComputePipeline, error) {
	res := &resources{device: d.dev}
	module, err := d.createModule(desc.Format, desc.Code, "compute:"+desc.EntryPoint)
	if err != nil {
		return nil, err
	}
	res.module = module

	if err := res.createLayouts(ComputeLayout(desc), "compute"); err != nil {
		res.Destroy()
		return nil, err
	}
	layout, err := d.dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "shaderpack_compute_layout",
		BindGroupLayouts: res.bindLayouts,
	})
	if err != nil {
		res.Destroy()
		return nil, fmt.Errorf("gpu: failed to create pipeline layout: %w", err)
	}
	res.pipelineLayout = layout

	pipeline, err := d.dev.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "shaderpack_compute:" + desc.EntryPoint,
		Layout: layout,
		Compute: hal.ComputeState{
			Module:     res.module,
			EntryPoint: desc.EntryPoint,
		},
	})
	if err != nil {
		res.Destroy()
		return nil, fmt.Errorf("gpu: failed to create compute pipeline: %w", err)
	}
	res.pipeline = pipeline

	return &ComputePipeline{
		resources:   res,
		EntryPoint:  desc.EntryPoint,
		ThreadCount: [3]uint32{desc.ThreadCountX, desc.ThreadCountY, desc.ThreadCountZ},
	}, nil
}

func (d *Device) createModule(format shaderpack.Format, code []byte, label string) (hal.ShaderModule, error) {
	if format != shaderpack.FormatSPIRV {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	words, err := SPIRVWords(code)
	if err != nil {
		return nil, err
	}
	module, err := d.dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: words,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: failed to create shader module: %w", err)
	}
	return module, nil
}
