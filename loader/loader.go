package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/shaderpack"
)

// SelectVariant returns the first variant of b, in stored order, whose
// format is in supported.
func SelectVariant(b *shaderpack.Blob, supported shaderpack.FormatMask) (shaderpack.Variant, error) {
	v, ok := b.Select(supported)
	if !ok {
		return shaderpack.Variant{}, fmt.Errorf("%w: blob has %s, device supports %s",
			ErrNoMatchingVariant, b.Formats, supported)
	}
	return v, nil
}

// LoadShader decodes a vertex or fragment blob and creates its shader.
func LoadShader(dev Device, data []byte) (Shader, error) {
	b, err := shaderpack.Decode(data)
	if err != nil {
		return nil, err
	}
	return CreateShader(dev, b)
}

// LoadShaderFile reads and loads the blob at path.
func LoadShaderFile(dev Device, path string) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadShader(dev, data)
}

// LoadShaderFrom reads a blob from r until EOF and loads it.
func LoadShaderFrom(dev Device, r io.Reader) (Shader, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return LoadShader(dev, data)
}

// CreateShader creates the shader for an already decoded blob.
func CreateShader(dev Device, b *shaderpack.Blob) (Shader, error) {
	if !b.Stage.IsGraphics() {
		return nil, fmt.Errorf("%w: %s blob loaded as a shader", ErrStageMismatch, b.Stage)
	}
	v, err := SelectVariant(b, dev.SupportedFormats())
	if err != nil {
		return nil, err
	}
	desc := ShaderDescriptorFor(b, v)
	shaderpack.Logger().Debug("loader: selected variant",
		"stage", b.Stage.String(), "format", v.Format.String(), "entry", desc.EntryPoint, "bytes", len(v.Code))

	s, err := dev.CreateShader(desc)
	if err != nil {
		return nil, &CreationError{Stage: b.Stage, Format: v.Format, Err: err}
	}
	return s, nil
}

// LoadComputePipeline decodes a compute blob and creates its pipeline.
func LoadComputePipeline(dev Device, data []byte) (ComputePipeline, error) {
	b, err := shaderpack.Decode(data)
	if err != nil {
		return nil, err
	}
	return CreateComputePipeline(dev, b)
}

// LoadComputePipelineFile reads and loads the compute blob at path.
func LoadComputePipelineFile(dev Device, path string) (ComputePipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadComputePipeline(dev, data)
}

// LoadComputePipelineFrom reads a compute blob from r until EOF and loads it.
func LoadComputePipelineFrom(dev Device, r io.Reader) (ComputePipeline, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return LoadComputePipeline(dev, data)
}

// CreateComputePipeline creates the pipeline for an already decoded blob.
func CreateComputePipeline(dev Device, b *shaderpack.Blob) (ComputePipeline, error) {
	if b.Stage != shaderpack.StageCompute {
		return nil, fmt.Errorf("%w: %s blob loaded as a compute pipeline", ErrStageMismatch, b.Stage)
	}
	v, err := SelectVariant(b, dev.SupportedFormats())
	if err != nil {
		return nil, err
	}
	desc := ComputePipelineDescriptorFor(b, v)
	shaderpack.Logger().Debug("loader: selected variant",
		"stage", b.Stage.String(), "format", v.Format.String(), "entry", desc.EntryPoint, "bytes", len(v.Code),
		"threads", fmt.Sprintf("%dx%dx%d", desc.ThreadCountX, desc.ThreadCountY, desc.ThreadCountZ))

	p, err := dev.CreateComputePipeline(desc)
	if err != nil {
		return nil, &CreationError{Stage: b.Stage, Format: v.Format, Err: err}
	}
	return p, nil
}

func readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("loader: read blob: %w", err)
	}
	return buf.Bytes(), nil
}
