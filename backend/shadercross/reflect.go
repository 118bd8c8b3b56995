package shadercross

import (
	"encoding/json"
	"fmt"

	"github.com/gogpu/shaderpack"
)

// graphicsReflection is the JSON shadercross prints for vertex and
// fragment shaders.
type graphicsReflection struct {
	Samplers        uint32 `json:"samplers"`
	UniformBuffers  uint32 `json:"uniform_buffers"`
	StorageBuffers  uint32 `json:"storage_buffers"`
	StorageTextures uint32 `json:"storage_textures"`
}

// computeReflection is the JSON shadercross prints for compute shaders.
type computeReflection struct {
	Samplers                 uint32 `json:"samplers"`
	ReadOnlyStorageTextures  uint32 `json:"readonly_storage_textures"`
	ReadOnlyStorageBuffers   uint32 `json:"readonly_storage_buffers"`
	ReadWriteStorageTextures uint32 `json:"readwrite_storage_textures"`
	ReadWriteStorageBuffers  uint32 `json:"readwrite_storage_buffers"`
	UniformBuffers           uint32 `json:"uniform_buffers"`
	ThreadCountX             uint32 `json:"threadcount_x"`
	ThreadCountY             uint32 `json:"threadcount_y"`
	ThreadCountZ             uint32 `json:"threadcount_z"`
}

func parseReflection(data []byte, stage shaderpack.Stage) (shaderpack.Resources, error) {
	if stage == shaderpack.StageCompute {
		var r computeReflection
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("shadercross: reflection: %w", err)
		}
		return shaderpack.ComputeResources{
			Samplers:                 r.Samplers,
			UniformBuffers:           r.UniformBuffers,
			ReadWriteStorageBuffers:  r.ReadWriteStorageBuffers,
			ReadWriteStorageTextures: r.ReadWriteStorageTextures,
			ReadOnlyStorageBuffers:   r.ReadOnlyStorageBuffers,
			ReadOnlyStorageTextures:  r.ReadOnlyStorageTextures,
			ThreadCountX:             r.ThreadCountX,
			ThreadCountY:             r.ThreadCountY,
			ThreadCountZ:             r.ThreadCountZ,
		}, nil
	}

	var r graphicsReflection
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("shadercross: reflection: %w", err)
	}
	return shaderpack.GraphicsResources(r), nil
}
