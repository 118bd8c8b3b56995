package shaderpack

// Resources describes the binding counts a pipeline resource needs.
// It is either GraphicsResources (vertex and fragment stages) or
// ComputeResources (compute stage). The counts come from reflection over
// the IR and are shared by every variant in a blob.
type Resources interface {
	// Common returns the prefix shared by both layouts. For compute
	// resources the storage counts are the read-write counts.
	Common() GraphicsResources

	compute() bool
}

// GraphicsResources holds the resource counts of a vertex or fragment shader.
type GraphicsResources struct {
	Samplers        uint32
	UniformBuffers  uint32
	StorageBuffers  uint32
	StorageTextures uint32
}

// Common returns r.
func (r GraphicsResources) Common() GraphicsResources { return r }

func (GraphicsResources) compute() bool { return false }

// ComputeResources holds the resource counts and workgroup size of a
// compute shader.
type ComputeResources struct {
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

// Common returns the shared prefix with read-write storage counts.
func (r ComputeResources) Common() GraphicsResources {
	return GraphicsResources{
		Samplers:        r.Samplers,
		UniformBuffers:  r.UniformBuffers,
		StorageBuffers:  r.ReadWriteStorageBuffers,
		StorageTextures: r.ReadWriteStorageTextures,
	}
}

// ThreadCount returns the workgroup dimensions as an array.
func (r ComputeResources) ThreadCount() [3]uint32 {
	return [3]uint32{r.ThreadCountX, r.ThreadCountY, r.ThreadCountZ}
}

func (ComputeResources) compute() bool { return true }

// resourcesMatchStage reports whether r has the layout stage requires.
func resourcesMatchStage(r Resources, stage Stage) bool {
	if r == nil {
		return false
	}
	return r.compute() == (stage == StageCompute)
}
