package naga

import (
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shaderpack"
)

// bindingCounts tallies bound globals by kind.
type bindingCounts struct {
	samplers        uint32
	textures        uint32
	uniformBuffers  uint32
	rwStorageBufs   uint32
	roStorageBufs   uint32
	rwStorageImages uint32
	roStorageImages uint32
}

// reflectResources counts the bound globals that ep reaches, directly or
// through the functions it calls. Globals used only by other entry points
// of the same module do not count.
//
// A sampled texture and its sampler occupy one combined slot, so the
// sampler count is the larger of the two.
func reflectResources(module *ir.Module, ep *ir.EntryPoint, stage shaderpack.Stage) shaderpack.Resources {
	var c bindingCounts
	used := usedGlobals(module, ep)
	for i := range module.GlobalVariables {
		gv := &module.GlobalVariables[i]
		if gv.Binding == nil || !used[i] {
			continue
		}
		inner, n := resolveBinding(module, gv.Type)

		switch gv.Space {
		case ir.SpaceUniform:
			c.uniformBuffers += n
		case ir.SpaceStorage:
			if gv.Access == ir.StorageRead {
				c.roStorageBufs += n
			} else {
				c.rwStorageBufs += n
			}
		case ir.SpaceHandle:
			switch t := inner.(type) {
			case ir.SamplerType:
				c.samplers += n
			case ir.ImageType:
				if t.Class != ir.ImageClassStorage {
					c.textures += n
				} else if t.StorageAccess == ir.StorageAccessRead {
					c.roStorageImages += n
				} else {
					c.rwStorageImages += n
				}
			}
		}
	}

	samplers := max(c.samplers, c.textures)
	if stage == shaderpack.StageCompute {
		return shaderpack.ComputeResources{
			Samplers:                 samplers,
			UniformBuffers:           c.uniformBuffers,
			ReadWriteStorageBuffers:  c.rwStorageBufs,
			ReadWriteStorageTextures: c.rwStorageImages,
			ReadOnlyStorageBuffers:   c.roStorageBufs,
			ReadOnlyStorageTextures:  c.roStorageImages,
			ThreadCountX:             ep.Workgroup[0],
			ThreadCountY:             ep.Workgroup[1],
			ThreadCountZ:             ep.Workgroup[2],
		}
	}
	return shaderpack.GraphicsResources{
		Samplers:        samplers,
		UniformBuffers:  c.uniformBuffers,
		StorageBuffers:  c.rwStorageBufs + c.roStorageBufs,
		StorageTextures: c.rwStorageImages + c.roStorageImages,
	}
}

// resolveBinding unwraps a binding array and returns the element type with
// the number of slots it occupies. Unbounded arrays count as one slot.
func resolveBinding(module *ir.Module, h ir.TypeHandle) (ir.TypeInner, uint32) {
	if int(h) >= len(module.Types) {
		return nil, 1
	}
	inner := module.Types[h].Inner
	arr, ok := inner.(ir.BindingArrayType)
	if !ok {
		return inner, 1
	}
	n := uint32(1)
	if arr.Size != nil && *arr.Size > 0 {
		n = *arr.Size
	}
	if int(arr.Base) >= len(module.Types) {
		return nil, n
	}
	return module.Types[arr.Base].Inner, n
}

// usedGlobals marks the globals referenced by ep's function and every
// function reachable from it.
func usedGlobals(module *ir.Module, ep *ir.EntryPoint) []bool {
	used := make([]bool, len(module.GlobalVariables))
	visited := make([]bool, len(module.Functions))

	var trace func(f *ir.Function)
	call := func(h ir.FunctionHandle) {
		if int(h) < len(module.Functions) && !visited[h] {
			visited[h] = true
			trace(&module.Functions[h])
		}
	}
	var walk func(stmts []ir.Statement)
	walk = func(stmts []ir.Statement) {
		for _, stmt := range stmts {
			switch s := stmt.Kind.(type) {
			case ir.StmtCall:
				call(s.Function)
			case ir.StmtBlock:
				walk(s.Block)
			case ir.StmtIf:
				walk(s.Accept)
				walk(s.Reject)
			case ir.StmtSwitch:
				for _, c := range s.Cases {
					walk(c.Body)
				}
			case ir.StmtLoop:
				walk(s.Body)
				walk(s.Continuing)
			}
		}
	}
	trace = func(f *ir.Function) {
		for _, expr := range f.Expressions {
			switch e := expr.Kind.(type) {
			case ir.ExprGlobalVariable:
				if int(e.Variable) < len(used) {
					used[e.Variable] = true
				}
			case ir.ExprCallResult:
				call(e.Function)
			}
		}
		walk(f.Body)
	}

	trace(&ep.Function)
	if ep.TaskPayload != nil && int(*ep.TaskPayload) < len(used) {
		used[*ep.TaskPayload] = true
	}
	return used
}
