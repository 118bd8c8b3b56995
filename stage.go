package shaderpack

import (
	"fmt"
	"strings"
)

// Stage identifies the pipeline stage a blob was compiled for.
//
// The numeric values are part of the container format and must not change.
type Stage uint32

const (
	// StageVertex is a vertex shader.
	StageVertex Stage = 0
	// StageFragment is a fragment (pixel) shader.
	StageFragment Stage = 1
	// StageCompute is a compute shader. Compute blobs carry ComputeResources.
	StageCompute Stage = 2
)

// String returns the lower-case stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return fmt.Sprintf("Stage(%d)", uint32(s))
	}
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	return s <= StageCompute
}

// IsGraphics reports whether s is a vertex or fragment stage.
func (s Stage) IsGraphics() bool {
	return s == StageVertex || s == StageFragment
}

// ParseStage parses a stage name. Both long and short forms are accepted
// ("vertex"/"vert", "fragment"/"frag", "compute"/"comp").
func ParseStage(name string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "vertex", "vert", "v":
		return StageVertex, nil
	case "fragment", "frag", "f", "pixel":
		return StageFragment, nil
	case "compute", "comp", "c":
		return StageCompute, nil
	default:
		return 0, fmt.Errorf("shaderpack: unknown stage %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("shaderpack: cannot marshal %v", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(text []byte) error {
	v, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
