package build

import (
	"runtime"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/backend"
)

// Config holds the options of a batch build. The zero value builds every
// buildable format with entry point "main" and extension ".bin".
type Config struct {
	// Formats to build. Zero means shaderpack.AllBuildFormats.
	Formats shaderpack.FormatMask

	// EntryPoint of every source. Empty means "main".
	EntryPoint string

	// Extension appended to targets in output folders. Empty means ".bin".
	Extension string

	// Recompile rebuilds targets that are up to date.
	Recompile bool

	// Jobs bounds the number of files compiled at once. Zero or negative
	// means runtime.GOMAXPROCS(0).
	Jobs int
}

// DefaultConfig returns the zero Config with its defaults filled in.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Formats.Empty() {
		c.Formats = shaderpack.AllBuildFormats
	}
	if c.EntryPoint == "" {
		c.EntryPoint = backend.DefaultEntryPoint
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if c.Jobs <= 0 {
		c.Jobs = runtime.GOMAXPROCS(0)
	}
	return c
}
