package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/backend"
	"github.com/gogpu/shaderpack/backend/shadercross"
	"github.com/gogpu/shaderpack/build"
)

const configFileName = "shaderpack.toml"

type projectConfig struct {
	// Path is the file the config was read from, empty for defaults.
	Path  string       `toml:"-"`
	Build buildSection `toml:"build"`
	Tools toolsSection `toml:"tools"`
}

type buildSection struct {
	Formats   []string `toml:"formats"`
	Entry     string   `toml:"entry"`
	Extension string   `toml:"extension"`
	Jobs      int      `toml:"jobs"`
	Toolchain string   `toml:"toolchain"`
	// Cache is the manifest path, relative to the config file. "off"
	// disables the manifest.
	Cache string `toml:"cache"`
}

type toolsSection struct {
	Glslc       string `toml:"glslc"`
	DXC         string `toml:"dxc"`
	ShaderCross string `toml:"shadercross"`
	Timeout     string `toml:"timeout"`
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return projectConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Build.Jobs < 0 {
		return projectConfig{}, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	cfg.Path = path
	return cfg, nil
}

// resolveConfig loads the file named by --config, or the nearest
// shaderpack.toml, or returns the defaults.
func resolveConfig(explicit string) (projectConfig, error) {
	if explicit != "" {
		return loadConfig(explicit)
	}
	path, ok, err := findConfig(".")
	if err != nil || !ok {
		return projectConfig{}, err
	}
	return loadConfig(path)
}

func (c projectConfig) formats() (shaderpack.FormatMask, error) {
	if len(c.Build.Formats) == 0 {
		return 0, nil
	}
	return shaderpack.ParseFormatMask(strings.Join(c.Build.Formats, ","))
}

func (c projectConfig) tools() (shadercross.Tools, error) {
	tools := shadercross.Tools{
		Glslc:       c.resolvePath(c.Tools.Glslc),
		DXC:         c.resolvePath(c.Tools.DXC),
		ShaderCross: c.resolvePath(c.Tools.ShaderCross),
	}
	if c.Tools.Timeout != "" {
		d, err := time.ParseDuration(c.Tools.Timeout)
		if err != nil {
			return tools, fmt.Errorf("%s: [tools].timeout: %w", c.Path, err)
		}
		tools.Timeout = d
	}
	return tools, nil
}

// manifestPath returns the manifest location, or "" when disabled. The
// default manifest sits next to the config file.
func (c projectConfig) manifestPath() string {
	switch c.Build.Cache {
	case "off":
		return ""
	case "":
		if c.Path != "" {
			return filepath.Join(filepath.Dir(c.Path), build.DefaultManifestName)
		}
		return build.DefaultManifestName
	default:
		return c.resolvePath(c.Build.Cache)
	}
}

// resolvePath makes relative paths that contain a separator relative to
// the config file. Bare tool names are left for PATH lookup.
func (c projectConfig) resolvePath(p string) string {
	if p == "" || c.Path == "" || filepath.IsAbs(p) || !strings.ContainsAny(p, `/\`) {
		return p
	}
	return filepath.Join(filepath.Dir(c.Path), p)
}

// registerTools replaces the registered shadercross toolchain with one
// using the configured executables.
func (c projectConfig) registerTools() error {
	if c.Tools == (toolsSection{}) {
		return nil
	}
	tools, err := c.tools()
	if err != nil {
		return err
	}
	backend.Register(backend.NameShaderCross, func() backend.Toolchain {
		return shadercross.New(tools, nil)
	})
	return nil
}
