package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/build"
	"github.com/gogpu/shaderpack/gpu"
	"github.com/gogpu/shaderpack/loader"
)

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [flags] <blob|folder/>...",
		Short: "Create device objects from blobs",
		Long: `Load blobs the way an application would and report the variant chosen
for each one.

With --backend the blobs are created on a real device. With --formats no
device is opened: a virtual device accepting those formats reports which
variant would be selected.`,
		Example: `  shaderpack load --backend vulkan shaders/bin/
  shaderpack load --formats msl,spirv shaders/bin/blit.vert.bin`,
		Args: cobra.MinimumNArgs(1),
		RunE: runLoad,
	}
	cmd.Flags().String("backend", "", "HAL backend to open (vulkan)")
	cmd.Flags().String("formats", "", "formats of a virtual device, instead of a backend")
	return cmd
}

func runLoad(cmd *cobra.Command, args []string) error {
	backendName, _ := cmd.Flags().GetString("backend")
	formatList, _ := cmd.Flags().GetString("formats")
	if backendName != "" && formatList != "" {
		return errors.New("--backend and --formats are mutually exclusive")
	}

	var dev loader.Device
	if formatList != "" {
		formats, err := shaderpack.ParseFormatMask(formatList)
		if err != nil {
			return err
		}
		dev = probeDevice{formats: formats}
	} else {
		b, err := gpu.ParseBackend(backendName)
		if err != nil {
			return err
		}
		session, err := gpu.Open(b)
		if err != nil {
			return err
		}
		defer session.Close()
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", headingColor.Sprint("adapter:"), session.Adapter)
		dev = session
	}

	paths, err := blobPaths(args)
	if err != nil {
		return err
	}
	failed := loadAll(cmd.OutOrStdout(), cmd.ErrOrStderr(), loader.New(dev, 0), paths)
	if failed > 0 {
		return fmt.Errorf("%d blob(s) failed to load", failed)
	}
	return nil
}

// loadAll creates and destroys the device object of every blob and returns
// the number of failures.
func loadAll(out, errOut io.Writer, l *loader.Loader, paths []string) int {
	failed := 0
	supported := l.Device().SupportedFormats()
	for _, path := range paths {
		b, err := l.Blob(path)
		if err != nil {
			printError(errOut, fmt.Errorf("%s: %w", path, err))
			failed++
			continue
		}
		v, err := loader.SelectVariant(b, supported)
		if err != nil {
			printError(errOut, fmt.Errorf("%s: %w", path, err))
			failed++
			continue
		}

		if b.Stage == shaderpack.StageCompute {
			var p loader.ComputePipeline
			p, err = l.LoadComputePipeline(path)
			if err == nil {
				p.Destroy()
			}
		} else {
			var s loader.Shader
			s, err = l.LoadShader(path)
			if err == nil {
				s.Destroy()
			}
		}
		if err != nil {
			printError(errOut, fmt.Errorf("%s: %w", path, err))
			failed++
			continue
		}
		fmt.Fprintf(out, "%s %s %s (%s, %d bytes)\n", okColor.Sprint("loaded"), path, b.Stage, v.Format, len(v.Code))
	}
	return failed
}

// blobPaths expands folder arguments into the regular files they contain.
func blobPaths(args []string) ([]string, error) {
	var paths []string
	for _, a := range args {
		if !build.IsFolder(a) {
			paths = append(paths, a)
			continue
		}
		entries, err := os.ReadDir(a)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Type().IsRegular() {
				paths = append(paths, filepath.Join(a, e.Name()))
			}
		}
	}
	return paths, nil
}

// probeDevice accepts every create call for its formats without touching
// a GPU.
type probeDevice struct {
	formats shaderpack.FormatMask
}

type probeObject struct{}

func (probeObject) Destroy() {}

func (d probeDevice) SupportedFormats() shaderpack.FormatMask { return d.formats }

func (probeDevice) CreateShader(*loader.ShaderDescriptor) (loader.Shader, error) {
	return probeObject{}, nil
}

func (probeDevice) CreateComputePipeline(*loader.ComputePipelineDescriptor) (loader.ComputePipeline, error) {
	return probeObject{}, nil
}
