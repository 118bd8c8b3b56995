// Command shaderpack compiles shaders into multi-format blobs and inspects
// or test-loads the result.
//
//	shaderpack build -o shaders/bin/ shaders/
//	shaderpack inspect shaders/bin/blit.vert.bin
//	shaderpack load --backend vulkan shaders/bin/
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gogpu/shaderpack"
	_ "github.com/gogpu/shaderpack/backend/naga"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shaderpack",
		Short:         "Shader blob compiler and inspector",
		Long:          `shaderpack compiles GLSL, HLSL, WGSL and SPIR-V shaders into blobs holding SPIR-V, MSL, DXIL and DXBC variants.`,
		Version:       shaderpack.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupOutput(cmd)
		},
	}

	root.AddCommand(newBuildCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newLoadCmd())
	root.AddCommand(newVersionCmd())

	// Global flags
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("verbose", false, "log per-stage diagnostics to stderr")
	root.PersistentFlags().String("config", "", "path to shaderpack.toml (default: search from the working directory upward)")
	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// setupOutput configures color and the slog logger from global flags.
func setupOutput(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return err
	}
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", colorFlag)
	}

	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return err
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	shaderpack.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	okColor      = color.New(color.FgGreen)
	skippedColor = color.New(color.FgCyan)
	headingColor = color.New(color.Bold)
)

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorColor.Sprint("error:"), err)
}
