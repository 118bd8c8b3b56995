package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/shaderpack"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [flags] <blob>...",
		Short: "Print the header, resources and variants of blobs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runInspect,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

// blobSummary is the JSON form of an inspected blob.
type blobSummary struct {
	Path       string           `json:"path"`
	Size       int              `json:"size"`
	Stage      shaderpack.Stage `json:"stage"`
	EntryPoint string           `json:"entry_point"`
	Formats    []string         `json:"formats"`
	Resources  resourceSummary  `json:"resources"`
	Variants   []variantSummary `json:"variants"`
}

type resourceSummary struct {
	Samplers                uint32     `json:"samplers"`
	UniformBuffers          uint32     `json:"uniform_buffers"`
	StorageBuffers          uint32     `json:"storage_buffers"`
	StorageTextures         uint32     `json:"storage_textures"`
	ReadOnlyStorageBuffers  uint32     `json:"readonly_storage_buffers,omitempty"`
	ReadOnlyStorageTextures uint32     `json:"readonly_storage_textures,omitempty"`
	ThreadCount             *[3]uint32 `json:"thread_count,omitempty"`
}

type variantSummary struct {
	Format     shaderpack.Format `json:"format"`
	Size       int               `json:"size"`
	SHA256     string            `json:"sha256"`
	EntryPoint string            `json:"entry_point"`
}

func summarize(path string, size int, b *shaderpack.Blob) blobSummary {
	s := blobSummary{
		Path:       path,
		Size:       size,
		Stage:      b.Stage,
		EntryPoint: b.EntryPoint,
		Formats:    []string{},
		Variants:   make([]variantSummary, 0, len(b.Variants)),
	}
	for _, f := range b.Formats.Formats() {
		s.Formats = append(s.Formats, f.String())
	}

	common := b.Resources.Common()
	s.Resources = resourceSummary{
		Samplers:        common.Samplers,
		UniformBuffers:  common.UniformBuffers,
		StorageBuffers:  common.StorageBuffers,
		StorageTextures: common.StorageTextures,
	}
	if cr, ok := b.Resources.(shaderpack.ComputeResources); ok {
		tc := cr.ThreadCount()
		s.Resources.ReadOnlyStorageBuffers = cr.ReadOnlyStorageBuffers
		s.Resources.ReadOnlyStorageTextures = cr.ReadOnlyStorageTextures
		s.Resources.ThreadCount = &tc
	}

	for _, v := range b.Variants {
		sum := sha256.Sum256(v.Code)
		entry := b.EntryPoint
		if v.Format == shaderpack.FormatMSL {
			entry = shaderpack.MetalEntryPoint(entry)
		}
		s.Variants = append(s.Variants, variantSummary{
			Format:     v.Format,
			Size:       len(v.Code),
			SHA256:     hex.EncodeToString(sum[:8]),
			EntryPoint: entry,
		})
	}
	return s
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	summaries := make([]blobSummary, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		b, err := shaderpack.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		summaries = append(summaries, summarize(path, len(data), b))
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}
	for i, s := range summaries {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printSummary(out, s)
	}
	return nil
}

func printSummary(out io.Writer, s blobSummary) {
	fmt.Fprintf(out, "%s (%d bytes)\n", headingColor.Sprint(s.Path), s.Size)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  stage\t%s\n", s.Stage)
	fmt.Fprintf(tw, "  entry point\t%s\n", s.EntryPoint)
	fmt.Fprintf(tw, "  samplers\t%d\n", s.Resources.Samplers)
	fmt.Fprintf(tw, "  uniform buffers\t%d\n", s.Resources.UniformBuffers)
	if s.Resources.ThreadCount == nil {
		fmt.Fprintf(tw, "  storage buffers\t%d\n", s.Resources.StorageBuffers)
		fmt.Fprintf(tw, "  storage textures\t%d\n", s.Resources.StorageTextures)
	} else {
		tc := s.Resources.ThreadCount
		fmt.Fprintf(tw, "  storage buffers\t%d read-write, %d read-only\n", s.Resources.StorageBuffers, s.Resources.ReadOnlyStorageBuffers)
		fmt.Fprintf(tw, "  storage textures\t%d read-write, %d read-only\n", s.Resources.StorageTextures, s.Resources.ReadOnlyStorageTextures)
		fmt.Fprintf(tw, "  thread count\t%d x %d x %d\n", tc[0], tc[1], tc[2])
	}
	_ = tw.Flush()

	fmt.Fprintf(out, "  %s\n", headingColor.Sprint("variants"))
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, v := range s.Variants {
		fmt.Fprintf(tw, "    %s\t%d bytes\t%s\t%s\n", v.Format, v.Size, v.EntryPoint, v.SHA256)
	}
	_ = tw.Flush()
}
