package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/render"
)

// renderCommand creates the render command. It accepts either a graph file
// (layout + render) or a layout file produced by 'layout' (render only).
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		flags      pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json | graph.layout.json]",
		Short: "Render a flow graph or a computed layout",
		Long: `Render a flow graph or a computed layout.

Given a graph file, render computes the layout and draws it. Given a layout
file (from 'layout' or 'render -f json'), it only draws it; layout flags are
then ignored.

PNG and PDF output require rsvg-convert (librsvg) on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(flags.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], flags, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().Float64Var(&flags.Scale, "scale", 0, "PNG resolution multiplier (default 2)")
	cmd.Flags().StringVar(&flags.Background, "background", "", "background color (default transparent)")
	cmd.Flags().StringVar(&flags.NodeColor, "node-color", "", "node fill color (default #666)")
	cmd.Flags().StringVar(&flags.LinkColor, "link-color", "", "link color (default #999)")
	cmd.Flags().Var(floatFlag{&flags.LinkOpacity}, "link-opacity", "link opacity between 0 and 1 (default 0.35)")
	addLayoutFlags(cmd, &flags)

	return cmd
}

// runRender dispatches on the input kind.
func (c *CLI) runRender(ctx context.Context, input string, flags pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.pipelineOptions(flags)
	if graph.IsLayoutFile(input) {
		return c.renderLayout(ctx, runner, input, flags, opts, output)
	}
	return c.renderGraph(ctx, runner, input, opts, output)
}

// renderGraph runs the full pipeline on a graph file.
func (c *CLI) renderGraph(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options, output string) error {
	g, err := pipeline.ParseGraphFile(ctx, input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	spinner.Start()

	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		nodes:     result.Stats.NodeCount,
		links:     result.Stats.LinkCount,
		cacheHit:  result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
}

// renderLayout draws a precomputed layout. The layout decides the viz type,
// and its recorded style applies unless --style was given.
func (c *CLI) renderLayout(ctx context.Context, runner *pipeline.Runner, input string, flags, opts pipeline.Options, output string) error {
	layout, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	opts.VizType = layout.VizType
	if flags.Style == "" && layout.Style != "" {
		opts.Style = layout.Style
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", layout.VizType))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		nodes:     len(layout.Nodes),
		links:     len(layout.Links),
		cacheHit:  cacheHit,
	})
}

// =============================================================================
// Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	nodes     int
	links     int
	cacheHit  bool
}

// writeArtifacts writes each rendered format and prints a summary.
func writeArtifacts(p artifactWriteParams) error {
	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(p.output, p.input, format, len(p.formats))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Render complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.nodes, p.links, p.cacheHit)
	return nil
}

// artifactPath picks the output file for one format. A single format goes
// to --output verbatim; otherwise --output (minus a format extension) or
// the input name is the base. JSON gets a ".layout.json" suffix so it never
// overwrites a graph file.
func artifactPath(output, input, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	base := outputBase(input)
	if output != "" {
		base = output
		if ext := filepath.Ext(output); render.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
			base = strings.TrimSuffix(output, ext)
		}
	}
	if format == render.FormatJSON {
		return base + ".layout.json"
	}
	return base + "." + format
}
