package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// layoutCommand creates the layout command for computing sankey layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a sankey layout from a flow graph",
		Long: `Compute a sankey layout from a flow graph.

The layout command reads a graph file (JSON or YAML with "nodes" and "links")
and computes node rectangles and link paths. The output is a layout.json file
(same format as 'render -f json') that 'render' can turn into SVG/PNG/PDF.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], c.pipelineOptions(flags), output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "recompute even if cached")
	addLayoutFlags(cmd, &flags)

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	g, err := pipeline.ParseGraphFile(ctx, input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, fmt.Sprintf("Computing %s layout...", vizTypeOf(opts)))
	spinner.Start()

	layout, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done("Computed layout", "type", vizTypeOf(opts), "nodes", len(layout.Nodes), "cached", cacheHit)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = outputBase(input) + ".layout.json"
	}

	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.LinkCount(), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

func vizTypeOf(opts pipeline.Options) string {
	if opts.VizType == "" {
		return pipeline.DefaultVizType
	}
	return opts.VizType
}
