// Package cli implements the sankey command-line interface.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/buildinfo"
	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/config"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "sankey"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag; empty means the search path.
	ConfigPath string

	// Config is loaded before any subcommand runs.
	Config config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Sankey lays out and renders flow diagrams",
		Long: `Sankey computes sankey diagram layouts from flow graphs (nodes plus weighted
links) and renders them as SVG, PNG, PDF or JSON. It can also serve the same
pipeline over HTTP.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $"+config.EnvPath+" or ~/.config/sankey/"+config.FileName+")")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file selected by --config or the search path.
func (c *CLI) loadConfig() error {
	cfg, path, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	var (
		store cache.Cache = cache.NewNullCache()
		err   error
	)
	if !noCache {
		if store, err = c.Config.OpenCache(ctx); err != nil {
			return nil, err
		}
	}
	runner := pipeline.NewRunner(store, c.Config.Keyer(), loggerFromContext(ctx))
	runner.TTL = c.Config.Cache.TTL
	return runner, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: the configured dir, or the XDG
// default (~/.cache/sankey/).
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// outputBase strips the input extension, plus a ".layout" suffix left by
// the layout command.
func outputBase(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return strings.TrimSuffix(base, ".layout")
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions applies command-line flags over the config file options.
// Flags left at their zero value keep the configured value.
func (c *CLI) pipelineOptions(flags pipeline.Options) pipeline.Options {
	return c.Config.PipelineOptions().Overlay(flags)
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields nil so the configured formats apply.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// addLayoutFlags registers the layout option flags shared by several
// commands. Unset flags mean "use the config file or the default"; margin,
// padding and iterations also accept an explicit 0.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.StringVarP(&opts.VizType, "type", "t", "", "visualization type: sankey (default), nodelink")
	f.Float64Var(&opts.Width, "width", 0, "frame width in pixels (default 960)")
	f.Float64Var(&opts.Height, "height", 0, "frame height in pixels (default 520)")
	f.Var(floatFlag{&opts.Margin}, "margin", "gap between frame and drawing area (default 10)")
	f.Float64Var(&opts.NodeThickness, "node-width", 0, "node thickness in pixels (default 18)")
	f.Var(floatFlag{&opts.NodePadding}, "node-padding", "vertical gap between nodes (default 12)")
	f.Var(intFlag{&opts.Iterations}, "iterations", "relaxation passes (default 6)")
	f.StringVar(&opts.Align, "align", "", "node alignment: left (default), right, justify, center")
	f.StringVar(&opts.Cycles, "cycles", "", "cycle policy: reject (default), break")
	f.StringVar(&opts.Style, "style", "", "visual style: simple (default), ribbon")
	f.BoolVar(&opts.Detailed, "detailed", false, "show node metadata (nodelink)")
	registerValueCompletions(cmd)
}

// floatFlag and intFlag fill an optional pipeline field only when the flag
// is given, so "--margin 0" differs from no flag at all.
type floatFlag struct{ p **float64 }

func (f floatFlag) String() string {
	if *f.p == nil {
		return ""
	}
	return strconv.FormatFloat(**f.p, 'g', -1, 64)
}

func (f floatFlag) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f.p = &v
	return nil
}

func (f floatFlag) Type() string { return "float64" }

type intFlag struct{ p **int }

func (f intFlag) String() string {
	if *f.p == nil {
		return ""
	}
	return strconv.Itoa(**f.p)
}

func (f intFlag) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f.p = &v
	return nil
}

func (f intFlag) Type() string { return "int" }
