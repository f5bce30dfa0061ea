package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/observability/prom"
	"github.com/matzehuels/sankey/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Endpoints:
  GET  /healthz               liveness
  GET  /metrics               Prometheus metrics
  POST /v1/layout             {"graph": {...}, "options": {...}} → layout JSON
  POST /v1/render?format=svg  same body → svg, json, png or pdf

Defaults for layout and render options come from the config file; request
options override them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom.New(reg).Register()
	defer observability.Reset()

	srv := server.New(runner, server.Options{
		Config:   c.Config.Server,
		Defaults: c.Config.PipelineOptions(),
		Logger:   c.Logger,
		Gatherer: reg,
	})

	printInfo("Serving on %s", StyleHighlight.Render(srv.Addr()))
	printDetail("Cache: %s", c.cacheBackend(noCache))
	return srv.ListenAndServe(ctx)
}

func (c *CLI) cacheBackend(noCache bool) string {
	if noCache {
		return "none"
	}
	return c.Config.Cache.Backend
}
