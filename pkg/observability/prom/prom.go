// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/observability"
)

const namespace = "sankey"

// Hooks records pipeline, cache and HTTP events as Prometheus metrics.
// One value satisfies all three hook interfaces.
type Hooks struct {
	StageTotal    *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	LayoutNodes   prometheus.Histogram
	Superseded    prometheus.Counter
	CacheOps      *prometheus.CounterVec
	CacheBytes    *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	HTTPInFlight  prometheus.Gauge
}

// New registers the metrics on reg.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		StageTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_stage_total",
				Help:      "Pipeline stage executions by outcome",
			},
			[]string{"stage", "status"},
		),
		StageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_stage_duration_seconds",
				Help:      "Pipeline stage latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		LayoutNodes: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "layout_nodes",
				Help:      "Number of nodes per computed layout",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000},
			},
		),
		Superseded: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "relayout_superseded_total",
				Help:      "Relayout requests dropped in favour of a newer request",
			},
		),
		CacheOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_operations_total",
				Help:      "Cache lookups and writes",
			},
			[]string{"kind", "op"},
		),
		CacheBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_written_bytes_total",
				Help:      "Bytes written to the cache",
			},
			[]string{"kind"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
	}
}

// status labels an outcome by error code, "ok" on success.
func status(err error) string {
	if err == nil {
		return "ok"
	}
	return string(errors.GetCode(errors.Classify(err)))
}

func (h *Hooks) complete(stage string, d time.Duration, err error) {
	h.StageTotal.WithLabelValues(stage, status(err)).Inc()
	h.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (h *Hooks) OnParseStart(context.Context, string) {}

func (h *Hooks) OnParseComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	h.complete("parse", d, err)
}

func (h *Hooks) OnLayoutStart(_ context.Context, _ string, nodeCount int) {
	h.LayoutNodes.Observe(float64(nodeCount))
}

func (h *Hooks) OnLayoutComplete(_ context.Context, _ string, d time.Duration, err error) {
	h.complete("layout", d, err)
}

func (h *Hooks) OnRenderStart(context.Context, []string) {}

func (h *Hooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.complete("render", d, err)
}

func (h *Hooks) OnSuperseded(context.Context) { h.Superseded.Inc() }

func (h *Hooks) OnCacheHit(_ context.Context, kind string) {
	h.CacheOps.WithLabelValues(kind, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, kind string) {
	h.CacheOps.WithLabelValues(kind, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.CacheOps.WithLabelValues(kind, "set").Inc()
	h.CacheBytes.WithLabelValues(kind).Add(float64(size))
}

func (h *Hooks) OnRequest(context.Context, string, string) { h.HTTPInFlight.Inc() }

func (h *Hooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.HTTPInFlight.Dec()
	h.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Register installs h as the pipeline, cache and HTTP hooks.
func (h *Hooks) Register() {
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
)
