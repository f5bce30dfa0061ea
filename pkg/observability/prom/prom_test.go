package prom

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/observability"
)

func TestPipelineMetrics(t *testing.T) {
	h := New(prometheus.NewRegistry())
	ctx := context.Background()

	h.OnLayoutStart(ctx, "sankey", 16)
	h.OnLayoutComplete(ctx, "sankey", 10*time.Millisecond, nil)
	h.OnLayoutComplete(ctx, "sankey", time.Millisecond, flow.ErrCyclicGraph)
	h.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	h.OnSuperseded(ctx)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"layout ok", testutil.ToFloat64(h.StageTotal.WithLabelValues("layout", "ok")), 1},
		{"layout cyclic", testutil.ToFloat64(h.StageTotal.WithLabelValues("layout", string(errors.ErrCodeCyclicGraph))), 1},
		{"render ok", testutil.ToFloat64(h.StageTotal.WithLabelValues("render", "ok")), 1},
		{"superseded", testutil.ToFloat64(h.Superseded), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestCacheMetrics(t *testing.T) {
	h := New(prometheus.NewRegistry())
	ctx := context.Background()

	h.OnCacheMiss(ctx, "layout")
	h.OnCacheSet(ctx, "layout", 512)
	h.OnCacheHit(ctx, "layout")
	h.OnCacheHit(ctx, "layout")

	if got := testutil.ToFloat64(h.CacheOps.WithLabelValues("layout", "hit")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(h.CacheBytes.WithLabelValues("layout")); got != 512 {
		t.Errorf("bytes = %v, want 512", got)
	}
}

func TestHTTPMetrics(t *testing.T) {
	h := New(prometheus.NewRegistry())
	ctx := context.Background()

	h.OnRequest(ctx, "POST", "/v1/layout")
	if got := testutil.ToFloat64(h.HTTPInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	h.OnResponse(ctx, "POST", "/v1/layout", 422, time.Millisecond)

	if got := testutil.ToFloat64(h.HTTPInFlight); got != 0 {
		t.Errorf("in flight after response = %v, want 0", got)
	}
	if got := testutil.ToFloat64(h.HTTPRequests.WithLabelValues("POST", "/v1/layout", "422")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestRegister(t *testing.T) {
	defer observability.Reset()

	h := New(prometheus.NewRegistry())
	h.Register()

	if observability.Pipeline() != observability.PipelineHooks(h) {
		t.Error("Register should install pipeline hooks")
	}
	if observability.Cache() != observability.CacheHooks(h) {
		t.Error("Register should install cache hooks")
	}
}
