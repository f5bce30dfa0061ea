// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline execution, cache operations, and served
// HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The [prom] subpackage implements every hook with Prometheus metrics.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    h := prom.New(prometheus.DefaultRegisterer)
//	    observability.SetPipelineHooks(h)
//	    observability.SetCacheHooks(h)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLayoutStart(ctx, "sankey", nodeCount)
//	// ... compute layout ...
//	observability.Pipeline().OnLayoutComplete(ctx, "sankey", duration, err)
//
// [prom]: github.com/matzehuels/sankey/pkg/observability/prom
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the layout pipeline.
type PipelineHooks interface {
	// Parse events (decoding an input graph)
	OnParseStart(ctx context.Context, format string)
	OnParseComplete(ctx context.Context, format string, nodeCount int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, vizType string, nodeCount int)
	OnLayoutComplete(ctx context.Context, vizType string, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)

	// OnSuperseded records a relayout dropped in favour of a newer one.
	OnSuperseded(ctx context.Context)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
// keyType is "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server. route is the matched
// route pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                         {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)     {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}
func (NoopPipelineHooks) OnSuperseded(context.Context)                                       {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds one registered hook implementation. Hooks fire on every
// request and pipeline stage, so reads are a single atomic load.
type slot[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) get() T {
	if p := s.p.Load(); p != nil {
		return *p
	}
	return s.noop
}

func (s *slot[T]) set(h T) {
	if any(h) != nil {
		s.p.Store(&h)
	}
}

var (
	pipelineHooks = slot[PipelineHooks]{noop: NoopPipelineHooks{}}
	cacheHooks    = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpHooks     = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetPipelineHooks registers pipeline hooks. Call it at startup, before
// any pipeline runs; nil is ignored.
func SetPipelineHooks(h PipelineHooks) { pipelineHooks.set(h) }

// SetCacheHooks registers cache hooks; nil is ignored.
func SetCacheHooks(h CacheHooks) { cacheHooks.set(h) }

// SetHTTPHooks registers HTTP hooks; nil is ignored.
func SetHTTPHooks(h HTTPHooks) { httpHooks.set(h) }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineHooks.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheHooks.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpHooks.get() }

// Reset restores the no-op hooks. Tests that register hooks defer it.
func Reset() {
	pipelineHooks.p.Store(nil)
	cacheHooks.p.Store(nil)
	httpHooks.p.Store(nil)
}
