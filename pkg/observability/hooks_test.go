package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "json")
	p.OnParseComplete(ctx, "json", 16, time.Second, nil)
	p.OnLayoutStart(ctx, "sankey", 16)
	p.OnLayoutComplete(ctx, "sankey", time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)
	p.OnSuperseded(ctx)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/layout")
	h.OnResponse(ctx, "POST", "/v1/layout", 200, time.Second)
}

// recorder counts the events it receives.
type recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks

	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) OnSuperseded(context.Context)             { r.add("superseded") }
func (r *recorder) OnCacheHit(_ context.Context, kind string) { r.add("hit:" + kind) }
func (r *recorder) OnRequest(_ context.Context, m, route string) {
	r.add(m + " " + route)
}

func TestRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should default to NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to NoopCacheHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should default to NoopHTTPHooks")
	}

	r := &recorder{}
	SetPipelineHooks(r)
	SetCacheHooks(r)
	SetHTTPHooks(r)

	ctx := context.Background()
	Pipeline().OnSuperseded(ctx)
	Cache().OnCacheHit(ctx, "layout")
	HTTP().OnRequest(ctx, "POST", "/v1/render")

	want := []string{"superseded", "hit:layout", "POST /v1/render"}
	if len(r.events) != len(want) {
		t.Fatalf("events = %v, want %v", r.events, want)
	}
	for i := range want {
		if r.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, r.events[i], want[i])
		}
	}

	Reset()
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	r := &recorder{}
	SetPipelineHooks(r)
	SetPipelineHooks(nil)

	if Pipeline() != r {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestConcurrentAccess(t *testing.T) {
	Reset()
	defer Reset()

	r := &recorder{}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				SetCacheHooks(r)
			}
			Cache().OnCacheHit(ctx, "artifact")
		}()
	}
	wg.Wait()

	if Cache() != r {
		t.Error("Cache() should return the registered recorder")
	}
}
