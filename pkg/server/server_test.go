package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/config"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/observability/prom"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// setupTestServer creates a server backed by a file cache in a temp dir.
func setupTestServer(t *testing.T, cfg config.Server) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	runner := pipeline.NewRunner(c, nil, nil)
	t.Cleanup(func() { runner.Close() })
	return New(runner, Options{Config: cfg, Gatherer: prometheus.NewRegistry()})
}

func chainRequest(opts pipeline.Options) LayoutRequest {
	return LayoutRequest{
		Graph: graph.Graph{
			Nodes: []graph.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}},
			Links: []graph.Link{{Source: "A", Target: "B", Value: 10}, {Source: "B", Target: "C", Value: 10}},
		},
		Options: opts,
	}
}

func post(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		if raw, err = json.Marshal(b); err != nil {
			t.Fatalf("Failed to marshal request: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body %q does not decode: %v", rr.Body.String(), err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t, config.Server{})
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Build.Version == "" || resp.Build.GoVersion == "" {
		t.Errorf("health = %+v", resp)
	}
}

func TestLayout(t *testing.T) {
	s := setupTestServer(t, config.Server{})
	rr := post(t, s, "/v1/layout", chainRequest(pipeline.Options{Width: 300, Height: 200}))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := rr.Header().Get(HeaderCache); got != "miss" {
		t.Errorf("%s = %q, want miss", HeaderCache, got)
	}

	l, err := graph.UnmarshalLayout(rr.Body.Bytes())
	if err != nil {
		t.Fatalf("layout does not decode: %v", err)
	}
	if l.Width != 300 || l.Height != 200 {
		t.Errorf("frame = %vx%v, want 300x200", l.Width, l.Height)
	}
	if len(l.Nodes) != 3 || len(l.Links) != 2 {
		t.Errorf("layout has %d nodes / %d links, want 3/2", len(l.Nodes), len(l.Links))
	}

	again := post(t, s, "/v1/layout", chainRequest(pipeline.Options{Width: 300, Height: 200}))
	if got := again.Header().Get(HeaderCache); got != "hit" {
		t.Errorf("second request %s = %q, want hit", HeaderCache, got)
	}
	if again.Body.String() != rr.Body.String() {
		t.Error("cached layout differs from the computed one")
	}
}

func TestLayoutDefaults(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := New(pipeline.NewRunner(c, nil, nil), Options{
		Defaults: pipeline.Options{Width: 640, Height: 480, Align: "justify"},
		Gatherer: prometheus.NewRegistry(),
	})

	rr := post(t, s, "/v1/layout", chainRequest(pipeline.Options{Height: 240}))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	l, err := graph.UnmarshalLayout(rr.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if l.Width != 640 || l.Height != 240 {
		t.Errorf("frame = %vx%v, want configured width and requested height", l.Width, l.Height)
	}
}

func TestLayoutExplicitZeroMargin(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, nil), Options{
		Defaults: pipeline.Options{Margin: pipeline.Ptr(25.0)},
		Gatherer: prometheus.NewRegistry(),
	})

	rr := post(t, s, "/v1/layout", chainRequest(pipeline.Options{Width: 300, Height: 200, Margin: pipeline.Ptr(0.0)}))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	l, err := graph.UnmarshalLayout(rr.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if l.Margin != 0 || l.Nodes[0].X0 != 0 {
		t.Errorf("margin = %v, first node x = %v, want the requested zero margin", l.Margin, l.Nodes[0].X0)
	}
}

func TestLayoutErrors(t *testing.T) {
	s := setupTestServer(t, config.Server{})

	cyclic := LayoutRequest{Graph: graph.Graph{
		Nodes: []graph.Node{{ID: "A"}, {ID: "B"}},
		Links: []graph.Link{{Source: "A", Target: "B", Value: 1}, {Source: "B", Target: "A", Value: 1}},
	}}
	badRef := LayoutRequest{Graph: graph.Graph{
		Nodes: []graph.Node{{ID: "A"}},
		Links: []graph.Link{{Source: "A", Target: "Z", Value: 1}},
	}}
	selfLoop := LayoutRequest{Graph: graph.Graph{
		Nodes: []graph.Node{{ID: "A"}},
		Links: []graph.Link{{Source: "A", Target: "A", Value: 1}},
	}}

	tests := []struct {
		name     string
		body     any
		wantCode int
		wantErr  errors.Code
	}{
		{"malformed json", `{"graph":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"graph":{"nodes":[{"id":"A"}]},"extra":1}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing nodes", `{"graph":{}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"invalid reference", badRef, http.StatusBadRequest, errors.ErrCodeInvalidReference},
		{"self loop", selfLoop, http.StatusBadRequest, errors.ErrCodeSelfLoop},
		{"cycle", cyclic, http.StatusUnprocessableEntity, errors.ErrCodeCyclicGraph},
		{"bad align", chainRequest(pipeline.Options{Align: "diagonal"}), http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad viz type", chainRequest(pipeline.Options{VizType: "pie"}), http.StatusBadRequest, errors.ErrCodeInvalidVizType},
		{"negative width", chainRequest(pipeline.Options{Width: -5}), http.StatusUnprocessableEntity, errors.ErrCodeDegenerateCanvas},
		{"huge width", chainRequest(pipeline.Options{Width: 1e9}), http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, s, "/v1/layout", tt.body)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantCode, rr.Body.String())
			}
			resp := decodeError(t, rr)
			if resp.Code != tt.wantErr {
				t.Errorf("code = %s, want %s", resp.Code, tt.wantErr)
			}
			if resp.Message == "" {
				t.Error("empty error message")
			}
			if resp.RequestID == "" || resp.RequestID != rr.Header().Get(HeaderRequestID) {
				t.Errorf("request_id = %q, header %q", resp.RequestID, rr.Header().Get(HeaderRequestID))
			}
		})
	}
}

func TestCycleBreakOption(t *testing.T) {
	s := setupTestServer(t, config.Server{})
	req := LayoutRequest{
		Graph: graph.Graph{
			Nodes: []graph.Node{{ID: "A"}, {ID: "B"}},
			Links: []graph.Link{{Source: "A", Target: "B", Value: 1}, {Source: "B", Target: "A", Value: 1}},
		},
		Options: pipeline.Options{Cycles: "break"},
	}
	if rr := post(t, s, "/v1/layout", req); rr.Code != http.StatusOK {
		t.Errorf("status = %d, body %s", rr.Code, rr.Body.String())
	}
}

func TestRender(t *testing.T) {
	s := setupTestServer(t, config.Server{})

	tests := []struct {
		name        string
		path        string
		contentType string
		contains    string
	}{
		{"default svg", "/v1/render", "image/svg+xml", "<svg"},
		{"svg", "/v1/render?format=svg", "image/svg+xml", `class="links"`},
		{"json", "/v1/render?format=json", "application/json", `"nodes"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, s, tt.path, chainRequest(pipeline.Options{Style: "ribbon"}))
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
			}
			if ct := rr.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if !strings.Contains(rr.Body.String(), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestRenderCache(t *testing.T) {
	s := setupTestServer(t, config.Server{})
	first := post(t, s, "/v1/render?format=svg", chainRequest(pipeline.Options{}))
	second := post(t, s, "/v1/render?format=svg", chainRequest(pipeline.Options{}))

	if first.Header().Get(HeaderCache) != "miss" || second.Header().Get(HeaderCache) != "hit" {
		t.Errorf("cache headers = %q, %q, want miss, hit",
			first.Header().Get(HeaderCache), second.Header().Get(HeaderCache))
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached svg differs")
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	s := setupTestServer(t, config.Server{})
	rr := post(t, s, "/v1/render?format=bmp", chainRequest(pipeline.Options{}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if resp := decodeError(t, rr); resp.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("code = %s, want %s", resp.Code, errors.ErrCodeInvalidFormat)
	}
}

func TestRequestID(t *testing.T) {
	s := setupTestServer(t, config.Server{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if got := rr.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("echoed request ID = %q, want abc-123", got)
	}

	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if _, err := uuid.Parse(rr.Header().Get(HeaderRequestID)); err != nil {
		t.Errorf("generated request ID %q is not a UUID: %v", rr.Header().Get(HeaderRequestID), err)
	}
}

func TestBodyTooLarge(t *testing.T) {
	s := setupTestServer(t, config.Server{MaxBodyBytes: 16})
	rr := post(t, s, "/v1/layout", chainRequest(pipeline.Options{}))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestRouting(t *testing.T) {
	s := setupTestServer(t, config.Server{})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodGet, "/v1/layout", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/healthz", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
		if rr.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rr.Code, tt.want)
		}
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom.New(reg).Register()
	defer observability.Reset()

	s := New(pipeline.NewRunner(nil, nil, nil), Options{Gatherer: reg})
	if rr := post(t, s, "/v1/layout", chainRequest(pipeline.Options{})); rr.Code != http.StatusOK {
		t.Fatalf("layout status = %d", rr.Code)
	}

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{
		"sankey_http_requests_total",
		`route="/v1/layout"`,
		"sankey_pipeline_stage_total",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}

func TestCoalesce(t *testing.T) {
	s := setupTestServer(t, config.Server{})

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	fn := func(context.Context) (artifact, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return artifact{data: []byte("done")}, nil
	}

	var wg sync.WaitGroup
	results := make([]string, 3)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := s.coalesce(context.Background(), "k", fn)
			if err != nil {
				t.Errorf("coalesce() error: %v", err)
				return
			}
			results[i] = string(a.data)
		}()
		if i == 0 {
			<-started
		}
	}
	// Give the followers time to join the in-flight call.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("fn ran %d times, want 1", n)
	}
	for i, r := range results {
		if r != "done" {
			t.Errorf("result[%d] = %q, want done", i, r)
		}
	}
}

func TestCoalesceCallerCancelled(t *testing.T) {
	s := setupTestServer(t, config.Server{})

	release := make(chan struct{})
	defer close(release)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.coalesce(ctx, "k", func(context.Context) (artifact, error) {
		<-release
		return artifact{}, nil
	})
	if err != context.Canceled {
		t.Errorf("coalesce() error = %v, want context.Canceled", err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidStyle, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeDegenerateCanvas, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeSuperseded, "x"), http.StatusConflict},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
