package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/sankey/pkg/buildinfo"
	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/render"
)

// HeaderCache reports whether the response came from the pipeline cache.
const HeaderCache = "X-Cache"

// LayoutRequest is the body of /v1/layout and /v1/render.
type LayoutRequest struct {
	Graph   graph.Graph      `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// artifact is what coalesced requests share.
type artifact struct {
	data        []byte
	contentType string
	cached      bool
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	body, req, err := s.readRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	a, err := s.coalesce(r.Context(), "layout:"+cache.Hash(body), func(ctx context.Context) (artifact, error) {
		g, err := graph.ToFlow(req.Graph)
		if err != nil {
			return artifact{}, err
		}
		layout, hit, err := s.runner.GenerateLayoutWithCacheInfo(ctx, g, s.defaults.Overlay(req.Options))
		if err != nil {
			return artifact{}, err
		}
		data, err := graph.MarshalLayout(layout)
		if err != nil {
			return artifact{}, err
		}
		return artifact{data: data, contentType: render.ContentType(render.FormatJSON), cached: hit}, nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeArtifact(w, a)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	if err := render.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}

	body, req, err := s.readRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	key := "render:" + format + ":" + cache.Hash(body)
	a, err := s.coalesce(r.Context(), key, func(ctx context.Context) (artifact, error) {
		g, err := graph.ToFlow(req.Graph)
		if err != nil {
			return artifact{}, err
		}
		opts := s.defaults.Overlay(req.Options)
		opts.Formats = []string{format}

		result, err := s.runner.Execute(ctx, g, opts)
		if err != nil {
			return artifact{}, err
		}
		return artifact{
			data:        result.Artifacts[format],
			contentType: render.ContentType(format),
			cached:      result.CacheInfo.RenderHit,
		}, nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeArtifact(w, a)
}

// readRequest reads the size-limited body and decodes it strictly. The raw
// body is returned for coalescing.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) ([]byte, LayoutRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return nil, LayoutRequest{}, err
	}

	var req LayoutRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, LayoutRequest{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	return body, req, nil
}

// coalesce runs fn once for all concurrent callers with the same key. The
// computation is detached from the first caller's cancellation and bounded
// by the request timeout; each caller still stops waiting when its own
// context ends.
func (s *Server) coalesce(ctx context.Context, key string, fn func(context.Context) (artifact, error)) (artifact, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.RequestTimeout)
		defer cancel()
		return fn(cctx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("coalesced request", "key", key, "request_id", RequestID(ctx))
		}
		if res.Err != nil {
			return artifact{}, res.Err
		}
		return res.Val.(artifact), nil
	case <-ctx.Done():
		return artifact{}, ctx.Err()
	}
}

func writeArtifact(w http.ResponseWriter, a artifact) {
	w.Header().Set("Content-Type", a.contentType)
	if a.cached {
		w.Header().Set(HeaderCache, "hit")
	} else {
		w.Header().Set(HeaderCache, "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.data)
}
