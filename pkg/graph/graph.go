package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a flow graph to JSON bytes.
// The output is deterministic and is used as the input of cache keys.
func MarshalGraph(g *flow.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf, FormatJSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a flow graph to a file. The format follows the file
// extension (.yaml/.yml for YAML, JSON otherwise).
func WriteGraphFile(g *flow.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f, FormatFromPath(path))
}

// WriteGraph writes a flow graph to an io.Writer in the given format.
func WriteGraph(g *flow.Graph, w io.Writer, format string) error {
	return writeGraphTo(g, w, format)
}

// ReadGraphFile reads a JSON or YAML file (by extension) and returns the
// validated flow graph.
func ReadGraphFile(path string) (*flow.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "graph file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f, FormatFromPath(path))
}

// ReadGraph decodes a graph from an io.Reader and returns the validated flow
// graph. Use ReadGraphFile for files or pass bytes.NewReader for in-memory data.
func ReadGraph(r io.Reader, format string) (*flow.Graph, error) {
	gj, err := DecodeGraph(r, format)
	if err != nil {
		return nil, err
	}
	return ToFlow(gj)
}

// DecodeGraph decodes a serialized graph without converting it.
func DecodeGraph(r io.Reader, format string) (Graph, error) {
	var gj Graph
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&gj); err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json graph")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&gj); err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml graph")
		}
	default:
		return Graph{}, errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", format)
	}
	return gj, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	return DecodeGraph(bytes.NewReader(data), FormatJSON)
}

// FormatFromPath returns FormatYAML for .yaml and .yml files and FormatJSON
// for everything else.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *flow.Graph, w io.Writer, format string) error {
	out := FromFlow(g)
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", format)
	}
	return nil
}
