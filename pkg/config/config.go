// Package config loads sankey.toml.
//
// A config file supplies defaults for the CLI and the server. Precedence is
// built-in defaults < config file < command-line flags; this package covers
// the first two and the CLI applies flags on top.
//
//	[layout]
//	width = 960
//	height = 520
//	align = "justify"
//
//	[render]
//	formats = ["svg", "png"]
//	style = "ribbon"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// FileName is the config file name looked up in the search path.
const FileName = "sankey.toml"

// EnvPath names the environment variable holding an explicit config path.
const EnvPath = "SANKEY_CONFIG"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config mirrors the sections of sankey.toml.
type Config struct {
	Layout Layout `toml:"layout"`
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Layout holds the [layout] section.
type Layout struct {
	VizType       string  `toml:"viz_type"`
	Width         float64 `toml:"width"`
	Height        float64 `toml:"height"`
	Margin        float64 `toml:"margin"`
	NodeThickness float64 `toml:"node_thickness"`
	NodePadding   float64 `toml:"node_padding"`
	Iterations    int     `toml:"iterations"`
	Align         string  `toml:"align"`
	Cycles        string  `toml:"cycles"`
}

// Render holds the [render] section.
type Render struct {
	Formats     []string `toml:"formats"`
	Style       string   `toml:"style"`
	Scale       float64  `toml:"scale"`
	Background  string   `toml:"background"`
	NodeColor   string   `toml:"node_color"`
	LinkColor   string   `toml:"link_color"`
	LinkOpacity float64  `toml:"link_opacity"`
}

// Cache holds the [cache] section.
type Cache struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl"`
}

// Server holds the [server] section.
type Server struct {
	Addr           string        `toml:"addr"`
	ReadTimeout    time.Duration `toml:"read_timeout"`
	WriteTimeout   time.Duration `toml:"write_timeout"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxBodyBytes   int64         `toml:"max_body_bytes"`
}

// Server defaults.
const (
	DefaultAddr           = ":8080"
	DefaultReadTimeout    = 10 * time.Second
	DefaultWriteTimeout   = 60 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxBodyBytes   = 8 << 20
)

// Default returns the built-in configuration. Layout and render defaults
// come from the pipeline package.
func Default() Config {
	return Config{
		Layout: Layout{
			VizType:       pipeline.DefaultVizType,
			Width:         pipeline.DefaultWidth,
			Height:        pipeline.DefaultHeight,
			Margin:        pipeline.DefaultMargin,
			NodeThickness: pipeline.DefaultNodeThickness,
			NodePadding:   pipeline.DefaultNodePadding,
			Iterations:    pipeline.DefaultIterations,
			Align:         pipeline.DefaultAlign,
			Cycles:        pipeline.DefaultCycles,
		},
		Render: Render{
			Formats:     []string{pipeline.FormatSVG},
			Style:       pipeline.DefaultStyle,
			Scale:       pipeline.DefaultScale,
			NodeColor:   pipeline.DefaultNodeColor,
			LinkColor:   pipeline.DefaultLinkColor,
			LinkOpacity: pipeline.DefaultLinkOpacity,
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     cache.TTLLayout,
		},
		Server: Server{
			Addr:           DefaultAddr,
			ReadTimeout:    DefaultReadTimeout,
			WriteTimeout:   DefaultWriteTimeout,
			RequestTimeout: DefaultRequestTimeout,
			MaxBodyBytes:   DefaultMaxBodyBytes,
		},
	}
}

// SearchPaths lists candidate config files in lookup order, excluding an
// explicit --config path: $SANKEY_CONFIG, $XDG_CONFIG_HOME/sankey/sankey.toml,
// ~/.config/sankey/sankey.toml.
func SearchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvPath); p != "" {
		paths = append(paths, p)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "sankey", FileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "sankey", FileName)
		if !slices.Contains(paths, p) {
			paths = append(paths, p)
		}
	}
	return paths
}

// Load reads the configuration. An explicit path must exist; otherwise the
// first existing file on [SearchPaths] is used, and the defaults when there
// is none. The returned string is the file that was read, if any.
func Load(explicit string) (Config, string, error) {
	if explicit != "" {
		cfg, err := LoadFile(explicit)
		return cfg, explicit, err
	}
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			cfg, err := LoadFile(p)
			return cfg, p, err
		}
	}
	return Default(), "", nil
}

// LoadFile reads one config file on top of the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "config file not found: %s", path)
		}
		return Config{}, err
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML on top of the defaults. Unknown keys are rejected so
// that typos do not pass silently.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid config: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks values that the pipeline does not.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis requires redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_body_bytes must not be negative")
	}
	return nil
}

// PipelineOptions converts the [layout] and [render] sections.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		VizType:       c.Layout.VizType,
		Width:         c.Layout.Width,
		Height:        c.Layout.Height,
		Margin:        pipeline.Ptr(c.Layout.Margin),
		NodeThickness: c.Layout.NodeThickness,
		NodePadding:   pipeline.Ptr(c.Layout.NodePadding),
		Iterations:    pipeline.Ptr(c.Layout.Iterations),
		Align:         c.Layout.Align,
		Cycles:        c.Layout.Cycles,
		Formats:       slices.Clone(c.Render.Formats),
		Style:         c.Render.Style,
		Scale:         c.Render.Scale,
		Background:    c.Render.Background,
		NodeColor:     c.Render.NodeColor,
		LinkColor:     c.Render.LinkColor,
		LinkOpacity:   pipeline.Ptr(c.Render.LinkOpacity),
	}
}

// OpenCache builds the configured cache backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir := c.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cache.DefaultDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// Keyer returns the cache keyer, scoped when a prefix is configured.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Prefix != "" {
		return cache.NewScopedKeyer(nil, c.Cache.Prefix)
	}
	return cache.NewDefaultKeyer()
}
