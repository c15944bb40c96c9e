package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/efrevillelm/RPHTTPServiceClient/pkg/serviceclient"
	"gopkg.in/yaml.v3"
)

// Package endpoints loads the catalog of named API endpoints (YAML/JSON) and
// converts entries into serviceclient targets.

const defaultTimeoutSeconds = 15

// EndpointConfig represents a single endpoint entry declared in config files.
type EndpointConfig struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	Method         string            `json:"method" yaml:"method"`
	BaseURL        string            `json:"base_url" yaml:"base_url"`
	Path           string            `json:"path" yaml:"path"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	Query          map[string]string `json:"query" yaml:"query"`
	Body           map[string]any    `json:"body" yaml:"body"`
	Enabled        *bool             `json:"enabled" yaml:"enabled"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// configFile represents the structure of the endpoints configuration file.
type configFile struct {
	Endpoints []EndpointConfig `json:"endpoints" yaml:"endpoints"`
}

// Catalog materializes endpoint definitions loaded from config files.
type Catalog struct {
	mu        sync.RWMutex
	endpoints []EndpointConfig
	idx       map[string]EndpointConfig
}

// Load reads the endpoint catalog from a YAML/JSON file.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("endpoints file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open endpoints file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}

	parsed, err := parseCatalog(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Endpoints) == 0 {
		return nil, errors.New("endpoints file contains no endpoints entries")
	}

	cat := &Catalog{
		endpoints: make([]EndpointConfig, len(parsed.Endpoints)),
		idx:       make(map[string]EndpointConfig, len(parsed.Endpoints)),
	}

	for i := range parsed.Endpoints {
		cfg := sanitizeEndpoint(parsed.Endpoints[i])
		if err := validateEndpoint(cfg); err != nil {
			return nil, fmt.Errorf("endpoints[%d]: %w", i, err)
		}
		if _, exists := cat.idx[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate endpoint id %q", cfg.ID)
		}
		cat.endpoints[i] = cfg
		cat.idx[cfg.ID] = cfg
	}

	return cat, nil
}

// parseCatalog attempts to decode the endpoints file content.
func parseCatalog(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if cat, err := unmarshalCatalog(d.name, data, d.fn); err == nil {
			return cat, nil
		}
	}

	return configFile{}, errors.New("endpoints file format not recognized (expected YAML or JSON)")
}

// unmarshalCatalog decodes the endpoints file using the provided function.
func unmarshalCatalog(name string, data []byte, fn func([]byte, any) error) (configFile, error) {
	var cat configFile
	if err := fn(data, &cat); err != nil {
		return configFile{}, fmt.Errorf("decode %s endpoints: %w", name, err)
	}
	return cat, nil
}

// sanitizeEndpoint trims and normalizes the endpoint config fields.
func sanitizeEndpoint(cfg EndpointConfig) EndpointConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Method = strings.ToUpper(strings.TrimSpace(cfg.Method))
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Path = strings.TrimSpace(cfg.Path)

	if cfg.Method == "" {
		cfg.Method = "GET"
	}
	if cfg.Name == "" {
		cfg.Name = cfg.ID
	}
	cfg.Headers = sanitizeStringMap(cfg.Headers)
	cfg.Query = sanitizeStringMap(cfg.Query)
	if cfg.Enabled == nil {
		def := true
		cfg.Enabled = &def
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaultTimeoutSeconds
	}

	return cfg
}

// sanitizeStringMap trims keys/values and removes empty entries.
func sanitizeStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// validateEndpoint checks that required fields are present.
func validateEndpoint(cfg EndpointConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	if cfg.BaseURL == "" {
		return fmt.Errorf("base_url is required for endpoint %q", cfg.ID)
	}
	return nil
}

// ByID returns the endpoint config by id.
func (c *Catalog) ByID(id string) (EndpointConfig, bool) {
	if c == nil {
		return EndpointConfig{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return EndpointConfig{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg, ok := c.idx[id]
	return cfg, ok
}

// All returns all configured endpoints.
func (c *Catalog) All() []EndpointConfig {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]EndpointConfig, len(c.endpoints))
	copy(out, c.endpoints)
	return out
}

// Enabled returns endpoints that are enabled.
func (c *Catalog) Enabled() []EndpointConfig {
	if c == nil {
		return nil
	}

	all := c.All()
	if len(all) == 0 {
		return nil
	}

	out := make([]EndpointConfig, 0, len(all))
	for _, cfg := range all {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue returns the enabled flag defaulting to true.
func (cfg EndpointConfig) EnabledValue() bool {
	if cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}

// Timeout returns the per-endpoint request timeout.
func (cfg EndpointConfig) Timeout() time.Duration {
	if cfg.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

// Target converts the catalog entry into a serviceclient target.
func (cfg EndpointConfig) Target() serviceclient.Endpoint {
	query := url.Values{}
	for k, v := range cfg.Query {
		query.Set(k, v)
	}

	var payload any
	if len(cfg.Body) > 0 {
		payload = cfg.Body
	}

	return serviceclient.Endpoint{
		HTTPMethod: cfg.Method,
		Base:       cfg.BaseURL,
		Route:      cfg.Path,
		Query:      query,
		Header:     cfg.Headers,
		Payload:    payload,
	}
}
