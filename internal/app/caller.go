package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/efrevillelm/RPHTTPServiceClient/internal/config"
	"github.com/efrevillelm/RPHTTPServiceClient/internal/logger"
	"github.com/efrevillelm/RPHTTPServiceClient/pkg/endpoints"
	"github.com/efrevillelm/RPHTTPServiceClient/pkg/serviceclient"
)

// Caller resolves an endpoint from the catalog and issues a single request.
type Caller struct {
	cfg     *config.Config
	catalog *endpoints.Catalog
	client  *serviceclient.Client
	log     logger.Logger
}

// NewCaller builds a one-shot call runtime from config files.
func NewCaller(cfg *config.Config, log logger.Logger) (*Caller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	catalog, err := endpoints.Load(cfg.EndpointsFile)
	if err != nil {
		return nil, fmt.Errorf("load endpoint catalog: %w", err)
	}

	client, err := serviceclient.New(serviceclient.NewRestyTransport(cfg.RequestTimeout), serviceclient.Options{})
	if err != nil {
		return nil, fmt.Errorf("build service client: %w", err)
	}

	return &Caller{
		cfg:     cfg,
		catalog: catalog,
		client:  client,
		log:     log,
	}, nil
}

// Call executes the endpoint with the given id and returns the JSON body.
func (c *Caller) Call(ctx context.Context, endpointID string) (json.RawMessage, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("caller is not initialized")
	}

	epCfg, ok := c.catalog.ByID(endpointID)
	if !ok {
		return nil, fmt.Errorf("unknown endpoint %q", endpointID)
	}

	callCtx, cancel := context.WithTimeout(ctx, epCfg.Timeout())
	defer cancel()

	c.log.DebugObj("issuing request", "call_meta", map[string]any{
		"endpoint_id": epCfg.ID,
		"method":      epCfg.Method,
		"base_url":    epCfg.BaseURL,
		"path":        epCfg.Path,
	})

	body, err := c.client.RequestJSON(callCtx, epCfg.Target())
	if err != nil {
		return nil, fmt.Errorf("call endpoint %s: %w", epCfg.ID, err)
	}
	return body, nil
}
