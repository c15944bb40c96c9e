package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/efrevillelm/RPHTTPServiceClient/internal/config"
	"github.com/efrevillelm/RPHTTPServiceClient/internal/history"
	"github.com/efrevillelm/RPHTTPServiceClient/internal/logger"
	"github.com/efrevillelm/RPHTTPServiceClient/pkg/endpoints"
	"github.com/efrevillelm/RPHTTPServiceClient/pkg/serviceclient"
	"github.com/efrevillelm/RPHTTPServiceClient/pkg/sinks"
)

// Watcher polls the enabled catalog endpoints on an interval and forwards new
// responses to the configured sinks. Responses whose body digest was already
// delivered are skipped.
type Watcher struct {
	cfg          *config.Config
	catalog      *endpoints.Catalog
	client       *serviceclient.Client
	fanout       *sinks.Fanout
	store        history.Store
	pollInterval time.Duration
	log          logger.Logger
}

// NewWatcher builds a polling runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	catalog, err := endpoints.Load(cfg.EndpointsFile)
	if err != nil {
		return nil, fmt.Errorf("load endpoint catalog: %w", err)
	}
	endpointList := catalog.Enabled()
	endpointIDs := make([]string, 0, len(endpointList))
	for _, ep := range endpointList {
		endpointIDs = append(endpointIDs, ep.ID)
	}
	log.InfoObj("endpoint catalog loaded", "endpoints_meta", map[string]any{
		"count": len(endpointIDs),
		"ids":   endpointIDs,
	})

	sinkReg, err := sinks.LoadRegistry(cfg.SinksFile)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}
	enabledSinks := sinkReg.Enabled()
	if len(enabledSinks) == 0 {
		return nil, fmt.Errorf("no sinks configured")
	}

	builtSinks, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), enabledSinks, log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}
	fanout := sinks.NewFanout(builtSinks)
	log.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": fanout.Size(),
	})

	store, err := history.NewStore(cfg.HistoryType, cfg.BBoltPath, history.Options{
		EntryTTL:        cfg.HistoryTTL,
		CleanupInterval: cfg.HistoryCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	client, err := serviceclient.New(serviceclient.NewRestyTransport(cfg.RequestTimeout), serviceclient.Options{})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("build service client: %w", err)
	}

	return &Watcher{
		cfg:          cfg,
		catalog:      catalog,
		client:       client,
		fanout:       fanout,
		store:        store,
		pollInterval: cfg.PollInterval,
		log:          log,
	}, nil
}

// Close releases the history store.
func (w *Watcher) Close() error {
	if w == nil || w.store == nil {
		return nil
	}
	return w.store.Close()
}

// Run starts the poll loop until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.client == nil {
		return fmt.Errorf("watcher is not initialized")
	}

	eps := w.catalog.Enabled()
	if len(eps) == 0 {
		w.log.WarnObj("no endpoints enabled; watcher idle", "endpoints_file", w.cfg.EndpointsFile)
		<-ctx.Done()
		return ctx.Err()
	}

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"endpoints_count": len(eps),
		"sinks_count":     w.fanout.Size(),
		"poll_interval":   w.pollInterval.String(),
	})

	if err := w.runOnce(ctx, eps); err != nil {
		w.log.ErrorObj("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx, eps); err != nil {
				w.log.ErrorObj("scheduled poll failed", "error", err)
			}
		}
	}
}

// runOnce executes one poll pass across all enabled endpoints.
func (w *Watcher) runOnce(ctx context.Context, eps []endpoints.EndpointConfig) error {
	start := time.Now()

	var errs []error
	for _, ep := range eps {
		if err := w.pollEndpoint(ctx, ep); err != nil {
			errs = append(errs, fmt.Errorf("endpoint %s: %w", ep.ID, err))
			w.log.ErrorObj("endpoint poll failed", "endpoint_error", map[string]any{
				"endpoint_id": ep.ID,
				"error":       err.Error(),
			})
		}
	}

	w.log.InfoObj("poll pass completed", "poll_meta", map[string]any{
		"endpoints_count": len(eps),
		"failed_count":    len(errs),
		"elapsed_ms":      time.Since(start).Milliseconds(),
	})
	return errors.Join(errs...)
}

// pollEndpoint fetches one endpoint and delivers the response if unseen.
func (w *Watcher) pollEndpoint(ctx context.Context, ep endpoints.EndpointConfig) error {
	callCtx, cancel := context.WithTimeout(ctx, ep.Timeout())
	defer cancel()

	body, err := w.client.RequestJSON(callCtx, ep.Target())
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	digest := sinks.BodyDigest(body)
	seen, err := w.store.SeenResponse(ep.ID, digest)
	if err != nil {
		return fmt.Errorf("check history: %w", err)
	}
	if seen {
		w.log.DebugObj("response unchanged; skipping delivery", "endpoint_id", ep.ID)
		return nil
	}

	rec := sinks.NewRecord(ep.ID, ep.Name, body)
	delivered, err := w.fanout.Deliver(ctx, rec)
	if err != nil {
		return fmt.Errorf("deliver (%d ok): %w", delivered, err)
	}

	if err := w.store.MarkResponse(ep.ID, digest); err != nil {
		return fmt.Errorf("mark history: %w", err)
	}

	w.log.InfoObj("response delivered", "delivery_meta", map[string]any{
		"endpoint_id": ep.ID,
		"sinks_count": delivered,
		"digest":      digest,
	})
	return nil
}
