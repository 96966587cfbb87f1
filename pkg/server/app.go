package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/lookout/pkg/backend"
	"mercator-hq/lookout/pkg/config"
	"mercator-hq/lookout/pkg/enrich"
	"mercator-hq/lookout/pkg/extract"
	"mercator-hq/lookout/pkg/proxy/handlers"
	"mercator-hq/lookout/pkg/proxy/middleware"
	"mercator-hq/lookout/pkg/search"
	"mercator-hq/lookout/pkg/telemetry/health"
	"mercator-hq/lookout/pkg/telemetry/metrics"
)

// readinessTimeout bounds each readiness check.
const readinessTimeout = 2 * time.Second

// Components are the pieces New wires together. They are exposed so the
// CLI can reuse them without starting a listener.
type Components struct {
	Search   *search.Client
	Enricher *enrich.Enricher
	Backend  *backend.Client
	Handler  http.Handler
	Admin    http.Handler
}

// NewComponents builds the search client, enricher, backend client, the
// proxy handler with its middleware chain and the admin mux.
func NewComponents(cfg *config.Config, logger *slog.Logger, collector *metrics.Collector, version health.VersionInfo) (*Components, error) {
	if logger == nil {
		logger = slog.Default()
	}

	searchClient, err := search.NewFromConfig(cfg.Search, &http.Client{}, logger, collector)
	if err != nil {
		return nil, fmt.Errorf("search client: %w", err)
	}

	enricher := enrich.NewEnricher(
		extract.New(cfg.Extraction.MaxDomains),
		searchClient,
		enrich.Options{
			Concurrency: cfg.Search.Concurrency,
			Logger:      logger,
			Metrics:     collector,
		},
	)

	backendClient := backend.NewFromConfig(cfg.Backend, logger, collector)

	proxyHandler := handlers.NewEnrichHandler(enricher, backendClient, cfg.Proxy.MaxBodyBytes, logger)

	checker := health.New(readinessTimeout)
	checker.RegisterCheck("backend", backendClient.Ping)
	checker.RegisterCheck("search", searchClient.Check)

	admin := http.NewServeMux()
	health.Register(admin, checker, version)
	if collector != nil && cfg.Telemetry.Metrics.Enabled {
		admin.Handle("/metrics", collector.Handler())
	}

	return &Components{
		Search:   searchClient,
		Enricher: enricher,
		Backend:  backendClient,
		Handler:  middleware.Chain(proxyHandler, logger, collector),
		Admin:    admin,
	}, nil
}

// New builds every component from cfg and returns a server ready to Start.
func New(cfg *config.Config, logger *slog.Logger, collector *metrics.Collector, version health.VersionInfo) (*Server, error) {
	c, err := NewComponents(cfg, logger, collector, version)
	if err != nil {
		return nil, err
	}
	return NewServer(&cfg.Proxy, c.Handler,
		WithAdmin(cfg.Telemetry.AdminAddress, c.Admin),
		WithLogger(logger),
	), nil
}
