package enrich

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/lookout/pkg/extract"
	"mercator-hq/lookout/pkg/proxy/types"
	"mercator-hq/lookout/pkg/search"
	"mercator-hq/lookout/pkg/telemetry/metrics"
	"mercator-hq/lookout/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Searcher runs one query. Implementations never return an empty slice.
type Searcher interface {
	Search(ctx context.Context, query string) []search.Result
}

// Options configures an Enricher.
type Options struct {
	// Concurrency bounds the queries searched in parallel. Values below 2
	// search sequentially.
	Concurrency int

	// Logger receives one line per enriched request.
	Logger *slog.Logger

	// Metrics records the number of results inserted. May be nil.
	Metrics *metrics.Collector
}

// Enrichment summarizes what Enrich did to a request.
type Enrichment struct {
	// Queries are the extracted search queries, domains first.
	Queries []string

	// Results is the number of results in the inserted context.
	Results int

	// Inserted reports whether a context message was added.
	Inserted bool

	// Duration is the time spent extracting and searching.
	Duration time.Duration
}

// Enricher orchestrates extraction, search and context insertion.
// It is safe for concurrent use.
type Enricher struct {
	extractor   *extract.Extractor
	searcher    Searcher
	concurrency int
	logger      *slog.Logger
	metrics     *metrics.Collector
}

// NewEnricher creates an Enricher.
func NewEnricher(extractor *extract.Extractor, searcher Searcher, opts Options) *Enricher {
	if extractor == nil {
		extractor = extract.New(extract.DefaultMaxDomains)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Enricher{
		extractor:   extractor,
		searcher:    searcher,
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
	}
}

// Enrich searches the queries found in req and inserts the results as a
// system message at ContextIndex. A request without queries is left as is.
func (e *Enricher) Enrich(ctx context.Context, req *types.ChatRequest) Enrichment {
	start := time.Now()

	ctx, span := tracing.Start(ctx, "enrich")
	defer span.End()

	summary := Enrichment{Queries: e.extractor.Queries(req.Messages)}
	span.SetAttributes(attribute.Int("enrich.queries", len(summary.Queries)))
	if len(summary.Queries) == 0 {
		summary.Duration = time.Since(start)
		return summary
	}

	results := e.searchAll(ctx, summary.Queries)

	if msg, ok := BuildContext(results); ok {
		req.InsertSystem(ContextIndex, msg.Content.(string))
		summary.Inserted = true
		summary.Results = len(results)
	}
	summary.Duration = time.Since(start)

	span.SetAttributes(attribute.Int("enrich.results", summary.Results))
	e.metrics.RecordEnrichment(summary.Results)
	e.logger.InfoContext(ctx, "request enriched",
		"queries", summary.Queries,
		"results", summary.Results,
		"duration_ms", summary.Duration.Milliseconds(),
	)
	return summary
}

// searchAll searches every query and flattens the results in query order.
func (e *Enricher) searchAll(ctx context.Context, queries []string) []search.Result {
	perQuery := make([][]search.Result, len(queries))

	if e.concurrency < 2 || len(queries) == 1 {
		for i, q := range queries {
			perQuery[i] = e.searcher.Search(ctx, q)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.concurrency)
		for i, q := range queries {
			i, q := i, q
			g.Go(func() error {
				perQuery[i] = e.searcher.Search(gctx, q)
				return nil
			})
		}
		_ = g.Wait()
	}

	var results []search.Result
	for _, rs := range perQuery {
		results = append(results, rs...)
	}
	return results
}
