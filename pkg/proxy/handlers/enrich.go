package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"mercator-hq/lookout/pkg/backend"
	"mercator-hq/lookout/pkg/enrich"
	"mercator-hq/lookout/pkg/proxy"
	"mercator-hq/lookout/pkg/proxy/types"
	"mercator-hq/lookout/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Forwarder sends a request body to the chat-completion backend.
type Forwarder interface {
	Forward(ctx context.Context, body []byte, inbound http.Header) (*backend.Response, error)
}

// EnrichHandler enriches chat requests with web search context and relays
// them to the backend.
type EnrichHandler struct {
	enricher     *enrich.Enricher
	forwarder    Forwarder
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewEnrichHandler creates the proxy handler. maxBodyBytes <= 0 means
// proxy.MaxRequestBodySize.
func NewEnrichHandler(enricher *enrich.Enricher, forwarder Forwarder, maxBodyBytes int64, logger *slog.Logger) *EnrichHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrichHandler{
		enricher:     enricher,
		forwarder:    forwarder,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// ServeHTTP implements http.Handler.
func (h *EnrichHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := tracing.Extract(r.Context(), r.Header)
	ctx, span := tracing.Start(ctx, "proxy.request", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", r.Method),
		attribute.String("url.path", r.URL.Path),
	)
	r = r.WithContext(ctx)

	resp, err := h.handle(r)
	if err != nil {
		h.fail(w, r, err)
		tracing.SetStatus(span, err)
		return
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	tracing.SetStatus(span, nil)

	if err := proxy.RelayResponse(w, resp); err != nil {
		h.logger.WarnContext(ctx, "failed to relay response", "error", err)
	}
}

// handle runs the Parsed, Enriched and Forwarded stages.
func (h *EnrichHandler) handle(r *http.Request) (*backend.Response, error) {
	if r.Method != http.MethodPost {
		return nil, fmt.Errorf("method %s not allowed, use POST", r.Method)
	}

	req, err := h.parse(r)
	if err != nil {
		return nil, err
	}

	body, err := h.enrich(r.Context(), req)
	if err != nil {
		return nil, err
	}

	return h.forward(r.Context(), body, r.Header)
}

// parse is the Parsed stage.
func (h *EnrichHandler) parse(r *http.Request) (*types.ChatRequest, error) {
	req, err := proxy.ParseChatRequest(r, h.maxBodyBytes)
	if err != nil {
		return nil, err
	}

	meta := proxy.ExtractRequestMetadata(r, req)
	h.logger.DebugContext(r.Context(), "chat request parsed", meta.LogAttrs()...)
	return req, nil
}

// enrich is the Enriched stage. It returns the encoded request to forward.
func (h *EnrichHandler) enrich(ctx context.Context, req *types.ChatRequest) ([]byte, error) {
	if h.enricher != nil {
		h.enricher.Enrich(ctx, req)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode enriched request: %w", err)
	}
	return body, nil
}

// forward is the Forwarded stage.
func (h *EnrichHandler) forward(ctx context.Context, body []byte, inbound http.Header) (*backend.Response, error) {
	resp, err := h.forwarder.Forward(ctx, body, inbound)
	if err != nil {
		return nil, err
	}

	h.logger.DebugContext(ctx, "backend responded",
		"status", resp.StatusCode,
		"bytes", len(resp.Body),
	)
	return resp, nil
}

// fail is the Failed stage.
func (h *EnrichHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed",
		"kind", proxy.ErrorKind(err),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	if werr := proxy.WriteError(w, err); werr != nil {
		h.logger.WarnContext(r.Context(), "failed to write error response", "error", werr)
	}
}
