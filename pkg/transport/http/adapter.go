package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rhuss/chatproxy/pkg/api"
	"github.com/rhuss/chatproxy/pkg/catalog"
	"github.com/rhuss/chatproxy/pkg/debug"
	"github.com/rhuss/chatproxy/pkg/observability"
	"github.com/rhuss/chatproxy/pkg/transport"
)

// Adapter serves the chat proxy API over HTTP.
type Adapter struct {
	dispatcher transport.ChatDispatcher
	models     transport.ModelLister
	inflight   *transport.InFlightRegistry
	mux        *http.ServeMux
	config     Config
	logger     *slog.Logger
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64
	// ChunkSize is the relay buffer size. Every chunk read from the
	// upstream is flushed to the client immediately.
	ChunkSize int
	Logger    *slog.Logger
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 10 << 20, // 10 MB
		ChunkSize:   4 << 10,
	}
}

// NewAdapter creates an HTTP adapter. Middleware is applied to the
// dispatcher in the given order.
func NewAdapter(dispatcher transport.ChatDispatcher, models transport.ModelLister, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		dispatcher = transport.Chain(middlewares...)(dispatcher)
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &Adapter{
		dispatcher: dispatcher,
		models:     models,
		inflight:   transport.NewInFlightRegistry(),
		mux:        http.NewServeMux(),
		config:     cfg,
		logger:     logger,
	}

	a.mux.HandleFunc("POST /api/ai", a.handleChat)
	a.mux.HandleFunc("POST /api/models", a.handleListModels)
	a.mux.HandleFunc("OPTIONS /api/models", a.handleModelsPreflight)

	return a
}

// Handler returns the http.Handler for this adapter, wrapped with request
// ID propagation and request metrics.
func (a *Adapter) Handler() http.Handler {
	return httpRequestIDMiddleware(observability.MetricsMiddleware(a.mux))
}

// InFlight returns the registry of streams currently being relayed.
func (a *Adapter) InFlight() *transport.InFlightRegistry {
	return a.inflight
}

// httpRequestIDMiddleware puts a request ID into the context, taken from
// the X-Request-ID header or freshly generated, and echoes it on the
// response.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = transport.NewRequestID()
		}
		r = r.WithContext(transport.ContextWithRequestID(r.Context(), id))
		rw := &requestIDResponseWriter{ResponseWriter: w, id: id}
		next.ServeHTTP(rw, r)
	})
}

// requestIDResponseWriter wraps http.ResponseWriter to inject the
// X-Request-ID header before the first write.
type requestIDResponseWriter struct {
	http.ResponseWriter
	id          string
	headersSent bool
}

func (w *requestIDResponseWriter) WriteHeader(statusCode int) {
	w.ensureRequestIDHeader()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *requestIDResponseWriter) Write(b []byte) (int, error) {
	w.ensureRequestIDHeader()
	return w.ResponseWriter.Write(b)
}

func (w *requestIDResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying ResponseWriter for http.NewResponseController.
func (w *requestIDResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *requestIDResponseWriter) ensureRequestIDHeader() {
	if w.headersSent {
		return
	}
	w.headersSent = true
	w.ResponseWriter.Header().Set("X-Request-ID", w.id)
}

// handleChat handles POST /api/ai. Malformed bodies are internal errors,
// matching every other unexpected failure of this endpoint.
func (a *Adapter) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteAPIError(w, api.NewInternalError(fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)))
			return
		}
		transport.WriteAPIError(w, api.NewInternalError(err.Error()))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	resp, err := a.dispatcher.Dispatch(ctx, &req)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	defer resp.Body.Close()

	// Streams are tracked under a server-side key; the request ID comes
	// from the client and need not be unique.
	id := transport.RequestIDFromContext(ctx)
	key := transport.NewRequestID()
	a.inflight.Register(key, cancel)
	defer a.inflight.Remove(key)

	observability.StreamingConnections.Inc()
	defer observability.StreamingConnections.Dec()

	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(resp.StatusCode)

	n, err := relay(w, resp.Body, a.config.ChunkSize)
	observability.StreamedBytesTotal.WithLabelValues(req.Model).Add(float64(n))
	debug.Log("transport", "stream relayed", "request_id", id, "model", req.Model, "status", resp.StatusCode, "bytes", n)
	if err != nil && ctx.Err() == nil {
		a.logger.LogAttrs(ctx, slog.LevelWarn, "stream relay interrupted",
			slog.String("request_id", id),
			slog.String("model", req.Model),
			slog.Int64("bytes", n),
			slog.String("error", err.Error()),
		)
	}
}

// handleListModels handles POST /api/models.
func (a *Adapter) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := a.listModels(r.Context())
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "Failed to fetch models"
		}
		a.logger.LogAttrs(r.Context(), slog.LevelError, "listing models failed",
			slog.String("request_id", transport.RequestIDFromContext(r.Context())),
			slog.String("error", msg),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(api.ModelsErrorResponse{Error: msg, Models: catalog.Fallback()})
		return
	}

	setCORSHeaders(w.Header())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(api.ModelsResponse{Models: models})
}

// listModels calls the lister, converting a panic into an error.
func (a *Adapter) listModels(ctx context.Context) (models []api.ModelDescriptor, err error) {
	defer func() {
		if r := recover(); r != nil {
			models, err = nil, fmt.Errorf("%v", r)
		}
	}()
	if a.models == nil {
		return catalog.Fallback(), nil
	}
	models, err = a.models.ListModels(ctx)
	if err == nil && models == nil {
		models = []api.ModelDescriptor{}
	}
	return models, err
}

// handleModelsPreflight handles OPTIONS /api/models.
func (a *Adapter) handleModelsPreflight(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w.Header())
	w.WriteHeader(http.StatusOK)
}

func setCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}
