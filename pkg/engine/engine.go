package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rhuss/chatproxy/pkg/api"
	"github.com/rhuss/chatproxy/pkg/credentials"
	"github.com/rhuss/chatproxy/pkg/debug"
	"github.com/rhuss/chatproxy/pkg/observability"
	"github.com/rhuss/chatproxy/pkg/provider"
	"github.com/rhuss/chatproxy/pkg/transport"
)

// defaultContentType is used when the upstream omits Content-Type.
const defaultContentType = "application/octet-stream"

// Resolver maps model ids to adapters.
type Resolver interface {
	Lookup(model string) (provider.Adapter, bool)
}

// Engine dispatches chat requests to providers.
type Engine struct {
	resolver Resolver
	creds    *credentials.Set
	client   *http.Client
	cfg      Config
}

// Ensure Engine implements transport.ChatDispatcher at compile time.
var _ transport.ChatDispatcher = (*Engine)(nil)

// New creates an Engine. The resolver must not be nil. A nil credential
// set behaves like an empty one.
func New(resolver Resolver, creds *credentials.Set, cfg Config) (*Engine, error) {
	if resolver == nil {
		return nil, fmt.Errorf("engine: resolver must not be nil")
	}
	return &Engine{
		resolver: resolver,
		creds:    creds,
		client:   cfg.httpClient(),
		cfg:      cfg,
	}, nil
}

// Dispatch validates req, sends it to the resolved provider and returns the
// open upstream stream. Errors are always *api.APIError. No network call is
// made for invalid requests, unknown models or missing credentials.
func (e *Engine) Dispatch(ctx context.Context, req *api.ChatRequest) (*api.UpstreamResponse, error) {
	if req == nil {
		return nil, api.NewBadRequestError("Missing model or messages")
	}
	if apiErr := req.Validate(); apiErr != nil {
		return nil, apiErr
	}

	adapter, ok := e.resolver.Lookup(req.Model)
	if !ok {
		return nil, api.NewUnknownModelError()
	}

	apiKey, ok := e.creds.Lookup(adapter.Credential())
	if !ok {
		return nil, api.NewMissingCredentialError(adapter.Credential())
	}

	out, err := adapter.BuildRequest(req.Messages, apiKey)
	if err != nil {
		return nil, api.NewInternalError(err.Error())
	}

	httpReq, err := out.NewHTTPRequest()
	if err != nil {
		return nil, api.NewInternalError(err.Error())
	}
	httpReq = httpReq.WithContext(ctx)

	debug.Log("providers", "upstream request",
		"provider", adapter.Name(), "model", adapter.Model(), "url", out.URL,
		"request_id", transport.RequestIDFromContext(ctx))
	debug.Raw("providers", string(out.Body))

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	observability.ProviderLatency.WithLabelValues(adapter.Name(), adapter.Model()).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(adapter.Name(), adapter.Model(), "error").Inc()
		return nil, api.NewInternalError(err.Error())
	}
	observability.ProviderRequestsTotal.WithLabelValues(adapter.Name(), adapter.Model(), strconv.Itoa(resp.StatusCode)).Inc()

	debug.Log("providers", "upstream response",
		"provider", adapter.Name(), "status", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"))

	if (adapter.ChecksStatus() || e.cfg.CheckUpstreamStatus) && !isSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, e.cfg.maxErrorBody()))
		if err != nil {
			return nil, api.NewInternalError(err.Error())
		}
		return nil, api.NewUpstreamError(resp.StatusCode, string(body))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	return &api.UpstreamResponse{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        resp.Body,
	}, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
