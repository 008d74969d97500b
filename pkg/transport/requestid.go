package transport

import (
	"context"

	"github.com/google/uuid"

	"github.com/rhuss/chatproxy/pkg/api"
)

// RequestID returns middleware that assigns a unique request ID to each
// dispatch. An ID already in the context (set by the HTTP layer from the
// X-Request-ID header) is kept.
func RequestID() Middleware {
	return func(next ChatDispatcher) ChatDispatcher {
		return DispatcherFunc(func(ctx context.Context, req *api.ChatRequest) (*api.UpstreamResponse, error) {
			if RequestIDFromContext(ctx) == "" {
				ctx = ContextWithRequestID(ctx, NewRequestID())
			}
			return next.Dispatch(ctx, req)
		})
	}
}

// NewRequestID returns a random UUID string.
func NewRequestID() string {
	return uuid.NewString()
}
