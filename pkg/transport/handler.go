package transport

import (
	"context"

	"github.com/rhuss/chatproxy/pkg/api"
)

// ChatDispatcher forwards a chat request to its provider. On success the
// caller owns the returned stream and must close its Body.
type ChatDispatcher interface {
	Dispatch(ctx context.Context, req *api.ChatRequest) (*api.UpstreamResponse, error)
}

// DispatcherFunc is an adapter that allows using an ordinary function
// as a ChatDispatcher.
type DispatcherFunc func(ctx context.Context, req *api.ChatRequest) (*api.UpstreamResponse, error)

// Dispatch calls f(ctx, req).
func (f DispatcherFunc) Dispatch(ctx context.Context, req *api.ChatRequest) (*api.UpstreamResponse, error) {
	return f(ctx, req)
}

// ModelLister reports the models that can be offered to clients.
type ModelLister interface {
	ListModels(ctx context.Context) ([]api.ModelDescriptor, error)
}

// ModelListerFunc is an adapter that allows using an ordinary function
// as a ModelLister.
type ModelListerFunc func(ctx context.Context) ([]api.ModelDescriptor, error)

// ListModels calls f(ctx).
func (f ModelListerFunc) ListModels(ctx context.Context) ([]api.ModelDescriptor, error) {
	return f(ctx)
}
