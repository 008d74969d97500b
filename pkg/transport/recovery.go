package transport

import (
	"context"
	"fmt"

	"github.com/rhuss/chatproxy/pkg/api"
)

// Recovery returns middleware that converts a panic during dispatch into
// an internal error. The server keeps serving after a recovered panic.
func Recovery() Middleware {
	return func(next ChatDispatcher) ChatDispatcher {
		return DispatcherFunc(func(ctx context.Context, req *api.ChatRequest) (resp *api.UpstreamResponse, retErr error) {
			defer func() {
				if r := recover(); r != nil {
					resp = nil
					retErr = api.NewInternalError(fmt.Sprint(r))
				}
			}()
			return next.Dispatch(ctx, req)
		})
	}
}
