package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/rhuss/chatproxy/pkg/api"
)

// Logging returns middleware that emits one structured log entry per
// dispatch with the request ID, model, message count, upstream status and
// the time until the upstream responded. Stream relay time is recorded by
// the HTTP layer's metrics, not here.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ChatDispatcher) ChatDispatcher {
		return DispatcherFunc(func(ctx context.Context, req *api.ChatRequest) (*api.UpstreamResponse, error) {
			start := time.Now()

			resp, err := next.Dispatch(ctx, req)

			attrs := []slog.Attr{
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("model", req.Model),
				slog.Int("messages", len(req.Messages)),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				apiErr := AsAPIError(err)
				attrs = append(attrs,
					slog.String("kind", string(apiErr.Kind)),
					slog.Int("status", HTTPStatusFromError(apiErr)),
					slog.String("error", apiErr.Message),
				)
				level := slog.LevelWarn
				if HTTPStatusFromError(apiErr) >= 500 {
					level = slog.LevelError
				}
				logger.LogAttrs(ctx, level, "dispatch failed", attrs...)
				return nil, err
			}

			attrs = append(attrs, slog.Int("upstream_status", resp.StatusCode))
			logger.LogAttrs(ctx, slog.LevelInfo, "dispatch started stream", attrs...)
			return resp, nil
		})
	}
}
