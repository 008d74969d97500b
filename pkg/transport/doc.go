// Package transport defines the handler interfaces and middleware chain
// between the HTTP layer and the chat dispatch engine.
//
// # Handler Interfaces
//
//   - ChatDispatcher resolves a chat request to an open upstream stream.
//   - ModelLister reports the models the deployment can serve.
//
// # Middleware
//
// Middleware wraps a ChatDispatcher with cross-cutting concerns. Built-in
// middleware provides panic recovery, request ID assignment (X-Request-ID)
// and structured logging via log/slog.
//
// # Errors
//
// Every failure that reaches a client is an *api.APIError. HTTPStatusFromError
// maps its kind to a status code and WriteAPIError renders the
// {"error": "..."} body.
package transport
