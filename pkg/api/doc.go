// Package api defines the wire types shared by the chat proxy: incoming chat
// requests, model descriptors, upstream stream handles and the typed errors
// that the transport layer renders as {"error": "..."} bodies.
//
// Core types:
//   - [ChatRequest]: client request naming a model and its messages
//   - [ChatMessage]: one message, kept as raw JSON for pass-through providers
//   - [ModelDescriptor]: entry in the available-model list
//   - [UpstreamResponse]: streaming handle returned by a dispatched request
//   - [APIError]: classified failure with the HTTP status it maps to
//
// The package performs no I/O.
package api
