// Package openaicompat holds the request shape shared by providers that
// speak the OpenAI Chat Completions protocol (DeepSeek, OpenAI, Nebius).
// Messages are forwarded exactly as the client sent them.
package openaicompat
