// Package provider defines the contract for upstream LLM adapters. An
// Adapter turns the caller's messages into one fully formed outbound HTTP
// request (URL, headers, JSON body) for a single model id. Adapters never
// perform I/O; the engine sends the request and relays the stream.
//
// Each provider lives in its own subpackage (deepseek, openai, gemini,
// nebius, claude). The registry subpackage maps model ids to adapters.
package provider
