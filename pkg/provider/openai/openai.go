// Package openai adapts chat requests to the OpenAI Chat Completions API.
package openai

import (
	"github.com/rhuss/chatproxy/pkg/api"
	"github.com/rhuss/chatproxy/pkg/credentials"
	"github.com/rhuss/chatproxy/pkg/provider"
	"github.com/rhuss/chatproxy/pkg/provider/openaicompat"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.openai.com"

// ModelID is the client-facing id and the upstream model name.
const ModelID = "gpt-4o-mini"

// Config holds configuration for the OpenAI adapter.
type Config struct {
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
}

// Adapter implements provider.Adapter for gpt-4o-mini.
type Adapter struct {
	url string
}

var _ provider.Adapter = (*Adapter)(nil)

// New creates an OpenAI adapter.
func New(cfg Config) *Adapter {
	return &Adapter{url: provider.Endpoint(cfg.BaseURL, DefaultBaseURL, openaicompat.ChatCompletionsPath)}
}

func (a *Adapter) Name() string       { return "openai" }
func (a *Adapter) Model() string      { return ModelID }
func (a *Adapter) Credential() string { return credentials.OpenAIAPIKey }
func (a *Adapter) ChecksStatus() bool { return false }

// BuildRequest shapes the streaming Chat Completions request.
func (a *Adapter) BuildRequest(messages []api.ChatMessage, apiKey string) (*provider.Request, error) {
	return openaicompat.NewRequest(a.url, apiKey, &openaicompat.ChatRequest{
		Model:    ModelID,
		Messages: messages,
		Stream:   true,
	})
}
