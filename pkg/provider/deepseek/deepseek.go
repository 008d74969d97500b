// Package deepseek adapts chat requests to the DeepSeek Chat Completions
// endpoint. One adapter serves each DeepSeek model id.
package deepseek

import (
	"fmt"

	"github.com/rhuss/chatproxy/pkg/api"
	"github.com/rhuss/chatproxy/pkg/credentials"
	"github.com/rhuss/chatproxy/pkg/provider"
	"github.com/rhuss/chatproxy/pkg/provider/openaicompat"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.deepseek.com"

// Model ids. They are sent upstream unchanged.
const (
	ModelChat     = "deepseek-chat"
	ModelReasoner = "deepseek-reasoner"
)

// chatTemperature is only applied to ModelChat.
const chatTemperature = 0.7

// Config holds configuration for the DeepSeek adapter.
type Config struct {
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
}

// Adapter implements provider.Adapter for one DeepSeek model.
type Adapter struct {
	url   string
	model string
}

var _ provider.Adapter = (*Adapter)(nil)

// New creates an adapter for ModelChat or ModelReasoner.
func New(model string, cfg Config) (*Adapter, error) {
	switch model {
	case ModelChat, ModelReasoner:
	default:
		return nil, fmt.Errorf("deepseek: unsupported model %q", model)
	}
	return &Adapter{
		url:   provider.Endpoint(cfg.BaseURL, DefaultBaseURL, "/chat/completions"),
		model: model,
	}, nil
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return "deepseek" }

// Model returns the model id.
func (a *Adapter) Model() string { return a.model }

// Credential returns the credential name.
func (a *Adapter) Credential() string { return credentials.DeepSeekAPIKey }

// ChecksStatus reports false: upstream errors are streamed through.
func (a *Adapter) ChecksStatus() bool { return false }

// BuildRequest shapes the streaming Chat Completions request.
func (a *Adapter) BuildRequest(messages []api.ChatMessage, apiKey string) (*provider.Request, error) {
	body := &openaicompat.ChatRequest{
		Model:    a.model,
		Messages: messages,
		Stream:   true,
	}
	if a.model == ModelChat {
		body.Temperature = openaicompat.Float(chatTemperature)
	}
	return openaicompat.NewRequest(a.url, apiKey, body)
}
