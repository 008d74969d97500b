// Package nebius adapts chat requests to Nebius AI Studio, which serves
// DeepSeek-V3 behind an OpenAI-compatible endpoint.
package nebius

import (
	"github.com/rhuss/chatproxy/pkg/api"
	"github.com/rhuss/chatproxy/pkg/credentials"
	"github.com/rhuss/chatproxy/pkg/provider"
	"github.com/rhuss/chatproxy/pkg/provider/openaicompat"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.studio.nebius.com"

const (
	// ModelID is the client-facing model id.
	ModelID = "nebius-studio"

	// UpstreamModel is the model requested from Nebius.
	UpstreamModel = "deepseek-ai/DeepSeek-V3-0324"
)

// Config holds configuration for the Nebius adapter.
type Config struct {
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
}

// Adapter implements provider.Adapter for nebius-studio.
type Adapter struct {
	url string
}

var _ provider.Adapter = (*Adapter)(nil)

// New creates a Nebius adapter.
func New(cfg Config) *Adapter {
	return &Adapter{url: provider.Endpoint(cfg.BaseURL, DefaultBaseURL, openaicompat.ChatCompletionsPath)}
}

func (a *Adapter) Name() string       { return "nebius" }
func (a *Adapter) Model() string      { return ModelID }
func (a *Adapter) Credential() string { return credentials.NebiusAPIKey }
func (a *Adapter) ChecksStatus() bool { return false }

// BuildRequest shapes the request with the fixed Nebius sampling values.
func (a *Adapter) BuildRequest(messages []api.ChatMessage, apiKey string) (*provider.Request, error) {
	return openaicompat.NewRequest(a.url, apiKey, &openaicompat.ChatRequest{
		Model:            UpstreamModel,
		Store:            openaicompat.Bool(false),
		Messages:         messages,
		MaxTokens:        openaicompat.Int(1024),
		Temperature:      openaicompat.Float(1),
		TopP:             openaicompat.Float(1),
		N:                openaicompat.Int(1),
		Stream:           true,
		PresencePenalty:  openaicompat.Float(0),
		FrequencyPenalty: openaicompat.Float(0),
	})
}
