// Package claude adapts chat requests to the Anthropic Messages API.
package claude

import (
	"encoding/json"

	"github.com/rhuss/chatproxy/pkg/api"
	"github.com/rhuss/chatproxy/pkg/credentials"
	"github.com/rhuss/chatproxy/pkg/provider"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.anthropic.com"

const (
	// ModelID is the client-facing model id.
	ModelID = "claude"

	// UpstreamModel is the model requested from Anthropic.
	UpstreamModel = "claude-3-7-sonnet-20250219"

	// APIVersion is sent as the anthropic-version header.
	APIVersion = "2023-06-01"

	maxTokens = 2048
)

// Config holds configuration for the Claude adapter.
type Config struct {
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
}

// Adapter implements provider.Adapter for the claude model id.
type Adapter struct {
	url string
}

var _ provider.Adapter = (*Adapter)(nil)

// New creates a Claude adapter.
func New(cfg Config) *Adapter {
	return &Adapter{url: provider.Endpoint(cfg.BaseURL, DefaultBaseURL, "/v1/messages")}
}

func (a *Adapter) Name() string       { return "claude" }
func (a *Adapter) Model() string      { return ModelID }
func (a *Adapter) Credential() string { return credentials.ClaudeAPIKey }
func (a *Adapter) ChecksStatus() bool { return false }

type message struct {
	Role    string          `json:"role,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
	Stream    bool      `json:"stream"`
}

// BuildRequest keeps only role and content of each message.
func (a *Adapter) BuildRequest(messages []api.ChatMessage, apiKey string) (*provider.Request, error) {
	msgs := make([]message, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, message{Role: m.Role, Content: m.ContentJSON()})
	}

	req, err := provider.NewJSONRequest(a.url, messagesRequest{
		Model:     UpstreamModel,
		Messages:  msgs,
		MaxTokens: maxTokens,
		Stream:    true,
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", apiKey)
	req.Header.Set("anthropic-version", APIVersion)
	return req, nil
}
