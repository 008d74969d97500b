// Package gemini adapts chat requests to Google's Gemini generateContent
// streaming endpoint. Three model variants share the translation and differ
// in endpoint, sampling values and upstream status handling.
package gemini

import (
	"encoding/json"

	"github.com/rhuss/chatproxy/pkg/api"
	"github.com/rhuss/chatproxy/pkg/credentials"
	"github.com/rhuss/chatproxy/pkg/provider"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// APIKeyHeader carries the credential.
const APIKeyHeader = "X-goog-api-key"

// Variant describes one accepted Gemini model id.
type Variant struct {
	ID              string
	Path            string
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
	CheckStatus     bool
}

var (
	// Flash is gemini-2.0-flash.
	Flash = Variant{
		ID:              "gemini-flash",
		Path:            "/v1/models/gemini-2.0-flash:generateContent?alt=sse",
		Temperature:     1.0,
		TopP:            1.0,
		MaxOutputTokens: 1024,
	}

	// FlashLite is gemini-2.0-flash-lite.
	FlashLite = Variant{
		ID:              "gemini-flash-lite",
		Path:            "/v1/models/gemini-2.0-flash-lite:generateContent?alt=sse",
		Temperature:     0.7,
		TopP:            0.9,
		MaxOutputTokens: 500,
		CheckStatus:     true,
	}

	// Flash25Lite is the 2.5 flash-lite preview on v1beta.
	Flash25Lite = Variant{
		ID:              "gemini-2-5-flash-lite",
		Path:            "/v1beta/models/gemini-2-5-flash-lite:generateContent?alt=sse",
		Temperature:     0.7,
		TopP:            0.9,
		MaxOutputTokens: 500,
		CheckStatus:     true,
	}
)

// Variants returns every supported variant.
func Variants() []Variant {
	return []Variant{Flash, FlashLite, Flash25Lite}
}

// Config holds configuration for the Gemini adapters.
type Config struct {
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
}

// Adapter implements provider.Adapter for one Gemini variant.
type Adapter struct {
	url     string
	variant Variant
}

var _ provider.Adapter = (*Adapter)(nil)

// New creates an adapter for the given variant.
func New(v Variant, cfg Config) *Adapter {
	return &Adapter{
		url:     provider.Endpoint(cfg.BaseURL, DefaultBaseURL, v.Path),
		variant: v,
	}
}

func (a *Adapter) Name() string       { return "gemini" }
func (a *Adapter) Model() string      { return a.variant.ID }
func (a *Adapter) Credential() string { return credentials.GeminiAPIKey }
func (a *Adapter) ChecksStatus() bool { return a.variant.CheckStatus }

// BuildRequest translates the messages to Gemini contents.
func (a *Adapter) BuildRequest(messages []api.ChatMessage, apiKey string) (*provider.Request, error) {
	body := generateContentRequest{
		Contents: translateMessages(messages),
		GenerationConfig: generationConfig{
			Temperature:     a.variant.Temperature,
			TopP:            a.variant.TopP,
			MaxOutputTokens: a.variant.MaxOutputTokens,
		},
		SafetySettings: []json.RawMessage{},
	}
	req, err := provider.NewJSONRequest(a.url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(APIKeyHeader, apiKey)
	return req, nil
}

// translateMessages drops system messages and maps roles: "user" stays
// "user", every other role becomes "model". Content is copied as-is into a
// single text part.
func translateMessages(messages []api.ChatMessage) []content {
	out := make([]content, 0, len(messages))
	for _, m := range messages {
		if m.Role == "system" {
			continue
		}
		role := "model"
		if m.Role == "user" {
			role = "user"
		}
		out = append(out, content{
			Role:  role,
			Parts: []part{{Text: m.ContentJSON()}},
		})
	}
	return out
}
