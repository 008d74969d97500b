package openaicompat

import "github.com/rhuss/chatproxy/pkg/api"

// ChatRequest is a Chat Completions request body. Optional sampling fields
// are pointers so that only the values a provider fixes are sent.
type ChatRequest struct {
	Model            string            `json:"model"`
	Store            *bool             `json:"store,omitempty"`
	Messages         []api.ChatMessage `json:"messages"`
	MaxTokens        *int              `json:"max_tokens,omitempty"`
	Temperature      *float64          `json:"temperature,omitempty"`
	TopP             *float64          `json:"top_p,omitempty"`
	N                *int              `json:"n,omitempty"`
	Stream           bool              `json:"stream"`
	PresencePenalty  *float64          `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64          `json:"frequency_penalty,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
