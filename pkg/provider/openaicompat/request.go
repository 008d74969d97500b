package openaicompat

import (
	"github.com/rhuss/chatproxy/pkg/api"
	"github.com/rhuss/chatproxy/pkg/provider"
)

// ChatCompletionsPath is the request path used by every compatible provider
// except DeepSeek, which serves it at the root.
const ChatCompletionsPath = "/v1/chat/completions"

// NewRequest builds a Bearer-authenticated Chat Completions request.
func NewRequest(url, apiKey string, body *ChatRequest) (*provider.Request, error) {
	if body.Messages == nil {
		body.Messages = []api.ChatMessage{}
	}
	req, err := provider.NewJSONRequest(url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	return req, nil
}
