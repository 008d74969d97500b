package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// ChatMessage is a single conversational turn. The message is retained as
// the raw JSON it arrived as, so that providers which pass messages through
// forward them unchanged. Content holds the string content, or the raw JSON
// text when the client sent a non-string value.
type ChatMessage struct {
	Role    string
	Content string

	raw     json.RawMessage
	content json.RawMessage
}

// NewChatMessage builds a message from plain strings.
func NewChatMessage(role, content string) ChatMessage {
	return ChatMessage{Role: role, Content: content}
}

// UnmarshalJSON decodes a message while keeping its original encoding.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var wire struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	m.Role = wire.Role
	m.Content = ""
	m.content = nil
	if len(wire.Content) > 0 {
		m.content = append(json.RawMessage(nil), wire.Content...)
		var s string
		if err := json.Unmarshal(wire.Content, &s); err == nil {
			m.Content = s
		} else {
			m.Content = string(wire.Content)
		}
	}
	m.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the original encoding when the message was decoded,
// and {"role","content"} otherwise.
func (m ChatMessage) MarshalJSON() ([]byte, error) {
	if m.raw != nil {
		return m.raw, nil
	}
	return json.Marshal(struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{m.Role, m.Content})
}

// ContentJSON returns the content value as JSON. It returns nil when the
// decoded message carried no content field.
func (m ChatMessage) ContentJSON() json.RawMessage {
	if m.content != nil {
		return m.content
	}
	if m.raw != nil {
		return nil
	}
	b, _ := json.Marshal(m.Content)
	return b
}

// ChatRequest is the body of POST /api/ai.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// UnmarshalJSON treats a falsy model or messages value (null, false, 0 or
// "") as absent, so Validate reports it as a bad request. A model id that
// is not a string is kept as its JSON text and never matches a registered
// model. Messages that are present but not a list are a decode error.
func (r *ChatRequest) UnmarshalJSON(data []byte) error {
	var wire struct {
		Model    json.RawMessage `json:"model"`
		Messages json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*r = ChatRequest{}
	if !isFalsy(wire.Model) {
		if err := json.Unmarshal(wire.Model, &r.Model); err != nil {
			r.Model = string(bytes.TrimSpace(wire.Model))
		}
	}
	if !isFalsy(wire.Messages) {
		if err := json.Unmarshal(wire.Messages, &r.Messages); err != nil {
			return fmt.Errorf("messages: %w", err)
		}
	}
	return nil
}

// isFalsy reports whether a JSON value is missing, null, false, a zero
// number or the empty string.
func isFalsy(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	switch string(v) {
	case "", "null", "false", `""`:
		return true
	}
	if v[0] == '-' || (v[0] >= '0' && v[0] <= '9') {
		f, err := strconv.ParseFloat(string(v), 64)
		return err == nil && f == 0
	}
	return false
}

// Validate reports a bad request when the model is empty or the messages
// field is absent or null. An empty message list is accepted.
func (r *ChatRequest) Validate() *APIError {
	if r.Model == "" || r.Messages == nil {
		return NewBadRequestError("Missing model or messages")
	}
	return nil
}

// ModelDescriptor is one entry of the available-model list.
type ModelDescriptor struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// ModelsResponse is the body of a successful POST /api/models.
type ModelsResponse struct {
	Models []ModelDescriptor `json:"models"`
}

// ModelsErrorResponse is the body of a failed POST /api/models. It still
// carries a usable model list.
type ModelsErrorResponse struct {
	Error  string            `json:"error"`
	Models []ModelDescriptor `json:"models"`
}

// UpstreamResponse is an open provider response whose body is relayed to
// the client as it arrives. The caller must close Body.
type UpstreamResponse struct {
	StatusCode  int
	ContentType string
	Body        io.ReadCloser
}
