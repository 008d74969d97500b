package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rhuss/chatproxy/pkg/api"
)

// Adapter shapes the upstream request for one accepted model id.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Adapter interface {
	// Name returns the provider identifier (e.g., "gemini", "claude").
	Name() string

	// Model returns the client-facing model id this adapter serves.
	Model() string

	// Credential returns the name of the credential the adapter needs.
	Credential() string

	// ChecksStatus reports whether a non-2xx upstream status must be
	// turned into an error instead of being streamed to the client.
	ChecksStatus() bool

	// BuildRequest produces the outbound request for the given messages
	// and API key.
	BuildRequest(messages []api.ChatMessage, apiKey string) (*Request, error)
}

// Request is a fully shaped outbound POST.
type Request struct {
	URL    string
	Header http.Header
	Body   []byte
}

// NewJSONRequest marshals body and returns a Request with a JSON
// Content-Type.
func NewJSONRequest(url string, body any) (*Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal upstream body: %w", err)
	}
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return &Request{URL: url, Header: h, Body: data}, nil
}

// NewHTTPRequest converts r into an *http.Request. The caller binds the
// context.
func (r *Request) NewHTTPRequest() (*http.Request, error) {
	req, err := http.NewRequest(http.MethodPost, r.URL, bytes.NewReader(r.Body))
	if err != nil {
		return nil, err
	}
	req.Header = r.Header.Clone()
	return req, nil
}

// Endpoint joins a base URL (scheme and host, optionally a path prefix)
// with a fixed path. An empty base falls back to def.
func Endpoint(base, def, path string) string {
	if base == "" {
		base = def
	}
	return strings.TrimRight(base, "/") + path
}
