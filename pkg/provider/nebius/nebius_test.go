package nebius

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/rhuss/chatproxy/pkg/api"
)

func TestBuildRequest(t *testing.T) {
	a := New(Config{})
	req, err := a.BuildRequest([]api.ChatMessage{api.NewChatMessage("user", "hi")}, "nb-key")
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}

	if req.URL != "https://api.studio.nebius.com/v1/chat/completions" {
		t.Errorf("URL = %q", req.URL)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer nb-key" {
		t.Errorf("Authorization = %q", got)
	}

	var body map[string]any
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{
		"model":             "deepseek-ai/DeepSeek-V3-0324",
		"store":             false,
		"messages":          []any{map[string]any{"role": "user", "content": "hi"}},
		"max_tokens":        float64(1024),
		"temperature":       float64(1),
		"top_p":             float64(1),
		"n":                 float64(1),
		"stream":            true,
		"presence_penalty":  float64(0),
		"frequency_penalty": float64(0),
	}
	if !reflect.DeepEqual(body, want) {
		t.Errorf("body = %v\nwant %v", body, want)
	}
}

func TestAdapterMetadata(t *testing.T) {
	a := New(Config{})
	if a.Name() != "nebius" || a.Model() != "nebius-studio" || a.Credential() != "NEBIUS_API_KEY" || a.ChecksStatus() {
		t.Errorf("unexpected metadata")
	}
}
