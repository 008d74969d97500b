package api

import (
	"encoding/json"
	"testing"
)

func TestChatRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"model":"gpt-4o-mini","messages":[{"role":"user","content":"hi"}]}`, false},
		{"empty messages accepted", `{"model":"gpt-4o-mini","messages":[]}`, false},
		{"missing model", `{"messages":[]}`, true},
		{"empty model", `{"model":"","messages":[]}`, true},
		{"missing messages", `{"model":"claude"}`, true},
		{"null messages", `{"model":"claude","messages":null}`, true},
		{"empty string messages", `{"model":"claude","messages":""}`, true},
		{"false messages", `{"model":"claude","messages":false}`, true},
		{"zero messages", `{"model":"claude","messages":0}`, true},
		{"zero model", `{"model":0,"messages":[]}`, true},
		{"negative zero model", `{"model":-0.0,"messages":[]}`, true},
		{"false model", `{"model":false,"messages":[]}`, true},
		{"null model", `{"model":null,"messages":[]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ChatRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			apiErr := req.Validate()
			if (apiErr != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", apiErr, tt.wantErr)
			}
			if apiErr != nil && apiErr.Kind != ErrorKindBadRequest {
				t.Errorf("Kind = %q, want %q", apiErr.Kind, ErrorKindBadRequest)
			}
		})
	}
}

func TestChatRequestNonStringModelKeepsText(t *testing.T) {
	var req ChatRequest
	if err := json.Unmarshal([]byte(`{"model":42,"messages":[]}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.Model != "42" {
		t.Errorf("Model = %q, want %q", req.Model, "42")
	}
	if apiErr := req.Validate(); apiErr != nil {
		t.Errorf("Validate() = %v, want nil", apiErr)
	}
}

func TestChatRequestTruthyNonListMessagesFails(t *testing.T) {
	for _, body := range []string{
		`{"model":"claude","messages":"hi"}`,
		`{"model":"claude","messages":true}`,
		`{"model":"claude","messages":{"role":"user"}}`,
	} {
		var req ChatRequest
		if err := json.Unmarshal([]byte(body), &req); err == nil {
			t.Errorf("%s: expected decode error", body)
		}
	}
}

func TestChatMessagePreservesOriginalEncoding(t *testing.T) {
	in := `{"role":"user","content":"hi","name":"alice"}`

	var m ChatMessage
	if err := json.Unmarshal([]byte(in), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Role != "user" || m.Content != "hi" {
		t.Errorf("decoded role=%q content=%q", m.Role, m.Content)
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != in {
		t.Errorf("re-encoded %s, want %s", out, in)
	}
}

func TestChatMessageNonStringContent(t *testing.T) {
	in := `{"role":"user","content":[{"type":"text","text":"hi"}]}`

	var m ChatMessage
	if err := json.Unmarshal([]byte(in), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Content != `[{"type":"text","text":"hi"}]` {
		t.Errorf("Content = %q", m.Content)
	}
	if got := string(m.ContentJSON()); got != `[{"type":"text","text":"hi"}]` {
		t.Errorf("ContentJSON = %s", got)
	}
}

func TestChatMessageContentJSON(t *testing.T) {
	built := NewChatMessage("assistant", `say "hi"`)
	if got := string(built.ContentJSON()); got != `"say \"hi\""` {
		t.Errorf("built ContentJSON = %s", got)
	}

	var noContent ChatMessage
	if err := json.Unmarshal([]byte(`{"role":"user"}`), &noContent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if noContent.ContentJSON() != nil {
		t.Errorf("expected nil ContentJSON for absent content, got %s", noContent.ContentJSON())
	}
}

func TestModelDescriptorJSON(t *testing.T) {
	data, err := json.Marshal(ModelsResponse{Models: []ModelDescriptor{{Value: "claude", Label: "Claude 3 Sonnet (Anthropic)"}}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"models":[{"value":"claude","label":"Claude 3 Sonnet (Anthropic)","disabled":false}]}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
