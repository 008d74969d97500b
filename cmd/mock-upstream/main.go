// Command mock-upstream runs a deterministic fake of the provider
// streaming APIs the chat proxy talks to, for local runs without real
// provider keys. Point the proxy at it with the CHATPROXY_*_BASE_URL
// variables.
//
// Endpoints:
//
//	POST /chat/completions, /v1/chat/completions  OpenAI-style SSE (DeepSeek, OpenAI, Nebius)
//	POST /v1/models/{model}, /v1beta/models/{model} Gemini streamGenerateContent-style SSE
//	POST /v1/messages                              Anthropic Messages SSE
//
// A last user message containing "fail with NNN" makes any endpoint answer
// with that HTTP status and a JSON error body.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	srv := &http.Server{Addr: ":" + port, Handler: newMux()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock upstream starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock upstream failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock upstream shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/completions", handleChatCompletions)
	mux.HandleFunc("POST /v1/chat/completions", handleChatCompletions)
	mux.HandleFunc("POST /v1/models/{model}", handleGemini)
	mux.HandleFunc("POST /v1beta/models/{model}", handleGemini)
	mux.HandleFunc("POST /v1/messages", handleMessages)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return mux
}

// --- Request types ---

// message covers the OpenAI and Anthropic shapes.
type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type geminiRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text any `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
}

// --- Handlers ---

func handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request")
		return
	}
	last := lastUserText(req.Messages)
	if status, ok := requestedFailure(last); ok {
		writeJSONError(w, status, "mock failure")
		return
	}

	model := req.Model
	if model == "" {
		model = "mock-model"
	}

	sse := newSSE(w)
	sse.data(chunk(model, map[string]any{"role": "assistant"}, nil))
	for _, token := range reply(last) {
		sse.data(chunk(model, map[string]any{"content": token}, nil))
	}
	sse.data(chunk(model, map[string]any{}, "stop"))
	sse.raw("data: [DONE]\n\n")
}

func handleGemini(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.PathValue("model"), ":generateContent") &&
		!strings.HasSuffix(r.PathValue("model"), ":streamGenerateContent") {
		http.NotFound(w, r)
		return
	}

	var req geminiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request")
		return
	}
	var last string
	for i := len(req.Contents) - 1; i >= 0 && last == ""; i-- {
		if req.Contents[i].Role != "user" {
			continue
		}
		for _, p := range req.Contents[i].Parts {
			if s, ok := p.Text.(string); ok {
				last = s
			}
		}
	}
	if status, ok := requestedFailure(last); ok {
		writeJSONError(w, status, "mock failure")
		return
	}

	sse := newSSE(w)
	tokens := reply(last)
	for i, token := range tokens {
		candidate := map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": token}},
			},
		}
		if i == len(tokens)-1 {
			candidate["finishReason"] = "STOP"
		}
		sse.data(map[string]any{"candidates": []any{candidate}})
	}
}

func handleMessages(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request")
		return
	}
	last := lastUserText(req.Messages)
	if status, ok := requestedFailure(last); ok {
		writeJSONError(w, status, "mock failure")
		return
	}

	sse := newSSE(w)
	sse.event("message_start", map[string]any{
		"type":    "message_start",
		"message": map[string]any{"id": "msg_mock", "role": "assistant", "model": req.Model},
	})
	sse.event("content_block_start", map[string]any{
		"type": "content_block_start", "index": 0,
		"content_block": map[string]any{"type": "text", "text": ""},
	})
	for _, token := range reply(last) {
		sse.event("content_block_delta", map[string]any{
			"type": "content_block_delta", "index": 0,
			"delta": map[string]any{"type": "text_delta", "text": token},
		})
	}
	sse.event("content_block_stop", map[string]any{"type": "content_block_stop", "index": 0})
	sse.event("message_delta", map[string]any{
		"type":  "message_delta",
		"delta": map[string]any{"stop_reason": "end_turn"},
	})
	sse.event("message_stop", map[string]any{"type": "message_stop"})
}

// --- SSE helpers ---

type sseWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func newSSE(w http.ResponseWriter) *sseWriter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	return &sseWriter{w: w, rc: http.NewResponseController(w)}
}

func (s *sseWriter) raw(line string) {
	fmt.Fprint(s.w, line)
	s.rc.Flush()
}

func (s *sseWriter) data(v any) {
	b, _ := json.Marshal(v)
	s.raw("data: " + string(b) + "\n\n")
}

func (s *sseWriter) event(name string, v any) {
	b, _ := json.Marshal(v)
	s.raw("event: " + name + "\ndata: " + string(b) + "\n\n")
}

func chunk(model string, delta map[string]any, finish any) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-mock-stream",
		"object": "chat.completion.chunk",
		"model":  model,
		"choices": []any{map[string]any{
			"index":         0,
			"delta":         delta,
			"finish_reason": finish,
		}},
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": status, "message": msg},
	})
}

// --- Helpers ---

var failurePattern = regexp.MustCompile(`fail with (\d{3})`)

func requestedFailure(text string) (int, bool) {
	m := failurePattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	status, err := strconv.Atoi(m[1])
	if err != nil || status < 400 {
		return 0, false
	}
	return status, true
}

// reply echoes the user's text back as a token sequence.
func reply(last string) []string {
	if last == "" {
		return []string{"Hello", ", ", "nice", " ", "day", "!"}
	}
	words := strings.Fields("You said: " + last)
	tokens := make([]string, 0, len(words))
	for i, word := range words {
		if i > 0 {
			word = " " + word
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func lastUserText(msgs []message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != "user" {
			continue
		}
		switch v := msgs[i].Content.(type) {
		case string:
			return v
		case []any:
			for _, part := range v {
				if m, ok := part.(map[string]any); ok {
					if text, ok := m["text"].(string); ok {
						return text
					}
				}
			}
		}
	}
	return ""
}
