package gemini

import "encoding/json"

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig generationConfig  `json:"generationConfig"`
	SafetySettings   []json.RawMessage `json:"safetySettings"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

// part.Text holds the client's content value verbatim.
type part struct {
	Text json.RawMessage `json:"text,omitempty"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}
