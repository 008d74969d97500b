// Package catalog reports which models a deployment can serve, derived
// from the configured credentials. It never calls a provider.
package catalog

import (
	"context"

	"github.com/rhuss/chatproxy/pkg/api"
	"github.com/rhuss/chatproxy/pkg/credentials"
	"github.com/rhuss/chatproxy/pkg/transport"
)

// entry ties a group of descriptors to the credential that enables them.
type entry struct {
	credential string
	models     []api.ModelDescriptor
}

// catalogOrder is the fixed listing order.
var catalogOrder = []entry{
	{credentials.DeepSeekAPIKey, []api.ModelDescriptor{
		{Value: "deepseek-chat", Label: "DeepSeek-V3"},
		{Value: "deepseek-reasoner", Label: "DeepSeek-R1"},
	}},
	{credentials.OpenAIAPIKey, []api.ModelDescriptor{
		{Value: "gpt-4o-mini", Label: "GPT-4o Mini (OpenAI)"},
	}},
	{credentials.GeminiAPIKey, []api.ModelDescriptor{
		{Value: "gemini-flash", Label: "Gemini 2.0 Flash (Google)"},
		{Value: "gemini-flash-lite", Label: "Gemini 2.0 Flash-Lite (Google)"},
	}},
	{credentials.ClaudeAPIKey, []api.ModelDescriptor{
		{Value: "claude", Label: "Claude 3 Sonnet (Anthropic)"},
	}},
	{credentials.NebiusAPIKey, []api.ModelDescriptor{
		{Value: "nebius-studio", Label: "Nebius Studio"},
	}},
}

// Fallback returns the list served when no credential is configured or
// the listing fails.
func Fallback() []api.ModelDescriptor {
	return []api.ModelDescriptor{
		{Value: "deepseek-chat", Label: "DeepSeek-V3"},
		{Value: "deepseek-reasoner", Label: "DeepSeek-R1"},
	}
}

// Catalog implements transport.ModelLister over a credential set.
type Catalog struct {
	creds *credentials.Set
}

var _ transport.ModelLister = (*Catalog)(nil)

// New creates a Catalog. A nil set lists only the fallback.
func New(creds *credentials.Set) *Catalog {
	return &Catalog{creds: creds}
}

// ListModels returns the descriptors whose credential is present, in
// catalog order, or Fallback() when none is.
func (c *Catalog) ListModels(ctx context.Context) ([]api.ModelDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []api.ModelDescriptor
	for _, e := range catalogOrder {
		if c.creds.Has(e.credential) {
			out = append(out, e.models...)
		}
	}
	if len(out) == 0 {
		return Fallback(), nil
	}
	return out, nil
}
