// Package registry maps client-facing model ids to provider adapters.
// The set of accepted model ids is exactly the set of registered adapters.
package registry

import (
	"fmt"

	"github.com/rhuss/chatproxy/pkg/provider"
	"github.com/rhuss/chatproxy/pkg/provider/claude"
	"github.com/rhuss/chatproxy/pkg/provider/deepseek"
	"github.com/rhuss/chatproxy/pkg/provider/gemini"
	"github.com/rhuss/chatproxy/pkg/provider/nebius"
	"github.com/rhuss/chatproxy/pkg/provider/openai"
)

// Config carries per-provider settings for the default registry.
type Config struct {
	DeepSeek deepseek.Config
	OpenAI   openai.Config
	Gemini   gemini.Config
	Nebius   nebius.Config
	Claude   claude.Config
}

// Registry is an immutable model id to adapter table.
type Registry struct {
	adapters map[string]provider.Adapter
	order    []string
}

// New builds a Registry from the given adapters. Duplicate model ids are
// rejected.
func New(adapters ...provider.Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[string]provider.Adapter, len(adapters))}
	for _, a := range adapters {
		if a == nil {
			return nil, fmt.Errorf("registry: nil adapter")
		}
		id := a.Model()
		if _, dup := r.adapters[id]; dup {
			return nil, fmt.Errorf("registry: duplicate model %q", id)
		}
		r.adapters[id] = a
		r.order = append(r.order, id)
	}
	return r, nil
}

// Default builds the registry of every supported model.
func Default(cfg Config) (*Registry, error) {
	chat, err := deepseek.New(deepseek.ModelChat, cfg.DeepSeek)
	if err != nil {
		return nil, err
	}
	reasoner, err := deepseek.New(deepseek.ModelReasoner, cfg.DeepSeek)
	if err != nil {
		return nil, err
	}

	adapters := []provider.Adapter{chat, reasoner, openai.New(cfg.OpenAI)}
	for _, v := range gemini.Variants() {
		adapters = append(adapters, gemini.New(v, cfg.Gemini))
	}
	adapters = append(adapters, nebius.New(cfg.Nebius), claude.New(cfg.Claude))

	return New(adapters...)
}

// Lookup returns the adapter for a model id.
func (r *Registry) Lookup(model string) (provider.Adapter, bool) {
	a, ok := r.adapters[model]
	return a, ok
}

// Models returns the accepted model ids in registration order.
func (r *Registry) Models() []string {
	return append([]string(nil), r.order...)
}
