package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rhuss/chatproxy/pkg/debug"
)

// Credential names. Each is also the environment variable it is read from.
const (
	DeepSeekAPIKey = "DEEPSEEK_API_KEY"
	OpenAIAPIKey   = "OPENAI_API_KEY"
	GeminiAPIKey   = "GEMINI_API_KEY"
	ClaudeAPIKey   = "CLAUDE_API_KEY"
	NebiusAPIKey   = "NEBIUS_API_KEY"
)

// Names returns every known credential name.
func Names() []string {
	return []string{DeepSeekAPIKey, OpenAIAPIKey, GeminiAPIKey, ClaudeAPIKey, NebiusAPIKey}
}

// IsKnown reports whether name is one of Names().
func IsKnown(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Set is an immutable collection of credential values keyed by name.
// A credential counts as present only when its value is non-empty.
type Set struct {
	values map[string]string
}

// New creates a Set from the given values. Empty values are dropped and
// the map is copied.
func New(values map[string]string) *Set {
	s := &Set{values: make(map[string]string, len(values))}
	for k, v := range values {
		if v != "" {
			s.values[k] = v
		}
	}
	return s
}

// Lookup returns the value for name and whether it is present.
func (s *Set) Lookup(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether name is present.
func (s *Set) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Present returns the known credential names that have a value, in
// Names() order.
func (s *Set) Present() []string {
	var out []string
	for _, n := range Names() {
		if s.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// Source resolves a credential by name. found is false when the source
// has no value for it; err is reserved for failures of the source itself.
type Source interface {
	Lookup(ctx context.Context, name string) (value string, found bool, err error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, name string) (string, bool, error)

// Lookup calls f(ctx, name).
func (f SourceFunc) Lookup(ctx context.Context, name string) (string, bool, error) {
	return f(ctx, name)
}

// FromEnv reads credentials from the process environment.
func FromEnv() Source {
	return SourceFunc(func(_ context.Context, name string) (string, bool, error) {
		v := os.Getenv(name)
		return v, v != "", nil
	})
}

// FromMap reads credentials from a fixed map, typically config values.
func FromMap(values map[string]string) Source {
	return SourceFunc(func(_ context.Context, name string) (string, bool, error) {
		v := values[name]
		return v, v != "", nil
	})
}

// Load builds a Set by asking each source, in order, for every known
// credential. The first source that has a value wins.
func Load(ctx context.Context, sources ...Source) (*Set, error) {
	values := make(map[string]string)
	var errs []error

	for _, name := range Names() {
		for i, src := range sources {
			if src == nil {
				continue
			}
			v, found, err := src.Lookup(ctx, name)
			if err != nil {
				errs = append(errs, fmt.Errorf("credential %s (source %d): %w", name, i, err))
				continue
			}
			if found && v != "" {
				values[name] = v
				debug.Log("credentials", "credential resolved", "name", name, "source", i, "value", Mask(v))
				break
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return New(values), nil
}

// Mask returns a log-safe hint of a secret value.
func Mask(v string) string {
	if len(v) <= 8 {
		return strings.Repeat("*", len(v))
	}
	return v[:4] + "..." + v[len(v)-4:]
}
