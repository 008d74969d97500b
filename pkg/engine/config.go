package engine

import "net/http"

// Config holds configuration for the dispatch engine.
type Config struct {
	// CheckUpstreamStatus applies the upstream status pre-check to every
	// adapter, not only the ones that request it.
	CheckUpstreamStatus bool

	// HTTPClient sends upstream requests. Nil means a client without a
	// timeout; streams end when the upstream or the caller ends them.
	HTTPClient *http.Client

	// MaxErrorBody caps how much of a rejected upstream body is read into
	// the error message. Zero means DefaultMaxErrorBody.
	MaxErrorBody int64
}

// DefaultMaxErrorBody is the error body cap used when none is configured.
const DefaultMaxErrorBody = 64 << 10

func (c Config) maxErrorBody() int64 {
	if c.MaxErrorBody > 0 {
		return c.MaxErrorBody
	}
	return DefaultMaxErrorBody
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{}
}
