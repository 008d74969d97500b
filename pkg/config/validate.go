package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rhuss/chatproxy/pkg/credentials"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_size must be > 0, got %d", c.Server.MaxBodySize))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server timeouts must not be negative"))
	}

	providers := []struct {
		name string
		cfg  ProviderConfig
	}{
		{"deepseek", c.Providers.DeepSeek},
		{"openai", c.Providers.OpenAI},
		{"gemini", c.Providers.Gemini},
		{"nebius", c.Providers.Nebius},
		{"claude", c.Providers.Claude},
	}
	for _, p := range providers {
		if p.cfg.BaseURL == "" {
			continue
		}
		u, err := url.Parse(p.cfg.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("providers.%s.base_url must be an absolute http(s) URL, got %q", p.name, p.cfg.BaseURL))
		}
	}

	for name := range c.Credentials.Values {
		if !credentials.IsKnown(name) {
			errs = append(errs, fmt.Errorf("credentials.values: unknown credential %q", name))
		}
	}
	for name := range c.Credentials.Files {
		if !credentials.IsKnown(name) {
			errs = append(errs, fmt.Errorf("credentials.files: unknown credential %q", name))
		}
	}

	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("observability.metrics.path must start with \"/\", got %q", c.Observability.Metrics.Path))
	}

	switch strings.ToUpper(c.Logging.Level) {
	case "", "ERROR", "WARN", "INFO", "DEBUG", "TRACE":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of ERROR, WARN, INFO, DEBUG, TRACE, got %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
