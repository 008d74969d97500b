// Package config provides unified configuration for the chat proxy.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. Optional .env file merged into the process environment
//  3. YAML config file (discovered or explicitly specified)
//  4. Environment variable overrides (CHATPROXY_ prefix)
//  5. File reference resolution (credentials.files)
//  6. Validation
package config

import "time"

// Config holds all configuration for the chat proxy.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Providers     ProvidersConfig     `yaml:"providers"`
	Credentials   CredentialsConfig   `yaml:"credentials"`
	Observability ObservabilityConfig `yaml:"observability"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	MaxBodySize     int64         `yaml:"max_body_size"`    // default: 10 MiB
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 0 (streams are unbounded)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 30s
}

// ProvidersConfig holds upstream provider settings.
type ProvidersConfig struct {
	DeepSeek ProviderConfig `yaml:"deepseek"`
	OpenAI   ProviderConfig `yaml:"openai"`
	Gemini   ProviderConfig `yaml:"gemini"`
	Nebius   ProviderConfig `yaml:"nebius"`
	Claude   ProviderConfig `yaml:"claude"`

	// CheckUpstreamStatus turns a non-2xx upstream status into an error
	// response for every provider, not only the ones that check by default.
	CheckUpstreamStatus bool `yaml:"check_upstream_status"`
}

// ProviderConfig holds settings for one upstream provider.
type ProviderConfig struct {
	// BaseURL replaces the scheme and host of the provider's endpoints.
	BaseURL string `yaml:"base_url"`
}

// CredentialsConfig holds provider API key sources besides the environment.
type CredentialsConfig struct {
	// Values maps credential names (e.g. OPENAI_API_KEY) to keys.
	Values map[string]string `yaml:"values"`
	// Files maps credential names to files holding the key.
	Files          map[string]string    `yaml:"files"`
	ParameterStore ParameterStoreConfig `yaml:"parameter_store"`
}

// ParameterStoreConfig enables AWS SSM Parameter Store lookups for
// credentials missing from the other sources.
type ParameterStoreConfig struct {
	Prefix string `yaml:"prefix"` // empty disables the lookup
	Region string `yaml:"region"` // optional, SDK default chain otherwise
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // ERROR, WARN, INFO, DEBUG or TRACE; default: INFO
	Debug  string `yaml:"debug"`  // comma-separated debug categories
	Format string `yaml:"format"` // "text" or "json"; default: "text"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			MaxBodySize:     10 << 20,
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
		},
	}
}
