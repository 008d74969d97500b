package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable the loader reads so host settings do not
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "CHATPROXY_PORT", "CHATPROXY_CONFIG",
		"CHATPROXY_DEEPSEEK_BASE_URL", "CHATPROXY_OPENAI_BASE_URL", "CHATPROXY_GEMINI_BASE_URL",
		"CHATPROXY_NEBIUS_BASE_URL", "CHATPROXY_CLAUDE_BASE_URL",
		"CHATPROXY_CHECK_UPSTREAM_STATUS", "CHATPROXY_SSM_PREFIX", "CHATPROXY_SSM_REGION",
		"CHATPROXY_METRICS_ENABLED", "CHATPROXY_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("default server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.MaxBodySize != 10<<20 {
		t.Errorf("default server.max_body_size = %d, want 10 MiB", cfg.Server.MaxBodySize)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("default server.read_timeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 0 {
		t.Errorf("default server.write_timeout = %v, want 0", cfg.Server.WriteTimeout)
	}
	if cfg.Providers.CheckUpstreamStatus {
		t.Error("default providers.check_upstream_status = true, want false")
	}
	if !cfg.Observability.Metrics.Enabled || cfg.Observability.Metrics.Path != "/metrics" {
		t.Errorf("default metrics = %+v", cfg.Observability.Metrics)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("default logging.level = %q, want INFO", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}
}

func TestLoadFromYAML(t *testing.T) {
	clearEnv(t)
	yamlContent := `
server:
  port: 9090
  max_body_size: 2048
  read_timeout: 60s
  write_timeout: 10m
  shutdown_timeout: 5s
providers:
  check_upstream_status: true
  deepseek:
    base_url: http://localhost:9090
  gemini:
    base_url: https://gemini.internal
credentials:
  values:
    OPENAI_API_KEY: sk-test-key
  parameter_store:
    prefix: /chatproxy/prod
    region: eu-central-1
observability:
  metrics:
    enabled: false
logging:
  level: DEBUG
  debug: providers,transport
  format: json
`

	tmpFile := writeTemp(t, "config-*.yaml", yamlContent)

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.MaxBodySize != 2048 {
		t.Errorf("server.max_body_size = %d, want 2048", cfg.Server.MaxBodySize)
	}
	if cfg.Server.ReadTimeout != 60*time.Second {
		t.Errorf("server.read_timeout = %v, want 60s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 10*time.Minute {
		t.Errorf("server.write_timeout = %v, want 10m", cfg.Server.WriteTimeout)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("server.shutdown_timeout = %v, want 5s", cfg.Server.ShutdownTimeout)
	}

	if !cfg.Providers.CheckUpstreamStatus {
		t.Error("providers.check_upstream_status = false, want true")
	}
	if cfg.Providers.DeepSeek.BaseURL != "http://localhost:9090" {
		t.Errorf("providers.deepseek.base_url = %q", cfg.Providers.DeepSeek.BaseURL)
	}
	if cfg.Providers.Gemini.BaseURL != "https://gemini.internal" {
		t.Errorf("providers.gemini.base_url = %q", cfg.Providers.Gemini.BaseURL)
	}
	if cfg.Providers.OpenAI.BaseURL != "" {
		t.Errorf("providers.openai.base_url = %q, want empty", cfg.Providers.OpenAI.BaseURL)
	}

	if cfg.Credentials.Values["OPENAI_API_KEY"] != "sk-test-key" {
		t.Errorf("credentials.values = %v", cfg.Credentials.Values)
	}
	if cfg.Credentials.ParameterStore.Prefix != "/chatproxy/prod" || cfg.Credentials.ParameterStore.Region != "eu-central-1" {
		t.Errorf("credentials.parameter_store = %+v", cfg.Credentials.ParameterStore)
	}

	if cfg.Observability.Metrics.Enabled {
		t.Error("observability.metrics.enabled = true, want false")
	}
	if cfg.Observability.Metrics.Path != "/metrics" {
		t.Errorf("observability.metrics.path = %q, want default /metrics", cfg.Observability.Metrics.Path)
	}

	if cfg.Logging.Level != "DEBUG" || cfg.Logging.Debug != "providers,transport" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	yamlContent := `
server:
  port: 9090
providers:
  openai:
    base_url: http://from-yaml:8000
`
	tmpFile := writeTemp(t, "config-*.yaml", yamlContent)

	t.Setenv("CHATPROXY_PORT", "7070")
	t.Setenv("CHATPROXY_OPENAI_BASE_URL", "http://from-env:8000")
	t.Setenv("CHATPROXY_CLAUDE_BASE_URL", "http://claude-env:8000")
	t.Setenv("CHATPROXY_CHECK_UPSTREAM_STATUS", "true")
	t.Setenv("CHATPROXY_SSM_PREFIX", "/env/prefix")
	t.Setenv("CHATPROXY_SSM_REGION", "us-east-1")
	t.Setenv("CHATPROXY_METRICS_ENABLED", "false")
	t.Setenv("CHATPROXY_LOG_FORMAT", "json")

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want 7070 (env override)", cfg.Server.Port)
	}
	if cfg.Providers.OpenAI.BaseURL != "http://from-env:8000" {
		t.Errorf("providers.openai.base_url = %q, want env override", cfg.Providers.OpenAI.BaseURL)
	}
	if cfg.Providers.Claude.BaseURL != "http://claude-env:8000" {
		t.Errorf("providers.claude.base_url = %q", cfg.Providers.Claude.BaseURL)
	}
	if !cfg.Providers.CheckUpstreamStatus {
		t.Error("providers.check_upstream_status = false, want true")
	}
	if cfg.Credentials.ParameterStore.Prefix != "/env/prefix" || cfg.Credentials.ParameterStore.Region != "us-east-1" {
		t.Errorf("parameter_store = %+v", cfg.Credentials.ParameterStore)
	}
	if cfg.Observability.Metrics.Enabled {
		t.Error("metrics enabled, want disabled by env")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("logging.format = %q, want json", cfg.Logging.Format)
	}
}

func TestEnvPortPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")

	cfg, err := Load(writeTemp(t, "config-*.yaml", "{}"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 from PORT", cfg.Server.Port)
	}

	t.Setenv("CHATPROXY_PORT", "4000")
	cfg, err = Load(writeTemp(t, "config-*.yaml", "{}"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("server.port = %d, want CHATPROXY_PORT to win", cfg.Server.Port)
	}
}

func TestEnvOverrideMalformed(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CHATPROXY_PORT", "eighty"},
		{"CHATPROXY_CHECK_UPSTREAM_STATUS", "maybe"},
		{"CHATPROXY_METRICS_ENABLED", "sometimes"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load(writeTemp(t, "config-*.yaml", "{}"))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not name %s", err, tt.key)
			}
		})
	}
}

func TestFileReference(t *testing.T) {
	clearEnv(t)
	secretFile := writeTemp(t, "secret-*.txt", "  sk-from-file-123  \n")

	yamlContent := `
credentials:
  files:
    CLAUDE_API_KEY: ` + secretFile + `
`
	cfg, err := Load(writeTemp(t, "config-*.yaml", yamlContent))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := cfg.Credentials.Values["CLAUDE_API_KEY"]; got != "sk-from-file-123" {
		t.Errorf("CLAUDE_API_KEY = %q, want trimmed file content", got)
	}
}

func TestFileReferenceDoesNotOverrideExplicitValue(t *testing.T) {
	clearEnv(t)
	secretFile := writeTemp(t, "secret-*.txt", "sk-from-file")

	yamlContent := `
credentials:
  values:
    GEMINI_API_KEY: sk-explicit
  files:
    GEMINI_API_KEY: ` + secretFile + `
`
	cfg, err := Load(writeTemp(t, "config-*.yaml", yamlContent))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := cfg.Credentials.Values["GEMINI_API_KEY"]; got != "sk-explicit" {
		t.Errorf("GEMINI_API_KEY = %q, want explicit value", got)
	}
}

func TestFileReferenceMissingFile(t *testing.T) {
	clearEnv(t)
	yamlContent := `
credentials:
  files:
    NEBIUS_API_KEY: /nonexistent/secret
`
	_, err := Load(writeTemp(t, "config-*.yaml", yamlContent))
	if err == nil {
		t.Fatal("expected error for missing secret file")
	}
	if !strings.Contains(err.Error(), "credentials.files.NEBIUS_API_KEY") {
		t.Errorf("error %q does not name the field", err)
	}
}

func TestFileDiscovery(t *testing.T) {
	clearEnv(t)

	// Explicit path.
	tmpFile := writeTemp(t, "config-*.yaml", "server:\n  port: 1111\n")
	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load(explicit) error: %v", err)
	}
	if cfg.Server.Port != 1111 {
		t.Errorf("explicit path: server.port = %d, want 1111", cfg.Server.Port)
	}

	// CHATPROXY_CONFIG.
	envFile := writeTemp(t, "envconfig-*.yaml", "server:\n  port: 2222\n")
	t.Setenv("CHATPROXY_CONFIG", envFile)
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(env) error: %v", err)
	}
	if cfg.Server.Port != 2222 {
		t.Errorf("CHATPROXY_CONFIG: server.port = %d, want 2222", cfg.Server.Port)
	}

	// ./config.yaml in the working directory.
	t.Setenv("CHATPROXY_CONFIG", "")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 3333\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(cwd) error: %v", err)
	}
	if cfg.Server.Port != 3333 {
		t.Errorf("./config.yaml: server.port = %d, want 3333", cfg.Server.Port)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeTemp(t, "config-*.yaml", "server: [not, a, map"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "port zero",
			modify:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too large",
			modify:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "body size",
			modify:  func(c *Config) { c.Server.MaxBodySize = 0 },
			wantErr: "server.max_body_size",
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Server.ShutdownTimeout = -time.Second },
			wantErr: "timeouts",
		},
		{
			name:    "relative base url",
			modify:  func(c *Config) { c.Providers.Nebius.BaseURL = "localhost:9090" },
			wantErr: "providers.nebius.base_url",
		},
		{
			name:    "unknown credential value",
			modify:  func(c *Config) { c.Credentials.Values = map[string]string{"MISTRAL_API_KEY": "x"} },
			wantErr: "MISTRAL_API_KEY",
		},
		{
			name:    "unknown credential file",
			modify:  func(c *Config) { c.Credentials.Files = map[string]string{"FOO": "/tmp/foo"} },
			wantErr: "credentials.files",
		},
		{
			name:    "metrics path",
			modify:  func(c *Config) { c.Observability.Metrics.Path = "metrics" },
			wantErr: "observability.metrics.path",
		},
		{
			name:    "log level",
			modify:  func(c *Config) { c.Logging.Level = "VERBOSE" },
			wantErr: "logging.level",
		},
		{
			name:    "log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name: "valid overrides",
			modify: func(c *Config) {
				c.Providers.Claude.BaseURL = "http://localhost:9090"
				c.Credentials.Values = map[string]string{"CLAUDE_API_KEY": "sk"}
				c.Logging.Level = "trace"
			},
		},
		{
			name:   "metrics path ignored when disabled",
			modify: func(c *Config) { c.Observability.Metrics = MetricsConfig{Enabled: false} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidationJoinsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = -1
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "server.port") || !strings.Contains(err.Error(), "logging.format") {
		t.Errorf("error %q should report both fields", err)
	}
}

func TestYAMLDefaultsMerge(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeTemp(t, "config-*.yaml", "providers:\n  check_upstream_status: true\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Server.MaxBodySize != 10<<20 {
		t.Errorf("server.max_body_size = %d, want default", cfg.Server.MaxBodySize)
	}
	if !cfg.Observability.Metrics.Enabled {
		t.Error("metrics should stay enabled by default")
	}
}

func TestLoadDotEnv(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	envFile := filepath.Join(root, ".env")
	content := "CHATPROXY_TEST_DOTENV_NEW=from-file\nCHATPROXY_TEST_DOTENV_SET=from-file\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CHATPROXY_TEST_DOTENV_SET", "from-env")
	t.Setenv("CHATPROXY_TEST_DOTENV_NEW", "")
	os.Unsetenv("CHATPROXY_TEST_DOTENV_NEW")

	path, err := LoadDotEnv(nested)
	if err != nil {
		t.Fatalf("LoadDotEnv() error: %v", err)
	}
	if path != envFile {
		t.Errorf("loaded %q, want %q", path, envFile)
	}
	if got := os.Getenv("CHATPROXY_TEST_DOTENV_NEW"); got != "from-file" {
		t.Errorf("new variable = %q, want from-file", got)
	}
	if got := os.Getenv("CHATPROXY_TEST_DOTENV_SET"); got != "from-env" {
		t.Errorf("existing variable = %q, must not be overridden", got)
	}
}

func TestLoadDotEnvDirectoryNamedEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".env"), 0o755); err != nil {
		t.Fatal(err)
	}
	path, err := LoadDotEnv(dir)
	if err != nil {
		t.Fatalf("LoadDotEnv() error: %v", err)
	}
	if path == filepath.Join(dir, ".env") {
		t.Error("a directory named .env must be skipped")
	}
}

// writeTemp creates a temporary file with the given content and returns its path.
// The file is automatically cleaned up when the test finishes.
func writeTemp(t *testing.T, pattern, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		t.Fatalf("writing temp file: %v", err)
	}
	f.Close()
	return f.Name()
}
