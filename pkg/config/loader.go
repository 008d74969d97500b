package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rhuss/chatproxy/pkg/debug"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, CHATPROXY_CONFIG env, ./config.yaml, /etc/chatproxy/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (credentials.files)
//  5. Validation
//
// Call LoadDotEnv first to make variables from a .env file visible here.
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
		debug.Log("config", "loaded config file", "path", filePath)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. CHATPROXY_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/chatproxy/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("CHATPROXY_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/chatproxy/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields. Malformed
// numeric and boolean values are reported instead of silently ignored.
func applyEnvOverrides(cfg *Config) error {
	// PORT is what most container platforms inject.
	for _, key := range []string{"PORT", "CHATPROXY_PORT"} {
		if v := os.Getenv(key); v != "" {
			port, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			cfg.Server.Port = port
		}
	}

	baseURLs := map[string]*ProviderConfig{
		"CHATPROXY_DEEPSEEK_BASE_URL": &cfg.Providers.DeepSeek,
		"CHATPROXY_OPENAI_BASE_URL":   &cfg.Providers.OpenAI,
		"CHATPROXY_GEMINI_BASE_URL":   &cfg.Providers.Gemini,
		"CHATPROXY_NEBIUS_BASE_URL":   &cfg.Providers.Nebius,
		"CHATPROXY_CLAUDE_BASE_URL":   &cfg.Providers.Claude,
	}
	for key, pc := range baseURLs {
		if v := os.Getenv(key); v != "" {
			pc.BaseURL = v
		}
	}

	if v := os.Getenv("CHATPROXY_CHECK_UPSTREAM_STATUS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CHATPROXY_CHECK_UPSTREAM_STATUS: %w", err)
		}
		cfg.Providers.CheckUpstreamStatus = b
	}

	if v := os.Getenv("CHATPROXY_SSM_PREFIX"); v != "" {
		cfg.Credentials.ParameterStore.Prefix = v
	}
	if v := os.Getenv("CHATPROXY_SSM_REGION"); v != "" {
		cfg.Credentials.ParameterStore.Region = v
	}

	if v := os.Getenv("CHATPROXY_METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CHATPROXY_METRICS_ENABLED: %w", err)
		}
		cfg.Observability.Metrics.Enabled = b
	}

	if v := os.Getenv("CHATPROXY_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	return nil
}

// resolveFileReferences reads credentials.files entries and populates
// credentials.values. An explicit value wins over its file.
func resolveFileReferences(cfg *Config) error {
	for name, path := range cfg.Credentials.Files {
		if path == "" || cfg.Credentials.Values[name] != "" {
			continue
		}
		val, err := readSecretFile(path)
		if err != nil {
			return fmt.Errorf("credentials.files.%s: %w", name, err)
		}
		if cfg.Credentials.Values == nil {
			cfg.Credentials.Values = make(map[string]string)
		}
		cfg.Credentials.Values[name] = val
	}
	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
