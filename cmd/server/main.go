// Command server runs the chat proxy HTTP server.
//
// Configuration is read from an optional .env file, an optional YAML file
// (see pkg/config) and the environment. Provider keys:
//
//	DEEPSEEK_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, CLAUDE_API_KEY, NEBIUS_API_KEY
//
// Common overrides:
//
//	CHATPROXY_CONFIG     - Path to the YAML config file
//	CHATPROXY_PORT       - Listen port (default: 8080, PORT also honored)
//	CHATPROXY_LOG_LEVEL  - ERROR, WARN, INFO, DEBUG or TRACE
//	CHATPROXY_DEBUG      - Debug categories (providers, transport, config, credentials, all)
//	CHATPROXY_SSM_PREFIX - AWS Parameter Store prefix for missing provider keys
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/rhuss/chatproxy/pkg/app"
	"github.com/rhuss/chatproxy/pkg/config"
	"github.com/rhuss/chatproxy/pkg/debug"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	envFile, err := config.LoadDotEnv("")
	if err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debug.Init(cfg.Logging.Debug, cfg.Logging.Level, cfg.Logging.Format)
	if envFile != "" {
		slog.Info("loaded environment file", "path", envFile)
	}

	a, err := app.Build(context.Background(), cfg, app.Options{Logger: slog.Default()})
	if err != nil {
		return err
	}

	return a.Server.ListenAndServe()
}
