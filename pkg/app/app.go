// Package app assembles the chat proxy from its configuration. The server
// and Lambda commands share this wiring.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/rhuss/chatproxy/pkg/catalog"
	"github.com/rhuss/chatproxy/pkg/config"
	"github.com/rhuss/chatproxy/pkg/credentials"
	"github.com/rhuss/chatproxy/pkg/credentials/paramstore"
	"github.com/rhuss/chatproxy/pkg/engine"
	"github.com/rhuss/chatproxy/pkg/provider/claude"
	"github.com/rhuss/chatproxy/pkg/provider/deepseek"
	"github.com/rhuss/chatproxy/pkg/provider/gemini"
	"github.com/rhuss/chatproxy/pkg/provider/nebius"
	"github.com/rhuss/chatproxy/pkg/provider/openai"
	"github.com/rhuss/chatproxy/pkg/provider/registry"
	transporthttp "github.com/rhuss/chatproxy/pkg/transport/http"
)

// ParameterStoreFactory creates the Parameter Store credential source.
// Tests replace it to avoid AWS calls.
type ParameterStoreFactory func(ctx context.Context, region, prefix string) (credentials.Source, error)

// Options tune Build.
type Options struct {
	Logger         *slog.Logger
	ParameterStore ParameterStoreFactory
}

// App is the assembled proxy.
type App struct {
	Server      *transporthttp.Server
	Credentials *credentials.Set
	Registry    *registry.Registry
}

// Build loads credentials and wires the registry, engine, catalog and HTTP
// server described by cfg.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	creds, err := LoadCredentials(ctx, cfg, opts.ParameterStore)
	if err != nil {
		return nil, err
	}

	reg, err := registry.Default(registry.Config{
		DeepSeek: deepseek.Config{BaseURL: cfg.Providers.DeepSeek.BaseURL},
		OpenAI:   openai.Config{BaseURL: cfg.Providers.OpenAI.BaseURL},
		Gemini:   gemini.Config{BaseURL: cfg.Providers.Gemini.BaseURL},
		Nebius:   nebius.Config{BaseURL: cfg.Providers.Nebius.BaseURL},
		Claude:   claude.Config{BaseURL: cfg.Providers.Claude.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("creating provider registry: %w", err)
	}

	eng, err := engine.New(reg, creds, engine.Config{
		CheckUpstreamStatus: cfg.Providers.CheckUpstreamStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	serverOpts := []transporthttp.ServerOption{
		transporthttp.WithAddr(":" + strconv.Itoa(cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithReadTimeout(cfg.Server.ReadTimeout),
		transporthttp.WithWriteTimeout(cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithLogger(logger),
	}
	if cfg.Observability.Metrics.Enabled {
		serverOpts = append(serverOpts, transporthttp.WithMetrics(cfg.Observability.Metrics.Path))
	}

	logger.Info("chat proxy configured",
		slog.Any("models", reg.Models()),
		slog.Any("credentials", creds.Present()),
		slog.Bool("check_upstream_status", cfg.Providers.CheckUpstreamStatus),
	)

	return &App{
		Server:      transporthttp.NewServer(eng, catalog.New(creds), serverOpts...),
		Credentials: creds,
		Registry:    reg,
	}, nil
}

// LoadCredentials resolves provider keys from the environment, then the
// config file, then Parameter Store when a prefix is configured.
func LoadCredentials(ctx context.Context, cfg *config.Config, psFactory ParameterStoreFactory) (*credentials.Set, error) {
	sources := []credentials.Source{
		credentials.FromEnv(),
		credentials.FromMap(cfg.Credentials.Values),
	}

	if ps := cfg.Credentials.ParameterStore; ps.Prefix != "" {
		if psFactory == nil {
			psFactory = defaultParameterStore
		}
		src, err := psFactory(ctx, ps.Region, ps.Prefix)
		if err != nil {
			return nil, fmt.Errorf("creating parameter store client: %w", err)
		}
		sources = append(sources, src)
	}

	creds, err := credentials.Load(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	return creds, nil
}

func defaultParameterStore(ctx context.Context, region, prefix string) (credentials.Source, error) {
	c, err := paramstore.NewFromDefaultConfig(ctx, region, prefix)
	if err != nil {
		return nil, err
	}
	return c, nil
}
