// Command lambda serves the chat proxy as an AWS Lambda function behind a
// Function URL configured with the RESPONSE_STREAM invoke mode.
//
// Configuration is the same as for cmd/server, minus the listen settings.
// Provider keys usually come from Parameter Store (CHATPROXY_SSM_PREFIX).
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/rhuss/chatproxy/pkg/app"
	"github.com/rhuss/chatproxy/pkg/config"
	"github.com/rhuss/chatproxy/pkg/debug"
	"github.com/rhuss/chatproxy/pkg/transport/lambdaurl"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("CHATPROXY_CONFIG"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	debug.Init(cfg.Logging.Debug, cfg.Logging.Level, cfg.Logging.Format)

	a, err := app.Build(ctx, cfg, app.Options{Logger: slog.Default()})
	if err != nil {
		slog.Error("failed to build proxy", "error", err)
		os.Exit(1)
	}

	h, err := lambdaurl.New(a.Server.Handler())
	if err != nil {
		slog.Error("failed to create handler", "error", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
