// Package main is the entry point for the chunked translator Lambda function.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pricofy/chunked-translator/internal/backend"
	"github.com/pricofy/chunked-translator/internal/config"
	"github.com/pricofy/chunked-translator/internal/handler"
	"github.com/pricofy/chunked-translator/internal/logger"
	"github.com/pricofy/chunked-translator/internal/orchestrator"
	"github.com/pricofy/chunked-translator/internal/router"
)

// app holds the dependencies shared by all invocations of a warm instance.
type app struct {
	handler *handler.Handler
	warmer  *warmer
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(viper.New(), os.Getenv("TRANSLATOR_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "chunked-translator",
	})

	client, info, err := backend.New(context.Background(), cfg.Backend, cfg.PerCallTimeout(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure backend")
	}

	o := orchestrator.New(cfg, client, router.New(info.Scheme),
		orchestrator.WithLogger(log),
		orchestrator.WithService(info.Service))

	a := &app{
		handler: handler.New(o, log),
		warmer:  newWarmer(os.Getenv("AWS_LAMBDA_FUNCTION_NAME"), log),
	}
	lambda.Start(a.handleRequest)
}

func (a *app) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	if warmup, ok := IsWarmupEvent(event); ok {
		return a.warmer.Handle(ctx, warmup)
	}

	var req handler.Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}

	return a.handler.Handle(ctx, req)
}
