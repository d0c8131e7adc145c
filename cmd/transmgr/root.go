package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pricofy/chunked-translator/internal/backend"
	"github.com/pricofy/chunked-translator/internal/config"
	"github.com/pricofy/chunked-translator/internal/logger"
	"github.com/pricofy/chunked-translator/internal/orchestrator"
	"github.com/pricofy/chunked-translator/internal/router"
)

// backendFactory matches backend.New; tests swap it for a fake.
type backendFactory func(ctx context.Context, cfg config.Backend, timeout time.Duration, log zerolog.Logger) (backend.Client, backend.Info, error)

// env holds the process dependencies of the CLI.
type env struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	newBackend backendFactory
}

func defaultEnv() *env {
	return &env{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		newBackend: backend.New,
	}
}

// cli carries the viper instance shared by the subcommands.
type cli struct {
	env     *env
	v       *viper.Viper
	cfgFile string
}

func newRootCmd(e *env) *cobra.Command {
	c := &cli{env: e, v: viper.New()}

	root := &cobra.Command{
		Use:     "transmgr",
		Short:   "Translate long texts in parallel chunks",
		Version: version,
		// Silence Cobra's default error/usage printing; main handles it.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetIn(e.stdin)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default: ./translator.yaml if present)")
	pf.String("backend", config.KindHTTP, "translation backend: http, lambda, openai")
	pf.String("backend-url", "", "endpoint of the http backend")
	pf.Int("chunk-size", 0, "maximum segment size in characters")
	pf.Int("concurrency", 0, "maximum segments in flight")
	pf.Int("max-retries", 0, "attempts per segment")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: json, console")

	bind := map[string]string{
		"backend.kind":      "backend",
		"backend.url":       "backend-url",
		"max_chunk_size":    "chunk-size",
		"concurrency_limit": "concurrency",
		"max_retries":       "max-retries",
		"log.level":         "log-level",
		"log.format":        "log-format",
	}
	for key, flag := range bind {
		_ = c.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(c.translateCmd())
	root.AddCommand(c.serveCmd())
	root.AddCommand(c.languagesCmd())

	return root
}

// load reads the configuration and builds the logger.
func (c *cli) load() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	log := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "transmgr",
		Writer:  c.env.stderr,
	})
	return cfg, log, nil
}

// newOrchestrator builds the backend and the orchestrator around it.
func (c *cli) newOrchestrator(ctx context.Context) (*orchestrator.Orchestrator, config.Config, zerolog.Logger, error) {
	cfg, log, err := c.load()
	if err != nil {
		return nil, cfg, log, err
	}

	client, info, err := c.env.newBackend(ctx, cfg.Backend, cfg.PerCallTimeout(), log)
	if err != nil {
		return nil, cfg, log, err
	}

	o := orchestrator.New(cfg, client, router.New(info.Scheme),
		orchestrator.WithLogger(log),
		orchestrator.WithService(info.Service))
	return o, cfg, log, nil
}
