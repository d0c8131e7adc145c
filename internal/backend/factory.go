package backend

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/pricofy/chunked-translator/internal/config"
	"github.com/pricofy/chunked-translator/internal/router"
)

// Service names reported in translation responses.
const (
	ServiceNLLB   = "nllb-parallel"
	ServiceLambda = "lambda"
	ServiceOpenAI = "openai"
)

// Info describes a constructed backend.
type Info struct {
	Scheme  router.Scheme
	Service string
}

// SchemeFor returns the language code scheme spoken by a backend kind.
func SchemeFor(kind string) router.Scheme {
	if kind == config.KindHTTP {
		return router.SchemeNLLB
	}
	return router.SchemeISO
}

// New builds the Client selected by cfg.Kind, wrapped with the per-call
// timeout and, when enabled, a circuit breaker.
func New(ctx context.Context, cfg config.Backend, timeout time.Duration, log zerolog.Logger) (Client, Info, error) {
	var (
		client Client
		info   Info
	)

	switch cfg.Kind {
	case config.KindHTTP:
		client = NewHTTPClient(cfg.URL)
		info = Info{Scheme: SchemeFor(cfg.Kind), Service: ServiceNLLB}

	case config.KindLambda:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, Info{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = NewLambdaClient(lambda.NewFromConfig(awsCfg), cfg.LambdaFunction)
		info = Info{Scheme: SchemeFor(cfg.Kind), Service: ServiceLambda}

	case config.KindOpenAI:
		oaCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
		if cfg.OpenAIBaseURL != "" {
			oaCfg.BaseURL = cfg.OpenAIBaseURL
		}
		client = NewOpenAIClient(openai.NewClientWithConfig(oaCfg), cfg.OpenAIModel)
		info = Info{Scheme: SchemeFor(cfg.Kind), Service: ServiceOpenAI}

	default:
		return nil, Info{}, fmt.Errorf("unknown backend kind %q", cfg.Kind)
	}

	client = WithTimeout(client, timeout)
	client = WithBreaker(client, info.Service, uint32(cfg.BreakerFailures), cfg.BreakerCooldown(), log)

	log.Debug().
		Str("kind", cfg.Kind).
		Str("scheme", string(info.Scheme)).
		Dur("timeout", timeout).
		Int("breaker_failures", cfg.BreakerFailures).
		Msg("backend configured")

	return client, info, nil
}
