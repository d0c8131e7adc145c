package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// WarmupSource is the "source" value of a scheduled keep-warm event.
	WarmupSource = "warmup"

	// WarmupDelay holds each warmed instance busy so siblings land on separate instances.
	WarmupDelay = 75 * time.Millisecond

	maxWarmupConcurrency = 50
)

// WarmupEvent is the keep-warm payload. Concurrency asks for extra instances.
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// invoker is the subset of the Lambda API used for self-invocation.
type invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// warmer answers warmup events and fans out async self-invocations.
type warmer struct {
	functionName string
	log          zerolog.Logger
	delay        time.Duration
	newInvoker   func(ctx context.Context) (invoker, error)
}

func newWarmer(functionName string, log zerolog.Logger) *warmer {
	return &warmer{
		functionName: functionName,
		log:          log,
		delay:        WarmupDelay,
		newInvoker: func(ctx context.Context) (invoker, error) {
			cfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return nil, err
			}
			return lambdasdk.NewFromConfig(cfg), nil
		},
	}
}

// IsWarmupEvent reports whether event is a keep-warm event, clamping its
// concurrency to [0, maxWarmupConcurrency].
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var probe struct {
		Source      *string  `json:"source"`
		Concurrency *float64 `json:"concurrency"`
	}
	if err := json.Unmarshal(event, &probe); err != nil {
		return nil, false
	}
	if probe.Source == nil || *probe.Source != WarmupSource {
		return nil, false
	}

	ev := &WarmupEvent{Source: WarmupSource}
	if probe.Concurrency != nil && *probe.Concurrency > 0 {
		ev.Concurrency = min(int(*probe.Concurrency), maxWarmupConcurrency)
	}
	return ev, true
}

// Handle answers a keep-warm event, fanning out self-invocations first when asked.
func (w *warmer) Handle(ctx context.Context, warmup *WarmupEvent) (interface{}, error) {
	warmed := 1

	if warmup.Concurrency > 0 {
		if err := w.selfInvoke(ctx, warmup.Concurrency); err != nil {
			w.log.Warn().Err(err).Int("concurrency", warmup.Concurrency).Msg("warmup self-invoke failed")
		} else {
			warmed += warmup.Concurrency
		}
	}

	select {
	case <-ctx.Done():
	case <-time.After(w.delay):
	}

	return map[string]interface{}{
		"statusCode": 200,
		"body": WarmupResponse{
			Status:          "warm",
			InstancesWarmed: warmed,
		},
	}, nil
}

// selfInvoke fires count asynchronous invocations of this function.
func (w *warmer) selfInvoke(ctx context.Context, count int) error {
	if w.functionName == "" {
		return fmt.Errorf("function name unknown")
	}

	client, err := w.newInvoker(ctx)
	if err != nil {
		return fmt.Errorf("failed to create lambda client: %w", err)
	}

	// Children must not fan out again.
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return fmt.Errorf("failed to encode warmup payload: %w", err)
	}

	var g errgroup.Group
	for range count {
		g.Go(func() error {
			_, err := client.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			return err
		})
	}
	return g.Wait()
}
