package backend

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// breakerClient short-circuits calls while the backend keeps failing.
type breakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps c in a circuit breaker that opens after failures
// consecutive failed calls and probes again after cooldown. While open,
// calls fail immediately with a 503 BackendError, which the retry loop treats
// like any other failure. failures == 0 returns c unchanged.
func WithBreaker(c Client, name string, failures uint32, cooldown time.Duration, log zerolog.Logger) Client {
	if failures == 0 {
		return c
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// The caller giving up says nothing about backend health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &breakerClient{next: c, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breakerClient) TranslateOne(ctx context.Context, text, source, target string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.TranslateOne(ctx, text, source, target)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &BackendError{Status: http.StatusServiceUnavailable, Body: err.Error()}
		}
		return "", err
	}
	return out.(string), nil
}
