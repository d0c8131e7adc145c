// Package retry wraps a backend client with bounded, linearly spaced retries
// and turns exhausted segments into labeled fallback outcomes.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/pricofy/chunked-translator/internal/backend"
	"github.com/pricofy/chunked-translator/internal/domain"
	"github.com/pricofy/chunked-translator/internal/fallback"
	"github.com/pricofy/chunked-translator/internal/logger"
	"github.com/pricofy/chunked-translator/internal/router"
)

// Job carries the language pair of one request.
// Route holds backend codes for the remote call; SourceLang and TargetLang
// are the caller's codes, used to label fallback placeholders.
type Job struct {
	Route      router.Route
	SourceLang string
	TargetLang string
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Translator retries failed backend calls up to maxRetries attempts.
type Translator struct {
	client     backend.Client
	maxRetries int
	retryDelay time.Duration
	sleep      SleepFunc
}

// Option configures a Translator.
type Option func(*Translator)

// WithSleep replaces the wait between attempts (for testing).
func WithSleep(fn SleepFunc) Option {
	return func(t *Translator) {
		if fn != nil {
			t.sleep = fn
		}
	}
}

// New creates a Translator. maxRetries below 1 is treated as 1.
func New(client backend.Client, maxRetries int, retryDelay time.Duration, opts ...Option) *Translator {
	if maxRetries < 1 {
		maxRetries = 1
	}
	t := &Translator{
		client:     client,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TranslateWithRetry translates seg, waiting retryDelay*attempt between
// attempts. Every failure class is retried the same way. It never returns an
// error: on exhaustion the outcome is Failed, carries the last error and a
// fallback placeholder as its text. If ctx is done the remaining attempts are
// skipped and the outcome is Failed with the attempts actually made.
func (t *Translator) TranslateWithRetry(ctx context.Context, seg domain.Segment, job Job) domain.SegmentOutcome {
	log := logger.From(ctx).With().Int("segment", seg.Index).Logger()

	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= t.maxRetries; attempt++ {
		attempts = attempt

		out, err := t.client.TranslateOne(ctx, seg.Text, job.Route.Source, job.Route.Target)
		if err == nil {
			if attempt > 1 {
				log.Info().Int("attempt", attempt).Msg("segment recovered after retry")
			}
			return domain.SegmentOutcome{
				Index:          seg.Index,
				TranslatedText: out,
				Status:         domain.StatusSuccess,
				Attempts:       attempt,
				OriginalLength: len([]rune(seg.Text)),
			}
		}

		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Int("max_retries", t.maxRetries).Msg("segment attempt failed")

		if attempt == t.maxRetries {
			break
		}
		if err := t.sleep(ctx, t.retryDelay*time.Duration(attempt)); err != nil {
			lastErr = fmt.Errorf("retries abandoned: %w (last error: %v)", err, lastErr)
			break
		}
	}

	log.Error().Err(lastErr).Int("attempts", attempts).Msg("segment exhausted, using fallback")

	return domain.SegmentOutcome{
		Index:          seg.Index,
		TranslatedText: fallback.Synthesize(seg.Text, job.SourceLang, job.TargetLang),
		Status:         domain.StatusFailed,
		Attempts:       attempts,
		ErrorDetail:    lastErr.Error(),
		OriginalLength: len([]rune(seg.Text)),
	}
}

// sleepContext waits for d unless ctx is done first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
