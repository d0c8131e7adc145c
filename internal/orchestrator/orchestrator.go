// Package orchestrator runs one translation request end to end: validation,
// chunking, bounded parallel dispatch with retries, and reassembly.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pricofy/chunked-translator/internal/assembler"
	"github.com/pricofy/chunked-translator/internal/backend"
	"github.com/pricofy/chunked-translator/internal/chunker"
	"github.com/pricofy/chunked-translator/internal/config"
	"github.com/pricofy/chunked-translator/internal/domain"
	"github.com/pricofy/chunked-translator/internal/retry"
	"github.com/pricofy/chunked-translator/internal/router"
	"github.com/pricofy/chunked-translator/internal/scheduler"
)

// Orchestrator translates requests of arbitrary length. It holds no
// per-request state and is safe for concurrent use.
type Orchestrator struct {
	cfg        config.Config
	router     *router.Router
	translator *retry.Translator
	validator  *requestValidator
	service    string
	log        zerolog.Logger
	retryOpts  []retry.Option
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used when the request context carries none.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithService sets the service name reported in responses.
func WithService(name string) Option {
	return func(o *Orchestrator) { o.service = name }
}

// WithRetryOptions passes options to the retrying translator.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(o *Orchestrator) { o.retryOpts = append(o.retryOpts, opts...) }
}

// New creates an Orchestrator. cfg is copied and never changed afterwards.
func New(cfg config.Config, client backend.Client, r *router.Router, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:       cfg,
		router:    r,
		validator: newRequestValidator(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.translator = retry.New(client, cfg.MaxRetries, cfg.RetryDelay(), o.retryOpts...)
	return o
}

// Router returns the language router used for code resolution.
func (o *Orchestrator) Router() *router.Router {
	return o.router
}

// Translate validates req and translates it.
//
// Equal source and target languages echo the text without any backend call.
// Segment failures are reported through FailedCount and the diagnostics;
// an error is only returned for request-level failures (see IsRequestLevel).
func (o *Orchestrator) Translate(ctx context.Context, req domain.TranslationRequest) (*domain.TranslationResponse, error) {
	start := time.Now()
	if zerolog.Ctx(ctx).GetLevel() == zerolog.Disabled {
		ctx = o.log.WithContext(ctx)
	}
	log := zerolog.Ctx(ctx)

	if err := o.validator.check(req); err != nil {
		return nil, err
	}

	chars := chunker.Len(req.Text)
	if chars > o.cfg.MaxTextLength {
		return nil, fmt.Errorf("%d characters exceeds the maximum of %d: %w", chars, o.cfg.MaxTextLength, ErrTextTooLong)
	}

	if router.Normalize(req.SourceLang) == router.Normalize(req.TargetLang) {
		log.Debug().Str("lang", req.SourceLang).Msg("same source and target, echoing text")
		return &domain.TranslationResponse{
			TranslatedText:        req.Text,
			SourceLang:            req.SourceLang,
			TargetLang:            req.TargetLang,
			CharacterCount:        chars,
			Service:               ServicePassthrough,
			ProcessingTimeMs:      time.Since(start).Milliseconds(),
			PerSegmentDiagnostics: []domain.Diagnostic{},
		}, nil
	}

	route, err := o.router.Resolve(req.SourceLang, req.TargetLang)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedLanguage, err)
	}

	segments := chunker.Chunk(req.Text, o.cfg.MaxChunkSize)
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	log.Info().
		Int("chars", chars).
		Str("source", req.SourceLang).
		Str("target", req.TargetLang).
		Int("segments", len(segments)).
		Msg("translation started")

	job := retry.Job{Route: route, SourceLang: req.SourceLang, TargetLang: req.TargetLang}
	worker := func(ctx context.Context, seg domain.Segment) domain.SegmentOutcome {
		return o.translator.TranslateWithRetry(ctx, seg, job)
	}
	outcomes := scheduler.RunAll(ctx, segments, worker, o.cfg.ConcurrencyLimit, o.cfg.LaunchStagger())

	resp := assembler.Assemble(outcomes)
	resp.SourceLang = req.SourceLang
	resp.TargetLang = req.TargetLang
	resp.CharacterCount = chars
	resp.ChunkSize = o.cfg.MaxChunkSize
	resp.Service = o.service
	resp.ProcessingTimeMs = time.Since(start).Milliseconds()

	event := log.Info()
	if resp.FailedCount > 0 {
		event = log.Warn()
	}
	event.
		Int("segments", resp.ChunksProcessed).
		Int("success", resp.SuccessCount).
		Int("failed", resp.FailedCount).
		Int64("elapsed_ms", resp.ProcessingTimeMs).
		Msg("translation finished")

	return &resp, nil
}
