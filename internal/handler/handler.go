// Package handler provides the Lambda handler for the chunked translator.
package handler

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pricofy/chunked-translator/internal/domain"
	"github.com/pricofy/chunked-translator/internal/logger"
	"github.com/pricofy/chunked-translator/internal/orchestrator"
)

// Request is the input to the Lambda function.
type Request = domain.TranslationRequest

// Response is the output of the Lambda function.
type Response = domain.TranslationResponse

// Translator runs a translation request. *orchestrator.Orchestrator implements it.
type Translator interface {
	Translate(ctx context.Context, req domain.TranslationRequest) (*domain.TranslationResponse, error)
}

var _ Translator = (*orchestrator.Orchestrator)(nil)

// Handler adapts a Translator to Lambda invocations.
type Handler struct {
	translator Translator
	log        zerolog.Logger
}

// New creates a Handler.
func New(t Translator, log zerolog.Logger) *Handler {
	return &Handler{translator: t, log: log}
}

// Handle processes a translation request.
// Failures are reported in the response body and the Go error is always nil,
// so callers always receive a well-formed response. Invalid input gets an
// error-only response; any other request-level failure gets the whole-request
// fallback text.
func (h *Handler) Handle(ctx context.Context, req Request) (*Response, error) {
	requestID := requestIDFrom(ctx)
	ctx = logger.WithRequest(ctx, h.log, requestID)
	log := logger.From(ctx)

	resp, err := h.translator.Translate(ctx, req)
	if err != nil {
		if orchestrator.IsClientError(err) {
			log.Info().Err(err).Msg("rejected request")
			return &Response{
				SourceLang:            req.SourceLang,
				TargetLang:            req.TargetLang,
				RequestID:             requestID,
				PerSegmentDiagnostics: []domain.Diagnostic{},
				Error:                 err.Error(),
			}, nil
		}

		log.Error().Err(err).Msg("translation failed, returning fallback")
		resp = orchestrator.FallbackResponse(req, err)
	}

	resp.RequestID = requestID
	return resp, nil
}

// requestIDFrom prefers the Lambda request ID so logs correlate with CloudWatch.
func requestIDFrom(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}
