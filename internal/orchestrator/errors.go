package orchestrator

import (
	"errors"

	"github.com/pricofy/chunked-translator/internal/chunker"
	"github.com/pricofy/chunked-translator/internal/domain"
	"github.com/pricofy/chunked-translator/internal/fallback"
)

// Request-level failures. They are raised before any segment is dispatched;
// per-segment failures never surface as errors.
var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrTextTooLong         = errors.New("text too long")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrNoSegments          = errors.New("no segments to translate")
)

// ServiceFallback and ServicePassthrough label responses that did not reach a backend.
const (
	ServiceFallback    = "fallback"
	ServicePassthrough = "passthrough"
)

// IsRequestLevel reports whether err is one of the request-level sentinels.
func IsRequestLevel(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrTextTooLong) ||
		errors.Is(err, ErrUnsupportedLanguage) ||
		errors.Is(err, ErrNoSegments)
}

// IsClientError reports whether err comes from malformed input, as opposed
// to input that was well-formed but could not be served.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrTextTooLong)
}

// FallbackResponse builds the whole-request fallback: the placeholder for the
// full text, labeled ServiceFallback and carrying err.
func FallbackResponse(req domain.TranslationRequest, err error) *domain.TranslationResponse {
	resp := &domain.TranslationResponse{
		TranslatedText:        fallback.Synthesize(req.Text, req.SourceLang, req.TargetLang),
		SourceLang:            req.SourceLang,
		TargetLang:            req.TargetLang,
		CharacterCount:        chunker.Len(req.Text),
		Service:               ServiceFallback,
		PerSegmentDiagnostics: []domain.Diagnostic{},
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}
