// Package domain contains the core domain types for the chunked translator.
package domain

// Status is the terminal state of a translated segment.
type Status string

const (
	// StatusSuccess means the backend returned a real translation.
	StatusSuccess Status = "success"
	// StatusFailed means retries were exhausted and the text is a fallback placeholder.
	StatusFailed Status = "failed"
)

// Segment is a bounded-size slice of the input text.
// Index is dense (0..N-1) and is the only ordering key used for reassembly.
type Segment struct {
	Index int
	Text  string
}

// SegmentOutcome is the result of translating one Segment.
// It is created once by the retrying translator and never mutated afterwards.
type SegmentOutcome struct {
	Index          int
	TranslatedText string
	Status         Status
	Attempts       int
	ErrorDetail    string
	OriginalLength int
}

// TranslationRequest is the input to the orchestrator.
type TranslationRequest struct {
	Text       string `json:"text"       validate:"required"`
	SourceLang string `json:"sourceLang" validate:"required"`
	TargetLang string `json:"targetLang" validate:"required"`
}

// Diagnostic is the human-facing summary of one SegmentOutcome.
// Index is 1-based.
type Diagnostic struct {
	Index            int    `json:"index"`
	Status           Status `json:"status"`
	Attempts         int    `json:"attempts"`
	OriginalLength   int    `json:"originalLength"`
	TranslatedLength int    `json:"translatedLength"`
	Error            string `json:"error,omitempty"`
}

// TranslationResponse is the output returned to callers.
type TranslationResponse struct {
	TranslatedText        string       `json:"translatedText"`
	SourceLang            string       `json:"sourceLang"`
	TargetLang            string       `json:"targetLang"`
	CharacterCount        int          `json:"characterCount"`
	ChunksProcessed       int          `json:"chunksProcessed"`
	SuccessCount          int          `json:"successCount"`
	FailedCount           int          `json:"failedCount"`
	ProcessingTimeMs      int64        `json:"processingTimeMs"`
	ChunkSize             int          `json:"chunkSize,omitempty"`
	Service               string       `json:"service,omitempty"`
	RequestID             string       `json:"requestId,omitempty"`
	PerSegmentDiagnostics []Diagnostic `json:"perSegmentDiagnostics"`
	Error                 string       `json:"error,omitempty"`
}
