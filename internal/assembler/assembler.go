// Package assembler restores segment order and summarizes outcomes.
package assembler

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pricofy/chunked-translator/internal/domain"
)

// Assemble sorts outcomes by Index, joins their text with single spaces and
// tallies the statuses. The input slice is left untouched.
// Diagnostics are 1-indexed and only describe the outcomes.
func Assemble(outcomes []domain.SegmentOutcome) domain.TranslationResponse {
	ordered := make([]domain.SegmentOutcome, len(outcomes))
	copy(ordered, outcomes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	resp := domain.TranslationResponse{
		ChunksProcessed:       len(ordered),
		PerSegmentDiagnostics: make([]domain.Diagnostic, 0, len(ordered)),
	}

	texts := make([]string, 0, len(ordered))
	for i, o := range ordered {
		texts = append(texts, o.TranslatedText)

		switch o.Status {
		case domain.StatusSuccess:
			resp.SuccessCount++
		default:
			resp.FailedCount++
		}

		resp.PerSegmentDiagnostics = append(resp.PerSegmentDiagnostics, domain.Diagnostic{
			Index:            i + 1,
			Status:           o.Status,
			Attempts:         o.Attempts,
			OriginalLength:   o.OriginalLength,
			TranslatedLength: utf8.RuneCountInString(o.TranslatedText),
			Error:            o.ErrorDetail,
		})
	}
	resp.TranslatedText = strings.Join(texts, " ")

	return resp
}
