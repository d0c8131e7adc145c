// Package chunker splits text into ordered segments along linguistic boundaries.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pricofy/chunked-translator/internal/domain"
)

// DefaultMaxSize is the default segment ceiling in characters.
// Small segments keep the NLLB backend well under its token limit.
const DefaultMaxSize = 300

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	// Terminator followed by whitespace; the terminator stays with its sentence.
	sentenceEnd = regexp.MustCompile(`[.!?。！？]\s+`)
	clauseEnd   = regexp.MustCompile(`,\s+`)
)

// level is one stage of the paragraph -> sentence -> clause -> word fallback chain.
type level int

const (
	levelSentence level = iota
	levelClause
	levelWord
)

// Len returns the length of text in characters, the unit maxSize is measured in.
func Len(text string) int {
	return utf8.RuneCountInString(text)
}

// Chunk splits text into segments no larger than maxSize characters.
// Paragraphs are never merged; an oversized paragraph is split into sentences,
// an oversized sentence into clauses and an oversized clause into words.
// A single word longer than maxSize is emitted as-is.
// Returns nil when text has no non-whitespace content.
func Chunk(text string, maxSize int) []domain.Segment {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	if Len(text) <= maxSize {
		return []domain.Segment{{Index: 0, Text: trimmed}}
	}

	var pieces []string
	for _, para := range paragraphBreak.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if Len(para) <= maxSize {
			pieces = append(pieces, para)
			continue
		}
		pieces = append(pieces, split(para, maxSize, levelSentence)...)
	}

	segments := make([]domain.Segment, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		segments = append(segments, domain.Segment{Index: len(segments), Text: p})
	}
	return segments
}

// split breaks an oversized unit at the given level and packs the resulting
// parts greedily into pieces of at most maxSize characters. Parts that still
// overflow descend to the next level.
func split(unit string, maxSize int, lvl level) []string {
	parts := partsAt(unit, lvl)

	var pieces []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			pieces = append(pieces, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, part := range parts {
		partLen := Len(part)

		if partLen > maxSize {
			flush()
			if lvl == levelWord {
				// Whitespace-free token: accepted overflow, never split mid-token.
				pieces = append(pieces, part)
			} else {
				pieces = append(pieces, split(part, maxSize, lvl+1)...)
			}
			continue
		}

		if currentLen > 0 && currentLen+1+partLen > maxSize {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(part)
		currentLen += partLen
	}
	flush()

	return pieces
}

// partsAt splits unit into trimmed, non-empty parts for one level.
func partsAt(unit string, lvl level) []string {
	switch lvl {
	case levelSentence:
		return splitKeepingDelimiter(unit, sentenceEnd)
	case levelClause:
		return splitKeepingDelimiter(unit, clauseEnd)
	default:
		return strings.Fields(unit)
	}
}

// splitKeepingDelimiter cuts s after the first rune of every match of re
// (the punctuation mark) and drops the whitespace that follows it.
func splitKeepingDelimiter(s string, re *regexp.Regexp) []string {
	var parts []string
	prev := 0
	for _, m := range re.FindAllStringIndex(s, -1) {
		_, size := utf8.DecodeRuneInString(s[m[0]:])
		if p := strings.TrimSpace(s[prev : m[0]+size]); p != "" {
			parts = append(parts, p)
		}
		prev = m[1]
	}
	if p := strings.TrimSpace(s[prev:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}
