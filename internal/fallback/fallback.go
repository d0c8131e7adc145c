// Package fallback produces labeled placeholder text for content that could
// not be translated.
package fallback

import (
	"fmt"

	"github.com/pricofy/chunked-translator/internal/router"
)

// PreviewLength is how many characters of the original the placeholder keeps.
const PreviewLength = 100

// Synthesize returns a deterministic placeholder such as
// "[French Translation] Hello world. (from English)".
// Longer originals are cut to PreviewLength characters followed by "...".
// It performs no I/O and never fails.
func Synthesize(original, sourceLang, targetLang string) string {
	preview := original
	if runes := []rune(original); len(runes) > PreviewLength {
		preview = string(runes[:PreviewLength]) + "..."
	}
	return fmt.Sprintf("[%s Translation] %s (from %s)",
		router.Name(targetLang), preview, router.Name(sourceLang))
}
