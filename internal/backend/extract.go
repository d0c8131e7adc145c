package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResponseAliases are the field names probed, in order, for the translated text.
// The upstream service has not been stable about which one it uses.
var ResponseAliases = []string{"result", "translated_text", "translation", "output"}

// ExtractTranslation locates the translated text in a response body.
// The body may be a JSON object carrying one of ResponseAliases, or a bare
// JSON string. Empty values do not count.
func ExtractTranslation(body []byte) (string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return "", fmt.Errorf("empty body: %w", ErrMalformedResponse)
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", ErrMalformedResponse)
	}

	switch v := decoded.(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case map[string]any:
		for _, alias := range ResponseAliases {
			if s, ok := v[alias].(string); ok && s != "" {
				return s, nil
			}
		}
	}

	return "", fmt.Errorf("no translated text in response: %w", ErrMalformedResponse)
}
