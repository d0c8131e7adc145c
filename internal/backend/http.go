package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxResponseBody bounds how much of a response is read.
const maxResponseBody = 1 << 20

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// translateRequest is the outbound payload shared by the HTTP and Lambda backends.
type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// HTTPClient calls a JSON translation endpoint such as an NLLB server.
type HTTPClient struct {
	url  string
	doer httpDoer
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPDoer sets a custom HTTP client.
func WithHTTPDoer(d httpDoer) HTTPOption {
	return func(c *HTTPClient) {
		if d != nil {
			c.doer = d
		}
	}
}

// NewHTTPClient creates a client posting to url.
// Timeouts come from the request context, so the default http.Client has none.
func NewHTTPClient(url string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		url:  url,
		doer: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TranslateOne posts {text, source, target} and probes the response for the translation.
func (c *HTTPClient) TranslateOne(ctx context.Context, text, source, target string) (string, error) {
	payload, err := json.Marshal(translateRequest{Text: text, Source: source, Target: target})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("request failed: %v: %w", err, ErrBackend)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newBackendError(resp.StatusCode, body)
	}

	return ExtractTranslation(body)
}
