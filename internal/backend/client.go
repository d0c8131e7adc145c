// Package backend performs single remote translation calls against the
// configured translation service.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client translates one piece of text with one blocking remote call.
// source and target are backend codes, already mapped from human codes.
type Client interface {
	TranslateOne(ctx context.Context, text, source, target string) (string, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, text, source, target string) (string, error)

// TranslateOne calls f.
func (f ClientFunc) TranslateOne(ctx context.Context, text, source, target string) (string, error) {
	return f(ctx, text, source, target)
}

// Compile-time interface compliance checks.
var (
	_ Client = ClientFunc(nil)
	_ Client = (*timeoutClient)(nil)
	_ Client = (*HTTPClient)(nil)
	_ Client = (*LambdaClient)(nil)
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*breakerClient)(nil)
)

// timeoutClient enforces a hard wall-clock limit on every call.
type timeoutClient struct {
	next    Client
	timeout time.Duration
}

// WithTimeout wraps c so that each call fails with ErrTimeout after d.
// The call is abandoned on expiry: a late result is discarded even when the
// wrapped client ignores its context. d <= 0 disables the limit.
func WithTimeout(c Client, d time.Duration) Client {
	if d <= 0 {
		return c
	}
	return &timeoutClient{next: c, timeout: d}
}

type callResult struct {
	text string
	err  error
}

func (t *timeoutClient) TranslateOne(ctx context.Context, text, source, target string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan callResult, 1)
	go func() {
		out, err := t.next.TranslateOne(callCtx, text, source, target)
		done <- callResult{text: out, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", classifyContextError(ctx, r.err, t.timeout)
		}
		return r.text, nil
	case <-callCtx.Done():
		return "", classifyContextError(ctx, callCtx.Err(), t.timeout)
	}
}

// classifyContextError maps a per-call deadline to ErrTimeout while keeping
// cancellation of the caller's own context distinguishable.
func classifyContextError(parent context.Context, err error, timeout time.Duration) error {
	if parent.Err() != nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("no response after %s: %w", timeout, ErrTimeout)
	}
	return err
}
