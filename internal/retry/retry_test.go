package retry

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pricofy/chunked-translator/internal/backend"
	"github.com/pricofy/chunked-translator/internal/domain"
	"github.com/pricofy/chunked-translator/internal/router"
)

var job = Job{
	Route:      router.Route{Source: "eng_Latn", Target: "fra_Latn"},
	SourceLang: "en",
	TargetLang: "fr",
}

// recordingSleep records requested delays without waiting.
type recordingSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}

func failN(n int32, calls *atomic.Int32) backend.Client {
	return backend.ClientFunc(func(ctx context.Context, text, source, target string) (string, error) {
		if calls.Add(1) <= n {
			return "", &backend.BackendError{Status: 503, Body: "busy"}
		}
		return "[" + target + "] " + text, nil
	})
}

func TestTranslateWithRetry_FirstAttempt(t *testing.T) {
	var calls atomic.Int32
	rec := &recordingSleep{}
	tr := New(failN(0, &calls), 5, time.Second, WithSleep(rec.sleep))

	out := tr.TranslateWithRetry(context.Background(), domain.Segment{Index: 2, Text: "Hello"}, job)

	if out.Status != domain.StatusSuccess {
		t.Fatalf("Status = %s, want success", out.Status)
	}
	if out.Attempts != 1 || calls.Load() != 1 {
		t.Errorf("Attempts = %d, calls = %d, want 1, 1", out.Attempts, calls.Load())
	}
	if out.Index != 2 {
		t.Errorf("Index = %d, want 2", out.Index)
	}
	if out.TranslatedText != "[fra_Latn] Hello" {
		t.Errorf("TranslatedText = %q, want backend codes used", out.TranslatedText)
	}
	if out.ErrorDetail != "" {
		t.Errorf("ErrorDetail = %q, want empty", out.ErrorDetail)
	}
	if len(rec.delays) != 0 {
		t.Errorf("slept %v, want no sleeps", rec.delays)
	}
}

func TestTranslateWithRetry_SucceedsOnNthAttempt(t *testing.T) {
	var calls atomic.Int32
	rec := &recordingSleep{}
	tr := New(failN(2, &calls), 5, 100*time.Millisecond, WithSleep(rec.sleep))

	out := tr.TranslateWithRetry(context.Background(), domain.Segment{Text: "Hello"}, job)

	if out.Status != domain.StatusSuccess {
		t.Fatalf("Status = %s, want success", out.Status)
	}
	if out.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", out.Attempts)
	}
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(rec.delays) != len(want) {
		t.Fatalf("delays = %v, want %v", rec.delays, want)
	}
	for i := range want {
		if rec.delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, rec.delays[i], want[i])
		}
	}
}

func TestTranslateWithRetry_Exhausted(t *testing.T) {
	for _, maxRetries := range []int{1, 3, 5} {
		var calls atomic.Int32
		rec := &recordingSleep{}
		tr := New(failN(100, &calls), maxRetries, time.Second, WithSleep(rec.sleep))

		out := tr.TranslateWithRetry(context.Background(), domain.Segment{Index: 4, Text: "Hello world."}, job)

		if out.Status != domain.StatusFailed {
			t.Fatalf("maxRetries=%d: Status = %s, want failed", maxRetries, out.Status)
		}
		if out.Attempts != maxRetries || int(calls.Load()) != maxRetries {
			t.Errorf("maxRetries=%d: Attempts = %d, calls = %d", maxRetries, out.Attempts, calls.Load())
		}
		// No sleep after the last attempt.
		if len(rec.delays) != maxRetries-1 {
			t.Errorf("maxRetries=%d: %d sleeps, want %d", maxRetries, len(rec.delays), maxRetries-1)
		}
		if out.TranslatedText != "[French Translation] Hello world. (from English)" {
			t.Errorf("TranslatedText = %q, want fallback placeholder", out.TranslatedText)
		}
		if !strings.Contains(out.ErrorDetail, "503") {
			t.Errorf("ErrorDetail = %q, want last backend error", out.ErrorDetail)
		}
		if out.OriginalLength != 12 {
			t.Errorf("OriginalLength = %d, want 12", out.OriginalLength)
		}
	}
}

func TestTranslateWithRetry_AllFailureClassesRetried(t *testing.T) {
	errs := []error{backend.ErrTimeout, &backend.BackendError{Status: 500}, backend.ErrMalformedResponse}

	for _, e := range errs {
		var calls atomic.Int32
		c := backend.ClientFunc(func(ctx context.Context, text, source, target string) (string, error) {
			calls.Add(1)
			return "", e
		})
		out := New(c, 3, 0, WithSleep(func(context.Context, time.Duration) error { return nil })).
			TranslateWithRetry(context.Background(), domain.Segment{Text: "x"}, job)

		if calls.Load() != 3 || out.Attempts != 3 {
			t.Errorf("%v: calls = %d, attempts = %d, want 3", e, calls.Load(), out.Attempts)
		}
	}
}

func TestTranslateWithRetry_MaxRetriesNormalized(t *testing.T) {
	var calls atomic.Int32
	out := New(failN(100, &calls), 0, 0).TranslateWithRetry(context.Background(), domain.Segment{Text: "x"}, job)
	if out.Attempts != 1 || calls.Load() != 1 {
		t.Errorf("Attempts = %d, calls = %d, want 1, 1", out.Attempts, calls.Load())
	}
}

func TestTranslateWithRetry_ContextCancelled(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	c := backend.ClientFunc(func(ctx context.Context, text, source, target string) (string, error) {
		calls.Add(1)
		cancel()
		return "", errors.New("upstream down")
	})

	out := New(c, 5, time.Hour).TranslateWithRetry(ctx, domain.Segment{Text: "x"}, job)

	if out.Status != domain.StatusFailed {
		t.Fatalf("Status = %s, want failed", out.Status)
	}
	if out.Attempts != 1 || calls.Load() != 1 {
		t.Errorf("Attempts = %d, calls = %d, want 1, 1", out.Attempts, calls.Load())
	}
	if !strings.Contains(out.ErrorDetail, "context canceled") || !strings.Contains(out.ErrorDetail, "upstream down") {
		t.Errorf("ErrorDetail = %q, want cancellation and last error", out.ErrorDetail)
	}
	if out.TranslatedText == "" {
		t.Error("failed outcome has empty TranslatedText")
	}
}

func TestSleepContext(t *testing.T) {
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleepContext() = %v, want nil", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("sleepContext(cancelled) = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("sleepContext did not return promptly on cancellation")
	}
}
