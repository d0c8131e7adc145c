package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pricofy/chunked-translator/internal/backend"
	"github.com/pricofy/chunked-translator/internal/config"
	"github.com/pricofy/chunked-translator/internal/domain"
	"github.com/pricofy/chunked-translator/internal/orchestrator"
	"github.com/pricofy/chunked-translator/internal/router"
)

func newTestServer(t *testing.T, tr Translator, log zerolog.Logger) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(tr, router.New(router.SchemeNLLB), log).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func realOrchestrator() *orchestrator.Orchestrator {
	cfg := config.Defaults()
	cfg.LaunchStaggerMs = 0
	echo := backend.ClientFunc(func(ctx context.Context, text, source, target string) (string, error) {
		return strings.ToUpper(text), nil
	})
	return orchestrator.New(cfg, echo, router.New(router.SchemeNLLB), orchestrator.WithService(backend.ServiceNLLB))
}

func post(t *testing.T, url, body string, header ...string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestTranslate_OK(t *testing.T) {
	var logs bytes.Buffer
	srv := newTestServer(t, realOrchestrator(), zerolog.New(&logs))

	resp := post(t, srv.URL+"/v1/translate", `{"text":"Hello world.","sourceLang":"en","targetLang":"es"}`,
		"X-Request-ID", "req-42")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", got)
	}

	var body domain.TranslationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.TranslatedText != "HELLO WORLD." || body.SuccessCount != 1 || body.RequestID != "req-42" {
		t.Errorf("body = %+v", body)
	}
	if body.Service != backend.ServiceNLLB {
		t.Errorf("Service = %q, want %q", body.Service, backend.ServiceNLLB)
	}

	if !strings.Contains(logs.String(), `"request_id":"req-42"`) || !strings.Contains(logs.String(), `"path":"/v1/translate"`) {
		t.Errorf("access log missing request fields: %s", logs.String())
	}
}

func TestTranslate_GeneratesRequestID(t *testing.T) {
	srv := newTestServer(t, realOrchestrator(), zerolog.Nop())

	resp := post(t, srv.URL+"/v1/translate", `{"text":"Hi.","sourceLang":"en","targetLang":"en"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if id := resp.Header.Get("X-Request-ID"); len(id) != 36 {
		t.Errorf("X-Request-ID = %q, want generated UUID", id)
	}
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantError    string
		wantFallback bool
	}{
		{"malformed json", `{"text":`, http.StatusBadRequest, "invalid JSON", false},
		{"unknown field", `{"text":"x","sourceLang":"en","targetLang":"fr","extra":1}`, http.StatusBadRequest, "unknown field", false},
		{"trailing data", `{"text":"x","sourceLang":"en","targetLang":"fr"} {}`, http.StatusBadRequest, "trailing data", false},
		{"missing text", `{"sourceLang":"en","targetLang":"fr"}`, http.StatusBadRequest, "text is a required field", false},
		{"unsupported language", `{"text":"Hello.","sourceLang":"en","targetLang":"xx"}`, http.StatusUnprocessableEntity, "unsupported language", true},
		{"whitespace only", `{"text":"   ","sourceLang":"en","targetLang":"fr"}`, http.StatusUnprocessableEntity, "no segments", true},
	}

	srv := newTestServer(t, realOrchestrator(), zerolog.Nop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/v1/translate", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var body domain.TranslationResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(body.Error, tt.wantError) {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
			if tt.wantFallback && body.Service != orchestrator.ServiceFallback {
				t.Errorf("Service = %q, want fallback", body.Service)
			}
			if !tt.wantFallback && body.TranslatedText != "" {
				t.Errorf("TranslatedText = %q, want none for client errors", body.TranslatedText)
			}
		})
	}
}

type errTranslator struct{ err error }

func (e errTranslator) Translate(context.Context, domain.TranslationRequest) (*domain.TranslationResponse, error) {
	return nil, e.err
}

func TestTranslate_InternalErrorFallsBack(t *testing.T) {
	srv := newTestServer(t, errTranslator{err: errors.New("boom")}, zerolog.Nop())

	resp := post(t, srv.URL+"/v1/translate", `{"text":"Hello.","sourceLang":"en","targetLang":"fr"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var body domain.TranslationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.TranslatedText != "[French Translation] Hello. (from English)" || body.Error != "boom" {
		t.Errorf("body = %+v, want fallback with error", body)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", orchestrator.ErrInvalidRequest), http.StatusBadRequest},
		{orchestrator.ErrTextTooLong, http.StatusBadRequest},
		{orchestrator.ErrUnsupportedLanguage, http.StatusUnprocessableEntity},
		{orchestrator.ErrNoSegments, http.StatusUnprocessableEntity},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestLanguages(t *testing.T) {
	srv := newTestServer(t, realOrchestrator(), zerolog.Nop())

	resp, err := http.Get(srv.URL + "/v1/languages")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body languagesBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Scheme != "nllb" {
		t.Errorf("Scheme = %q, want nllb", body.Scheme)
	}
	found := false
	for _, l := range body.Languages {
		if l.Code == "fr" && l.Name == "French" {
			found = true
		}
	}
	if !found {
		t.Errorf("languages missing fr/French: %+v", body.Languages)
	}
}

func TestHealthAndCORS(t *testing.T) {
	srv := newTestServer(t, realOrchestrator(), zerolog.Nop())

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set("Origin", "https://example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(realOrchestrator(), router.New(router.SchemeNLLB), zerolog.Nop()).Run(ctx, "127.0.0.1:0")
	}()

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() = %v, want nil after cancel", err)
	}
}
