package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"  nonsense ", zerolog.InfoLevel},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Errorf("parseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "info", Service: "translator", Writer: &buf})

	l.Debug().Msg("hidden")
	l.Info().Int("segments", 3).Msg("request started")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug filtered): %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["service"] != "translator" {
		t.Errorf("service = %v, want translator", entry["service"])
	}
	if entry["segments"] != float64(3) {
		t.Errorf("segments = %v, want 3", entry["segments"])
	}
	if entry["message"] != "request started" {
		t.Errorf("message = %v, want request started", entry["message"])
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Format: "console", Writer: &buf})
	l.Info().Msg("hello")

	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("console format produced JSON: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("console output missing message: %q", buf.String())
	}
}

func TestWithRequest_From(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Writer: &buf})

	ctx := WithRequest(context.Background(), l, "req-123")
	From(ctx).Info().Msg("in request")

	if !strings.Contains(buf.String(), `"request_id":"req-123"`) {
		t.Errorf("request logger missing request_id: %q", buf.String())
	}

	// No logger attached: zerolog returns a disabled logger, never nil.
	if From(context.Background()) == nil {
		t.Error("From(empty ctx) = nil")
	}
}
