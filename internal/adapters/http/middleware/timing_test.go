package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// captureLogs routes the default logger into a buffer for the test's duration.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// logLines decodes one JSON object per line.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

// TestTimingMiddleware_LogsRequest verifies a request entry with its fields.
func TestTimingMiddleware_LogsRequest(t *testing.T) {
	buf := captureLogs(t)
	handler := Timing(time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest("POST", "/students/toggle", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	lines := logLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(lines))
	}
	got := lines[0]
	if got["msg"] != "request" || got["level"] != "DEBUG" {
		t.Errorf("unexpected entry %v", got)
	}
	if got["method"] != "POST" || got["path"] != "/students/toggle" || got["status"] != float64(201) {
		t.Errorf("unexpected fields %v", got)
	}
	if got["request_id"] != rr.Header().Get(RequestIDHeader) {
		t.Errorf("request_id %v does not match header %q", got["request_id"], rr.Header().Get(RequestIDHeader))
	}
}

// TestTimingMiddleware_RequestIDIsUUID verifies the response header format.
func TestTimingMiddleware_RequestIDIsUUID(t *testing.T) {
	captureLogs(t)
	handler := Timing(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if _, err := uuid.Parse(rr.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("request id is not a UUID: %v", err)
	}
}

// TestTimingMiddleware_SlowRequest verifies slow requests log at WARN.
func TestTimingMiddleware_SlowRequest(t *testing.T) {
	buf := captureLogs(t)
	handler := Timing(time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/export", nil))

	lines := logLines(t, buf)
	if len(lines) != 1 || lines[0]["msg"] != "slow_request" || lines[0]["level"] != "WARN" {
		t.Errorf("expected one slow_request warning, got %v", lines)
	}
}

// TestTimingMiddleware_SkipsStatic verifies static assets are excluded from timing.
func TestTimingMiddleware_SkipsStatic(t *testing.T) {
	buf := captureLogs(t)
	handler := Timing(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/static/app.css", nil))

	if buf.Len() != 0 {
		t.Errorf("expected no log output, got %s", buf.String())
	}
	if rr.Header().Get(RequestIDHeader) != "" {
		t.Error("static responses should not carry a request id")
	}
}

// TestTimingMiddleware_HandlerPanic verifies that a panicking handler still
// runs the deferred timing logic.
func TestTimingMiddleware_HandlerPanic(t *testing.T) {
	buf := captureLogs(t)
	handler := Timing(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate, got nil")
		}
		if len(logLines(t, buf)) != 1 {
			t.Error("expected the request to be logged before the panic propagated")
		}
	}()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/view", nil))
}

// TestTimingMiddleware_PoolNoStateLeak verifies that statusWriter pool reuse
// does not leak status codes between requests.
func TestTimingMiddleware_PoolNoStateLeak(t *testing.T) {
	buf := captureLogs(t)

	handler500 := Timing(time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	handler500.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/fail", nil))

	handler200 := Timing(time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	rr := httptest.NewRecorder()
	handler200.ServeHTTP(rr, httptest.NewRequest("GET", "/ok", nil))

	lines := logLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	if lines[1]["status"] != float64(200) {
		t.Errorf("second request logged status %v, want 200", lines[1]["status"])
	}
}

// BenchmarkTimingMiddleware measures per-request overhead.
func BenchmarkTimingMiddleware(b *testing.B) {
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	defer slog.SetDefault(prev)

	handler := Timing(time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/api/view", nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
