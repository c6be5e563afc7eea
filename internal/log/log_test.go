package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, ComponentStorage)
	l.Info("saved", FieldUserID, 7)

	out := buf.String()
	if !strings.Contains(out, "component=storage") || !strings.Contains(out, "user_id=7") {
		t.Fatalf("unexpected log line: %s", out)
	}
}

func TestComponentLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	httpLogger := newBufferLogger(&buf, ComponentApp).WithComponent(ComponentHTTP)
	sl := NewStructuredLogger(httpLogger)
	r := httptest.NewRequest(http.MethodGet, "/view_expenses/1", nil)
	ctx := context.Background()

	tests := []struct {
		name string
		emit func()
		want string
	}{
		{"derived", func() { httpLogger.Info("listening") }, "component=http"},
		{"rederived", func() { httpLogger.WithComponent(ComponentAuth).Info("User registered") }, "component=auth"},
		{"http start", func() { sl.LogHTTPStart(ctx, r, "req_1", "10.0.0.1") }, "component=http"},
		{"http end", func() { sl.LogHTTPEnd(ctx, r, "req_1", http.StatusOK, 2, "10.0.0.1") }, "component=http"},
		{"error", func() { sl.LogError(ctx, "boom", errors.New("x"), ComponentExpense, OpCreate, nil) }, "component=expense"},
	}
	for _, tt := range tests {
		buf.Reset()
		tt.emit()
		out := buf.String()
		if n := strings.Count(out, "component="); n != 1 {
			t.Errorf("%s: component logged %d times in %q", tt.name, n, out)
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("%s: expected %s in %q", tt.name, tt.want, out)
		}
	}
}

func TestStructuredLoggerHTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(newBufferLogger(&buf, ComponentHTTP))
		r := httptest.NewRequest(http.MethodGet, "/track_budget/1", nil)
		sl.LogHTTPEnd(context.Background(), r, "req_1", tt.status, 3, "10.0.0.1")

		out := buf.String()
		if !strings.Contains(out, tt.level) {
			t.Errorf("status %d: expected %s in %q", tt.status, tt.level, out)
		}
		if !strings.Contains(out, "request_id=req_1") {
			t.Errorf("status %d: missing request id in %q", tt.status, out)
		}
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf, ComponentHTTP))
	sl.LogError(context.Background(), "Failed to add expense", errors.New("disk full"), ComponentExpense, OpCreate, NewFields().WithUser(3))

	out := buf.String()
	for _, want := range []string{"level=ERROR", `error="disk full"`, "operation=create", "user_id=3", "component=expense"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := newBufferLogger(&buf, ComponentHTTP)

	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req_abc" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).Info("inside handler")
		})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), "request_id=req_abc") {
		t.Fatalf("request id not propagated: %s", buf.String())
	}
}

func TestFromContextDefault(t *testing.T) {
	if l := FromContext(context.Background()); l == nil || l.Component() != "unknown" {
		t.Fatalf("expected default logger, got %+v", l)
	}
}
