package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrinsight/internal/domain/auth"
)

func TestRecovererReturnsEnvelope(t *testing.T) {
	handler := RequestID(Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"internal_error"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestLoggerWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	handler := RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	})))
	req := httptest.NewRequest(http.MethodGet, "/reports/dashboard", nil)
	req.Header.Set("X-Request-ID", "req-log")
	req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: 5}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	for _, want := range []string{`"level":"WARN"`, `"status":418`, `"path":"/reports/dashboard"`, `"userId":5`, `"bytes":3`, `"requestId":"req-log"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in log line %q", want, line)
		}
	}
}

type routeRecorder struct {
	mu     sync.Mutex
	routes []string
	status []int
}

func (r *routeRecorder) Record(_ string, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
	r.status = append(r.status, status)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	rec := &routeRecorder{}
	router := chi.NewRouter()
	router.Use(Metrics(rec))
	router.Get("/benchmarks/compare/{employeeID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/benchmarks/compare/42", nil))
	if len(rec.routes) != 1 || rec.routes[0] != "/benchmarks/compare/{employeeID}" || rec.status[0] != http.StatusAccepted {
		t.Fatalf("unexpected recording: %+v %+v", rec.routes, rec.status)
	}
}

func TestBodyLimitRejectsLargePayload(t *testing.T) {
	var readErr error
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 32)))
	req.ContentLength = -1
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if readErr == nil {
		t.Fatal("expected body limit error")
	}

	called := false
	handler = BodyLimit(8)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 32))))
	if called || rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 before handler, got %d (called=%v)", rec.Code, called)
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(true)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Header().Get("Strict-Transport-Security") == "" || rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("missing security headers: %v", rec.Header())
	}
}
