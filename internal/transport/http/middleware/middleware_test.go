package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	calls []recordedRequest
}

func (f *fakeRecorder) Record(method, route string, status int, _ time.Duration) {
	f.calls = append(f.calls, recordedRequest{method: method, route: route, status: status})
}

func TestCORSAnswersPreflight(t *testing.T) {
	called := false
	handler := CORS(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/employees", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if called {
		t.Fatal("preflight must not reach the handler")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected wildcard origin")
	}
	if rec.Header().Get("Access-Control-Allow-Methods") != "GET, POST, OPTIONS" {
		t.Fatalf("unexpected methods %q", rec.Header().Get("Access-Control-Allow-Methods"))
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/employees", nil))
	if !called {
		t.Fatal("expected GET to reach the handler")
	}
}

func TestLoggerRecordsRoutePattern(t *testing.T) {
	recorder := &fakeRecorder{}
	router := chi.NewRouter()
	router.Use(Logger(recorder))
	router.Get("/api/v1/employees/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/employees/Bob", nil))
	if len(recorder.calls) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recorder.calls))
	}
	got := recorder.calls[0]
	if got.route != "/api/v1/employees/{name}" || got.status != http.StatusNotFound || got.method != http.MethodGet {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(true)(noContent())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected nosniff")
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("expected HSTS in production")
	}
}

func TestBodyLimitRejectsOversizedPayload(t *testing.T) {
	handler := BodyLimit(8)(noContent())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", bytes.NewBufferString("0123456789"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected GET to pass, got %d", rec.Code)
	}
}
