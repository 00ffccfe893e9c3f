package middleware_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"result-hub/internal/logger"
	"result-hub/internal/metrics"
	"result-hub/internal/middleware"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := middleware.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RequestIDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rr.Header().Get(middleware.RequestIDHeader) != seen {
		t.Fatalf("generated id not propagated: ctx=%q header=%q", seen, rr.Header().Get(middleware.RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if seen != "req-123" || rr.Header().Get(middleware.RequestIDHeader) != "req-123" {
		t.Fatalf("incoming id not reused: %q", seen)
	}
}

type recordingWriter struct {
	err error
}

func (rw *recordingWriter) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	rw.err = err
	w.WriteHeader(http.StatusInternalServerError)
}

func TestErrorHandlerMiddleware_RecoversPanic(t *testing.T) {
	out := &recordingWriter{}
	var logs bytes.Buffer
	h := middleware.ErrorHandlerMiddleware(out, logger.New(nil, "test", &logs))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("nil map write")
		}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want 500", rr.Code)
	}
	var pe *middleware.PanicError
	if !errors.As(out.err, &pe) || out.err.Error() != "nil map write" {
		t.Fatalf("writer got %v", out.err)
	}
	if !strings.Contains(logs.String(), `"event_code":"PANIC_RECOVERED"`) {
		t.Fatalf("panic not logged: %s", logs.String())
	}
}

func TestErrorHandlerMiddleware_PanicWithError(t *testing.T) {
	cause := errors.New("closed pipe")
	out := &recordingWriter{}
	h := middleware.ErrorHandlerMiddleware(out, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(cause)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !errors.Is(out.err, cause) {
		t.Fatalf("cause not unwrapped: %v", out.err)
	}
}

func TestPanicError_NilReceiver(t *testing.T) {
	var pe *middleware.PanicError
	if pe.Unwrap() != nil || pe.Error() != "<nil>" {
		t.Fatalf("nil PanicError must be safe to inspect")
	}
}

func TestErrorHandlerMiddleware_RepanicsAbort(t *testing.T) {
	h := middleware.ErrorHandlerMiddleware(&recordingWriter{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("recovered %v, want ErrAbortHandler", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestCorsMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"open, no origin", nil, http.MethodGet, "", http.StatusTeapot, "*"},
		{"open, echoes origin", nil, http.MethodGet, "https://a.example", http.StatusTeapot, "https://a.example"},
		{"listed origin", []string{"https://a.example/"}, http.MethodGet, "https://a.example", http.StatusTeapot, "https://a.example"},
		{"unlisted origin", []string{"https://a.example"}, http.MethodGet, "https://evil.example", http.StatusTeapot, ""},
		{"preflight", nil, http.MethodOptions, "https://a.example", http.StatusNoContent, "https://a.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/roles", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			middleware.CorsMiddleware(tt.allowed)(next).ServeHTTP(rr, req)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status=%d want %d", rr.Code, tt.wantStatus)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("allow-origin=%q want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestLoggingMiddleware_RecordsStatus(t *testing.T) {
	var logs bytes.Buffer
	m := metrics.New()
	routeOf := func(*http.Request) string { return "/api/v1/roles/{id}" }

	h := middleware.RequestIDMiddleware(middleware.LoggingMiddleware(logger.New(nil, "test", &logs), m, routeOf)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/roles/7", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := logs.String()
	for _, want := range []string{`"event_code":"API_REQUEST"`, `"remote_addr":"203.0.113.9"`, `"status_code":404`, `"level":"WARN"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s:\n%s", want, out)
		}
	}

	expected := `
# HELP result_hub_http_requests_total HTTP requests by method, route and status code.
# TYPE result_hub_http_requests_total counter
result_hub_http_requests_total{method="GET",route="/api/v1/roles/{id}",status="404"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "result_hub_http_requests_total"); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}
