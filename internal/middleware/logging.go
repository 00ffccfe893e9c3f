package middleware

import (
	"net/http"
	"time"

	"result-hub/internal/logger"
	"result-hub/internal/metrics"
)

// RouteFunc names the route a request matched, for metric labels.
type RouteFunc func(r *http.Request) string

// LoggingMiddleware logs every request and its response, and records request
// metrics when m is non-nil.
func LoggingMiddleware(log *logger.Logger, m *metrics.Metrics, routeOf RouteFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := RequestIDFromContext(r.Context())

			wrapper := &responseWrapper{ResponseWriter: w}

			if log != nil {
				log.LogAPIRequest(requestID, r.Method, r.URL.Path, r.UserAgent(), getClientIP(r))
			}

			next.ServeHTTP(wrapper, r)

			status := wrapper.status()
			duration := time.Since(start)

			if log != nil {
				log.LogAPIResponse(requestID, r.Method, r.URL.Path, status, duration)
			}
			if m != nil {
				route := "unmatched"
				if routeOf != nil {
					if rt := routeOf(r); rt != "" {
						route = rt
					}
				}
				m.ObserveRequest(r.Method, route, status, duration)
			}
		})
	}
}

// responseWrapper captures the status code written by the handler.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	if rw.statusCode == 0 {
		rw.statusCode = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWrapper) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWrapper) status() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}
