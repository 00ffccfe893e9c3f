package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"result-hub/internal/logger"
)

// ErrorWriter turns an error into a response. The handler package's
// Responder implements it by way of the dispatcher.
type ErrorWriter interface {
	WriteError(w http.ResponseWriter, r *http.Request, err error)
}

// PanicError wraps a recovered panic value so it reaches the dispatcher as
// an ordinary, unclassified error.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if e == nil {
		return nil
	}
	err, _ := e.Value.(error)
	return err
}

// ErrorHandlerMiddleware recovers from panics and writes them through out.
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func ErrorHandlerMiddleware(out ErrorWriter, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				if log != nil {
					log.LogPanic(RequestIDFromContext(r.Context()), rec, debug.Stack())
				}
				out.WriteError(w, r, &PanicError{Value: rec})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
