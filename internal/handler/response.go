package handler

import (
	"encoding/json"
	"net/http"

	"result-hub/internal/dispatch"
	"result-hub/internal/logger"
	"result-hub/internal/metrics"
	"result-hub/internal/middleware"
)

// Responder writes success bodies as-is and sends every error through the
// dispatcher, logging and counting it on the way out.
type Responder struct {
	dispatcher *dispatch.Dispatcher
	log        *logger.Logger
	metrics    *metrics.Metrics
}

func NewResponder(d *dispatch.Dispatcher, log *logger.Logger, m *metrics.Metrics) *Responder {
	if d == nil {
		d = dispatch.New()
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Responder{dispatcher: d, log: log, metrics: m}
}

// RequestDescription is the request context attached to classified errors,
// e.g. "GET /api/v1/roles/5".
func RequestDescription(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.Method + " " + r.URL.Path
}

// WriteError dispatches err and writes the resulting ErrorDetails.
func (rs *Responder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	reqCtx := RequestDescription(r)
	o := rs.dispatcher.Classify(err, reqCtx)

	rs.log.LogDispatch(middleware.RequestIDFromContext(r.Context()), reqCtx, o.Label(), o.Status, dispatch.RawMessage(err))
	rs.metrics.ObserveDispatch(o.Label(), o.Status)

	rs.writeJSON(w, o.Status, o.Details)
}

// WriteJSON writes v with the given status.
func (rs *Responder) WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	rs.writeJSON(w, status, v)
}

func (rs *Responder) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.log.LogError("Error encoding JSON response", err, nil)
	}
}
