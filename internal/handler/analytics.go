package handler

import (
	"net/http"
	"time"

	"result-hub/internal/database"
	domainerrors "result-hub/internal/domain/errors"
	"result-hub/internal/domain/result"
	"result-hub/internal/logger"
	"result-hub/internal/presentation/http/validation"
)

const (
	defaultStatsWindow = 24 * time.Hour
	defaultLogLimit    = 50
	maxLogLimit        = 500
)

func (h *Handler) errorStats(w http.ResponseWriter, r *http.Request) {
	if h.Stats == nil {
		h.Responder.WriteError(w, r, domainerrors.OperationFailed("log persistence is disabled"))
		return
	}
	since, err := validation.ParseSince(r.URL.Query(), h.now(), defaultStatsWindow)
	if err != nil {
		h.Responder.WriteError(w, r, err)
		return
	}
	stats, err := h.Stats.ErrorKindStats(since)
	if err != nil {
		h.Responder.WriteError(w, r, domainerrors.Wrap(domainerrors.KindOperationFailed, err, "could not load error statistics"))
		return
	}
	h.Responder.WriteJSON(w, http.StatusOK, result.WithData(result.Success(), stats))
}

type logPage struct {
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
	Logs  []logger.StructuredLog `json:"logs"`
}

func (h *Handler) accessLogs(w http.ResponseWriter, r *http.Request) {
	if h.Logs == nil {
		h.Responder.WriteError(w, r, domainerrors.OperationFailed("log persistence is disabled"))
		return
	}
	p, err := validation.ParsePagination(r.URL.Query(), defaultLogLimit, maxLogLimit)
	if err != nil {
		h.Responder.WriteError(w, r, err)
		return
	}
	logs, err := h.Logs.GetAccessLogs(p.Limit, p.Offset())
	if err != nil {
		h.Responder.WriteError(w, r, domainerrors.Wrap(domainerrors.KindOperationFailed, err, "could not load access logs"))
		return
	}
	if logs == nil {
		logs = []logger.StructuredLog{}
	}
	h.Responder.WriteJSON(w, http.StatusOK, result.WithData(result.Success(), logPage{Page: p.Page, Limit: p.Limit, Logs: logs}))
}

var _ StatsSource = (*database.Database)(nil)
