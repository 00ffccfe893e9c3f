package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/mux"

	"result-hub/internal/database"
	domainerrors "result-hub/internal/domain/errors"
	"result-hub/internal/domain/result"
	"result-hub/internal/logger"
	"result-hub/internal/presentation/http/controllers"
)

// LogSource pages through persisted structured logs.
type LogSource interface {
	GetAccessLogs(limit, offset int) ([]logger.StructuredLog, error)
}

// StatsSource aggregates dispatched errors.
type StatsSource interface {
	ErrorKindStats(since time.Time) ([]database.ErrorKindStat, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves the JSON API. Logs, Stats and DB are optional.
type Handler struct {
	Roles     *controllers.RoleController
	Responder *Responder
	Logs      LogSource
	Stats     StatsSource
	DB        Pinger
	Clock     clock.Clock
	Version   string
}

func (h *Handler) now() time.Time {
	if h.Clock == nil {
		return time.Now()
	}
	return h.Clock.Now()
}

// RegisterRoutes mounts the API under /api/v1 and makes unknown routes
// answer with a dispatched not-found error.
func RegisterRoutes(router *mux.Router, h *Handler) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", h.healthCheck).Methods(http.MethodGet)

	api.HandleFunc("/roles", h.listRoles).Methods(http.MethodGet)
	api.HandleFunc("/roles", h.createRole).Methods(http.MethodPost)
	api.HandleFunc("/roles/by-name/{name}", h.getRoleByName).Methods(http.MethodGet)
	api.HandleFunc("/roles/{name}/permissions", h.rolePermissions).Methods(http.MethodGet)
	api.HandleFunc("/roles/{id}", h.getRole).Methods(http.MethodGet)
	api.HandleFunc("/roles/{id}", h.deleteRole).Methods(http.MethodDelete)

	api.HandleFunc("/errors/stats", h.errorStats).Methods(http.MethodGet)
	api.HandleFunc("/logs", h.accessLogs).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Responder.WriteError(w, r, domainerrors.NotFound("no route for "+r.URL.Path))
	})
}

type healthStatus struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.PingContext(r.Context()); err != nil {
			h.Responder.WriteError(w, r, domainerrors.Wrap(domainerrors.KindOperationFailed, err, "database not reachable"))
			return
		}
	}
	h.Responder.WriteJSON(w, http.StatusOK, result.WithData(result.Success("service is healthy"), healthStatus{
		Status:    "healthy",
		Version:   h.Version,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	}))
}
