package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"result-hub/internal/handler"
	"result-hub/internal/logger"
	"result-hub/internal/metrics"
	"result-hub/internal/middleware"
)

// Server represents the HTTP server with configured middleware
type Server struct {
	Router  *mux.Router
	Handler http.Handler
}

// Options selects the optional pieces of the middleware chain.
type Options struct {
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	MetricsPath    string
	AllowedOrigins []string
}

// New builds the router and wraps it in the middleware chain. The chain sits
// outside the router so unmatched routes are logged and recovered too.
func New(h *handler.Handler, opts Options) *Server {
	router := mux.NewRouter()

	if opts.Metrics != nil && opts.MetricsPath != "" {
		router.Handle(opts.MetricsPath, opts.Metrics.Handler()).Methods(http.MethodGet)
	}
	handler.RegisterRoutes(router, h)

	// Order matters: request id first, then CORS (preflight), logging, recovery
	var chain http.Handler = router
	chain = middleware.ErrorHandlerMiddleware(h.Responder, opts.Logger)(chain)
	chain = middleware.LoggingMiddleware(opts.Logger, opts.Metrics, routeTemplate(router))(chain)
	chain = middleware.CorsMiddleware(opts.AllowedOrigins)(chain)
	chain = middleware.RequestIDMiddleware(chain)

	return &Server{
		Router:  router,
		Handler: chain,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler.ServeHTTP(w, r)
}

func routeTemplate(router *mux.Router) middleware.RouteFunc {
	return func(r *http.Request) string {
		var match mux.RouteMatch
		if !router.Match(r, &match) || match.Route == nil {
			return ""
		}
		tpl, err := match.Route.GetPathTemplate()
		if err != nil {
			return ""
		}
		return tpl
	}
}
