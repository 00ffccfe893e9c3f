package di

import (
	"fmt"

	"github.com/benbjohnson/clock"

	"result-hub/internal/application/usecases"
	"result-hub/internal/authz"
	"result-hub/internal/database"
	"result-hub/internal/dispatch"
	"result-hub/internal/domain/repositories"
	"result-hub/internal/handler"
	"result-hub/internal/infrastructure/config"
	repo "result-hub/internal/infrastructure/repository/sqlite"
	"result-hub/internal/logger"
	"result-hub/internal/metrics"
	fc "result-hub/internal/presentation/http/controllers"
	"result-hub/internal/server"
)

// Container provides app-wide singletons for repos/usecases/controllers.
type Container struct {
	DB     *database.Database
	Logger *logger.Logger
	Clock  clock.Clock

	Dispatcher *dispatch.Dispatcher
	Metrics    *metrics.Metrics
	Policy     *authz.Policy

	// Repositories
	Roles repositories.RoleRepository

	// Usecases
	RoleUC *usecases.RoleUseCase

	// Controllers
	RoleController *fc.RoleController

	Server *server.Server
}

// New wires everything from cfg. clk may be nil for the wall clock.
func New(cfg *config.Config, db *database.Database, log *logger.Logger, clk clock.Clock) (*Container, error) {
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = logger.GetLogger()
	}
	log.SetClock(clk)

	policy, err := authz.NewPolicy(db.GetDB(), cfg.Authz.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build authorization policy: %w", err)
	}

	c := &Container{
		DB:     db,
		Logger: log,
		Clock:  clk,
		Dispatcher: dispatch.New(
			dispatch.WithClock(clk),
			dispatch.WithRedaction(cfg.Errors.RedactUnclassified),
		),
		Policy: policy,
		Roles:  repo.NewRoleRepo(db.GetDB(), clk),
	}
	if cfg.Metrics.Enabled {
		c.Metrics = metrics.New()
	}

	// Build usecases
	c.RoleUC = usecases.NewRoleUseCase(c.Roles, c.Policy)
	// Build controllers
	c.RoleController = fc.NewRoleController(c.RoleUC)

	h := &handler.Handler{
		Roles:     c.RoleController,
		Responder: handler.NewResponder(c.Dispatcher, log, c.Metrics),
		DB:        db.GetDB(),
		Clock:     clk,
		Version:   cfg.Application.Version,
	}
	if cfg.Database.PersistLogs {
		h.Logs = log
		h.Stats = db
	}

	c.Server = server.New(h, server.Options{
		Logger:         log,
		Metrics:        c.Metrics,
		MetricsPath:    cfg.Metrics.Path,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})
	return c, nil
}
