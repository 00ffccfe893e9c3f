package repositories

import (
	"context"

	"result-hub/internal/domain/entities"
)

// RoleRepository reports failures as domain errors: NotFound, Duplicate,
// AlreadyDeleted or SaveFailed.
type RoleRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Role, error)
	FindByName(ctx context.Context, name entities.RoleName) (*entities.Role, error)
	List(ctx context.Context, includeDeleted bool) ([]entities.Role, error)
	Create(ctx context.Context, role *entities.Role) error
	Delete(ctx context.Context, id int64) error
}
