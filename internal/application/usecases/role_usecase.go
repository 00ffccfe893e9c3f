package usecases

import (
	"context"
	"fmt"
	"strings"

	"result-hub/internal/domain/entities"
	domainerrors "result-hub/internal/domain/errors"
	"result-hub/internal/domain/repositories"
	"result-hub/internal/domain/result"
)

// PermissionSource resolves the permissions a role holds.
type PermissionSource interface {
	Permissions(role entities.RoleName) ([]entities.Permission, error)
}

// CreateRoleInput is the payload accepted by Create.
type CreateRoleInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

const maxDescriptionLen = 200

type RoleUseCase struct {
	roles  repositories.RoleRepository
	policy PermissionSource
}

func NewRoleUseCase(roles repositories.RoleRepository, policy PermissionSource) *RoleUseCase {
	return &RoleUseCase{roles: roles, policy: policy}
}

func (uc *RoleUseCase) List(ctx context.Context, includeDeleted bool) (result.DataResult[[]entities.Role], error) {
	roles, err := uc.roles.List(ctx, includeDeleted)
	if err != nil {
		return Failed[[]entities.Role](err)
	}
	return result.WithData(result.Success(fmt.Sprintf("%d roles", len(roles))), roles), nil
}

func (uc *RoleUseCase) Get(ctx context.Context, id int64) (result.DataResult[entities.Role], error) {
	if id <= 0 {
		return Failed[entities.Role](domainerrors.InvalidInput("role id must be a positive integer"))
	}
	role, err := uc.roles.GetByID(ctx, id)
	if err != nil {
		return Failed[entities.Role](err)
	}
	return result.WithData(result.Success(), *role), nil
}

func (uc *RoleUseCase) FindByName(ctx context.Context, name string) (result.DataResult[entities.Role], error) {
	n, err := parseRoleName(name)
	if err != nil {
		return Failed[entities.Role](err)
	}
	role, err := uc.roles.FindByName(ctx, n)
	if err != nil {
		return Failed[entities.Role](err)
	}
	return result.WithData(result.Success(), *role), nil
}

func (uc *RoleUseCase) Create(ctx context.Context, in CreateRoleInput) (result.DataResult[entities.Role], error) {
	n, err := parseRoleName(in.Name)
	if err != nil {
		return Failed[entities.Role](err)
	}
	desc := strings.TrimSpace(in.Description)
	if len(desc) > maxDescriptionLen {
		return Failed[entities.Role](domainerrors.InvalidInput(
			fmt.Sprintf("description must be at most %d characters", maxDescriptionLen)))
	}

	role := &entities.Role{Name: n, Description: desc}
	if err := uc.roles.Create(ctx, role); err != nil {
		return Failed[entities.Role](err)
	}
	return result.WithData(result.Show(result.SuccessResult, "role created"), *role), nil
}

func (uc *RoleUseCase) Delete(ctx context.Context, id int64) (result.Result, error) {
	if id <= 0 {
		err := domainerrors.InvalidInput("role id must be a positive integer")
		return domainerrors.ToResult(err), err
	}
	if err := uc.roles.Delete(ctx, id); err != nil {
		return domainerrors.ToResult(err), err
	}
	return result.Show(result.SuccessResult, "role deleted"), nil
}

// Permissions lists what an active role may do.
func (uc *RoleUseCase) Permissions(ctx context.Context, name string) (result.DataResult[[]entities.Permission], error) {
	role, err := uc.FindByName(ctx, name)
	if err != nil {
		return Failed[[]entities.Permission](err)
	}
	if uc.policy == nil {
		return Failed[[]entities.Permission](domainerrors.OperationFailed("authorization policy is not configured"))
	}
	perms, err := uc.policy.Permissions(role.Data().Name)
	if err != nil {
		return Failed[[]entities.Permission](domainerrors.Wrap(
			domainerrors.KindOperationFailed, err, "could not resolve permissions"))
	}
	return result.WithData(result.Success(), perms), nil
}

// Failed pairs err with the failure envelope it maps to, so a failed call
// never returns a zero DataResult that reads as success.
func Failed[T any](err error) (result.DataResult[T], error) {
	return result.Empty[T](domainerrors.ToResult(err)), err
}

func parseRoleName(raw string) (entities.RoleName, error) {
	n := entities.RoleName(strings.ToUpper(strings.TrimSpace(raw)))
	if n == "" {
		return "", domainerrors.InvalidInput("role name is required")
	}
	if !n.Valid() {
		return "", domainerrors.InvalidInput(fmt.Sprintf("invalid role name %q: expected ROLE_<NAME>", raw))
	}
	return n, nil
}
