package controllers

import (
	"context"
	"io"
	"net/url"

	"result-hub/internal/application/usecases"
	"result-hub/internal/domain/entities"
	domainerrors "result-hub/internal/domain/errors"
	"result-hub/internal/domain/result"
	"result-hub/internal/presentation/http/validation"
)

// RoleController turns raw request values into role use case calls.
type RoleController struct {
	uc *usecases.RoleUseCase
}

func NewRoleController(uc *usecases.RoleUseCase) *RoleController {
	return &RoleController{uc: uc}
}

func (c *RoleController) List(ctx context.Context, q url.Values) (result.DataResult[[]entities.Role], error) {
	includeDeleted, err := validation.ParseBool(q, "include_deleted")
	if err != nil {
		return usecases.Failed[[]entities.Role](err)
	}
	return c.uc.List(ctx, includeDeleted)
}

func (c *RoleController) Get(ctx context.Context, rawID string) (result.DataResult[entities.Role], error) {
	id, err := validation.ParseID(rawID)
	if err != nil {
		return usecases.Failed[entities.Role](err)
	}
	return c.uc.Get(ctx, id)
}

func (c *RoleController) FindByName(ctx context.Context, name string) (result.DataResult[entities.Role], error) {
	return c.uc.FindByName(ctx, name)
}

func (c *RoleController) Create(ctx context.Context, body io.Reader) (result.DataResult[entities.Role], error) {
	var in usecases.CreateRoleInput
	if err := validation.DecodeJSON(body, &in); err != nil {
		return usecases.Failed[entities.Role](err)
	}
	return c.uc.Create(ctx, in)
}

func (c *RoleController) Delete(ctx context.Context, rawID string) (result.Result, error) {
	id, err := validation.ParseID(rawID)
	if err != nil {
		return domainerrors.ToResult(err), err
	}
	return c.uc.Delete(ctx, id)
}

func (c *RoleController) Permissions(ctx context.Context, name string) (result.DataResult[[]entities.Permission], error) {
	return c.uc.Permissions(ctx, name)
}
