package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"result-hub/internal/application/usecases"
	"result-hub/internal/domain/entities"
	domainerrors "result-hub/internal/domain/errors"
	"result-hub/internal/domain/result"
)

type memRoles struct {
	byID   map[int64]*entities.Role
	nextID int64
}

func newMemRoles(names ...entities.RoleName) *memRoles {
	m := &memRoles{byID: map[int64]*entities.Role{}}
	for _, n := range names {
		_ = m.Create(context.Background(), &entities.Role{Name: n})
	}
	return m
}

func (m *memRoles) GetByID(_ context.Context, id int64) (*entities.Role, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, domainerrors.NotFound("role not found")
	}
	cp := *r
	return &cp, nil
}

func (m *memRoles) FindByName(_ context.Context, name entities.RoleName) (*entities.Role, error) {
	for _, r := range m.byID {
		if r.Name == name && !r.Deleted {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domainerrors.NotFound("role " + string(name) + " not found")
}

func (m *memRoles) List(_ context.Context, includeDeleted bool) ([]entities.Role, error) {
	out := []entities.Role{}
	for id := int64(1); id <= m.nextID; id++ {
		if r, ok := m.byID[id]; ok && (includeDeleted || !r.Deleted) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRoles) Create(_ context.Context, role *entities.Role) error {
	for _, r := range m.byID {
		if r.Name == role.Name {
			return domainerrors.Duplicate("role exists")
		}
	}
	m.nextID++
	role.ID = m.nextID
	cp := *role
	m.byID[role.ID] = &cp
	return nil
}

func (m *memRoles) Delete(_ context.Context, id int64) error {
	r, ok := m.byID[id]
	if !ok {
		return domainerrors.NotFound("role not found")
	}
	if r.Deleted {
		return domainerrors.AlreadyDeleted("role already deleted")
	}
	r.Deleted = true
	return nil
}

type stubPolicy struct {
	perms []entities.Permission
	err   error
}

func (s stubPolicy) Permissions(entities.RoleName) ([]entities.Permission, error) {
	return s.perms, s.err
}

func wantKind(t *testing.T, err error, k domainerrors.Kind) {
	t.Helper()
	de, ok := domainerrors.As(err)
	if !ok || de.Kind != k {
		t.Fatalf("err=%v want kind %v", err, k)
	}
}

func TestCreate_NormalizesAndValidates(t *testing.T) {
	uc := usecases.NewRoleUseCase(newMemRoles(), nil)
	ctx := context.Background()

	res, err := uc.Create(ctx, usecases.CreateRoleInput{Name: "  role_auditor ", Description: " reads logs "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !res.IsSuccess() || res.Message() != "role created" {
		t.Fatalf("result=%v", res)
	}
	if got := res.Data(); got.Name != "ROLE_AUDITOR" || got.Description != "reads logs" {
		t.Fatalf("data=%+v", got)
	}

	tests := []struct {
		name string
		in   usecases.CreateRoleInput
		kind domainerrors.Kind
	}{
		{"empty name", usecases.CreateRoleInput{Name: "  "}, domainerrors.KindInvalidInput},
		{"missing prefix", usecases.CreateRoleInput{Name: "admin"}, domainerrors.KindInvalidInput},
		{"description too long", usecases.CreateRoleInput{Name: "ROLE_X1", Description: strings.Repeat("d", 201)}, domainerrors.KindInvalidInput},
		{"duplicate", usecases.CreateRoleInput{Name: "ROLE_AUDITOR"}, domainerrors.KindDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(ctx, tt.in)
			wantKind(t, err, tt.kind)
		})
	}
}

func TestGetAndDelete(t *testing.T) {
	uc := usecases.NewRoleUseCase(newMemRoles(entities.RoleUser), nil)
	ctx := context.Background()

	_, err := uc.Get(ctx, 0)
	wantKind(t, err, domainerrors.KindInvalidInput)
	missing, err := uc.Get(ctx, 99)
	wantKind(t, err, domainerrors.KindNotFound)
	if missing.IsSuccess() || missing.HasData() || missing.Code() != result.CodeNotFound {
		t.Fatalf("failed Get must carry a not-found envelope, got %v", missing)
	}

	got, err := uc.Get(ctx, 1)
	if err != nil || got.Data().Name != entities.RoleUser {
		t.Fatalf("Get(1)=%v, %v", got, err)
	}

	res, err := uc.Delete(ctx, 1)
	if err != nil || !result.IsSuccess(res) {
		t.Fatalf("Delete=%v, %v", res, err)
	}
	again, err := uc.Delete(ctx, 1)
	wantKind(t, err, domainerrors.KindAlreadyDeleted)
	if result.IsSuccess(again) || again.Code() != result.CodeBadRequest {
		t.Fatalf("failed Delete must carry a bad-request envelope, got %v", again)
	}

	list, err := uc.List(ctx, false)
	if err != nil || len(list.Data()) != 0 {
		t.Fatalf("List active=%v, %v", list.Data(), err)
	}
	list, err = uc.List(ctx, true)
	if err != nil || len(list.Data()) != 1 || list.Message() != "1 roles" {
		t.Fatalf("List all=%v, %v", list, err)
	}
}

func TestPermissions(t *testing.T) {
	ctx := context.Background()
	perms := []entities.Permission{{Object: "roles", Action: "read"}}

	uc := usecases.NewRoleUseCase(newMemRoles(entities.RoleUser), stubPolicy{perms: perms})
	res, err := uc.Permissions(ctx, "role_user")
	if err != nil {
		t.Fatalf("Permissions: %v", err)
	}
	if len(res.Data()) != 1 || res.Data()[0] != perms[0] {
		t.Fatalf("data=%v", res.Data())
	}

	_, err = uc.Permissions(ctx, "ROLE_GHOST")
	wantKind(t, err, domainerrors.KindNotFound)

	noPolicy := usecases.NewRoleUseCase(newMemRoles(entities.RoleUser), nil)
	_, err = noPolicy.Permissions(ctx, "ROLE_USER")
	wantKind(t, err, domainerrors.KindOperationFailed)

	boom := errors.New("adapter offline")
	failing := usecases.NewRoleUseCase(newMemRoles(entities.RoleUser), stubPolicy{err: boom})
	_, err = failing.Permissions(ctx, "ROLE_USER")
	wantKind(t, err, domainerrors.KindOperationFailed)
	if !errors.Is(err, boom) {
		t.Fatalf("cause lost: %v", err)
	}
}
