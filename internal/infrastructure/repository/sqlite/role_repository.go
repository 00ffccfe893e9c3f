package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"result-hub/internal/domain/entities"
	domainerrors "result-hub/internal/domain/errors"
	"result-hub/internal/domain/repositories"
)

type RoleRepo struct {
	db    *sql.DB
	clock clock.Clock
}

var _ repositories.RoleRepository = (*RoleRepo)(nil)

func NewRoleRepo(db *sql.DB, c clock.Clock) *RoleRepo {
	if c == nil {
		c = clock.New()
	}
	return &RoleRepo{db: db, clock: c}
}

const roleColumns = `id, name, description, is_deleted, created_at, updated_at`

func (r *RoleRepo) GetByID(ctx context.Context, id int64) (*entities.Role, error) {
	if r.db == nil {
		return nil, ErrDBUnavailable
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = ?`, id)
	role, err := scanRole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NotFound(fmt.Sprintf("role %d not found", id))
	}
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.KindOperationFailed, err, "failed to load role")
	}
	return role, nil
}

// FindByName ignores soft-deleted rows.
func (r *RoleRepo) FindByName(ctx context.Context, name entities.RoleName) (*entities.Role, error) {
	if r.db == nil {
		return nil, ErrDBUnavailable
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = ? AND is_deleted = 0`, string(name))
	role, err := scanRole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NotFound(fmt.Sprintf("role %s not found", name))
	}
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.KindOperationFailed, err, "failed to load role")
	}
	return role, nil
}

func (r *RoleRepo) List(ctx context.Context, includeDeleted bool) ([]entities.Role, error) {
	if r.db == nil {
		return nil, ErrDBUnavailable
	}
	query := `SELECT ` + roleColumns + ` FROM roles`
	if !includeDeleted {
		query += ` WHERE is_deleted = 0`
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.KindOperationFailed, err, "failed to list roles")
	}
	defer rows.Close()

	out := []entities.Role{}
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, domainerrors.Wrap(domainerrors.KindOperationFailed, err, "failed to list roles")
		}
		out = append(out, *role)
	}
	if err := rows.Err(); err != nil {
		return nil, domainerrors.Wrap(domainerrors.KindOperationFailed, err, "failed to list roles")
	}
	return out, nil
}

// Create inserts role and fills in its ID and timestamps.
func (r *RoleRepo) Create(ctx context.Context, role *entities.Role) error {
	if r.db == nil {
		return ErrDBUnavailable
	}
	now := r.clock.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO roles (name, description, is_deleted, created_at, updated_at) VALUES (?, ?, 0, ?, ?)`,
		string(role.Name), role.Description, formatTime(now), formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.Duplicate(fmt.Sprintf("role %s already exists", role.Name))
		}
		return domainerrors.SaveFailed(fmt.Sprintf("could not save role %s", role.Name), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domainerrors.SaveFailed(fmt.Sprintf("could not save role %s", role.Name), err)
	}
	role.ID = id
	role.Deleted = false
	role.CreatedAt, role.UpdatedAt = now, now
	return nil
}

// Delete soft-deletes a role. Deleting twice reports AlreadyDeleted.
func (r *RoleRepo) Delete(ctx context.Context, id int64) error {
	role, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role.Deleted {
		return domainerrors.AlreadyDeleted(fmt.Sprintf("role %d is already deleted", id))
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE roles SET is_deleted = 1, updated_at = ? WHERE id = ? AND is_deleted = 0`,
		formatTime(r.clock.Now().UTC()), id,
	)
	if err != nil {
		return domainerrors.SaveFailed(fmt.Sprintf("could not delete role %d", id), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domainerrors.AlreadyDeleted(fmt.Sprintf("role %d is already deleted", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRole(s rowScanner) (*entities.Role, error) {
	var (
		role                 entities.Role
		name                 string
		createdAt, updatedAt string
	)
	if err := s.Scan(&role.ID, &name, &role.Description, &role.Deleted, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	role.Name = entities.RoleName(name)
	role.CreatedAt = parseTime(createdAt)
	role.UpdatedAt = parseTime(updatedAt)
	return &role, nil
}

func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func formatTime(t time.Time) string { return t.Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
