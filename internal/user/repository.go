// CaterEase API | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/caterease/api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id int64) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `
	id, username, email, password_hash, name, phone, address, city, state,
	role, token_version, created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			username, email, password_hash, name,
			phone, address, city, state, role
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at, token_version`

	err := r.db.GetContext(ctx, user, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Phone,
		user.Address,
		user.City,
		user.State,
		user.Role,
	)
	switch {
	case isDuplicateKeyError(err):
		return fmt.Errorf("create user: %w", duplicateKeyField(err))
	case err != nil:
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, "get user", `id = $1`, id)
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	return r.getOne(ctx, "get user by username", `username = $1`, username)
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return r.getOne(ctx, "get user by email", `email = $1`, email)
}

// getOne always excludes soft-deleted rows; deleted accounts behave as
// if they never existed.
func (r *repository) getOne(
	ctx context.Context,
	op, predicate string,
	arg any,
) (*User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE ` + predicate + ` AND deleted_at IS NULL`

	var user User
	switch err := r.db.GetContext(ctx, &user, query, arg); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	const query = `
		UPDATE users
		SET name = $2, phone = $3, address = $4, city = $5, state = $6,
		    role = $7, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Name,
		user.Phone,
		user.Address,
		user.City,
		user.State,
		user.Role,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	case err != nil:
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	const query = `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execOnLiveRow(ctx, "update password", query, id, passwordHash)
}

func (r *repository) IncrementTokenVersion(
	ctx context.Context,
	id int64,
) error {
	const query = `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execOnLiveRow(ctx, "increment token version", query, id)
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	const query = `
		UPDATE users
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execOnLiveRow(ctx, "delete user", query, id)
}

func (r *repository) execOnLiveRow(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	conditions := []string{"deleted_at IS NULL"}
	var args []any

	if params.Search != "" {
		n := len(args) + 1
		conditions = append(conditions, fmt.Sprintf(
			"(username ILIKE $%d OR email ILIKE $%d OR name ILIKE $%d)",
			n, n, n))
		args = append(args, "%"+escapeLike(params.Search)+"%")
	}
	if params.Role != "" {
		conditions = append(conditions,
			fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, params.Role)
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM users WHERE " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT`+userColumns+`
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) ExistsByUsername(
	ctx context.Context,
	username string,
) (bool, error) {
	return r.exists(ctx, "check username exists", `username = $1`, username)
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	return r.exists(ctx, "check email exists", `email = $1`, email)
}

func (r *repository) exists(
	ctx context.Context,
	op, predicate string,
	arg any,
) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM users WHERE ` + predicate + ` AND deleted_at IS NULL)`

	var found bool
	if err := r.db.GetContext(ctx, &found, query, arg); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return found, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// duplicateKeyField narrows a unique violation to the column it hit, so
// callers can report which field conflicted.
func duplicateKeyField(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return core.ErrDuplicateKey
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return core.ErrDuplicateEmail
	case strings.Contains(pgErr.ConstraintName, "username"):
		return core.ErrDuplicateUsername
	}
	return core.ErrDuplicateKey
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	return strings.ReplaceAll(s, "_", "\\_")
}
