// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FirstAdmin(ctx context.Context) (*User, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, email, password_hash, is_admin, created_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		INSERT INTO users (id, email, password_hash, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?)`)

	_, err := db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		user.CreatedAt,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)

	var user User
	err := db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)

	var user User
	err := db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`)

	var count int
	if err := db.GetContext(ctx, &count, query, email); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return count > 0, nil
}

// FirstAdmin returns the earliest registered admin. Ties on created_at
// break on id so the choice is stable.
func (r *repository) FirstAdmin(ctx context.Context) (*User, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		SELECT ` + userColumns + `
		FROM users
		WHERE is_admin = ?
		ORDER BY created_at ASC, id ASC
		LIMIT 1`)

	var user User
	err := db.GetContext(ctx, &user, query, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("first admin: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("first admin: %w", err)
	}

	return &user, nil
}
