// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type Repository interface {
	Create(ctx context.Context, token *Token) error
	FindByRefreshHash(ctx context.Context, hash string) (*Token, error)
	FindPrincipalByAccessHash(
		ctx context.Context,
		hash string,
	) (*core.Principal, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByAccessHash(ctx context.Context, hash string) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, token *Token) error {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		INSERT INTO tokens (
			id, user_id, access_token_hash, refresh_token_hash,
			expires_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := db.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.AccessTokenHash,
		token.RefreshTokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create token: %w", err)
	}

	return nil
}

// FindByRefreshHash returns the newest pair when the same refresh string
// somehow appears twice.
func (r *repository) FindByRefreshHash(
	ctx context.Context,
	hash string,
) (*Token, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		SELECT id, user_id, access_token_hash, refresh_token_hash,
		       expires_at, created_at
		FROM tokens
		WHERE refresh_token_hash = ?
		ORDER BY expires_at DESC
		LIMIT 1`)

	var token Token
	err := db.GetContext(ctx, &token, query, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	return &token, nil
}

func (r *repository) FindPrincipalByAccessHash(
	ctx context.Context,
	hash string,
) (*core.Principal, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		SELECT u.id, u.email, u.is_admin
		FROM tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.access_token_hash = ?
		LIMIT 1`)

	var row principalRow
	err := db.GetContext(ctx, &row, query, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find access token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find access token: %w", err)
	}

	return &core.Principal{ID: row.ID, Email: row.Email, IsAdmin: row.IsAdmin}, nil
}

func (r *repository) DeleteByID(ctx context.Context, id string) error {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`DELETE FROM tokens WHERE id = ?`)

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete token: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteByAccessHash(
	ctx context.Context,
	hash string,
) (int64, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`DELETE FROM tokens WHERE access_token_hash = ?`)

	result, err := db.ExecContext(ctx, query, hash)
	if err != nil {
		return 0, fmt.Errorf("delete by access token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete by access token: %w", err)
	}

	return rows, nil
}
