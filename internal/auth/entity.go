// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Token is one issued access/refresh pair. Only the SHA-256 of each
// string is stored.
type Token struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	AccessTokenHash  string    `db:"access_token_hash"`
	RefreshTokenHash string    `db:"refresh_token_hash"`
	ExpiresAt        time.Time `db:"expires_at"`
	CreatedAt        time.Time `db:"created_at"`
}

func (t *Token) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

type principalRow struct {
	ID      string `db:"id"`
	Email   string `db:"email"`
	IsAdmin bool   `db:"is_admin"`
}
