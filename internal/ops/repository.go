// AngelaMos | 2026
// repository.go

package ops

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

// StoreCounts is a point-in-time row count of the storefront tables.
type StoreCounts struct {
	Users        int64 `db:"users"         json:"users"`
	Admins       int64 `db:"admins"        json:"admins"`
	Products     int64 `db:"products"      json:"products"`
	Chats        int64 `db:"chats"         json:"chats"`
	Messages     int64 `db:"messages"      json:"messages"`
	LiveSessions int64 `db:"live_sessions" json:"liveSessions"`
}

type Repository interface {
	Counts(ctx context.Context, now time.Time) (*StoreCounts, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Counts(ctx context.Context, now time.Time) (*StoreCounts, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM users WHERE is_admin = ?) AS admins,
			(SELECT COUNT(*) FROM products) AS products,
			(SELECT COUNT(*) FROM chats) AS chats,
			(SELECT COUNT(*) FROM messages) AS messages,
			(SELECT COUNT(*) FROM tokens WHERE expires_at > ?) AS live_sessions`)

	var counts StoreCounts
	if err := db.GetContext(ctx, &counts, query, true, now); err != nil {
		return nil, fmt.Errorf("count store rows: %w", err)
	}

	return &counts, nil
}
