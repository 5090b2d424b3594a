// AngelaMos | 2026
// repository.go

package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Chat, error)
	ListByUser(ctx context.Context, userID string) ([]Chat, error)
	GetByID(ctx context.Context, id string) (*Chat, error)
	GetDetail(ctx context.Context, id string) (*ChatDetail, error)
	FindByUser(ctx context.Context, userID string) (*Chat, error)
	Create(ctx context.Context, chat *Chat) error
	ListMessages(ctx context.Context, chatID string) ([]Message, error)
	CreateMessage(ctx context.Context, msg *Message) error
	ListAdminChats(ctx context.Context, adminID string) ([]adminChatRow, error)
	ListThread(ctx context.Context, chatID string) ([]threadRow, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const chatColumns = `id, user_id, admin_id, created_at`

func (r *repository) List(ctx context.Context) ([]Chat, error) {
	db := core.Conn(ctx, r.db)
	query := `SELECT ` + chatColumns + ` FROM chats ORDER BY created_at ASC, id ASC`

	chats := []Chat{}
	if err := db.SelectContext(ctx, &chats, query); err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	return chats, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Chat, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		SELECT ` + chatColumns + `
		FROM chats
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC`)

	chats := []Chat{}
	if err := db.SelectContext(ctx, &chats, query, userID); err != nil {
		return nil, fmt.Errorf("list user chats: %w", err)
	}

	return chats, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Chat, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`SELECT ` + chatColumns + ` FROM chats WHERE id = ?`)

	var chat Chat
	err := db.GetContext(ctx, &chat, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get chat: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}

	return &chat, nil
}

func (r *repository) GetDetail(ctx context.Context, id string) (*ChatDetail, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		SELECT c.id, c.user_id, c.admin_id, c.created_at, u.email AS user_email
		FROM chats c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = ?`)

	var detail ChatDetail
	err := db.GetContext(ctx, &detail, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get chat detail: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get chat detail: %w", err)
	}

	return &detail, nil
}

func (r *repository) FindByUser(ctx context.Context, userID string) (*Chat, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		SELECT ` + chatColumns + `
		FROM chats
		WHERE user_id = ?
		ORDER BY created_at ASC
		LIMIT 1`)

	var chat Chat
	err := db.GetContext(ctx, &chat, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find user chat: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user chat: %w", err)
	}

	return &chat, nil
}

func (r *repository) Create(ctx context.Context, chat *Chat) error {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		INSERT INTO chats (id, user_id, admin_id, created_at)
		VALUES (?, ?, ?, ?)`)

	_, err := db.ExecContext(ctx, query,
		chat.ID,
		chat.UserID,
		chat.AdminID,
		chat.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create chat: %w", err)
	}

	return nil
}

func (r *repository) ListMessages(ctx context.Context, chatID string) ([]Message, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		SELECT id, chat_id, sender_id, content, sent_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY sent_at ASC, id ASC`)

	messages := []Message{}
	if err := db.SelectContext(ctx, &messages, query, chatID); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messages, nil
}

func (r *repository) CreateMessage(ctx context.Context, msg *Message) error {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		INSERT INTO messages (id, chat_id, sender_id, content, sent_at)
		VALUES (?, ?, ?, ?, ?)`)

	_, err := db.ExecContext(ctx, query,
		msg.ID,
		msg.ChatID,
		msg.SenderID,
		msg.Content,
		msg.SentAt,
	)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

// ListAdminChats pairs each of the admin's chats with its newest message,
// if any. Ordering is left to the caller.
func (r *repository) ListAdminChats(
	ctx context.Context,
	adminID string,
) ([]adminChatRow, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		SELECT c.id AS chat_id,
		       u.email AS user_email,
		       m.content AS last_message,
		       m.sent_at AS last_sent_at
		FROM chats c
		JOIN users u ON u.id = c.user_id
		LEFT JOIN messages m ON m.id = (
			SELECT m2.id
			FROM messages m2
			WHERE m2.chat_id = c.id
			ORDER BY m2.sent_at DESC, m2.id DESC
			LIMIT 1
		)
		WHERE c.admin_id = ?`)

	rows := []adminChatRow{}
	if err := db.SelectContext(ctx, &rows, query, adminID); err != nil {
		return nil, fmt.Errorf("list admin chats: %w", err)
	}

	return rows, nil
}

func (r *repository) ListThread(ctx context.Context, chatID string) ([]threadRow, error) {
	db := core.Conn(ctx, r.db)
	query := db.Rebind(`
		SELECT m.id, m.sender_id, u.email AS sender_email, m.content, m.sent_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.chat_id = ?
		ORDER BY m.sent_at ASC, m.id ASC`)

	rows := []threadRow{}
	if err := db.SelectContext(ctx, &rows, query, chatID); err != nil {
		return nil, fmt.Errorf("list thread: %w", err)
	}

	return rows, nil
}
