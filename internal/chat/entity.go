// AngelaMos | 2026
// entity.go

package chat

import (
	"database/sql"
	"time"
)

type Chat struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	AdminID   string    `db:"admin_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (c *Chat) HasParticipant(id string) bool {
	return id != "" && (c.UserID == id || c.AdminID == id)
}

type Message struct {
	ID       string    `db:"id"`
	ChatID   string    `db:"chat_id"`
	SenderID string    `db:"sender_id"`
	Content  string    `db:"content"`
	SentAt   time.Time `db:"sent_at"`
}

// ChatDetail is a chat joined with its customer's email.
type ChatDetail struct {
	Chat
	UserEmail string `db:"user_email"`
}

type adminChatRow struct {
	ChatID      string         `db:"chat_id"`
	UserEmail   string         `db:"user_email"`
	LastMessage sql.NullString `db:"last_message"`
	LastSentAt  sql.NullTime   `db:"last_sent_at"`
}

type threadRow struct {
	ID          string    `db:"id"`
	SenderID    string    `db:"sender_id"`
	SenderEmail string    `db:"sender_email"`
	Content     string    `db:"content"`
	SentAt      time.Time `db:"sent_at"`
}
