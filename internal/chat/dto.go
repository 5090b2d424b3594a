// AngelaMos | 2026
// dto.go

package chat

import (
	"time"
)

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

type ChatResponse struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	AdminID string `json:"adminId"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// AdminChatItem is one row of the console chat list.
type AdminChatItem struct {
	ChatID        string
	UserEmail     string
	LastMessage   *string
	LastTimestamp *time.Time
}

type ThreadMessage struct {
	ID          string
	SenderEmail string
	FromAdmin   bool
	Content     string
	Timestamp   time.Time
}

type Thread struct {
	ChatID    string
	UserEmail string
	Messages  []ThreadMessage
}

func ToChatResponse(c *Chat) ChatResponse {
	return ChatResponse{
		ID:      c.ID,
		UserID:  c.UserID,
		AdminID: c.AdminID,
	}
}

func ToChatResponseList(chats []Chat) []ChatResponse {
	resp := make([]ChatResponse, len(chats))
	for i := range chats {
		resp[i] = ToChatResponse(&chats[i])
	}
	return resp
}

func ToMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Timestamp: m.SentAt.UTC(),
	}
}

func ToMessageResponseList(messages []Message) []MessageResponse {
	resp := make([]MessageResponse, len(messages))
	for i := range messages {
		resp[i] = ToMessageResponse(&messages[i])
	}
	return resp
}
