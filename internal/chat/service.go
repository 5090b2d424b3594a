// AngelaMos | 2026
// service.go

package chat

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

const (
	roleUser  = "user"
	roleAdmin = "admin"
)

// AdminFinder chooses the admin assigned to a newly opened chat.
type AdminFinder interface {
	FirstAdmin(ctx context.Context) (*core.Principal, error)
}

type Service struct {
	repo    Repository
	admins  AdminFinder
	tx      core.Transactor
	metrics *core.Metrics
	now     func() time.Time
}

func NewService(
	repo Repository,
	admins AdminFinder,
	tx core.Transactor,
	metrics *core.Metrics,
) *Service {
	return &Service{
		repo:    repo,
		admins:  admins,
		tx:      tx,
		metrics: metrics,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

// ListChats returns every chat for admins and the caller's own chat
// otherwise.
func (s *Service) ListChats(ctx context.Context, caller *core.Principal) ([]Chat, error) {
	if caller.IsAdmin {
		return s.repo.List(ctx)
	}
	return s.repo.ListByUser(ctx, caller.ID)
}

// CreateChat opens the caller's single support chat. The existence check
// and insert share a transaction; nothing in the schema enforces
// uniqueness.
func (s *Service) CreateChat(ctx context.Context, caller *core.Principal) (*Chat, error) {
	if caller.IsAdmin {
		return nil, core.ForbiddenError("admins cannot open support chats")
	}

	ctx, span := core.StartSpan(ctx, "chat.create",
		attribute.String("user.id", caller.ID),
	)
	defer span.End()

	var chat *Chat
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindByUser(ctx, caller.ID)
		switch {
		case err == nil && existing != nil:
			return core.ConflictError("chat already exists")
		case err != nil && !errors.Is(err, core.ErrNotFound):
			return err
		}

		admin, err := s.admins.FirstAdmin(ctx)
		if errors.Is(err, core.ErrNotFound) {
			return core.UnavailableError("no admin available")
		}
		if err != nil {
			return err
		}

		chat = &Chat{
			ID:        uuid.New().String(),
			UserID:    caller.ID,
			AdminID:   admin.ID,
			CreatedAt: s.now(),
		}
		return s.repo.Create(ctx, chat)
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("create chat: %w", err)
	}

	s.metrics.RecordChatCreated()
	return chat, nil
}

func (s *Service) ListMessages(
	ctx context.Context,
	chatID string,
	caller *core.Principal,
) ([]Message, error) {
	if _, err := s.participantChat(ctx, chatID, caller.ID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, chatID)
}

func (s *Service) SendMessage(
	ctx context.Context,
	chatID string,
	content string,
	caller *core.Principal,
) (*Message, error) {
	if _, err := s.participantChat(ctx, chatID, caller.ID); err != nil {
		return nil, err
	}

	msg, err := s.append(ctx, chatID, caller.ID, content)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordMessage(roleFor(caller.IsAdmin))
	return msg, nil
}

// AdminChats lists the admin's chats, most recent activity first. Chats
// without messages sort last.
func (s *Service) AdminChats(ctx context.Context, adminID string) ([]AdminChatItem, error) {
	rows, err := s.repo.ListAdminChats(ctx, adminID)
	if err != nil {
		return nil, err
	}

	items := make([]AdminChatItem, 0, len(rows))
	for _, row := range rows {
		item := AdminChatItem{ChatID: row.ChatID, UserEmail: row.UserEmail}
		if row.LastMessage.Valid {
			item.LastMessage = &row.LastMessage.String
		}
		if row.LastSentAt.Valid {
			ts := row.LastSentAt.Time.UTC()
			item.LastTimestamp = &ts
		}
		items = append(items, item)
	}

	slices.SortStableFunc(items, compareActivity)
	return items, nil
}

func compareActivity(a, b AdminChatItem) int {
	switch {
	case a.LastTimestamp == nil && b.LastTimestamp == nil:
		return cmp.Compare(a.ChatID, b.ChatID)
	case a.LastTimestamp == nil:
		return 1
	case b.LastTimestamp == nil:
		return -1
	}

	if c := b.LastTimestamp.Compare(*a.LastTimestamp); c != 0 {
		return c
	}
	return cmp.Compare(a.ChatID, b.ChatID)
}

func (s *Service) AdminThread(
	ctx context.Context,
	chatID string,
	adminID string,
) (*Thread, error) {
	if err := validateID(chatID); err != nil {
		return nil, err
	}

	detail, err := s.repo.GetDetail(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if detail.AdminID != adminID {
		return nil, core.ForbiddenError("chat is assigned to another admin")
	}

	rows, err := s.repo.ListThread(ctx, chatID)
	if err != nil {
		return nil, err
	}

	thread := &Thread{
		ChatID:    detail.ID,
		UserEmail: detail.UserEmail,
		Messages:  make([]ThreadMessage, 0, len(rows)),
	}
	for _, row := range rows {
		thread.Messages = append(thread.Messages, ThreadMessage{
			ID:          row.ID,
			SenderEmail: row.SenderEmail,
			FromAdmin:   row.SenderID == detail.AdminID,
			Content:     row.Content,
			Timestamp:   row.SentAt.UTC(),
		})
	}

	return thread, nil
}

func (s *Service) ReplyAsAdmin(
	ctx context.Context,
	chatID string,
	adminID string,
	text string,
) (*Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.ValidationError("message text is required")
	}
	if err := validateID(chatID); err != nil {
		return nil, err
	}

	chat, err := s.repo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.AdminID != adminID {
		return nil, core.ForbiddenError("chat is assigned to another admin")
	}

	msg, err := s.append(ctx, chatID, adminID, text)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordMessage(roleAdmin)
	return msg, nil
}

func (s *Service) participantChat(
	ctx context.Context,
	chatID string,
	callerID string,
) (*Chat, error) {
	if err := validateID(chatID); err != nil {
		return nil, err
	}

	chat, err := s.repo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(callerID) {
		return nil, core.ForbiddenError("not a participant of this chat")
	}

	return chat, nil
}

func (s *Service) append(
	ctx context.Context,
	chatID string,
	senderID string,
	content string,
) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, core.ValidationError("content is required")
	}

	msg := &Message{
		ID:       uuid.New().String(),
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
		SentAt:   s.now(),
	}

	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	return msg, nil
}

func roleFor(isAdmin bool) string {
	if isAdmin {
		return roleAdmin
	}
	return roleUser
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return core.ValidationError("invalid chat id")
	}
	return nil
}
