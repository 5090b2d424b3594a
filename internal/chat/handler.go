// AngelaMos | 2026
// handler.go

package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/chats", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}/messages", h.ListMessages)
		r.Post("/{id}/messages", h.SendMessage)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetPrincipal(r.Context())
	if caller == nil {
		core.Unauthorized(w, "")
		return
	}

	chats, err := h.service.ListChats(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToChatResponseList(chats))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetPrincipal(r.Context())
	if caller == nil {
		core.Unauthorized(w, "")
		return
	}

	chat, err := h.service.CreateChat(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToChatResponse(chat))
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetPrincipal(r.Context())
	if caller == nil {
		core.Unauthorized(w, "")
		return
	}

	messages, err := h.service.ListMessages(
		r.Context(),
		chi.URLParam(r, "id"),
		caller,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToMessageResponseList(messages))
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetPrincipal(r.Context())
	if caller == nil {
		core.Unauthorized(w, "")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	msg, err := h.service.SendMessage(
		r.Context(),
		chi.URLParam(r, "id"),
		req.Content,
		caller,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToMessageResponse(msg))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "chat")
	default:
		core.InternalServerError(w, err)
	}
}
