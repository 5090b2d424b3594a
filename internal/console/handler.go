// AngelaMos | 2026
// handler.go

package console

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/storefront/internal/auth"
	"github.com/carterperez-dev/templates/storefront/internal/chat"
	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/product"
	"github.com/carterperez-dev/templates/storefront/internal/session"
)

const (
	productsPath = "/admin/products"
	chatsPath    = "/admin/chats"
)

type AdminAuthenticator interface {
	AuthenticateAdmin(ctx context.Context, email, password string) (*core.Principal, error)
}

type Sessions interface {
	Issue(w http.ResponseWriter, adminID string) error
	Clear(w http.ResponseWriter, r *http.Request)
	RequireAdmin(next http.Handler) http.Handler
}

type ProductCatalog interface {
	List(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, id string) (*product.Product, error)
	Create(ctx context.Context, in *product.Input) (*product.Product, error)
	Update(ctx context.Context, id string, in *product.Input) (*product.Product, error)
}

type SupportDesk interface {
	AdminChats(ctx context.Context, adminID string) ([]chat.AdminChatItem, error)
	AdminThread(ctx context.Context, chatID, adminID string) (*chat.Thread, error)
	ReplyAsAdmin(ctx context.Context, chatID, adminID, text string) (*chat.Message, error)
}

type Config struct {
	Auth     AdminAuthenticator
	Sessions Sessions
	Products ProductCatalog
	Chats    SupportDesk
	Upload   config.UploadConfig
	Logger   *slog.Logger
}

type Handler struct {
	auth     AdminAuthenticator
	sessions Sessions
	products ProductCatalog
	chats    SupportDesk
	upload   config.UploadConfig
	logger   *slog.Logger
	pages    *renderer
}

type productForm struct {
	Action  string
	Product *product.Product
}

func NewHandler(cfg Config) (*Handler, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		auth:     cfg.Auth,
		sessions: cfg.Sessions,
		products: cfg.Products,
		chats:    cfg.Chats,
		upload:   cfg.Upload,
		logger:   logger,
		pages:    pages,
	}, nil
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", h.LoginForm)
		r.Post("/login", h.Login)
		r.Get("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.sessions.RequireAdmin)

			r.Get("/", h.Index)

			r.Get("/products", h.ListProducts)
			r.Get("/products/new", h.NewProductForm)
			r.Post("/products/new", h.CreateProduct)
			r.Get("/products/{id}/edit", h.EditProductForm)
			r.Post("/products/{id}/edit", h.UpdateProduct)

			r.Get("/chats", h.ListChats)
			r.Get("/chats/{chatId}", h.Thread)
			r.Post("/chats/{chatId}", h.Reply)
		})
	})
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, productsPath, http.StatusSeeOther)
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, http.StatusOK, pageLogin, view{Title: "Admin login"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, core.ValidationError("malformed form"))
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	admin, err := h.auth.AuthenticateAdmin(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.show(w, r, http.StatusUnauthorized, pageLogin, view{
				Title: "Admin login",
				Error: "Invalid credentials",
				Data:  email,
			})
			return
		}
		h.fail(w, r, err)
		return
	}

	if err := h.sessions.Issue(w, admin.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info("admin console login", "admin_id", admin.ID)
	http.Redirect(w, r, productsPath, http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w, r)
	http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.show(w, r, http.StatusOK, pageProducts, view{Title: "Products", Data: products})
}

func (h *Handler) NewProductForm(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, http.StatusOK, pageProductForm, view{
		Title: "New product",
		Data:  productForm{Action: productsPath + "/new"},
	})
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	in, err := product.ParseForm(w, r, h.upload)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if _, err := h.products.Create(r.Context(), in); err != nil {
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, productsPath, http.StatusSeeOther)
}

func (h *Handler) EditProductForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.show(w, r, http.StatusOK, pageProductForm, view{
		Title: "Edit " + p.Name,
		Data:  productForm{Action: productsPath + "/" + p.ID + "/edit", Product: p},
	})
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	in, err := product.ParseForm(w, r, h.upload)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if _, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, productsPath, http.StatusSeeOther)
}

func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	adminID := session.AdminIDFromContext(r.Context())

	items, err := h.chats.AdminChats(r.Context(), adminID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.show(w, r, http.StatusOK, pageChats, view{Title: "Chats", Data: items})
}

func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	adminID := session.AdminIDFromContext(r.Context())

	thread, err := h.chats.AdminThread(r.Context(), chi.URLParam(r, "chatId"), adminID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.show(w, r, http.StatusOK, pageThread, view{
		Title: "Chat with " + thread.UserEmail,
		Data:  thread,
	})
}

func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, core.ValidationError("malformed form"))
		return
	}

	chatID := chi.URLParam(r, "chatId")
	adminID := session.AdminIDFromContext(r.Context())

	_, err := h.chats.ReplyAsAdmin(r.Context(), chatID, adminID, r.PostFormValue("text"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, chatsPath+"/"+chatID, http.StatusSeeOther)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request, status int, page string, v view) {
	v.AdminID = session.AdminIDFromContext(r.Context())

	if err := h.pages.render(w, status, page, v); err != nil {
		h.logger.Error("render page", "page", page, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// fail renders the error page with the status the error maps to. Unknown
// errors are a 500 that echoes the message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	var appErr *core.AppError
	switch {
	case errors.As(err, &appErr):
		status = appErr.StatusCode
		message = appErr.Message
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
		message = "not found"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("console request failed",
			"path", r.URL.Path,
			"error", err,
		)
	}

	h.show(w, r, status, pageError, view{
		Title: http.StatusText(status),
		Error: message,
	})
}
