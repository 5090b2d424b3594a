// AngelaMos | 2026
// manager.go

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/templates/storefront/internal/config"
)

const (
	LoginPath  = "/admin/login"
	cookiePath = "/admin"
	tokenType  = "admin_session"
)

var (
	ErrNoSession      = errors.New("no admin session")
	ErrInvalidSession = errors.New("invalid admin session")
)

type contextKey struct{}

// Manager issues and checks the console cookie: an ES256 JWT whose
// subject is the admin's user id.
type Manager struct {
	keys    *keyPair
	cfg     config.SessionConfig
	revoker Revoker
	now     func() time.Time
}

// NewManager loads the signing key from cfg.PrivateKeyPath. revoker may
// be nil, in which case logout only clears the browser cookie.
func NewManager(cfg config.SessionConfig, revoker Revoker) (*Manager, error) {
	keys, err := loadKeyPair(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	return &Manager{
		keys:    keys,
		cfg:     cfg,
		revoker: revoker,
		now:     time.Now,
	}, nil
}

func (m *Manager) Issue(w http.ResponseWriter, adminID string) error {
	now := m.now()
	expires := now.Add(m.cfg.TTL)

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.cfg.Issuer).
		Subject(adminID).
		IssuedAt(now).
		Expiration(expires).
		Claim("type", tokenType).
		Build()
	if err != nil {
		return fmt.Errorf("build session: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.keys.private))
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    string(signed),
		Path:     cookiePath,
		Expires:  expires,
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

type claims struct {
	adminID string
	jti     string
	expires time.Time
}

func (m *Manager) parse(r *http.Request) (*claims, error) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	token, err := jwt.Parse(
		[]byte(cookie.Value),
		jwt.WithKey(jwa.ES256(), m.keys.public),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	var typ string
	if err := token.Get("type", &typ); err != nil || typ != tokenType {
		return nil, fmt.Errorf("%w: wrong token type", ErrInvalidSession)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidSession)
	}

	jti, _ := token.JwtID()
	expires, _ := token.Expiration()

	return &claims{adminID: subject, jti: jti, expires: expires}, nil
}

// AdminID returns the admin behind the request's session cookie.
func (m *Manager) AdminID(r *http.Request) (string, error) {
	c, err := m.parse(r)
	if err != nil {
		return "", err
	}

	if m.revoker != nil && c.jti != "" {
		revoked, err := m.revoker.IsRevoked(r.Context(), c.jti)
		if err != nil {
			return "", err
		}
		if revoked {
			return "", fmt.Errorf("%w: revoked", ErrInvalidSession)
		}
	}

	return c.adminID, nil
}

// Clear drops the cookie and, with a revoker, blocks the old value for
// the rest of its lifetime.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) {
	if c, err := m.parse(r); err == nil && m.revoker != nil && c.jti != "" {
		ttl := c.expires.Sub(m.now())
		if err := m.revoker.Revoke(r.Context(), c.jti, ttl); err != nil {
			slog.Warn("session revoke failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     cookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAdmin redirects to the login page on any session failure. It
// never answers with an error status.
func (m *Manager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		adminID, err := m.AdminID(r)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				slog.Debug("admin session rejected", "error", err)
			}
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAdminID(r.Context(), adminID)))
	})
}

func AdminIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

func WithAdminID(ctx context.Context, adminID string) context.Context {
	return context.WithValue(ctx, contextKey{}, adminID)
}
