// AngelaMos | 2026
// manager_test.go

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/storefront/internal/config"
)

type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = map[string]time.Duration{}
	}
	m.revoked[jti] = ttl
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

func testConfig(t *testing.T) config.SessionConfig {
	t.Helper()

	dir := t.TempDir()
	cfg := config.SessionConfig{
		CookieName:     "storefront_admin",
		TTL:            time.Hour,
		Issuer:         "storefront-console",
		PrivateKeyPath: filepath.Join(dir, "keys", "private.pem"),
		PublicKeyPath:  filepath.Join(dir, "keys", "public.pem"),
	}
	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))
	require.True(t, cfg.SessionKeysPresent())
	return cfg
}

func newTestManager(t *testing.T, revoker Revoker) *Manager {
	t.Helper()
	m, err := NewManager(testConfig(t), revoker)
	require.NoError(t, err)
	return m
}

func sessionCookie(t *testing.T, m *Manager, adminID string) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, adminID))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func requestWith(c *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	if c != nil {
		req.AddCookie(c)
	}
	return req
}

func TestIssueSetsHardenedCookie(t *testing.T) {
	m := newTestManager(t, nil)
	c := sessionCookie(t, m, "admin-1")

	assert.Equal(t, "storefront_admin", c.Name)
	assert.Equal(t, "/admin", c.Path)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)
	assert.NotEmpty(t, c.Value)
}

func TestAdminIDRoundTrip(t *testing.T) {
	m := newTestManager(t, nil)
	c := sessionCookie(t, m, "admin-1")

	id, err := m.AdminID(requestWith(c))
	require.NoError(t, err)
	assert.Equal(t, "admin-1", id)
}

func TestAdminIDRejects(t *testing.T) {
	m := newTestManager(t, nil)
	good := sessionCookie(t, m, "admin-1")

	t.Run("missing cookie", func(t *testing.T) {
		_, err := m.AdminID(requestWith(nil))
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.AdminID(requestWith(&http.Cookie{Name: "storefront_admin", Value: "abc.def.ghi"}))
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("expired", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { m.now = time.Now }()

		_, err := m.AdminID(requestWith(good))
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("signed by another key", func(t *testing.T) {
		other := newTestManager(t, nil)
		forged := sessionCookie(t, other, "admin-1")

		_, err := m.AdminID(requestWith(forged))
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestClearRevokesSession(t *testing.T) {
	revoker := &memRevoker{}
	m := newTestManager(t, revoker)
	c := sessionCookie(t, m, "admin-1")

	rec := httptest.NewRecorder()
	m.Clear(rec, requestWith(c))

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
	assert.Less(t, cleared[0].MaxAge, 0)

	require.Len(t, revoker.revoked, 1)
	for _, ttl := range revoker.revoked {
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Hour)
	}

	_, err := m.AdminID(requestWith(c))
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestRequireAdmin(t *testing.T) {
	m := newTestManager(t, nil)

	var seen string
	protected := m.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = AdminIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, requestWith(nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
	assert.Empty(t, seen)

	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, requestWith(sessionCookie(t, m, "admin-9")))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "admin-9", seen)
}

func TestNewManagerMissingKey(t *testing.T) {
	_, err := NewManager(config.SessionConfig{
		PrivateKeyPath: filepath.Join(t.TempDir(), "absent.pem"),
	}, nil)
	assert.Error(t, err)
}
