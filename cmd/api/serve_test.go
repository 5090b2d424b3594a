// AngelaMos | 2026
// serve_test.go

package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/storefront/internal/config"
)

func sessionTestConfig(t *testing.T, environment string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	return &config.Config{
		App: config.AppConfig{Environment: environment},
		Session: config.SessionConfig{
			CookieName:     "storefront_admin",
			TTL:            time.Hour,
			Issuer:         "storefront",
			PrivateKeyPath: filepath.Join(dir, "keys", "session_private.pem"),
			PublicKeyPath:  filepath.Join(dir, "keys", "session_public.pem"),
		},
	}
}

func TestOpenSessionsRequiresKeysOutsideDevelopment(t *testing.T) {
	cfg := sessionTestConfig(t, "production")

	sessions, err := openSessions(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Nil(t, sessions)
	assert.Contains(t, err.Error(), "session keys missing")
	assert.False(t, cfg.Session.SessionKeysPresent())
}

func TestOpenSessionsGeneratesDevelopmentKeys(t *testing.T) {
	cfg := sessionTestConfig(t, "development")

	sessions, err := openSessions(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.True(t, cfg.Session.SessionKeysPresent())
}
