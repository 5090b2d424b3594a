// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

func newTestRouter(f *fixture) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r)
	return r
}

func post(r http.Handler, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body core.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code
}

func TestRegisterHandler(t *testing.T) {
	router := newTestRouter(newFixture())

	rec := post(router, "/register",
		`{"email":" new@example.com ","password":"long enough","isAdmin":false}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var pair TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&pair))
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	rec = post(router, "/register",
		`{"email":"new@example.com","password":"long enough"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE", errorCode(t, rec))
}

func TestRegisterHandlerValidation(t *testing.T) {
	router := newTestRouter(newFixture())

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"email":`},
		{"bad email", `{"email":"nope","password":"long enough"}`},
		{"short password", `{"email":"a@example.com","password":"short"}`},
		{"missing fields", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(router, "/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
		})
	}
}

func TestLoginHandler(t *testing.T) {
	f := newFixture()
	f.register(t, "who@example.com", false)
	router := newTestRouter(f)

	rec := post(router, "/token",
		`{"email":"who@example.com","password":"correct horse battery"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = post(router, "/token",
		`{"email":"who@example.com","password":"incorrect"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
}

func TestRefreshHandler(t *testing.T) {
	f := newFixture()
	pair := f.register(t, "ref@example.com", false)
	router := newTestRouter(f)

	rec := post(router, "/refresh", `{"refreshToken":"`+pair.RefreshToken+`"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = post(router, "/refresh", `{"refreshToken":"`+pair.RefreshToken+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_INVALID", errorCode(t, rec))
}

func TestLogoutHandler(t *testing.T) {
	f := newFixture()
	pair := f.register(t, "bye@example.com", false)
	router := newTestRouter(f)

	rec := post(router, "/logout", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(router, "/logout", "", pair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var msg core.MessageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
	assert.Equal(t, "logged out", msg.Message)

	rec = post(router, "/logout", "", pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_INVALID", errorCode(t, rec))
}
