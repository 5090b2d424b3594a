// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*UserInfo
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*UserInfo{}}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byEmail[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byEmail[strings.ToLower(email)]
	return ok, nil
}

func (f *fakeUsers) Create(
	_ context.Context,
	email, passwordHash string,
	isAdmin bool,
) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(email)
	if _, ok := f.byEmail[key]; ok {
		return nil, core.ErrDuplicateKey
	}
	u := &UserInfo{
		ID:           uuid.New().String(),
		Email:        key,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}
	f.byEmail[key] = u
	return u, nil
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byEmail)
}

type fakeTokens struct {
	mu     sync.Mutex
	users  *fakeUsers
	tokens map[string]*Token
}

func newFakeTokens(users *fakeUsers) *fakeTokens {
	return &fakeTokens{users: users, tokens: map[string]*Token{}}
}

func (f *fakeTokens) Create(_ context.Context, token *Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *token
	f.tokens[token.ID] = &cp
	return nil
}

func (f *fakeTokens) FindByRefreshHash(_ context.Context, hash string) (*Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.RefreshTokenHash == hash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeTokens) FindPrincipalByAccessHash(
	ctx context.Context,
	hash string,
) (*core.Principal, error) {
	f.mu.Lock()
	var userID string
	for _, t := range f.tokens {
		if t.AccessTokenHash == hash {
			userID = t.UserID
		}
	}
	f.mu.Unlock()

	if userID == "" {
		return nil, core.ErrNotFound
	}

	u, err := f.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &core.Principal{ID: u.ID, Email: u.Email, IsAdmin: u.IsAdmin}, nil
}

func (f *fakeTokens) DeleteByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.tokens, id)
	return nil
}

func (f *fakeTokens) DeleteByAccessHash(_ context.Context, hash string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, t := range f.tokens {
		if t.AccessTokenHash == hash {
			delete(f.tokens, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeTokens) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

type fixture struct {
	svc    *Service
	users  *fakeUsers
	tokens *fakeTokens
}

func newFixture() *fixture {
	users := newFakeUsers()
	tokens := newFakeTokens(users)
	svc := NewService(tokens, users, core.PassthroughTx{}, nil, config.AuthConfig{
		RefreshTokenExpire: time.Hour,
		TokenBytes:         32,
	})
	return &fixture{svc: svc, users: users, tokens: tokens}
}

func (f *fixture) register(t *testing.T, email string, isAdmin bool) *TokenResponse {
	t.Helper()
	resp, err := f.svc.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "correct horse battery",
		IsAdmin:  isAdmin,
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterIssuesWorkingPair(t *testing.T) {
	f := newFixture()
	resp := f.register(t, "alice@example.com", false)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotEqual(t, resp.AccessToken, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)

	p, err := f.svc.VerifyAccessToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", p.Email)
	assert.False(t, p.IsAdmin)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture()
	f.register(t, "dup@example.com", false)

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Email:    "dup@example.com",
		Password: "another password",
	})
	require.ErrorIs(t, err, ErrEmailExists)
	assert.Equal(t, 1, f.users.count())
	assert.Equal(t, 1, f.tokens.count())
}

func TestAccessTokenAuthenticatesOnlyItsOwner(t *testing.T) {
	f := newFixture()
	a := f.register(t, "a@example.com", false)
	b := f.register(t, "b@example.com", true)

	pa, err := f.svc.VerifyAccessToken(context.Background(), a.AccessToken)
	require.NoError(t, err)
	pb, err := f.svc.VerifyAccessToken(context.Background(), b.AccessToken)
	require.NoError(t, err)

	assert.NotEqual(t, pa.ID, pb.ID)
	assert.Equal(t, "a@example.com", pa.Email)
	assert.True(t, pb.IsAdmin)

	_, err = f.svc.VerifyAccessToken(context.Background(), a.RefreshToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = f.svc.VerifyAccessToken(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	f.register(t, "login@example.com", false)

	resp, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "login@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.tokens.count())

	_, err = f.svc.VerifyAccessToken(context.Background(), resp.AccessToken)
	assert.NoError(t, err)

	_, err = f.svc.Login(context.Background(), LoginRequest{
		Email:    "login@example.com",
		Password: "wrong password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateAdminRejectsCustomers(t *testing.T) {
	f := newFixture()
	f.register(t, "customer@example.com", false)
	f.register(t, "admin@example.com", true)

	_, err := f.svc.AuthenticateAdmin(
		context.Background(),
		"customer@example.com",
		"correct horse battery",
	)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	p, err := f.svc.AuthenticateAdmin(
		context.Background(),
		"admin@example.com",
		"correct horse battery",
	)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin)
}

func TestRefreshRevokesConsumedPair(t *testing.T) {
	f := newFixture()
	first := f.register(t, "r@example.com", false)

	second, err := f.svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.Equal(t, 1, f.tokens.count())

	_, err = f.svc.VerifyAccessToken(context.Background(), first.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	p, err := f.svc.VerifyAccessToken(context.Background(), second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "r@example.com", p.Email)

	_, err = f.svc.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestRefreshExpiredLeavesRowInPlace(t *testing.T) {
	f := newFixture()
	resp := f.register(t, "late@example.com", false)

	f.svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }

	_, err := f.svc.Refresh(context.Background(), resp.RefreshToken)
	require.ErrorIs(t, err, core.ErrTokenExpired)
	assert.Equal(t, 1, f.tokens.count())

	_, err = f.svc.VerifyAccessToken(context.Background(), resp.AccessToken)
	assert.NoError(t, err)
}

func TestRefreshUnknownToken(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestLogout(t *testing.T) {
	f := newFixture()
	a := f.register(t, "out@example.com", false)
	b := f.register(t, "stay@example.com", false)

	require.NoError(t, f.svc.Logout(context.Background(), a.AccessToken))

	_, err := f.svc.VerifyAccessToken(context.Background(), a.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = f.svc.VerifyAccessToken(context.Background(), b.AccessToken)
	assert.NoError(t, err)

	err = f.svc.Logout(context.Background(), a.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}
