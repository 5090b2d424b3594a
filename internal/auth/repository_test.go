// AngelaMos | 2026
// repository_test.go

package auth

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return NewRepository(sqlx.NewDb(db, core.DriverPostgres)), mock
}

var tokenCols = []string{
	"id", "user_id", "access_token_hash", "refresh_token_hash", "expires_at", "created_at",
}

func TestRepositoryCreateToken(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO tokens").
		WithArgs("t1", "u1", "acc", "ref", now.Add(time.Hour), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), &Token{
		ID:               "t1",
		UserID:           "u1",
		AccessTokenHash:  "acc",
		RefreshTokenHash: "ref",
		ExpiresAt:        now.Add(time.Hour),
		CreatedAt:        now,
	}))
}

func TestRepositoryFindByRefreshHash(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE refresh_token_hash = $1 ORDER BY expires_at DESC LIMIT 1")).
		WithArgs("ref").
		WillReturnRows(sqlmock.NewRows(tokenCols).
			AddRow("t1", "u1", "acc", "ref", now.Add(time.Hour), now))

	token, err := repo.FindByRefreshHash(context.Background(), "ref")
	require.NoError(t, err)
	assert.Equal(t, "u1", token.UserID)
	assert.False(t, token.IsExpired(now))
	assert.True(t, token.IsExpired(now.Add(2*time.Hour)))
}

func TestRepositoryFindByRefreshHashMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM tokens").
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows(tokenCols))

	_, err := repo.FindByRefreshHash(context.Background(), "gone")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryFindPrincipalByAccessHash(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN users u ON u.id = t.user_id WHERE t.access_token_hash = $1")).
		WithArgs("acc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "is_admin"}).
			AddRow("a1", "admin@example.com", true))

	p, err := repo.FindPrincipalByAccessHash(context.Background(), "acc")
	require.NoError(t, err)
	assert.Equal(t, &core.Principal{ID: "a1", Email: "admin@example.com", IsAdmin: true}, p)
}

func TestRepositoryFindPrincipalDatabaseError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM tokens t").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindPrincipalByAccessHash(context.Background(), "acc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryDeleteByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteByID(context.Background(), "t1"))
	assert.ErrorIs(t, repo.DeleteByID(context.Background(), "t1"), core.ErrNotFound)
}

func TestRepositoryDeleteByAccessHash(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE access_token_hash = $1")).
		WithArgs("acc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.DeleteByAccessHash(context.Background(), "acc")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRefreshRunsInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	database := &core.Database{DB: sqlx.NewDb(db, core.DriverPostgres)}
	svc := NewService(NewRepository(database.DB), nil, database, nil, config.AuthConfig{
		RefreshTokenExpire: time.Hour,
		TokenBytes:         32,
	})
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	mock.ExpectBegin()
	mock.ExpectQuery("FROM tokens").
		WithArgs(core.HashToken("refresh-me")).
		WillReturnRows(sqlmock.NewRows(tokenCols).
			AddRow("t1", "u1", "acc", core.HashToken("refresh-me"), now.Add(time.Minute), now))
	mock.ExpectExec("DELETE FROM tokens WHERE id").
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO tokens").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := svc.Refresh(context.Background(), "refresh-me")
	require.NoError(t, err)
	assert.NotEqual(t, "refresh-me", resp.RefreshToken)
	require.NoError(t, mock.ExpectationsWereMet())
}
