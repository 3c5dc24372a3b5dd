package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/chyrp/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

const (
	insertQ = `(?s)^\s*INSERT\s+INTO\s+refresh_tokens\s*\(id,\s*user_id,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`
	selectQ = `(?s)^\s*SELECT\s+id,\s*user_id,\s*expires_at,\s*created_at\s+FROM\s+refresh_tokens\s+WHERE\s+id\s*=\s*\$1\s*$`
	deleteQ = `(?s)^\s*DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+id\s*=\s*\$1\s*$`
)

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	expires := time.Now().Add(time.Hour)

	mock.ExpectExec(insertQ).WithArgs("jti-1", int64(7), expires).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), "jti-1", 7, expires))

	mock.ExpectExec(insertQ).WillReturnError(errors.New("db down"))
	err := repo.Create(context.Background(), "jti-2", 7, expires)
	assert.ErrorContains(t, err, "insert refresh token: db down")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	expires := time.Now().Add(10 * time.Minute)
	created := time.Now()

	mock.ExpectQuery(selectQ).WithArgs("jti-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "created_at"}).
			AddRow("jti-1", int64(7), expires, created))

	got, err := repo.Find(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.True(t, got.Expires.Equal(expires))

	mock.ExpectQuery(selectQ).WithArgs("missing").WillReturnError(sql.ErrNoRows)
	_, err = repo.Find(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(selectQ).WithArgs("x").WillReturnError(errors.New("db err"))
	_, err = repo.Find(context.Background(), "x")
	assert.ErrorContains(t, err, "select refresh token: db err")
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(deleteQ).WithArgs("jti-1").WillReturnResult(sqlmock.NewResult(0, 1))
	removed, err := repo.Delete(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.True(t, removed)

	mock.ExpectExec(deleteQ).WithArgs("jti-1").WillReturnResult(sqlmock.NewResult(0, 0))
	removed, err = repo.Delete(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.False(t, removed, "second use finds nothing")

	mock.ExpectExec(deleteQ).WithArgs("jti-2").WillReturnError(errors.New("db err"))
	_, err = repo.Delete(context.Background(), "jti-2")
	assert.ErrorContains(t, err, "delete refresh token: db err")
}
