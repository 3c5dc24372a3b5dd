package session

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chyrp/internal/common"
	"github.com/dmitrijs2005/chyrp/internal/dbx"
)

func newStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return NewStore(db), db
}

func storedKeys(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM metadata`).Scan(&n))
	return n
}

func TestStore_EmptyCurrentIsNil(t *testing.T) {
	s, _ := newStore(t)

	sess, err := s.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_SaveThenCurrent(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	want := models.Session{
		AccessToken:  "acc",
		RefreshToken: "ref",
		Profile:      &models.Profile{ID: 7, Name: "Ann", Username: "ann", Email: "ann@example.com"},
	}

	require.NoError(t, s.Save(ctx, want))

	got, err := s.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestStore_SaveOverwritesPriorSession(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.Session{
		AccessToken: "old", RefreshToken: "old-ref", Profile: &models.Profile{ID: 1},
	}))
	require.NoError(t, s.Save(ctx, models.Session{AccessToken: "new"}))

	got, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.Session{AccessToken: "new"}, got)
}

func TestStore_SaveWithoutTokenRejected(t *testing.T) {
	s, _ := newStore(t)

	err := s.Save(context.Background(), models.Session{Profile: &models.Profile{ID: 1}})
	require.ErrorIs(t, err, ErrNoCredential)
}

func TestStore_ClearIdempotent(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.Session{
		AccessToken: "a", RefreshToken: "r", Profile: &models.Profile{ID: 1},
	}))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	sess, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)

	assert.Zero(t, storedKeys(t, db))
}

func TestStore_UpdateProfileKeepsCredential(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.Session{
		AccessToken: "a", RefreshToken: "r", Profile: &models.Profile{ID: 1, Name: "Old"},
	}))
	require.NoError(t, s.UpdateProfile(ctx, models.Profile{ID: 1, Name: "New"}))

	got, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccessToken)
	assert.Equal(t, "r", got.RefreshToken)
	assert.Equal(t, "New", got.Profile.Name)
}

func TestStore_UpdateProfileWithoutSessionIsNoop(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpdateProfile(ctx, models.Profile{ID: 1}))

	assert.Zero(t, storedKeys(t, db))
}

func TestStore_ProfileWithoutTokenIsIgnored(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()

	require.NoError(t, metadata.NewSQLiteRepository(db).Set(ctx, common.ProfileKey, []byte(`{"id":1}`)))

	sess, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_CorruptProfile(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()
	r := metadata.NewSQLiteRepository(db)

	require.NoError(t, r.Set(ctx, common.AccessTokenKey, []byte("a")))
	require.NoError(t, r.Set(ctx, common.ProfileKey, []byte("{")))

	_, err := s.Current(ctx)
	require.ErrorContains(t, err, "decode profile")
}

type failingRepo struct {
	metadata.Repository
	failOn string
}

func (f failingRepo) Set(ctx context.Context, key string, value []byte) error {
	if key == f.failOn {
		return errors.New("disk full")
	}
	return f.Repository.Set(ctx, key, value)
}

func TestStore_SaveIsAtomic(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.Session{AccessToken: "old", Profile: &models.Profile{ID: 1}}))

	s.repo = func(db dbx.DBTX) metadata.Repository {
		return failingRepo{Repository: metadata.NewSQLiteRepository(db), failOn: common.ProfileKey}
	}
	err := s.Save(ctx, models.Session{AccessToken: "new", Profile: &models.Profile{ID: 2}})
	require.ErrorContains(t, err, "disk full")

	got, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", got.AccessToken)
	assert.EqualValues(t, 1, got.Profile.ID)
}
