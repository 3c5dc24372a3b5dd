package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/chyrp/internal/client/client"
	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/client/session"
)

// fakeClient implements client.Client with per-call hooks and records
// every call. It is safe for the concurrent calls the orchestrator makes.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	TokenFn      func(username, password string) (models.Tokens, error)
	MeFn         func(token string) (models.Profile, error)
	UpdateUserFn func(token string, id int64, upd models.ProfileUpdate) (models.Profile, error)
	CreateUserFn func(u models.NewUser) (models.Profile, error)
	UploadFn     func(ctx context.Context, token string, f models.File) (string, error)
	ListPostsFn  func(token, username string) ([]models.Post, error)
	CreatePostFn func(token, username string, p models.NewPost) (models.Post, error)
	GetPostFn    func(token string, id int64) (models.Post, error)
	LogoutFn     func(token string) error
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Count(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeClient) Token(ctx context.Context, username, password string) (models.Tokens, error) {
	f.record("Token")
	return f.TokenFn(username, password)
}

func (f *fakeClient) Me(ctx context.Context, token string) (models.Profile, error) {
	f.record("Me")
	return f.MeFn(token)
}

func (f *fakeClient) UpdateUser(ctx context.Context, token string, id int64, upd models.ProfileUpdate) (models.Profile, error) {
	f.record("UpdateUser")
	return f.UpdateUserFn(token, id, upd)
}

func (f *fakeClient) CreateUser(ctx context.Context, u models.NewUser) (models.Profile, error) {
	f.record("CreateUser")
	return f.CreateUserFn(u)
}

func (f *fakeClient) Upload(ctx context.Context, token string, file models.File) (string, error) {
	f.record("Upload")
	return f.UploadFn(ctx, token, file)
}

func (f *fakeClient) ListPosts(ctx context.Context, token, username string) ([]models.Post, error) {
	f.record("ListPosts")
	return f.ListPostsFn(token, username)
}

func (f *fakeClient) CreatePost(ctx context.Context, token, username string, p models.NewPost) (models.Post, error) {
	f.record("CreatePost")
	return f.CreatePostFn(token, username, p)
}

func (f *fakeClient) GetPost(ctx context.Context, token string, id int64) (models.Post, error) {
	f.record("GetPost")
	return f.GetPostFn(token, id)
}

func (f *fakeClient) Logout(ctx context.Context, token string) error {
	f.record("Logout")
	return f.LogoutFn(token)
}

func newStore(t *testing.T) *session.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return session.NewStore(db)
}

var alice = models.Profile{ID: 1, Name: "Alice", Username: "alice", Email: "a@x.com"}

func seedSession(t *testing.T, s *session.Store, withProfile bool) {
	t.Helper()
	sess := models.Session{AccessToken: "abc", RefreshToken: "def"}
	if withProfile {
		p := alice
		sess.Profile = &p
	}
	require.NoError(t, s.Save(context.Background(), sess))
}

func unauthorized() error {
	return &client.RemoteError{StatusCode: 401, Detail: "Could not validate credentials"}
}
