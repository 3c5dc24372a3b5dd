package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/chyrp/internal/client/client"
	"github.com/dmitrijs2005/chyrp/internal/client/config"
	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/client/session"
	"github.com/dmitrijs2005/chyrp/internal/client/views"
	"github.com/dmitrijs2005/chyrp/internal/logging"
)

// fakeAPI is an in-memory server for one user, "ann" / "secret1".
type fakeAPI struct {
	mu      sync.Mutex
	profile models.Profile
	posts   []models.Post
	revoked bool
	uploads int
	logouts int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{profile: models.Profile{ID: 1, Name: "Ann", Username: "ann", Email: "ann@example.com"}}
}

func (f *fakeAPI) authorize(token string) error {
	if token != "acc" || f.revoked {
		return &client.RemoteError{StatusCode: http.StatusUnauthorized, Detail: "Could not validate credentials"}
	}
	return nil
}

func (f *fakeAPI) Token(_ context.Context, username, password string) (models.Tokens, error) {
	if username != "ann" || password != "secret1" {
		return models.Tokens{}, &client.RemoteError{StatusCode: http.StatusUnauthorized, Detail: "Incorrect username or password"}
	}
	f.mu.Lock()
	f.revoked = false
	f.mu.Unlock()
	return models.Tokens{AccessToken: "acc", RefreshToken: "ref"}, nil
}

func (f *fakeAPI) Me(_ context.Context, token string) (models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize(token); err != nil {
		return models.Profile{}, err
	}
	return f.profile, nil
}

func (f *fakeAPI) UpdateUser(_ context.Context, token string, id int64, upd models.ProfileUpdate) (models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize(token); err != nil {
		return models.Profile{}, err
	}
	if upd.Username != nil && *upd.Username == "taken" {
		return models.Profile{}, &client.RemoteError{StatusCode: http.StatusBadRequest, Detail: "Username already registered"}
	}
	if upd.Name != nil {
		f.profile.Name = *upd.Name
	}
	if upd.Username != nil {
		f.profile.Username = *upd.Username
	}
	if upd.Email != nil {
		f.profile.Email = *upd.Email
	}
	return f.profile, nil
}

func (f *fakeAPI) CreateUser(_ context.Context, u models.NewUser) (models.Profile, error) {
	return models.Profile{ID: 2, Name: u.Name, Username: u.Username, Email: u.Email}, nil
}

func (f *fakeAPI) Upload(_ context.Context, token string, file models.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize(token); err != nil {
		return "", err
	}
	f.uploads++
	return "/media/" + file.Name, nil
}

func (f *fakeAPI) ListPosts(_ context.Context, token, username string) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize(token); err != nil {
		return nil, err
	}
	return append([]models.Post(nil), f.posts...), nil
}

func (f *fakeAPI) CreatePost(_ context.Context, token, username string, p models.NewPost) (models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize(token); err != nil {
		return models.Post{}, err
	}
	post := models.Post{
		ID:         int64(len(f.posts) + 1),
		Title:      p.Title,
		Content:    p.Content,
		CreateTime: time.Now(),
		UserID:     f.profile.ID,
		Media:      p.Media,
	}
	f.posts = append(f.posts, post)
	return post, nil
}

func (f *fakeAPI) GetPost(_ context.Context, token string, id int64) (models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize(token); err != nil {
		return models.Post{}, err
	}
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Post{}, &client.RemoteError{StatusCode: http.StatusNotFound, Detail: "Post not found"}
}

func (f *fakeAPI) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	f.revoked = true
	return nil
}

type harness struct {
	app  *App
	api  *fakeAPI
	out  *bytes.Buffer
	path string
}

func newHarness(t *testing.T, api *fakeAPI, dbPath, input string) *harness {
	t.Helper()
	stubTerminal(t, false, nil)

	if dbPath == "" {
		dbPath = filepath.Join(t.TempDir(), "session.db")
	}
	db, err := client.InitDatabase(context.Background(), dbPath)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	app := newApp(cfg, db, api, logging.Nop(), strings.NewReader(input), out)
	t.Cleanup(app.Close)

	return &harness{app: app, api: api, out: out, path: dbPath}
}

func lines(l ...string) string { return strings.Join(l, "\n") + "\n" }

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cat.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xd8, 0xff, 0xe0}, 0o600))
	return path
}

func TestApp_LoginPublishAndShow(t *testing.T) {
	img := writeImage(t)
	h := newHarness(t, newFakeAPI(), "", lines(
		"login", "ann", "secret1",
		"new", "Hello", "First line", "",
		"publish",
		"attach "+img,
		"files",
		"publish",
		"show 1",
		"exit",
	))

	h.app.Run(context.Background())
	out := h.out.String()

	assert.Contains(t, out, "Welcome, Ann.")
	assert.Contains(t, out, "No posts yet.")
	assert.Contains(t, out, "Error: At least one image is required")
	assert.Contains(t, out, "Attached cat.jpg (image/jpeg")
	assert.Contains(t, out, "Post #1 published.")
	assert.Contains(t, out, "[image] /media/cat.jpg")
	assert.Equal(t, 1, h.api.uploads)
	assert.Equal(t, views.Dashboard, h.app.view())

	require.Len(t, h.api.posts, 1)
	assert.Equal(t, "Hello", h.api.posts[0].Title)
	assert.Equal(t, "First line", h.api.posts[0].Content)
}

func TestApp_BadCredentialsShowServerDetail(t *testing.T) {
	h := newHarness(t, newFakeAPI(), "", lines("login", "ann", "wrong12", "exit"))

	h.app.Run(context.Background())

	assert.Contains(t, h.out.String(), "Error: Incorrect username or password")
	assert.False(t, h.app.isLoggedIn())
}

func TestApp_RevokedTokenExpiresSession(t *testing.T) {
	api := newFakeAPI()
	h := newHarness(t, api, "", lines("ann", "secret1"))

	require.NoError(t, h.app.Login(context.Background()))
	api.mu.Lock()
	api.revoked = true
	api.mu.Unlock()

	require.Error(t, h.app.ListPosts(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Your session has expired. Please log in again.")
	assert.NotContains(t, out, "Error:")
	assert.False(t, h.app.isLoggedIn())

	sess, err := session.NewStore(h.app.db).Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestApp_ProfileEditSaveAndCancel(t *testing.T) {
	api := newFakeAPI()
	h := newHarness(t, api, "", lines(
		"login", "ann", "secret1",
		"profile",
		"edit",
		"set username taken",
		"save",
		"cancel",
		"edit",
		"set name Ann Lee",
		"save",
		"exit",
	))

	h.app.Run(context.Background())
	out := h.out.String()

	assert.Contains(t, out, "Error: Username already registered")
	assert.Contains(t, out, "Changes discarded.")
	assert.Contains(t, out, "Profile saved.")
	assert.Equal(t, "Ann Lee", api.profile.Name)
	assert.Equal(t, "ann", api.profile.Username)
	assert.Equal(t, views.Dashboard, h.app.view())

	sess, err := session.NewStore(h.app.db).Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "Ann Lee", sess.Profile.Name)
}

func TestApp_ResumesStoredSessionAndLogsOut(t *testing.T) {
	api := newFakeAPI()
	dbPath := filepath.Join(t.TempDir(), "session.db")

	first := newHarness(t, api, dbPath, lines("ann", "secret1"))
	require.NoError(t, first.app.Login(context.Background()))
	first.app.Close()

	second := newHarness(t, api, dbPath, lines("logout", "list", "exit"))
	second.app.Run(context.Background())
	out := second.out.String()

	assert.Contains(t, out, "Welcome back, Ann.")
	assert.Contains(t, out, "Logged out.")
	assert.Contains(t, out, "Unknown command: list")
	assert.Equal(t, 1, api.logouts)
}

func TestApp_RegisterValidatesLocally(t *testing.T) {
	h := newHarness(t, newFakeAPI(), "", lines(
		"register", "Bob", "bob", "not-an-email", "secret1",
		"register", "Bob", "bob", "bob@example.com", "secret1",
		"exit",
	))

	h.app.Run(context.Background())
	out := h.out.String()

	assert.Contains(t, out, "Error: Email address is invalid")
	assert.Contains(t, out, `Account "bob" created.`)
	assert.False(t, h.app.isLoggedIn())
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, client.FallbackMessage, userMessage(assert.AnError))
	assert.Equal(t, "Post not found.", userMessage(client.ErrNotFound))
	assert.Equal(t, "Bad thing", userMessage(&client.RemoteError{StatusCode: 500, Detail: "Bad thing"}))
	assert.Equal(t, client.FallbackMessage, userMessage(&client.RemoteError{StatusCode: 500}))
}
