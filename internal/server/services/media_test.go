package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/chyrp/internal/common"
	"github.com/dmitrijs2005/chyrp/internal/logging"
	"github.com/dmitrijs2005/chyrp/internal/server/storage"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeStore) Get(ctx context.Context, key string) (*storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &storage.Object{Body: io.NopCloser(bytes.NewReader(data)), ContentType: f.types[key], Size: int64(len(data))}, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func newMediaService(store *fakeStore) *MediaService {
	s := NewMediaService(store, 1024, logging.Nop())
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestMediaUpload(t *testing.T) {
	store := newFakeStore()
	s := newMediaService(store)
	ctx := context.Background()

	url, err := s.Upload(ctx, 7, "image/jpeg", strings.NewReader("jpeg"), 4)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/files/users/7/2024/05/01/"), url)

	key := strings.TrimPrefix(url, FilesPrefix)
	assert.Equal(t, "image/jpeg", store.types[key])

	obj, err := s.Open(ctx, key)
	require.NoError(t, err)
	data, _ := io.ReadAll(obj.Body)
	assert.Equal(t, "jpeg", string(data))
}

func TestMediaUpload_SniffsGenericType(t *testing.T) {
	store := newFakeStore()
	s := newMediaService(store)

	url, err := s.Upload(context.Background(), 1, "application/octet-stream", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)

	key := strings.TrimPrefix(url, FilesPrefix)
	assert.Equal(t, "image/png", store.types[key])
	assert.Equal(t, pngHeader, store.objects[key], "body rewound after sniffing")
}

func TestMediaUpload_Rejects(t *testing.T) {
	store := newFakeStore()
	s := newMediaService(store)
	ctx := context.Background()

	_, err := s.Upload(ctx, 1, "image/png", bytes.NewReader(make([]byte, 2048)), 2048)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Equal(t, "File is larger than 1.0 KiB", detail(err))

	_, err = s.Upload(ctx, 1, "", strings.NewReader("plain words"), 11)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Incorrect file type", detail(err))

	store.putErr = errors.New("bucket gone")
	_, err = s.Upload(ctx, 1, "image/png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	assert.ErrorContains(t, err, "bucket gone")
	assert.Empty(t, store.objects)
}

func TestMediaOpen_NotFound(t *testing.T) {
	s := newMediaService(newFakeStore())

	for _, key := range []string{"users/1/missing", "etc/passwd", "users/../secret"} {
		_, err := s.Open(context.Background(), key)
		assert.ErrorIs(t, err, common.ErrorNotFound, key)
		assert.Equal(t, "File not found", detail(err))
	}
}
