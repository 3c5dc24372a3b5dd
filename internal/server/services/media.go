package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/chyrp/internal/common"
	"github.com/dmitrijs2005/chyrp/internal/logging"
	"github.com/dmitrijs2005/chyrp/internal/server/storage"
)

// FilesPrefix is the public URL prefix of stored media.
const FilesPrefix = "/files/"

// ErrTooLarge marks an upload over the configured size limit.
var ErrTooLarge = errors.New("upload too large")

type MediaService struct {
	store   storage.ObjectStore
	maxSize int64
	now     func() time.Time
	log     logging.Logger
}

func NewMediaService(store storage.ObjectStore, maxSize int64, log logging.Logger) *MediaService {
	return &MediaService{store: store, maxSize: maxSize, now: time.Now, log: log.With("module", "media")}
}

// Upload stores body for userID and returns its public URL. A missing or
// generic contentType is replaced by one sniffed from the first bytes.
func (s *MediaService) Upload(ctx context.Context, userID int64, contentType string, body io.ReadSeeker, size int64) (string, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return "", fail(ErrTooLarge, fmt.Sprintf("File is larger than %s", humanize.IBytes(uint64(s.maxSize))))
	}

	contentType, err := resolveContentType(contentType, body)
	if err != nil {
		return "", err
	}
	if !isMediaType(majorType(contentType)) {
		return "", common.NewValidationError("file", "Incorrect file type")
	}

	key := storage.NewKey(userID, s.now().UTC())
	if err := s.store.Put(ctx, key, contentType, body, size); err != nil {
		return "", fmt.Errorf("error storing upload: %w", err)
	}

	s.log.Info(ctx, "media stored", "key", key, "type", contentType, "size", humanize.IBytes(uint64(max(size, 0))))
	return FilesPrefix + key, nil
}

// Open returns the object behind key. The caller closes its Body.
func (s *MediaService) Open(ctx context.Context, key string) (*storage.Object, error) {
	if !strings.HasPrefix(key, "users/") || strings.Contains(key, "..") {
		return nil, errFileNotFound
	}

	obj, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errFileNotFound
		}
		return nil, fmt.Errorf("error opening %s: %w", key, err)
	}
	return obj, nil
}

func resolveContentType(declared string, body io.ReadSeeker) (string, error) {
	if base, _, err := mime.ParseMediaType(declared); err == nil && base != "application/octet-stream" {
		return base, nil
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading upload: %w", err)
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("error rewinding upload: %w", err)
	}

	base, _, _ := mime.ParseMediaType(http.DetectContentType(head[:n]))
	return base, nil
}

func majorType(contentType string) string {
	major, _, _ := strings.Cut(contentType, "/")
	return major
}
