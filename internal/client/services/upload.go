package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/chyrp/internal/client/client"
	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/common"
	"github.com/dmitrijs2005/chyrp/internal/logging"
)

// Uploader stores one file and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, token string, f models.File) (string, error)
}

// UploadError is the upload reported for a failed batch: the first one to
// fail, unless another was rejected as unauthorized.
type UploadError struct {
	Index int
	File  string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.File, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

type UploadOption func(*Orchestrator)

// WithSiblingCancellation cancels the uploads still in flight as soon as one
// fails. Without it every upload runs to completion and the results of the
// successful ones are discarded.
func WithSiblingCancellation() UploadOption {
	return func(o *Orchestrator) { o.cancelSiblings = true }
}

// Orchestrator uploads a batch of files concurrently and joins them
// all-or-nothing.
type Orchestrator struct {
	up             Uploader
	log            logging.Logger
	cancelSiblings bool
}

func NewOrchestrator(up Uploader, log logging.Logger, opts ...UploadOption) *Orchestrator {
	o := &Orchestrator{up: up, log: log.With("module", "upload")}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// PublishAssets starts one upload per file and waits for all of them. It
// returns the asset references in input order, or the first failure as an
// *UploadError. A rejected credential outranks any other failure in the
// batch so the caller can expire the session. A file that is not an image, video or audio fails the whole
// batch with a validation error before any upload starts.
func (o *Orchestrator) PublishAssets(ctx context.Context, files []models.File, credential string) ([]models.AssetRef, error) {
	tasks := make([]models.UploadTask, len(files))
	kinds := make([]models.MediaType, len(files))
	for i, f := range files {
		mt, ok := models.MediaTypeOf(f.ContentType)
		if !ok {
			return nil, common.NewValidationError("files",
				fmt.Sprintf("%s: unsupported media type %q", f.Name, f.ContentType))
		}
		kinds[i] = mt
		tasks[i] = models.UploadTask{File: f, Status: models.UploadPending}
	}

	var g *errgroup.Group
	gctx := ctx
	if o.cancelSiblings {
		g, gctx = errgroup.WithContext(ctx)
	} else {
		g = new(errgroup.Group)
	}

	for i := range tasks {
		g.Go(func() error {
			t := &tasks[i]
			url, err := o.up.Upload(gctx, credential, t.File)
			if err != nil {
				t.Status = models.UploadFailed
				t.Err = err
				return &UploadError{Index: i, File: t.File.Name, Err: err}
			}
			t.Status = models.UploadSucceeded
			t.Result = &models.AssetRef{URL: url, MediaType: kinds[i]}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ue := unauthorizedUpload(tasks); ue != nil {
			err = ue
		}
		o.log.Warn(ctx, "upload batch failed", "files", len(files), "failed", failedCount(tasks), "error", err)
		return nil, err
	}

	refs := make([]models.AssetRef, len(tasks))
	for i, t := range tasks {
		refs[i] = *t.Result
	}
	o.log.Debug(ctx, "upload batch done", "files", len(files))
	return refs, nil
}

func unauthorizedUpload(tasks []models.UploadTask) *UploadError {
	for i, t := range tasks {
		if t.Status == models.UploadFailed && errors.Is(t.Err, client.ErrUnauthorized) {
			return &UploadError{Index: i, File: t.File.Name, Err: t.Err}
		}
	}
	return nil
}

func failedCount(tasks []models.UploadTask) int {
	n := 0
	for _, t := range tasks {
		if t.Status == models.UploadFailed {
			n++
		}
	}
	return n
}
