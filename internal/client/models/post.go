package models

import (
	"slices"
	"time"
)

// Draft is the user's unsubmitted post.
type Draft struct {
	Title   string
	Content string
	Files   []File
}

// Clone copies the draft so later mutation of the original's file slice
// does not leak into an in-flight publish.
func (d Draft) Clone() Draft {
	d.Files = slices.Clone(d.Files)
	return d
}

// NewPost is the create-post request body.
type NewPost struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Media   []AssetRef `json:"media"`
}

// Post is a published post as returned by the server.
type Post struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CreateTime time.Time  `json:"createtime"`
	UserID     int64      `json:"user_id"`
	Media      []AssetRef `json:"media"`
}

// UploadStatus is the lifecycle of one file upload.
type UploadStatus int

const (
	UploadPending UploadStatus = iota
	UploadSucceeded
	UploadFailed
)

func (s UploadStatus) String() string {
	switch s {
	case UploadPending:
		return "pending"
	case UploadSucceeded:
		return "succeeded"
	case UploadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// UploadTask tracks one file through the orchestrator. It is never persisted.
type UploadTask struct {
	File   File
	Status UploadStatus
	Result *AssetRef
	Err    error
}
