package models

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/chyrp/internal/filex"
)

// File is a handle to a binary blob selected for upload.
type File struct {
	Name        string
	ContentType string
	Size        int64

	open func() (io.ReadCloser, error)
}

// Open returns a fresh reader over the file contents.
func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %q has no content", f.Name)
	}
	return f.open()
}

// FileFromPath stats path and detects its content type.
func FileFromPath(path string) (File, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	ct, err := filex.DetectContentType(path)
	if err != nil {
		return File{}, err
	}

	return File{
		Name:        filepath.Base(path),
		ContentType: ct,
		Size:        fi.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FileFromBytes wraps an in-memory blob.
func FileFromBytes(name, contentType string, data []byte) File {
	return File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
