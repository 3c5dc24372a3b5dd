// Package filex contains small filesystem helpers.
package filex

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// sniffLen is how many bytes http.DetectContentType looks at.
const sniffLen = 512

// EnsureParentDir creates the directory that will hold path, resolving it
// against the working directory, and returns the absolute path.
func EnsureParentDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return abs, nil
}

// DetectContentType guesses the MIME type of the file at path: first from
// its extension, then from its leading bytes.
func DetectContentType(path string) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return SniffContentType(f)
}

// SniffContentType reads up to 512 bytes from r and classifies them.
func SniffContentType(r io.Reader) (string, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}
