// Package storage holds the blob backends for uploaded attachments.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned by Open when no object exists under the key.
var ErrNotFound = errors.New("storage: object not found")

// Object describes a stored blob as reported by List.
type Object struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// Store is a flat key/value blob store. Keys are slash separated relative
// paths such as "2024/01/15/<uuid>.pdf".
type Store interface {
	// Put stores r under key. size is the expected byte count, or -1 when
	// unknown. A short or long stream is an error and nothing is stored.
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, fn func(Object) error) error
}

// ValidateKey rejects keys that could escape the store root.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("storage: empty key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	if path.Clean(key) != key {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return fmt.Errorf("storage: invalid key %q", key)
		}
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func checkSize(expected, written int64) error {
	if expected >= 0 && written != expected {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expected, written)
	}
	return nil
}
