// Package storage holds each child's knowledge base files in an
// S3-compatible object store, one folder prefix per child.
package storage

import (
	"context"
	"io"
	"time"
)

// Object describes one stored file, with a time-limited download URL.
type Object struct {
	Filename     string    `json:"filename"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	URL          string    `json:"url"`
}

// BlobStore is the object storage surface the handlers depend on. Keys
// are scoped per child: every operation works inside "<childID>/".
type BlobStore interface {
	// EnsureFolder initializes the child's folder prefix. Called once at
	// child creation.
	EnsureFolder(ctx context.Context, childID string) error

	// Upload stores a file under the child's prefix.
	Upload(ctx context.Context, childID, filename string, body io.Reader, contentType string) error

	// List returns the child's files with presigned download URLs.
	List(ctx context.Context, childID string) ([]Object, error)

	// Delete removes one file from the child's prefix.
	Delete(ctx context.Context, childID, filename string) error

	// DeleteFolder removes the child's whole prefix. Used as best-effort
	// cleanup when a child is deleted.
	DeleteFolder(ctx context.Context, childID string) error
}
