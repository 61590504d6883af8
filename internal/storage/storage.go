package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Package storage contains the image store abstraction and its local-directory implementation.
// Keys are bare filenames; the store is flat and the directory listing is its only index.

var (
	// ErrNotFound is returned by Get when no object exists under the key.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidKey is returned when a key is not a single path element.
	ErrInvalidKey = errors.New("invalid object key")
)

// PutObjectOptions define optional parameters for storing objects.
// ContentType is optional and only echoed back in ObjectInfo.
type PutObjectOptions struct {
	ContentType string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Storage is the image store interface.
// Methods use context and streaming readers; objects are never mutated after Put.
type Storage interface {
	// Put writes the reader's content under key, overwriting any previous object.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}
