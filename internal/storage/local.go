package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"imagegen/internal/config"
	"imagegen/internal/log"
)

// localStorage implements the Storage interface on a single flat directory.
// It adds no locking: concurrent writers of the same key race, last one wins.
type localStorage struct {
	dir string
}

// NewLocal creates a directory-backed store. The directory is created lazily on
// the first Put, so a missing directory is not an error here.
func NewLocal(cfg config.StorageConfig) (Storage, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("image directory is required")
	}
	return &localStorage{dir: filepath.Clean(cfg.Dir)}, nil
}

// validateKey accepts only a single path element so a key can never address a
// file outside the store directory.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return ErrInvalidKey
	}
	if strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return ErrInvalidKey
	}
	if filepath.Base(key) != key || filepath.VolumeName(key) != "" {
		return ErrInvalidKey
	}
	return nil
}

func (s *localStorage) path(key string) string {
	return filepath.Join(s.dir, key)
}

// Put writes the object to <dir>/<key>, creating dir if it does not exist yet.
func (s *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := validateKey(key); err != nil {
		return ObjectInfo{}, err
	}
	if r == nil {
		return ObjectInfo{}, fmt.Errorf("reader is nil")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return ObjectInfo{}, err
	}

	f, err := os.Create(s.path(key))
	if err != nil {
		return ObjectInfo{}, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return ObjectInfo{}, err
	}

	st, err := os.Stat(s.path(key))
	if err != nil {
		return ObjectInfo{}, err
	}

	log.FromContextOrDiscard(ctx).Debug("object stored", "key", key, "size", n, "dir", s.dir)

	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: st.ModTime(),
	}, nil
}

// Get opens <dir>/<key> for reading. The caller must close the reader.
func (s *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := validateKey(key); err != nil {
		return nil, ObjectInfo{}, err
	}

	f, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	if st.IsDir() {
		f.Close()
		return nil, ObjectInfo{}, ErrNotFound
	}

	return f, ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(key)),
		LastModified: st.ModTime(),
	}, nil
}
