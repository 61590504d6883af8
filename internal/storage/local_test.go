package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imagegen/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (Storage, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "generated_images")
	s, err := NewLocal(config.StorageConfig{Dir: dir})
	require.NoError(t, err)
	return s, dir
}

func TestNewLocal(t *testing.T) {
	_, err := NewLocal(config.StorageConfig{})
	assert.Error(t, err)

	dir := filepath.Join(t.TempDir(), "missing")
	_, err = NewLocal(config.StorageConfig{Dir: dir})
	assert.NoError(t, err)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "directory must not be created before first put")
}

func TestLocalStorage_PutGet(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestStore(t)

	info, err := s.Put(ctx, "abcd1234.png", strings.NewReader("fakeimage"), PutObjectOptions{ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "abcd1234.png", info.Key)
	assert.Equal(t, int64(9), info.Size)
	assert.Equal(t, "image/png", info.ContentType)

	onDisk, err := os.ReadFile(filepath.Join(dir, "abcd1234.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("fakeimage"), onDisk)

	for i := 0; i < 2; i++ {
		rc, got, err := s.Get(ctx, "abcd1234.png")
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		assert.Equal(t, []byte("fakeimage"), data)
		assert.Equal(t, int64(9), got.Size)
		assert.Equal(t, "image/png", got.ContentType)
	}
}

func TestLocalStorage_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.Put(ctx, "same.png", strings.NewReader("first version"), PutObjectOptions{})
	require.NoError(t, err)
	_, err = s.Put(ctx, "same.png", strings.NewReader("second"), PutObjectOptions{})
	require.NoError(t, err)

	rc, _, err := s.Get(ctx, "same.png")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "second", string(data))
}

func TestLocalStorage_GetNotFound(t *testing.T) {
	s, dir := newTestStore(t)

	_, _, err := s.Get(context.Background(), "nonexistent.png")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub.png"), 0o755))
	_, _, err = s.Get(context.Background(), "sub.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_InvalidKeys(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestStore(t)

	secret := filepath.Join(filepath.Dir(dir), "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("secret"), 0o600))

	keys := []string{"", ".", "..", "../secret.txt", "a/b.png", `a\b.png`, "/etc/passwd", "bad\x00.png"}
	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			_, _, err := s.Get(ctx, key)
			assert.ErrorIs(t, err, ErrInvalidKey)

			_, err = s.Put(ctx, key, strings.NewReader("x"), PutObjectOptions{})
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestLocalStorage_PutNilReader(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Put(context.Background(), "nil.png", nil, PutObjectOptions{})
	assert.Error(t, err)
}
