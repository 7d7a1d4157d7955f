package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *MediaStore {
	t.Helper()
	root := t.TempDir()
	store, err := NewMediaStore(filepath.Join(root, "media"), filepath.Join(root, "static"), []string{"avatar"})
	require.NoError(t, err)
	return store
}

func TestSaveAndExists(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.Save("avatar", "photo.png", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "avatar/photo.png", rel)
	assert.True(t, store.Exists(rel))

	abs, err := store.MediaPath(rel)
	require.NoError(t, err)
	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestSaveRejectsTakenNames(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save("avatar", "photo.png", strings.NewReader("one"))
	require.NoError(t, err)

	_, err = store.Save("avatar", "photo.png", strings.NewReader("two"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestPathTraversalRejected(t *testing.T) {
	store := newTestStore(t)

	_, err := store.MediaPath("../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = store.StaticPath("../media/avatar/photo.png")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestSaveStripsDirectoryFromName(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.Save("avatar", "../../escape.png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "avatar/escape.png", rel)
}

func TestExistsMissingFile(t *testing.T) {
	store := newTestStore(t)
	assert.False(t, store.Exists("avatar/missing.png"))
}
