package framestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifloop/internal/services"
	"gifloop/internal/testsupport"
)

func TestStorePath(t *testing.T) {
	assert.Equal(t, filepath.Join("frames", "12.png"), New("frames").Path(12))
}

func TestStoreCount(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	store := New(dir)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, n, "missing dir counts as empty")

	testsupport.WriteFrames(t, dir, 4)
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), 1)
	n, err = store.Count()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestStoreRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames")
	testsupport.WriteFile(t, path, 1)

	_, err := New(path).Count()
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestStoreRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	testsupport.WriteFrames(t, dir, 3)

	removed, err := New(dir).Remove()
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.NoDirExists(t, dir, "empty dir is removed")
}

func TestStoreRemoveKeepsForeignFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	testsupport.WriteFrames(t, dir, 2)
	keep := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o644))

	_, err := New(dir).Remove()
	require.NoError(t, err)
	assert.FileExists(t, keep)
}
