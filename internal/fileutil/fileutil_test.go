package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestStat(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	writeFile(t, file)

	cases := map[string]Kind{
		file:                          RegularFile,
		dir:                           Directory,
		filepath.Join(dir, "missing"): Missing,
	}
	for path, want := range cases {
		got, err := Stat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}

func TestCountAndRemoveWithExt(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.png", "2.png", "3.PNG", "notes.txt"} {
		writeFile(t, filepath.Join(dir, name))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "4.png"), 0o755))

	count, err := CountWithExt(dir, ".png")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	removed, err := RemoveWithExt(dir, ".png")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.FileExists(t, filepath.Join(dir, "notes.txt"), "unrelated file should remain")
	assert.DirExists(t, filepath.Join(dir, "4.png"), "directory should remain")
}

func TestRemoveWithExtMissingDir(t *testing.T) {
	removed, err := RemoveWithExt(filepath.Join(t.TempDir(), "nope"), ".png")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRemoveFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "results.db")
	writeFile(t, file)
	sub := filepath.Join(dir, "palette.png")
	require.NoError(t, os.Mkdir(sub, 0o755))

	removed, err := RemoveFiles(file, sub, filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Equal(t, []string{file}, removed)
	assert.DirExists(t, sub, "directory must not be removed")
}

func TestRemoveDirIfEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	require.NoError(t, os.Mkdir(dir, 0o755))
	writeFile(t, filepath.Join(dir, "keep"))

	ok, err := RemoveDirIfEmpty(dir)
	require.NoError(t, err)
	assert.False(t, ok, "non-empty dir removed")

	require.NoError(t, os.Remove(filepath.Join(dir, "keep")))
	ok, err = RemoveDirIfEmpty(dir)
	require.NoError(t, err)
	assert.True(t, ok, "empty dir not removed")
}
