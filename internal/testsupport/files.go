package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile fills the target path with size bytes of a fixed pattern. A size
// <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	size = max(size, 1)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "mkdir for %s", path)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644), "write %s", path)
}

// WriteExecutable writes a shell script to path with the executable bit set.
func WriteExecutable(t testing.TB, path, script string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "mkdir for %s", path)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755), "write %s", path)
}

// WriteFrames writes n placeholder frames named 1.png..n.png into dir.
func WriteFrames(t testing.TB, dir string, n int) {
	t.Helper()

	for i := 1; i <= n; i++ {
		WriteFile(t, filepath.Join(dir, strconv.Itoa(i)+".png"), 1)
	}
}
