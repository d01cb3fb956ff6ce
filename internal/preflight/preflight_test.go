package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifloop/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	assert.True(t, result.Passed, result.Detail)
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	assert.False(t, result.Passed)
	assert.NotEmpty(t, result.Detail)
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
	assert.False(t, CheckDirectoryAccess("test", f).Passed)
}

func TestCheckOutputLocation(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "palette.png")
	require.NoError(t, os.WriteFile(file, []byte("png"), 0o644))
	dir := filepath.Join(base, "frames")
	require.NoError(t, os.Mkdir(dir, 0o755))

	cases := []struct {
		name    string
		path    string
		wantDir bool
		passed  bool
	}{
		{"missing file in writable dir", filepath.Join(base, "out.gif"), false, true},
		{"missing nested file", filepath.Join(base, "a", "b", "results.db"), false, true},
		{"existing file", file, false, true},
		{"directory where file expected", dir, false, false},
		{"existing directory", dir, true, true},
		{"file where directory expected", file, true, false},
		{"missing directory", filepath.Join(base, "new-frames"), true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := CheckOutputLocation("test", tc.path, tc.wantDir)
			assert.Equal(t, tc.passed, result.Passed, result.Detail)
		})
	}
}

func TestRunAllDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	cfg := config.Default()
	require.NoError(t, cfg.Finalize())

	results := RunAll(&cfg)
	assert.Len(t, results, 4)
	assert.Empty(t, Failed(results))
	assert.Nil(t, RunAll(nil))
}

func TestCheckSystemDepsReportsConfiguredBinaries(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.FFmpeg = "definitely-missing-ffmpeg"
	cfg.Tools.FFprobe = "definitely-missing-ffprobe"

	statuses := CheckSystemDeps(&cfg)
	require.Len(t, statuses, 2)
	for _, status := range statuses {
		assert.False(t, status.Available, "%s should be unavailable", status.Command)
	}
}
