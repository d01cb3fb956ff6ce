package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"gifloop/internal/config"
	"gifloop/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckOutputLocation("Frames directory", cfg.Analysis.FramesDir, true),
		CheckOutputLocation("Result cache", cfg.Analysis.CachePath, false),
		CheckOutputLocation("Palette", cfg.Output.PalettePath, false),
		CheckOutputLocation("Gif output", cfg.Output.GifPath, false),
	}
}

// CheckSystemDeps evaluates the external binaries named in cfg.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	if cfg == nil {
		return nil
	}
	return deps.CheckBinaries(deps.MediaRequirements(cfg.Tools.FFmpeg, cfg.Tools.FFprobe))
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutputLocation verifies that path either already has the expected kind
// (a directory when wantDir, otherwise a regular file) or can be created in
// its nearest existing ancestor directory.
func CheckOutputLocation(name, path string, wantDir bool) Result {
	info, err := os.Stat(path)
	switch {
	case err == nil && wantDir && !info.IsDir():
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: exists but is not a directory)", path)}
	case err == nil && !wantDir && !info.Mode().IsRegular():
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: exists but is not a regular file)", path)}
	case err == nil && wantDir:
		return CheckDirectoryAccess(name, path)
	case err == nil:
		if accessErr := unix.Access(path, unix.R_OK|unix.W_OK); accessErr != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, accessErr)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (exists, read/write ok)", path)}
	case !os.IsNotExist(err):
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}

	parent := nearestExistingDir(filepath.Dir(path))
	check := CheckDirectoryAccess(name, parent)
	if !check.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create in %s)", path, parent)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

func nearestExistingDir(dir string) string {
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
