package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Kind classifies what exists at a path.
type Kind int

const (
	Missing Kind = iota
	RegularFile
	Directory
	Other
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case RegularFile:
		return "file"
	case Directory:
		return "directory"
	default:
		return "other"
	}
}

// Stat reports the kind of entry at path. Errors other than non-existence are
// returned.
func Stat(path string) (Kind, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Missing, nil
		}
		return Other, err
	}
	switch {
	case info.IsDir():
		return Directory, nil
	case info.Mode().IsRegular():
		return RegularFile, nil
	default:
		return Other, nil
	}
}

// ListWithExt returns the regular files directly inside dir whose names end in
// ext (case-insensitive).
func ListWithExt(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// CountWithExt counts the regular files directly inside dir with extension ext.
func CountWithExt(dir, ext string) (int, error) {
	files, err := ListWithExt(dir, ext)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// RemoveWithExt deletes the regular files directly inside dir with extension
// ext and returns how many were removed. A missing dir removes nothing.
func RemoveWithExt(dir, ext string) (int, error) {
	files, err := ListWithExt(dir, ext)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	removed := 0
	for _, file := range files {
		if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("remove %s: %w", file, err)
		}
		removed++
	}
	return removed, nil
}

// RemoveFiles deletes each path that is a regular file and returns those it
// removed. Missing paths are skipped; directories are never touched.
func RemoveFiles(paths ...string) ([]string, error) {
	var removed []string
	for _, path := range paths {
		kind, err := Stat(path)
		if err != nil {
			return removed, fmt.Errorf("stat %s: %w", path, err)
		}
		if kind != RegularFile {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// RemoveDirIfEmpty removes dir when it has no entries left.
func RemoveDirIfEmpty(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(dir); err != nil {
		return false, err
	}
	return true, nil
}
