package framestore

import (
	"path/filepath"
	"strconv"

	"gifloop/internal/fileutil"
	"gifloop/internal/services"
)

// Ext is the extension of every stored frame.
const Ext = ".png"

// Store is a directory of numbered frames.
type Store struct {
	dir string
}

// New returns a store rooted at dir. Nothing is touched on disk.
func New(dir string) Store {
	return Store{dir: dir}
}

// Dir returns the store directory.
func (s Store) Dir() string {
	return s.dir
}

// Path returns the file for the 1-based frame index.
func (s Store) Path(index int) string {
	return filepath.Join(s.dir, strconv.Itoa(index)+Ext)
}

// Exists reports whether the directory is present. A path occupied by
// anything other than a directory is a validation error.
func (s Store) Exists() (bool, error) {
	kind, err := fileutil.Stat(s.dir)
	if err != nil {
		return false, services.Wrap(services.ErrValidation, "framestore", "stat", s.dir, err)
	}
	switch kind {
	case fileutil.Missing:
		return false, nil
	case fileutil.Directory:
		return true, nil
	default:
		return false, services.Wrap(services.ErrValidation, "framestore", "stat", "frames path "+s.dir+" exists and is not a directory", nil)
	}
}

// Count returns the number of frames in the directory, zero when it is absent.
func (s Store) Count() (int, error) {
	ok, err := s.Exists()
	if err != nil || !ok {
		return 0, err
	}
	n, err := fileutil.CountWithExt(s.dir, Ext)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "framestore", "count", s.dir, err)
	}
	return n, nil
}

// Remove deletes every frame and then the directory if nothing else is left
// in it. It returns the number of frames removed.
func (s Store) Remove() (int, error) {
	removed, err := fileutil.RemoveWithExt(s.dir, Ext)
	if err != nil {
		return removed, err
	}
	if _, err := fileutil.RemoveDirIfEmpty(s.dir); err != nil {
		return removed, err
	}
	return removed, nil
}
