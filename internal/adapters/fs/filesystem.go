package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem abstracts the file system operations the locator needs.
type FileSystem interface {
	// Stat returns file info for the given path.
	Stat(path string) (iofs.FileInfo, error)
}

// OSFS implements FileSystem using the standard library.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Stat returns file info for the given path.
func (o *OSFS) Stat(path string) (iofs.FileInfo, error) {
	return os.Stat(path)
}

// MapFSAdapter adapts an fs.FS (typically fstest.MapFS) to FileSystem.
// Absolute paths below Root are mapped onto the wrapped file system.
type MapFSAdapter struct {
	FS   iofs.FS
	Root string
}

// NewMapFSAdapter creates a new MapFSAdapter with the given root path and filesystem.
func NewMapFSAdapter(root string, fsys iofs.FS) *MapFSAdapter {
	return &MapFSAdapter{
		FS:   fsys,
		Root: root,
	}
}

// Stat returns file info for the given path.
func (m *MapFSAdapter) Stat(path string) (iofs.FileInfo, error) {
	rel, ok := m.toRelPath(path)
	if !ok {
		return nil, &iofs.PathError{Op: "stat", Path: path, Err: iofs.ErrNotExist}
	}
	return iofs.Stat(m.FS, rel)
}

// toRelPath maps an absolute path onto the wrapped file system.
// Paths outside Root report false.
func (m *MapFSAdapter) toRelPath(absPath string) (string, bool) {
	absPath = filepath.Clean(absPath)
	root := filepath.Clean(m.Root)

	if absPath == root {
		return ".", true
	}

	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(absPath, prefix) {
		return "", false
	}

	return filepath.ToSlash(strings.TrimPrefix(absPath, prefix)), true
}
