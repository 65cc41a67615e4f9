// Package fs provides file system adapters for locating repositories and fingerprinting snapshots.
package fs

import (
	"errors"
	iofs "io/fs"
	"path/filepath"

	"go.trai.ch/vcsstamp/internal/core/domain"
	"go.trai.ch/vcsstamp/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RepositoryLocator = (*Locator)(nil)

// Locator finds the repository enclosing a directory by walking up its ancestry.
type Locator struct {
	fs FileSystem
}

// NewLocator creates a Locator backed by the given file system.
func NewLocator(fsys FileSystem) *Locator {
	return &Locator{fs: fsys}
}

// Locate walks upward from dir until a directory containing marker is found.
// The marker may be a file or a directory. The walk stops at the file system root,
// so it visits at most one directory per path component.
func (l *Locator) Locate(dir, marker string) (string, bool, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", false, errors.Join(
			domain.ErrRepositorySearchFailed,
			zerr.With(zerr.Wrap(err, "resolve absolute path"), "path", dir),
		)
	}

	for {
		candidate := filepath.Join(current, marker)
		_, statErr := l.fs.Stat(candidate)
		switch {
		case statErr == nil:
			return current, true, nil
		case !errors.Is(statErr, iofs.ErrNotExist):
			return "", false, errors.Join(
				domain.ErrRepositorySearchFailed,
				zerr.With(zerr.Wrap(statErr, "stat repository marker"), "path", candidate),
			)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false, nil
		}
		current = parent
	}
}
