// Package cache implements the two-line snapshot cache file.
package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/vcsstamp/internal/core/domain"
	"go.trai.ch/vcsstamp/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SnapshotStore = (*Store)(nil)

// Store implements ports.SnapshotStore using a plain text file.
//
// The file holds exactly two lines: the branch, a newline, and the revision.
// There is no header, trailing newline, or checksum.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load reads the snapshot stored at path.
func (s *Store) Load(path string) (domain.Snapshot, error) {
	//nolint:gosec // Path is provided by trusted caller
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Snapshot{}, errors.Join(domain.ErrCacheMissing, zerr.With(zerr.Wrap(err, "stat cache"), "path", path))
		}
		return domain.Snapshot{}, errors.Join(domain.ErrCacheReadFailed, zerr.With(zerr.Wrap(err, "read cache"), "path", path))
	}

	return Decode(data, path)
}

// Decode parses the cache file format. The path is only used for error metadata.
func Decode(data []byte, path string) (domain.Snapshot, error) {
	lines := strings.Split(string(data), "\n")
	if len(lines) < 2 {
		return domain.Snapshot{}, zerr.With(zerr.Wrap(domain.ErrCacheMalformed, "decode cache"), "path", path)
	}

	return domain.NewSnapshot(
		strings.TrimSuffix(lines[0], "\r"),
		strings.TrimSuffix(lines[1], "\r"),
	), nil
}

// Encode renders a snapshot in the cache file format.
func Encode(snapshot domain.Snapshot) []byte {
	return []byte(snapshot.Branch + "\n" + snapshot.Revision)
}

// Save overwrites path with the snapshot.
// The content is written to a temporary file in the same directory and renamed into place,
// so concurrent readers never observe a partially written cache.
func (s *Store) Save(path string, snapshot domain.Snapshot) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return errors.Join(domain.ErrCacheWriteFailed, zerr.With(zerr.Wrap(err, "create cache directory"), "path", dir))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Join(domain.ErrCacheWriteFailed, zerr.With(zerr.Wrap(err, "create temp file"), "path", dir))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(Encode(snapshot)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Join(domain.ErrCacheWriteFailed, zerr.With(zerr.Wrap(err, "write temp file"), "path", tmpName))
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Join(domain.ErrCacheWriteFailed, zerr.With(zerr.Wrap(err, "close temp file"), "path", tmpName))
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return errors.Join(domain.ErrCacheWriteFailed, zerr.With(zerr.Wrap(err, "chmod temp file"), "path", tmpName))
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Join(domain.ErrCacheWriteFailed, zerr.With(zerr.Wrap(err, "rename temp file"), "path", path))
	}

	return nil
}

// Remove deletes the cache file at path.
func (s *Store) Remove(path string) error {
	if err := os.Remove(filepath.Clean(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Join(domain.ErrCacheRemoveFailed, zerr.With(zerr.Wrap(err, "remove cache"), "path", path))
	}
	return nil
}
