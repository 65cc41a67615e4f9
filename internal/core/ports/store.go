package ports

import "go.trai.ch/vcsstamp/internal/core/domain"

// SnapshotStore persists snapshots to the two-line cache file.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type SnapshotStore interface {
	// Load reads the snapshot stored at path.
	// It returns domain.ErrCacheMissing or domain.ErrCacheMalformed when no snapshot is available.
	Load(path string) (domain.Snapshot, error)

	// Save overwrites path with the snapshot, creating parent directories as needed.
	Save(path string, snapshot domain.Snapshot) error

	// Remove deletes the cache file. A missing file is not an error.
	Remove(path string) error
}
