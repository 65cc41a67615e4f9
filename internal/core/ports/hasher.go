package ports

import "go.trai.ch/vcsstamp/internal/core/domain"

// Hasher computes stable fingerprints of snapshots.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint returns a hex digest identifying the snapshot.
	Fingerprint(snapshot domain.Snapshot) string
}
