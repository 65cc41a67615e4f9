package fs

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/vcsstamp/internal/core/domain"
	"go.trai.ch/vcsstamp/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints snapshots so callers can cheaply detect changes.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Fingerprint returns the XXHash of the snapshot's branch and revision as 16 hex digits.
func (h *Hasher) Fingerprint(snapshot domain.Snapshot) string {
	hasher := xxhash.New()

	_, _ = hasher.WriteString(snapshot.Branch)
	_, _ = hasher.Write([]byte{0}) // Separator
	_, _ = hasher.WriteString(snapshot.Revision)
	_, _ = hasher.Write([]byte{0})

	return fmt.Sprintf("%016x", hasher.Sum64())
}
