// Package domain holds the core types of vcsstamp.
package domain

const (
	// Undefined is the sentinel value used when neither the VCS nor the cache can supply a snapshot.
	Undefined = "undefined"

	// Detached is the branch label used when HEAD is detached and no override is available.
	Detached = "detached"

	// DetachedMarker is what the VCS reports as the branch name of a detached HEAD.
	DetachedMarker = "HEAD"
)

// Snapshot identifies the state of a source tree at the moment it was captured.
type Snapshot struct {
	Branch   string `json:"branch" yaml:"branch"`
	Revision string `json:"revision" yaml:"revision"`
}

// NewSnapshot creates a snapshot from a branch and a revision.
func NewSnapshot(branch, revision string) Snapshot {
	return Snapshot{Branch: branch, Revision: revision}
}

// UndefinedSnapshot returns the sentinel snapshot.
func UndefinedSnapshot() Snapshot {
	return Snapshot{Branch: Undefined, Revision: Undefined}
}

// IsUndefined reports whether s is the sentinel snapshot.
func (s Snapshot) IsUndefined() bool {
	return s.Branch == Undefined && s.Revision == Undefined
}

// HasActualInfo reports whether both fields carry real data.
// A half-populated snapshot or the sentinel is never actual.
func (s Snapshot) HasActualInfo() bool {
	if s.Branch == "" || s.Revision == "" {
		return false
	}
	return !s.IsUndefined()
}

// String returns the snapshot as "revision (branch)".
func (s Snapshot) String() string {
	return s.Revision + " (" + s.Branch + ")"
}
