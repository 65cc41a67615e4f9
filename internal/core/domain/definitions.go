package domain

const (
	// BranchDefinition is the build definition key carrying the branch.
	BranchDefinition = "vcs_branch"

	// RevisionDefinition is the build definition key carrying the revision.
	RevisionDefinition = "vcs_revision"
)

// Definition is a single key/value pair handed to a build tool's configuration.
type Definition struct {
	Key   string
	Value string
}

// Definitions returns the build definitions for the snapshot, branch first.
func (s Snapshot) Definitions() []Definition {
	return []Definition{
		{Key: BranchDefinition, Value: s.Branch},
		{Key: RevisionDefinition, Value: s.Revision},
	}
}
