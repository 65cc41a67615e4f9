// Package ports defines the core interfaces for the application.
package ports

import "context"

// VCS is the version control backend queried for a live snapshot.
//
// Any backend that can name the marker of a working copy, report the current
// symbolic branch (or DetachedMarker when detached), and report the short id
// of the latest revision satisfies the contract.
//
//go:generate go run go.uber.org/mock/mockgen -source=vcs.go -destination=mocks/mock_vcs.go -package=mocks
type VCS interface {
	// Name returns the backend name, e.g. "git".
	Name() string

	// Marker returns the entry whose presence marks a repository root, e.g. ".git".
	Marker() string

	// CurrentBranch returns the symbolic branch checked out in dir.
	CurrentBranch(ctx context.Context, dir string) (string, error)

	// ShortRevision returns the short identifier of the most recent revision in dir.
	ShortRevision(ctx context.Context, dir string) (string, error)
}

// RepositoryLocator finds the repository enclosing a directory.
type RepositoryLocator interface {
	// Locate walks upward from dir until a directory containing marker is found.
	// It returns found=false when the filesystem root is reached first.
	Locate(dir, marker string) (root string, found bool, err error)
}

// VCSFactory builds a VCS backend for a configured tool executable.
type VCSFactory interface {
	// Open returns a backend that invokes the given executable.
	Open(tool string) VCS
}
