package domain

const (
	// DefaultCacheFileName is the name of the snapshot cache file.
	DefaultCacheFileName = "vcs_data"

	// DefaultBranchEnv is the environment variable consulted for a detached HEAD.
	DefaultBranchEnv = "GIT_BRANCH"

	// DefaultGitBinary is the git executable looked up on PATH.
	DefaultGitBinary = "git"

	// DefaultHeaderPrefix is the macro prefix used by the C header format.
	DefaultHeaderPrefix = "VCS"

	// ConfigFileName is the name of the optional configuration file.
	ConfigFileName = "vcsstamp.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
