package domain

import "go.trai.ch/zerr"

var (
	// ErrToolUnavailable is returned when the VCS executable cannot be invoked.
	ErrToolUnavailable = zerr.New("version control tool unavailable")

	// ErrVCSQueryFailed is returned when the VCS executable ran but reported a failure.
	ErrVCSQueryFailed = zerr.New("version control query failed")

	// ErrEmptyQueryResult is returned when the VCS executable succeeded but printed nothing.
	ErrEmptyQueryResult = zerr.New("version control query returned no data")

	// ErrDetachedHead is returned when HEAD is detached and the policy forbids labelling it.
	ErrDetachedHead = zerr.New("HEAD is detached and no branch override is set")

	// ErrRepositorySearchFailed is returned when the upward repository search cannot stat a directory.
	ErrRepositorySearchFailed = zerr.New("failed to search for repository")

	// ErrCacheMissing is returned when the snapshot cache file does not exist.
	ErrCacheMissing = zerr.New("snapshot cache not found")

	// ErrCacheMalformed is returned when the snapshot cache file has fewer than two lines.
	ErrCacheMalformed = zerr.New("snapshot cache is malformed")

	// ErrCacheReadFailed is returned when the snapshot cache exists but cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read snapshot cache")

	// ErrCacheWriteFailed is returned when the snapshot cache cannot be persisted.
	ErrCacheWriteFailed = zerr.New("failed to write snapshot cache")

	// ErrCacheRemoveFailed is returned when the snapshot cache cannot be deleted.
	ErrCacheRemoveFailed = zerr.New("failed to remove snapshot cache")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidDetachedPolicy is returned for an unknown detached policy name.
	ErrInvalidDetachedPolicy = zerr.New("invalid detached policy, expected 'label' or 'fallback'")

	// ErrUnknownFormat is returned for an unknown output format.
	ErrUnknownFormat = zerr.New("unknown output format")

	// ErrUnknownLogFormat is returned for an unknown log format.
	ErrUnknownLogFormat = zerr.New("unknown log format, expected 'auto', 'pretty', 'plain' or 'json'")

	// ErrInvalidWorkDir is returned when the work dir does not exist or is not a directory.
	ErrInvalidWorkDir = zerr.New("work dir is not a directory")

	// ErrInvalidHeaderPrefix is returned when the header prefix is not a C identifier.
	ErrInvalidHeaderPrefix = zerr.New("header prefix must be a C identifier")

	// ErrOutputWriteFailed is returned when the formatted output cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write output")

	// ErrWatchFailed is returned when the repository cannot be watched.
	ErrWatchFailed = zerr.New("failed to watch repository")

	// ErrNoRepository is returned by watch when there is no repository to watch.
	ErrNoRepository = zerr.New("no repository found")
)
