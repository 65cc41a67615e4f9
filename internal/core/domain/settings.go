package domain

import (
	"path/filepath"

	"go.trai.ch/zerr"
)

// DetachedPolicy decides what happens when HEAD is detached and no branch override is set.
type DetachedPolicy string

const (
	// DetachedLabel keeps the live snapshot and labels its branch "detached".
	DetachedLabel DetachedPolicy = "label"
	// DetachedFallback treats the live query as failed and falls back to the cache.
	DetachedFallback DetachedPolicy = "fallback"
)

// ParseDetachedPolicy validates a policy name. An empty name selects DetachedLabel.
func ParseDetachedPolicy(name string) (DetachedPolicy, error) {
	switch DetachedPolicy(name) {
	case "", DetachedLabel:
		return DetachedLabel, nil
	case DetachedFallback:
		return DetachedFallback, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrInvalidDetachedPolicy, "parse detached policy"), "policy", name)
	}
}

// Settings configures a single resolution.
type Settings struct {
	WorkDir        string
	CacheFile      string
	BranchEnv      string
	DetachedPolicy DetachedPolicy
	GitBinary      string
	HeaderPrefix   string
}

// DefaultSettings returns the settings used when neither a config file nor flags override them.
func DefaultSettings() Settings {
	return Settings{
		WorkDir:        ".",
		CacheFile:      DefaultCacheFileName,
		BranchEnv:      DefaultBranchEnv,
		DetachedPolicy: DetachedLabel,
		GitBinary:      DefaultGitBinary,
		HeaderPrefix:   DefaultHeaderPrefix,
	}
}

// CachePath returns the cache file path. Relative cache files resolve against the work dir.
func (s Settings) CachePath() string {
	if filepath.IsAbs(s.CacheFile) {
		return filepath.Clean(s.CacheFile)
	}
	return filepath.Join(s.WorkDir, s.CacheFile)
}
