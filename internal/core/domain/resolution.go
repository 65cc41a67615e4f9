package domain

// Source tells where a resolved snapshot came from.
type Source string

const (
	// SourceLive means the snapshot was read from the VCS.
	SourceLive Source = "live"
	// SourceCache means the snapshot was loaded from the cache file.
	SourceCache Source = "cache"
	// SourceSentinel means neither the VCS nor the cache supplied a snapshot.
	SourceSentinel Source = "sentinel"
)

// Resolution is the outcome of resolving a snapshot for a working directory.
type Resolution struct {
	Snapshot       Snapshot
	Source         Source
	RepositoryRoot string
	CachePath      string
}

// HasActualInfo reports whether the resolved snapshot carries real data.
func (r Resolution) HasActualInfo() bool {
	return r.Snapshot.HasActualInfo()
}
