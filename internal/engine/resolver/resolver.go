// Package resolver determines the VCS snapshot of a source tree.
//
// A resolution walks up from the work dir looking for a repository. When one
// is found the VCS is queried and a successful answer is persisted to the
// cache file. When there is no repository, or the query fails, the cache file
// is consulted, and when that yields nothing the sentinel snapshot is returned.
package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/vcsstamp/internal/core/domain"
	"go.trai.ch/vcsstamp/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver resolves snapshots. All state is set at construction.
type Resolver struct {
	vcs     ports.VCS
	locator ports.RepositoryLocator
	store   ports.SnapshotStore
	logger  ports.Logger
	tracer  ports.Tracer

	branchEnv string
	policy    domain.DetachedPolicy
	lookupEnv func(string) (string, bool)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBranchEnv sets the environment variable consulted when HEAD is detached.
// An empty name disables the override.
func WithBranchEnv(name string) Option {
	return func(r *Resolver) {
		r.branchEnv = name
	}
}

// WithDetachedPolicy sets what happens when HEAD is detached and no override is set.
func WithDetachedPolicy(policy domain.DetachedPolicy) Option {
	return func(r *Resolver) {
		r.policy = policy
	}
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(r *Resolver) {
		r.lookupEnv = lookup
	}
}

// New creates a Resolver with the given dependencies.
func New(
	vcs ports.VCS,
	locator ports.RepositoryLocator,
	store ports.SnapshotStore,
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...Option,
) *Resolver {
	r := &Resolver{
		vcs:       vcs,
		locator:   locator,
		store:     store,
		logger:    logger,
		tracer:    tracer,
		branchEnv: domain.DefaultBranchEnv,
		policy:    domain.DetachedLabel,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the snapshot for workDir.
//
// A relative cachePath resolves against workDir. The only error returned is a
// failure to persist a live snapshot; the resolution is still valid in that case.
func (r *Resolver) Resolve(ctx context.Context, workDir, cachePath string) (domain.Resolution, error) {
	ctx, span := r.tracer.Start(ctx, "resolve")
	defer span.End()

	workDir = absolute(workDir)
	if !filepath.IsAbs(cachePath) {
		cachePath = filepath.Join(workDir, cachePath)
	}
	cachePath = filepath.Clean(cachePath)

	span.SetAttribute("vcsstamp.work_dir", workDir)
	span.SetAttribute("vcsstamp.cache_path", cachePath)

	res := domain.Resolution{CachePath: cachePath}

	if root, found := r.searchRepository(ctx, workDir); found {
		res.RepositoryRoot = root

		snapshot, err := r.queryLive(ctx, workDir)
		if err == nil {
			res.Snapshot = snapshot
			res.Source = domain.SourceLive
			span.SetAttribute("vcsstamp.source", string(res.Source))

			if err := r.persist(ctx, cachePath, snapshot); err != nil {
				span.RecordError(err)
				return res, err
			}
			r.logger.Info("Loaded from " + r.vcs.Name() + " and written to " + cachePath + ": " + snapshot.String())
			return res, nil
		}

		if errors.Is(err, domain.ErrDetachedHead) {
			r.logger.Warn(err.Error() + ", falling back to cache")
		} else {
			r.logger.Error(zerr.Wrap(err, "live query unavailable, falling back to cache"))
		}
	}

	if snapshot, ok := r.loadCache(ctx, cachePath); ok {
		res.Snapshot = snapshot
		res.Source = domain.SourceCache
		span.SetAttribute("vcsstamp.source", string(res.Source))
		r.logger.Info("Loaded from " + cachePath + ": " + snapshot.String())
		return res, nil
	}

	res.Snapshot = domain.UndefinedSnapshot()
	res.Source = domain.SourceSentinel
	span.SetAttribute("vcsstamp.source", string(res.Source))
	r.logger.Warn("No VCS info available, using " + domain.Undefined)
	return res, nil
}

// searchRepository walks up from workDir looking for the VCS marker.
// A failed search is reported and treated as no repository.
func (r *Resolver) searchRepository(ctx context.Context, workDir string) (string, bool) {
	_, span := r.tracer.Start(ctx, "search repository")
	defer span.End()

	root, found, err := r.locator.Locate(workDir, r.vcs.Marker())
	if err != nil {
		span.RecordError(err)
		r.logger.Warn("Repository search failed: " + err.Error())
		return "", false
	}
	if !found {
		r.logger.Info("No " + r.vcs.Marker() + " found above " + workDir)
		return "", false
	}

	span.SetAttribute("vcsstamp.repository_root", root)
	r.logger.Info("Found " + r.vcs.Marker() + " in " + root)
	return root, true
}

// queryLive asks the VCS for the branch and revision checked out in workDir.
func (r *Resolver) queryLive(ctx context.Context, workDir string) (domain.Snapshot, error) {
	ctx, span := r.tracer.Start(ctx, "query "+r.vcs.Name())
	defer span.End()

	branch, err := r.vcs.CurrentBranch(ctx, workDir)
	if err != nil {
		span.RecordError(err)
		return domain.Snapshot{}, zerr.Wrap(err, "query branch")
	}

	if branch == domain.DetachedMarker {
		branch, err = r.detachedBranch()
		if err != nil {
			span.RecordError(err)
			return domain.Snapshot{}, err
		}
	}

	revision, err := r.vcs.ShortRevision(ctx, workDir)
	if err != nil {
		span.RecordError(err)
		return domain.Snapshot{}, zerr.Wrap(err, "query revision")
	}

	snapshot := domain.NewSnapshot(branch, revision)
	span.SetAttribute("vcsstamp.branch", snapshot.Branch)
	span.SetAttribute("vcsstamp.revision", snapshot.Revision)
	return snapshot, nil
}

// detachedBranch picks the branch name for a detached HEAD.
func (r *Resolver) detachedBranch() (string, error) {
	if r.branchEnv != "" {
		value, ok := r.lookupEnv(r.branchEnv)
		switch {
		case !ok || value == "":
		case strings.ContainsAny(value, "\r\n"):
			// The cache file is line based, so a multi-line branch would not read back intact.
			r.logger.Warn("Ignoring $" + r.branchEnv + ": branch names cannot span lines")
		default:
			r.logger.Info("HEAD is detached, using branch " + value + " from $" + r.branchEnv)
			return value, nil
		}
	}

	if r.policy == domain.DetachedFallback {
		return "", zerr.With(zerr.Wrap(domain.ErrDetachedHead, "live query"), "env", r.branchEnv)
	}

	if r.branchEnv == "" {
		r.logger.Warn("HEAD is detached, using branch " + domain.Detached)
	} else {
		r.logger.Warn("HEAD is detached and $" + r.branchEnv + " is not set, using branch " + domain.Detached)
	}
	return domain.Detached, nil
}

// persist overwrites the cache file with a live snapshot.
func (r *Resolver) persist(ctx context.Context, cachePath string, snapshot domain.Snapshot) error {
	_, span := r.tracer.Start(ctx, "persist snapshot")
	defer span.End()

	if err := r.store.Save(cachePath, snapshot); err != nil {
		span.RecordError(err)
		r.logger.Error(err)
		return err
	}
	return nil
}

// loadCache reads the cache file. Only actual snapshots are accepted.
func (r *Resolver) loadCache(ctx context.Context, cachePath string) (domain.Snapshot, bool) {
	_, span := r.tracer.Start(ctx, "load cache")
	defer span.End()

	snapshot, err := r.store.Load(cachePath)
	switch {
	case errors.Is(err, domain.ErrCacheMissing):
		r.logger.Info("No cached snapshot at " + cachePath)
		return domain.Snapshot{}, false
	case errors.Is(err, domain.ErrCacheMalformed):
		r.logger.Info("Ignoring incomplete cache file " + cachePath)
		return domain.Snapshot{}, false
	case err != nil:
		span.RecordError(err)
		r.logger.Warn("Could not read cache: " + err.Error())
		return domain.Snapshot{}, false
	}

	if !snapshot.HasActualInfo() {
		r.logger.Info("Ignoring cached snapshot without actual info in " + cachePath)
		return domain.Snapshot{}, false
	}

	return snapshot, true
}

func absolute(dir string) string {
	if dir == "" {
		dir = "."
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}
