package resolver_test

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vcsstamp/internal/adapters/cache"
	"go.trai.ch/vcsstamp/internal/core/domain"
	"go.trai.ch/vcsstamp/internal/core/ports"
	"go.trai.ch/vcsstamp/internal/core/ports/mocks"
	"go.trai.ch/vcsstamp/internal/engine/resolver"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var (
	workDir   = filepath.FromSlash("/work/repo/src")
	repoRoot  = filepath.FromSlash("/work/repo")
	cachePath = filepath.FromSlash("/work/repo/src/vcs_data")
)

type resolverTestMocks struct {
	vcs     *mocks.MockVCS
	locator *mocks.MockRepositoryLocator
	store   *mocks.MockSnapshotStore
	logger  *mocks.MockLogger
	tracer  *mocks.MockTracer
}

// setupResolverTest creates mocks with permissive logging and tracing.
func setupResolverTest(t *testing.T) resolverTestMocks {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := resolverTestMocks{
		vcs:     mocks.NewMockVCS(ctrl),
		locator: mocks.NewMockRepositoryLocator(ctrl),
		store:   mocks.NewMockSnapshotStore(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
		tracer:  mocks.NewMockTracer(ctrl),
	}

	mockSpan := mocks.NewMockSpan(ctrl)
	mockSpan.EXPECT().End().AnyTimes()
	mockSpan.EXPECT().RecordError(gomock.Any()).AnyTimes()
	mockSpan.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	m.tracer.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, mockSpan
		},
	).AnyTimes()

	m.vcs.EXPECT().Name().Return("git").AnyTimes()
	m.vcs.EXPECT().Marker().Return(".git").AnyTimes()

	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	return m
}

func (m resolverTestMocks) newResolver(env map[string]string, opts ...resolver.Option) *resolver.Resolver {
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	opts = append([]resolver.Option{resolver.WithLookupEnv(lookup)}, opts...)
	return resolver.New(m.vcs, m.locator, m.store, m.logger, m.tracer, opts...)
}

func TestResolve_LiveSuccessPersists(t *testing.T) {
	m := setupResolverTest(t)
	want := domain.NewSnapshot("main", "abc1234")

	gomock.InOrder(
		m.locator.EXPECT().Locate(workDir, ".git").Return(repoRoot, true, nil),
		m.vcs.EXPECT().CurrentBranch(gomock.Any(), workDir).Return("main", nil),
		m.vcs.EXPECT().ShortRevision(gomock.Any(), workDir).Return("abc1234", nil),
		m.store.EXPECT().Save(cachePath, want).Return(nil),
	)

	res, err := m.newResolver(nil).Resolve(context.Background(), workDir, "vcs_data")

	require.NoError(t, err)
	assert.Equal(t, want, res.Snapshot)
	assert.Equal(t, domain.SourceLive, res.Source)
	assert.Equal(t, repoRoot, res.RepositoryRoot)
	assert.Equal(t, cachePath, res.CachePath)
	assert.True(t, res.HasActualInfo())
}

func TestResolve_NoRepositoryNeverQueriesVCS(t *testing.T) {
	m := setupResolverTest(t)

	m.locator.EXPECT().Locate(workDir, ".git").Return("", false, nil)
	m.vcs.EXPECT().CurrentBranch(gomock.Any(), gomock.Any()).Times(0)
	m.vcs.EXPECT().ShortRevision(gomock.Any(), gomock.Any()).Times(0)
	m.store.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)
	m.store.EXPECT().Load(cachePath).Return(domain.Snapshot{}, errors.Join(domain.ErrCacheMissing, zerr.New("stat")))

	res, err := m.newResolver(nil).Resolve(context.Background(), workDir, cachePath)

	require.NoError(t, err)
	assert.Equal(t, domain.UndefinedSnapshot(), res.Snapshot)
	assert.Equal(t, domain.SourceSentinel, res.Source)
	assert.Empty(t, res.RepositoryRoot)
	assert.False(t, res.HasActualInfo())
}

func TestResolve_NoRepositoryUsesCache(t *testing.T) {
	m := setupResolverTest(t)
	cached := domain.NewSnapshot("main", "abc1234")

	m.locator.EXPECT().Locate(workDir, ".git").Return("", false, nil)
	m.store.EXPECT().Load(cachePath).Return(cached, nil)
	m.store.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	res, err := m.newResolver(nil).Resolve(context.Background(), workDir, cachePath)

	require.NoError(t, err)
	assert.Equal(t, cached, res.Snapshot)
	assert.Equal(t, domain.SourceCache, res.Source)
	assert.True(t, res.HasActualInfo())
}

func TestResolve_DetachedUsesBranchEnv(t *testing.T) {
	m := setupResolverTest(t)
	want := domain.NewSnapshot("feature-x", "abc1234")

	m.locator.EXPECT().Locate(workDir, ".git").Return(repoRoot, true, nil)
	m.vcs.EXPECT().CurrentBranch(gomock.Any(), workDir).Return(domain.DetachedMarker, nil)
	m.vcs.EXPECT().ShortRevision(gomock.Any(), workDir).Return("abc1234", nil)
	m.store.EXPECT().Save(cachePath, want).Return(nil)

	env := map[string]string{"GIT_BRANCH": "feature-x"}
	res, err := m.newResolver(env).Resolve(context.Background(), workDir, cachePath)

	require.NoError(t, err)
	assert.Equal(t, want, res.Snapshot)
	assert.Equal(t, domain.SourceLive, res.Source)
}

func TestResolve_DetachedCustomBranchEnv(t *testing.T) {
	m := setupResolverTest(t)
	want := domain.NewSnapshot("release/2.0", "abc1234")

	m.locator.EXPECT().Locate(workDir, ".git").Return(repoRoot, true, nil)
	m.vcs.EXPECT().CurrentBranch(gomock.Any(), workDir).Return(domain.DetachedMarker, nil)
	m.vcs.EXPECT().ShortRevision(gomock.Any(), workDir).Return("abc1234", nil)
	m.store.EXPECT().Save(cachePath, want).Return(nil)

	env := map[string]string{"GIT_BRANCH": "ignored", "CI_COMMIT_BRANCH": "release/2.0"}
	res, err := m.newResolver(env, resolver.WithBranchEnv("CI_COMMIT_BRANCH")).
		Resolve(context.Background(), workDir, cachePath)

	require.NoError(t, err)
	assert.Equal(t, want, res.Snapshot)
}

func TestResolve_DetachedMultiLineBranchEnvIgnored(t *testing.T) {
	for _, value := range []string{"feature\nx", "feature\r\nx", "feature\r"} {
		t.Run(strconv.Quote(value), func(t *testing.T) {
			m := setupResolverTest(t)
			want := domain.NewSnapshot(domain.Detached, "abc1234")

			var saved domain.Snapshot
			m.locator.EXPECT().Locate(workDir, ".git").Return(repoRoot, true, nil)
			m.vcs.EXPECT().CurrentBranch(gomock.Any(), workDir).Return(domain.DetachedMarker, nil)
			m.vcs.EXPECT().ShortRevision(gomock.Any(), workDir).Return("abc1234", nil)
			m.store.EXPECT().Save(cachePath, gomock.Any()).DoAndReturn(func(_ string, s domain.Snapshot) error {
				saved = s
				return nil
			})

			env := map[string]string{"GIT_BRANCH": value}
			res, err := m.newResolver(env).Resolve(context.Background(), workDir, cachePath)

			require.NoError(t, err)
			assert.Equal(t, want, res.Snapshot)

			reloaded, err := cache.Decode(cache.Encode(saved), cachePath)
			require.NoError(t, err)
			assert.Equal(t, res.Snapshot, reloaded)
		})
	}
}

func TestResolve_DetachedMultiLineBranchEnvWithFallbackPolicy(t *testing.T) {
	m := setupResolverTest(t)
	cached := domain.NewSnapshot("main", "1111111")

	m.locator.EXPECT().Locate(workDir, ".git").Return(repoRoot, true, nil)
	m.vcs.EXPECT().CurrentBranch(gomock.Any(), workDir).Return(domain.DetachedMarker, nil)
	m.store.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)
	m.store.EXPECT().Load(cachePath).Return(cached, nil)

	env := map[string]string{"GIT_BRANCH": "feature\nx"}
	res, err := m.newResolver(env, resolver.WithDetachedPolicy(domain.DetachedFallback)).
		Resolve(context.Background(), workDir, cachePath)

	require.NoError(t, err)
	assert.Equal(t, cached, res.Snapshot)
	assert.Equal(t, domain.SourceCache, res.Source)
}

func TestResolve_DetachedLabelPolicy(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "env unset", env: nil},
		{name: "env empty", env: map[string]string{"GIT_BRANCH": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupResolverTest(t)
			want := domain.NewSnapshot(domain.Detached, "abc1234")

			m.locator.EXPECT().Locate(workDir, ".git").Return(repoRoot, true, nil)
			m.vcs.EXPECT().CurrentBranch(gomock.Any(), workDir).Return(domain.DetachedMarker, nil)
			m.vcs.EXPECT().ShortRevision(gomock.Any(), workDir).Return("abc1234", nil)
			m.store.EXPECT().Save(cachePath, want).Return(nil)

			res, err := m.newResolver(tt.env).Resolve(context.Background(), workDir, cachePath)

			require.NoError(t, err)
			assert.Equal(t, want, res.Snapshot)
			assert.True(t, res.HasActualInfo())
		})
	}
}

func TestResolve_DetachedFallbackPolicy(t *testing.T) {
	t.Run("falls back to cache", func(t *testing.T) {
		m := setupResolverTest(t)
		cached := domain.NewSnapshot("main", "1111111")

		m.locator.EXPECT().Locate(workDir, ".git").Return(repoRoot, true, nil)
		m.vcs.EXPECT().CurrentBranch(gomock.Any(), workDir).Return(domain.DetachedMarker, nil)
		m.vcs.EXPECT().ShortRevision(gomock.Any(), gomock.Any()).Times(0)
		m.store.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)
		m.store.EXPECT().Load(cachePath).Return(cached, nil)

		res, err := m.newResolver(nil, resolver.WithDetachedPolicy(domain.DetachedFallback)).
			Resolve(context.Background(), workDir, cachePath)

		require.NoError(t, err)
		assert.Equal(t, cached, res.Snapshot)
		assert.Equal(t, domain.SourceCache, res.Source)
		assert.Equal(t, repoRoot, res.RepositoryRoot)
	})

	t.Run("falls back to sentinel", func(t *testing.T) {
		m := setupResolverTest(t)

		m.locator.EXPECT().Locate(workDir, ".git").Return(repoRoot, true, nil)
		m.vcs.EXPECT().CurrentBranch(gomock.Any(), workDir).Return(domain.DetachedMarker, nil)
		m.store.EXPECT().Load(cachePath).Return(domain.Snapshot{}, errors.Join(domain.ErrCacheMissing, zerr.New("stat")))

		res, err := m.newResolver(nil, resolver.WithDetachedPolicy(domain.DetachedFallback)).
			Resolve(context.Background(), workDir, cachePath)

		require.NoError(t, err)
		assert.Equal(t, domain.UndefinedSnapshot(), res.Snapshot)
		assert.Equal(t, domain.SourceSentinel, res.Source)
	})
}

func TestResolve_LiveFailureFallsBackToCache(t *testing.T) {
	failures := []struct {
		name     string
		branch   error
		revision error
	}{
		{name: "tool unavailable", branch: errors.Join(domain.ErrToolUnavailable, zerr.New("exec: not found"))},
		{name: "non-zero exit", branch: errors.Join(domain.ErrVCSQueryFailed, zerr.New("exit status 128"))},
		{name: "revision empty", revision: zerr.Wrap(domain.ErrEmptyQueryResult, "read output")},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			m := setupResolverTest(t)
			cached := domain.NewSnapshot("develop", "7654321")

			m.locator.EXPECT().Locate(workDir, ".git").Return(repoRoot, true, nil)
			if tt.branch != nil {
				m.vcs.EXPECT().CurrentBranch(gomock.Any(), workDir).Return("", tt.branch)
			} else {
				m.vcs.EXPECT().CurrentBranch(gomock.Any(), workDir).Return("main", nil)
				m.vcs.EXPECT().ShortRevision(gomock.Any(), workDir).Return("", tt.revision)
			}
			m.store.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)
			m.store.EXPECT().Load(cachePath).Return(cached, nil)

			res, err := m.newResolver(nil).Resolve(context.Background(), workDir, cachePath)

			require.NoError(t, err)
			assert.Equal(t, cached, res.Snapshot)
			assert.Equal(t, domain.SourceCache, res.Source)
		})
	}
}

func TestResolve_LiveFailureIsLoggedAsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := setupResolverTest(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrToolUnavailable)
	}).Times(1)

	m.locator.EXPECT().Locate(workDir, ".git").Return(repoRoot, true, nil)
	m.vcs.EXPECT().CurrentBranch(gomock.Any(), workDir).Return("", errors.Join(domain.ErrToolUnavailable, zerr.New("missing")))
	m.store.EXPECT().Load(cachePath).Return(domain.Snapshot{}, errors.Join(domain.ErrCacheMissing, zerr.New("stat")))

	r := resolver.New(m.vcs, m.locator, m.store, logger, m.tracer)
	res, err := r.Resolve(context.Background(), workDir, cachePath)

	require.NoError(t, err)
	assert.Equal(t, domain.UndefinedSnapshot(), res.Snapshot)
}

func TestResolve_CacheWithoutActualInfo(t *testing.T) {
	tests := []struct {
		name   string
		cached domain.Snapshot
		err    error
	}{
		{name: "sentinel in cache", cached: domain.UndefinedSnapshot()},
		{name: "blank branch", cached: domain.NewSnapshot("", "abc1234")},
		{name: "blank revision", cached: domain.NewSnapshot("main", "")},
		{name: "malformed", err: zerr.Wrap(domain.ErrCacheMalformed, "decode cache")},
		{name: "unreadable", err: errors.Join(domain.ErrCacheReadFailed, zerr.New("permission denied"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupResolverTest(t)

			m.locator.EXPECT().Locate(workDir, ".git").Return("", false, nil)
			m.store.EXPECT().Load(cachePath).Return(tt.cached, tt.err)

			res, err := m.newResolver(nil).Resolve(context.Background(), workDir, cachePath)

			require.NoError(t, err)
			assert.Equal(t, domain.UndefinedSnapshot(), res.Snapshot)
			assert.Equal(t, domain.SourceSentinel, res.Source)
		})
	}
}

func TestResolve_SearchErrorTreatedAsNoRepository(t *testing.T) {
	m := setupResolverTest(t)
	cached := domain.NewSnapshot("main", "abc1234")

	m.locator.EXPECT().Locate(workDir, ".git").
		Return("", false, errors.Join(domain.ErrRepositorySearchFailed, zerr.New("permission denied")))
	m.vcs.EXPECT().CurrentBranch(gomock.Any(), gomock.Any()).Times(0)
	m.store.EXPECT().Load(cachePath).Return(cached, nil)

	res, err := m.newResolver(nil).Resolve(context.Background(), workDir, cachePath)

	require.NoError(t, err)
	assert.Equal(t, cached, res.Snapshot)
	assert.Equal(t, domain.SourceCache, res.Source)
}

func TestResolve_CacheWriteFailure(t *testing.T) {
	m := setupResolverTest(t)
	want := domain.NewSnapshot("main", "abc1234")
	writeErr := errors.Join(domain.ErrCacheWriteFailed, zerr.New("read-only file system"))

	m.locator.EXPECT().Locate(workDir, ".git").Return(repoRoot, true, nil)
	m.vcs.EXPECT().CurrentBranch(gomock.Any(), workDir).Return("main", nil)
	m.vcs.EXPECT().ShortRevision(gomock.Any(), workDir).Return("abc1234", nil)
	m.store.EXPECT().Save(cachePath, want).Return(writeErr)

	res, err := m.newResolver(nil).Resolve(context.Background(), workDir, cachePath)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCacheWriteFailed)
	assert.Equal(t, want, res.Snapshot)
	assert.Equal(t, domain.SourceLive, res.Source)
}

func TestResolve_AbsoluteCachePathKept(t *testing.T) {
	m := setupResolverTest(t)
	shared := filepath.FromSlash("/shared/cache/vcs_data")

	m.locator.EXPECT().Locate(workDir, ".git").Return("", false, nil)
	m.store.EXPECT().Load(shared).Return(domain.NewSnapshot("main", "abc1234"), nil)

	res, err := m.newResolver(nil).Resolve(context.Background(), workDir, shared)

	require.NoError(t, err)
	assert.Equal(t, shared, res.CachePath)
}

func TestResolve_RelativeWorkDirIsMadeAbsolute(t *testing.T) {
	m := setupResolverTest(t)

	wd, err := filepath.Abs(".")
	require.NoError(t, err)

	m.locator.EXPECT().Locate(wd, ".git").Return("", false, nil)
	m.store.EXPECT().Load(filepath.Join(wd, "vcs_data")).Return(domain.NewSnapshot("main", "abc1234"), nil)

	res, err := m.newResolver(nil).Resolve(context.Background(), ".", "vcs_data")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "vcs_data"), res.CachePath)
}
