// Package app implements the application layer for vcsstamp.
package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/vcsstamp/internal/adapters/format"  //nolint:depguard // Wired in app layer
	"go.trai.ch/vcsstamp/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/vcsstamp/internal/core/domain"
	"go.trai.ch/vcsstamp/internal/core/ports"
	"go.trai.ch/vcsstamp/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	vcsFactory   ports.VCSFactory
	locator      ports.RepositoryLocator
	store        ports.SnapshotStore
	hasher       ports.Hasher
	logger       ports.Logger
	tracer       ports.Tracer
	newWatcher   watcher.Factory

	stdout         io.Writer
	lookupEnv      func(string) (string, bool)
	debounceWindow time.Duration
}

// ResolveOptions carries the per-invocation overrides of the loaded settings.
// Empty strings leave the configured value untouched.
type ResolveOptions struct {
	Dir            string
	CacheFile      string
	BranchEnv      *string
	DetachedPolicy string
	GitBinary      string
	Format         string
	Output         string
	HeaderPrefix   string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	vcsFactory ports.VCSFactory,
	locator ports.RepositoryLocator,
	store ports.SnapshotStore,
	hasher ports.Hasher,
	logger ports.Logger,
	tracer ports.Tracer,
	newWatcher watcher.Factory,
) *App {
	return &App{
		configLoader:   loader,
		vcsFactory:     vcsFactory,
		locator:        locator,
		store:          store,
		hasher:         hasher,
		logger:         logger,
		tracer:         tracer,
		newWatcher:     newWatcher,
		stdout:         os.Stdout,
		lookupEnv:      os.LookupEnv,
		debounceWindow: watcher.DefaultDebounceWindow,
	}
}

// WithStdout sets the writer used for formatted output when no output file is given.
func (a *App) WithStdout(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithLookupEnv replaces os.LookupEnv for the branch override.
func (a *App) WithLookupEnv(lookup func(string) (string, bool)) *App {
	a.lookupEnv = lookup
	return a
}

// WithDebounceWindow sets how long watch waits for a burst of repository events to settle.
func (a *App) WithDebounceWindow(window time.Duration) *App {
	a.debounceWindow = window
	return a
}

// Resolve determines the snapshot for the work dir and writes it in the requested format.
// The output is written even when the cache could not be persisted; that failure is returned afterwards.
func (a *App) Resolve(ctx context.Context, opts ResolveOptions) error {
	settings, err := a.settings(opts)
	if err != nil {
		return err
	}

	f, err := format.Parse(opts.Format)
	if err != nil {
		return err
	}

	res, resolveErr := a.newResolver(settings).Resolve(ctx, settings.WorkDir, settings.CachePath())

	if err := a.emit(f, res, settings, opts.Output); err != nil {
		return err
	}

	if resolveErr != nil {
		return zerr.Wrap(resolveErr, "failed to persist snapshot")
	}
	return nil
}

// Show writes the cached snapshot without querying the VCS.
// A missing or unusable cache yields the sentinel snapshot.
func (a *App) Show(_ context.Context, opts ResolveOptions) error {
	settings, err := a.settings(opts)
	if err != nil {
		return err
	}

	f, err := format.Parse(opts.Format)
	if err != nil {
		return err
	}

	cachePath := settings.CachePath()
	res := domain.Resolution{
		Snapshot:  domain.UndefinedSnapshot(),
		Source:    domain.SourceSentinel,
		CachePath: cachePath,
	}

	snapshot, err := a.store.Load(cachePath)
	switch {
	case err == nil && snapshot.HasActualInfo():
		res.Snapshot = snapshot
		res.Source = domain.SourceCache
	case err == nil:
		a.logger.Warn("Cache " + cachePath + " holds no VCS info, using " + domain.Undefined)
	case errors.Is(err, domain.ErrCacheMissing), errors.Is(err, domain.ErrCacheMalformed):
		a.logger.Warn("No usable cache at " + cachePath + ", using " + domain.Undefined)
	default:
		a.logger.Error(zerr.Wrap(err, "cache unavailable, using "+domain.Undefined))
	}

	return a.emit(f, res, settings, opts.Output)
}

// Clean deletes the cache file.
func (a *App) Clean(_ context.Context, opts ResolveOptions) error {
	settings, err := a.settings(opts)
	if err != nil {
		return err
	}

	cachePath := settings.CachePath()
	if err := a.store.Remove(cachePath); err != nil {
		return err
	}

	a.logger.Info("Removed " + cachePath)
	return nil
}

// settings loads the configuration for the work dir and applies opts on top.
func (a *App) settings(opts ResolveOptions) (domain.Settings, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	workDir, err := filepath.Abs(dir)
	if err != nil {
		return domain.Settings{}, zerr.With(zerr.Wrap(domain.ErrInvalidWorkDir, err.Error()), "dir", dir)
	}

	info, err := os.Stat(workDir)
	if err != nil {
		return domain.Settings{}, errors.Join(domain.ErrInvalidWorkDir, zerr.With(zerr.Wrap(err, "stat work dir"), "dir", workDir))
	}
	if !info.IsDir() {
		return domain.Settings{}, zerr.With(zerr.Wrap(domain.ErrInvalidWorkDir, "stat work dir"), "dir", workDir)
	}

	settings, err := a.configLoader.Load(workDir)
	if err != nil {
		return domain.Settings{}, zerr.Wrap(err, "failed to load configuration")
	}
	settings.WorkDir = workDir

	if opts.CacheFile != "" {
		settings.CacheFile = opts.CacheFile
	}
	if opts.BranchEnv != nil {
		settings.BranchEnv = *opts.BranchEnv
	}
	if opts.DetachedPolicy != "" {
		policy, err := domain.ParseDetachedPolicy(opts.DetachedPolicy)
		if err != nil {
			return domain.Settings{}, err
		}
		settings.DetachedPolicy = policy
	}
	if opts.GitBinary != "" {
		settings.GitBinary = opts.GitBinary
	}
	if opts.HeaderPrefix != "" {
		settings.HeaderPrefix = opts.HeaderPrefix
	}

	return settings, nil
}

func (a *App) newResolver(settings domain.Settings) *resolver.Resolver {
	return resolver.New(
		a.vcsFactory.Open(settings.GitBinary),
		a.locator,
		a.store,
		a.logger,
		a.tracer,
		resolver.WithBranchEnv(settings.BranchEnv),
		resolver.WithDetachedPolicy(settings.DetachedPolicy),
		resolver.WithLookupEnv(a.lookupEnv),
	)
}

// emit renders res and writes it to stdout, or to output when set.
// An output file whose content is already up to date is left untouched so build tools do not rebuild.
func (a *App) emit(f format.Format, res domain.Resolution, settings domain.Settings, output string) error {
	report := format.Report{
		Resolution:   res,
		Fingerprint:  a.hasher.Fingerprint(res.Snapshot),
		HeaderPrefix: settings.HeaderPrefix,
	}
	if output == "" {
		return format.Write(a.stdout, f, report)
	}

	data, err := format.Render(f, report)
	if err != nil {
		return err
	}

	if !filepath.IsAbs(output) {
		output = filepath.Join(settings.WorkDir, output)
	}

	//nolint:gosec // Path is provided by the user
	if current, err := os.ReadFile(output); err == nil && bytes.Equal(current, data) {
		a.logger.Info("Output " + output + " is up to date")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(output), domain.DirPerm); err != nil {
		return errors.Join(domain.ErrOutputWriteFailed, zerr.With(zerr.Wrap(err, "create output directory"), "path", output))
	}
	if err := os.WriteFile(output, data, domain.FilePerm); err != nil {
		return errors.Join(domain.ErrOutputWriteFailed, zerr.With(zerr.Wrap(err, "write output"), "path", output))
	}

	a.logger.Info("Wrote " + output)
	return nil
}
