package app

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/vcsstamp/internal/adapters/format"  //nolint:depguard // Wired in app layer
	"go.trai.ch/vcsstamp/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/vcsstamp/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Watch resolves once, then re-resolves whenever the repository's HEAD or refs change.
// Output is written again only when the snapshot fingerprint changes. Watch returns
// when ctx is cancelled.
func (a *App) Watch(ctx context.Context, opts ResolveOptions) error {
	settings, err := a.settings(opts)
	if err != nil {
		return err
	}

	f, err := format.Parse(opts.Format)
	if err != nil {
		return err
	}

	vcs := a.vcsFactory.Open(settings.GitBinary)
	root, found, err := a.locator.Locate(settings.WorkDir, vcs.Marker())
	if err != nil {
		return err
	}
	if !found {
		return zerr.With(zerr.Wrap(domain.ErrNoRepository, "watch"), "dir", settings.WorkDir)
	}

	res := a.resolveOnce(ctx, settings)
	if err := a.emit(f, res, settings, opts.Output); err != nil {
		return err
	}
	last := a.hasher.Fingerprint(res.Snapshot)

	w, err := a.newWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	g, ctx := errgroup.WithContext(ctx)

	if err := w.Start(ctx, watchPaths(filepath.Join(root, vcs.Marker()))); err != nil {
		return err
	}
	a.logger.Info("Watching " + root)

	changes := make(chan []string)
	debouncer := watcher.NewDebouncer(a.debounceWindow, func(paths []string) {
		select {
		case changes <- paths:
		case <-ctx.Done():
		}
	})
	defer debouncer.Stop()

	g.Go(func() error {
		for event := range w.Events() {
			if isRefChange(event.Path) {
				debouncer.Add(event.Path)
			}
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-changes:
				a.logger.Info("Repository changed: " + strings.Join(paths, ", "))

				res := a.resolveOnce(ctx, settings)
				fingerprint := a.hasher.Fingerprint(res.Snapshot)
				if fingerprint == last {
					continue
				}
				last = fingerprint

				if err := a.emit(f, res, settings, opts.Output); err != nil {
					return err
				}
			}
		}
	})

	return g.Wait()
}

// resolveOnce runs a resolution and reports a persistence failure without aborting.
func (a *App) resolveOnce(ctx context.Context, settings domain.Settings) domain.Resolution {
	res, err := a.newResolver(settings).Resolve(ctx, settings.WorkDir, settings.CachePath())
	if err != nil {
		a.logger.Error(zerr.Wrap(err, "failed to persist snapshot"))
	}
	return res
}

// watchPaths returns the parts of the repository that change on checkout and commit.
// A marker file (linked worktree, submodule) is followed to its gitdir, and a worktree's
// shared refs are found through its commondir.
func watchPaths(marker string) []string {
	gitDir := resolveGitDir(marker)

	candidates := []string{filepath.Join(gitDir, "HEAD"), filepath.Join(gitDir, "refs")}
	if commonDir, ok := readPointer(filepath.Join(gitDir, "commondir"), ""); ok {
		candidates = append(candidates,
			filepath.Join(commonDir, "refs"),
			filepath.Join(commonDir, "packed-refs"),
		)
	}

	var paths []string
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil && !slices.Contains(paths, path) {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		return []string{marker}
	}
	return paths
}

// resolveGitDir returns the directory holding HEAD for a repository marker.
func resolveGitDir(marker string) string {
	info, err := os.Stat(marker)
	if err != nil || info.IsDir() {
		return marker
	}
	if gitDir, ok := readPointer(marker, "gitdir:"); ok {
		return gitDir
	}
	return marker
}

// readPointer reads a one-line path file such as ".git" or "commondir".
// Relative paths resolve against the file's directory.
func readPointer(path, prefix string) (string, bool) {
	//nolint:gosec // Path is derived from the located repository
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	line, _, _ := strings.Cut(string(data), "\n")
	line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	target, ok := strings.CutPrefix(line, prefix)
	target = strings.TrimSpace(target)
	if !ok || target == "" {
		return "", false
	}

	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), true
}

// isRefChange reports whether path can affect the branch or the latest revision.
func isRefChange(path string) bool {
	if strings.HasSuffix(path, ".lock") {
		return false
	}

	switch filepath.Base(path) {
	case "HEAD", "packed-refs":
		return true
	}

	slashed := filepath.ToSlash(path)
	return strings.Contains(slashed, "/refs/") || strings.HasSuffix(slashed, "/refs")
}
