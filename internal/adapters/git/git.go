// Package git provides the git backend used for live snapshot queries.
package git

import (
	"bytes"
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/vcsstamp/internal/core/domain"
	"go.trai.ch/vcsstamp/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// Name is the backend name.
	Name = "git"
	// Marker is the entry whose presence marks a git working copy.
	// It is a directory in a regular clone and a file in linked worktrees and submodules.
	Marker = ".git"
)

var (
	_ ports.VCS        = (*Backend)(nil)
	_ ports.VCSFactory = (*Factory)(nil)
)

// fixedEnvironment keeps git output parseable and non-interactive.
var fixedEnvironment = map[string]string{
	"LC_ALL":              "C",
	"GIT_TERMINAL_PROMPT": "0",
	"GIT_OPTIONAL_LOCKS":  "0",
	"GIT_PAGER":           "cat",
}

// Backend implements ports.VCS by running the git executable.
type Backend struct {
	binary string
}

// New creates a Backend that invokes binary. An empty binary selects "git".
func New(binary string) *Backend {
	if binary == "" {
		binary = domain.DefaultGitBinary
	}
	return &Backend{binary: binary}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return Name
}

// Marker returns the repository marker.
func (b *Backend) Marker() string {
	return Marker
}

// CurrentBranch returns the abbreviated symbolic name of HEAD.
// A detached HEAD is reported as domain.DetachedMarker.
func (b *Backend) CurrentBranch(ctx context.Context, dir string) (string, error) {
	return b.run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
}

// ShortRevision returns the abbreviated hash of the latest commit.
func (b *Backend) ShortRevision(ctx context.Context, dir string) (string, error) {
	return b.run(ctx, dir, "log", "-1", "--pretty=format:%h")
}

// run executes git with args in dir and returns its trimmed stdout.
// The working directory is set on the child process only.
func (b *Backend) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmdEnv := resolveEnvironment(os.Environ(), fixedEnvironment)

	executable := b.binary
	if !filepath.IsAbs(executable) && !strings.ContainsRune(executable, filepath.Separator) {
		lp, err := lookPath(executable, cmdEnv)
		if err != nil {
			return "", errors.Join(domain.ErrToolUnavailable, zerr.With(err, "binary", b.binary))
		}
		executable = lp
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // binary is configured by the user
	if len(cmd.Args) > 0 {
		cmd.Args[0] = b.binary
	}
	cmd.Dir = dir
	cmd.Env = cmdEnv

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	command := b.binary + " " + strings.Join(args, " ")

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			return "", errors.Join(domain.ErrVCSQueryFailed, zerr.With(zerr.With(zerr.With(
				zerr.Wrap(err, "command failed"),
				"command", command),
				"exit_code", exitErr.ExitCode()),
				"stderr", strings.TrimSpace(stderr.String())))
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, iofs.ErrNotExist), errors.Is(err, iofs.ErrPermission):
			return "", errors.Join(domain.ErrToolUnavailable, zerr.With(zerr.Wrap(err, "start command"), "binary", b.binary))
		default:
			return "", errors.Join(domain.ErrVCSQueryFailed, zerr.With(zerr.Wrap(err, "command failed"), "command", command))
		}
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrEmptyQueryResult, "read output"), "command", command)
	}

	return out, nil
}

// Factory opens git backends for a configured executable.
type Factory struct{}

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Open returns a Backend that invokes tool.
func (f *Factory) Open(tool string) ports.VCS {
	return New(tool)
}

// resolveEnvironment overlays fixed variables on the system environment.
func resolveEnvironment(sysEnv []string, fixed map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(fixed))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	for k, v := range fixed {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	sawDenied := false
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		err := findExecutable(candidate)
		if err == nil {
			return candidate, nil
		}
		if errors.Is(err, iofs.ErrPermission) {
			sawDenied = true
		}
	}

	if sawDenied {
		return "", &exec.Error{Name: file, Err: iofs.ErrPermission}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return iofs.ErrPermission
}
