package fs_test

import (
	iofs "io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vcsstamp/internal/adapters/fs"
	"go.trai.ch/vcsstamp/internal/core/domain"
)

func TestLocator_Locate(t *testing.T) {
	root := filepath.FromSlash("/work")

	tests := []struct {
		name     string
		files    fstest.MapFS
		dir      string
		wantRoot string
		wantOK   bool
	}{
		{
			name: "marker in start dir",
			files: fstest.MapFS{
				"repo/.git/HEAD": &fstest.MapFile{Data: []byte("ref: refs/heads/main\n")},
			},
			dir:      "repo",
			wantRoot: "repo",
			wantOK:   true,
		},
		{
			name: "marker in ancestor",
			files: fstest.MapFS{
				"repo/.git/HEAD":  &fstest.MapFile{Data: []byte("ref: refs/heads/main\n")},
				"repo/src/a/b/c":  &fstest.MapFile{Mode: iofs.ModeDir},
				"repo/src/main.c": &fstest.MapFile{Data: []byte("int main(){}")},
			},
			dir:      "repo/src/a/b/c",
			wantRoot: "repo",
			wantOK:   true,
		},
		{
			name: "marker is a file",
			files: fstest.MapFS{
				"worktree/.git":  &fstest.MapFile{Data: []byte("gitdir: /elsewhere\n")},
				"worktree/inner": &fstest.MapFile{Mode: iofs.ModeDir},
			},
			dir:      "worktree/inner",
			wantRoot: "worktree",
			wantOK:   true,
		},
		{
			name: "nearest marker wins",
			files: fstest.MapFS{
				"outer/.git/HEAD":            &fstest.MapFile{Data: []byte("x")},
				"outer/vendor/lib/.git/HEAD": &fstest.MapFile{Data: []byte("y")},
				"outer/vendor/lib/src":       &fstest.MapFile{Mode: iofs.ModeDir},
			},
			dir:      "outer/vendor/lib/src",
			wantRoot: "outer/vendor/lib",
			wantOK:   true,
		},
		{
			name: "no marker in ancestry",
			files: fstest.MapFS{
				"export/src/main.c": &fstest.MapFile{Data: []byte("int main(){}")},
			},
			dir:    "export/src",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locator := fs.NewLocator(fs.NewMapFSAdapter(root, tt.files))

			got, ok, err := locator.Locate(filepath.Join(root, tt.dir), ".git")

			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, filepath.Join(root, tt.wantRoot), got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

type deniedFS struct{}

func (deniedFS) Stat(path string) (iofs.FileInfo, error) {
	return nil, &iofs.PathError{Op: "stat", Path: path, Err: iofs.ErrPermission}
}

func TestLocator_Locate_StatError(t *testing.T) {
	locator := fs.NewLocator(deniedFS{})

	_, ok, err := locator.Locate(filepath.FromSlash("/work/repo"), ".git")

	require.Error(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrRepositorySearchFailed)
	assert.ErrorIs(t, err, iofs.ErrPermission)
}

func TestLocator_Locate_OSFS(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	require.NoError(t, mkdirAll(nested))
	require.NoError(t, mkdirAll(filepath.Join(tmpDir, ".git")))

	got, ok, err := fs.NewLocator(fs.NewOSFS()).Locate(nested, ".git")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, tmpDir, got)
}
