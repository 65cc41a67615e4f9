package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vcsstamp/internal/adapters/config"
	"go.trai.ch/vcsstamp/internal/core/domain"
	"go.trai.ch/vcsstamp/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), domain.FilePerm))
}

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func TestLoader_Load_NoConfig(t *testing.T) {
	dir := t.TempDir()

	settings, err := newLoader(t).Load(dir)

	require.NoError(t, err)
	want := domain.DefaultSettings()
	want.WorkDir = dir
	assert.Equal(t, want, settings)
}

func TestLoader_Load_AllFields(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, domain.ConfigFileName, `
version: "1"
cache_file: build/vcs_data
branch_env: CI_COMMIT_BRANCH
detached_policy: fallback
git: /opt/git/bin/git
header_prefix: XOBJ
`)

	settings, err := newLoader(t).Load(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, settings.WorkDir)
	assert.Equal(t, filepath.Join(dir, "build", "vcs_data"), settings.CacheFile)
	assert.Equal(t, "CI_COMMIT_BRANCH", settings.BranchEnv)
	assert.Equal(t, domain.DetachedFallback, settings.DetachedPolicy)
	assert.Equal(t, "/opt/git/bin/git", settings.GitBinary)
	assert.Equal(t, "XOBJ", settings.HeaderPrefix)
}

func TestLoader_Load_PartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, domain.ConfigFileName, "branch_env: BUILD_BRANCH\n")

	settings, err := newLoader(t).Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "BUILD_BRANCH", settings.BranchEnv)
	assert.Equal(t, domain.DefaultCacheFileName, settings.CacheFile)
	assert.Equal(t, domain.DetachedLabel, settings.DetachedPolicy)
	assert.Equal(t, domain.DefaultGitBinary, settings.GitBinary)
}

func TestLoader_Load_BranchEnv(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "absent keeps default", content: "git: git\n", want: domain.DefaultBranchEnv},
		{name: "null keeps default", content: "branch_env:\n", want: domain.DefaultBranchEnv},
		{name: "empty disables override", content: "branch_env: \"\"\n", want: ""},
		{name: "named variable", content: "branch_env: CI_BRANCH\n", want: "CI_BRANCH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			createFile(t, dir, domain.ConfigFileName, tt.content)

			settings, err := newLoader(t).Load(dir)

			require.NoError(t, err)
			assert.Equal(t, tt.want, settings.BranchEnv)
		})
	}
}

func TestLoader_Load_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, domain.ConfigFileName, "")

	settings, err := newLoader(t).Load(dir)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCacheFileName, settings.CacheFile)
}

func TestLoader_Load_DiscoversAncestor(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "libs", "xobj", "src")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))
	createFile(t, root, domain.ConfigFileName, "cache_file: vcs_data\n")

	settings, err := newLoader(t).Load(nested)

	require.NoError(t, err)
	assert.Equal(t, nested, settings.WorkDir)
	// Relative cache files are anchored at the config file, not the work dir.
	assert.Equal(t, filepath.Join(root, "vcs_data"), settings.CacheFile)
	assert.Equal(t, filepath.Join(root, "vcs_data"), settings.CachePath())
}

func TestLoader_Load_NearestWins(t *testing.T) {
	root := t.TempDir()
	inner := filepath.Join(root, "inner")
	createFile(t, root, domain.ConfigFileName, "header_prefix: OUTER\n")
	createFile(t, inner, domain.ConfigFileName, "header_prefix: INNER\n")

	settings, err := newLoader(t).Load(inner)

	require.NoError(t, err)
	assert.Equal(t, "INNER", settings.HeaderPrefix)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "invalid yaml", content: "cache_file: [unterminated\n", wantErr: domain.ErrConfigParseFailed},
		{name: "unknown field", content: "cache_dir: build\n", wantErr: domain.ErrConfigParseFailed},
		{name: "invalid policy", content: "detached_policy: guess\n", wantErr: domain.ErrInvalidDetachedPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			createFile(t, dir, domain.ConfigFileName, tt.content)

			_, err := newLoader(t).Load(dir)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoader_Load_UnknownVersionWarns(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, domain.ConfigFileName, "version: \"2\"\n")

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	_, err := config.NewLoader(mockLogger).Load(dir)

	require.NoError(t, err)
}
