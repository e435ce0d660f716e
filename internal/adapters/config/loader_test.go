package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitedims/internal/adapters/config"
	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), domain.FilePerm))
}

func newLoader(t *testing.T) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	return config.NewLoader(mockLogger), mockLogger
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()

	cfg, err := loader.Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultConfig(root), cfg)
	assert.Equal(t, filepath.Join(root, ".sitedims", "cache", "asset_dimensions.json"), cfg.CachePath)
	assert.Equal(t, 3, cfg.Fetch.Attempts)
	assert.Equal(t, "ffprobe", cfg.Probe.Command)
}

func TestLoader_Load_FullFile(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, `
version: "1"
content: site/content
output: dist
static: site/static
staging: /srv/staging
cache: tmp/dims.json
offline: true
strict: true
concurrency: 2
fetch:
  attempts: 5
  timeout: 10s
probe:
  command: /opt/ffmpeg/bin/ffprobe
markdown:
  extensions: [gfm]
`)

	cfg, err := loader.Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, domain.Paths{
		Project: root,
		Content: filepath.Join(root, "site", "content"),
		Output:  filepath.Join(root, "dist"),
		Static:  filepath.Join(root, "site", "static"),
		Staging: "/srv/staging",
	}, cfg.Paths)
	assert.Equal(t, filepath.Join(root, "tmp", "dims.json"), cfg.CachePath)
	assert.True(t, cfg.Offline)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, domain.FetchConfig{Attempts: 5, Timeout: 10 * time.Second}, cfg.Fetch)
	assert.Equal(t, "/opt/ffmpeg/bin/ffprobe", cfg.Probe.Command)
	assert.Equal(t, []string{"gfm"}, cfg.Markdown.Extensions)
}

func TestLoader_Load_DiscoversParentConfig(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "output: out\n")
	nested := filepath.Join(root, "content", "posts")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	cfg, err := loader.Load(nested, "")
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Paths.Project)
	assert.Equal(t, filepath.Join(root, "out"), cfg.Paths.Output)
}

func TestLoader_Load_ZeroAttemptsKept(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "fetch:\n  attempts: 0\n")

	cfg, err := loader.Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Fetch.Attempts)
}

func TestLoader_Load_EmptyFile(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "")

	cfg, err := loader.Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultConfig(root), cfg)
}

func TestLoader_Load_ExplicitFile(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	sub := filepath.Join(root, "conf")
	require.NoError(t, os.MkdirAll(sub, domain.DirPerm))
	createFile(t, sub, "prod.yaml", "root: ..\noffline: true\n")

	cfg, err := loader.Load(root, filepath.Join("conf", "prod.yaml"))
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Paths.Project)
	assert.True(t, cfg.Offline)
}

func TestLoader_Load_UnknownVersionWarns(t *testing.T) {
	loader, mockLogger := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "version: \"2\"\n")

	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	_, err := loader.Load(root, "")
	require.NoError(t, err)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		file    string
		wantErr error
	}{
		{
			name:    "missing explicit file",
			file:    "nope.yaml",
			wantErr: domain.ErrConfigReadFailed,
		},
		{
			name:    "malformed yaml",
			content: "offline: [unterminated\n",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "unknown key",
			content: "ofline: true\n",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "bad timeout",
			content: "fetch:\n  timeout: soon\n",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "zero concurrency",
			content: "concurrency: 0\n",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "negative attempts",
			content: "fetch:\n  attempts: -1\n",
			wantErr: domain.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newLoader(t)
			root := t.TempDir()
			if tt.content != "" {
				createFile(t, root, domain.ConfigFileName, tt.content)
			}

			_, err := loader.Load(root, tt.file)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
