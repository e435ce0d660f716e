package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/sitedims/internal/adapters/fs"
	"go.trai.ch/sitedims/internal/core/domain"
)

func testPaths() domain.Paths {
	root := filepath.FromSlash("/site")
	return domain.Paths{
		Project: root,
		Content: filepath.Join(root, "content"),
		Output:  filepath.Join(root, "public"),
		Static:  filepath.Join(root, "static"),
		Staging: filepath.Join(root, "website_content"),
	}
}

func TestResolver_Resolve(t *testing.T) {
	resolver := fs.NewResolver(testPaths(), false)

	tests := []struct {
		name     string
		raw      string
		kind     domain.SourceKind
		location string
	}{
		{
			name:     "https",
			raw:      "https://cdn.example/img.png",
			kind:     domain.SourceRemote,
			location: "https://cdn.example/img.png",
		},
		{
			name:     "http keeps query",
			raw:      "http://cdn.example/img.png?w=200",
			kind:     domain.SourceRemote,
			location: "http://cdn.example/img.png?w=200",
		},
		{
			name:     "protocol relative",
			raw:      "//cdn.example/img.png",
			kind:     domain.SourceRemote,
			location: "https://cdn.example/img.png",
		},
		{
			name:     "file scheme",
			raw:      "file:///var/media/clip.mp4",
			kind:     domain.SourceLocalAbsolute,
			location: "/var/media/clip.mp4",
		},
		{
			name:     "root relative goes to static",
			raw:      "/images/logo.svg",
			kind:     domain.SourceLocalAbsolute,
			location: "/site/static/images/logo.svg",
		},
		{
			name:     "bare relative goes to content",
			raw:      "posts/diagram.png",
			kind:     domain.SourceLocalRelative,
			location: "/site/content/posts/diagram.png",
		},
		{
			name:     "query and fragment dropped for local paths",
			raw:      "diagram.png?v=2#top",
			kind:     domain.SourceLocalRelative,
			location: "/site/content/diagram.png",
		},
		{
			name:     "percent decoded",
			raw:      "/images/my%20photo.jpg",
			kind:     domain.SourceLocalAbsolute,
			location: "/site/static/images/my photo.jpg",
		},
		{
			name:     "invalid escape kept verbatim",
			raw:      "bad%zzname.png",
			kind:     domain.SourceLocalRelative,
			location: "/site/content/bad%zzname.png",
		},
		{
			name:     "staging segment anywhere in the path",
			raw:      "/static/asset_staging/x.png",
			kind:     domain.SourceLocalAbsolute,
			location: "/site/website_content/asset_staging/x.png",
		},
		{
			name:     "file scheme without leading slash",
			raw:      "file://rel.png",
			kind:     domain.SourceLocalAbsolute,
			location: "/rel.png",
		},
		{
			name:     "staging cannot be escaped",
			raw:      "/asset_staging/../../../etc/passwd",
			kind:     domain.SourceLocalAbsolute,
			location: "/site/website_content/etc/passwd",
		},
		{
			name:     "static cannot be escaped",
			raw:      "/../../etc/passwd",
			kind:     domain.SourceLocalAbsolute,
			location: "/site/static/etc/passwd",
		},
		{
			name:     "content cannot be escaped",
			raw:      "../../secret.png",
			kind:     domain.SourceLocalRelative,
			location: "/site/content/secret.png",
		},
		{
			name:     "surrounding whitespace",
			raw:      "  /images/logo.svg\n",
			kind:     domain.SourceLocalAbsolute,
			location: "/site/static/images/logo.svg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve(tt.raw)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, filepath.FromSlash(tt.location), got.Location)
			assert.Equal(t, tt.raw, got.Raw)
			assert.False(t, got.Skip)
		})
	}
}

func TestResolver_StagingSpellingsAgree(t *testing.T) {
	resolver := fs.NewResolver(testPaths(), false)
	want := filepath.FromSlash("/site/website_content/asset_staging/x.png")

	for _, raw := range []string{
		"../asset_staging/x.png",
		"/asset_staging/x.png",
		"asset_staging/x.png",
		"../../asset_staging/x.png",
		"./asset_staging/x.png",
	} {
		t.Run(raw, func(t *testing.T) {
			got := resolver.Resolve(raw)
			assert.Equal(t, domain.SourceLocalAbsolute, got.Kind)
			assert.Equal(t, want, got.Location)
			assert.Equal(t, want, got.Key())
		})
	}
}

func TestResolver_Offline(t *testing.T) {
	resolver := fs.NewResolver(testPaths(), true)

	remote := resolver.Resolve("https://cdn.example/img.png")
	assert.True(t, remote.Skip)
	assert.Equal(t, "https://cdn.example/img.png", remote.Key())

	local := resolver.Resolve("/images/logo.svg")
	assert.False(t, local.Skip, "offline mode only affects remote assets")
}
