package fs

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
)

var _ ports.SourceResolver = (*Resolver)(nil)

// Resolver implements ports.SourceResolver for one set of project roots.
type Resolver struct {
	paths   domain.Paths
	offline bool
}

// NewResolver creates a Resolver. All paths must be absolute.
func NewResolver(paths domain.Paths, offline bool) *Resolver {
	return &Resolver{paths: paths, offline: offline}
}

// Resolve classifies raw, first match wins:
//
//  1. http:// and https:// (and protocol-relative //host) are remote.
//  2. file:// is an absolute path; a missing leading "/" is added.
//  3. A path with an asset_staging segment is re-rooted at that segment under the staging root.
//  4. Other root-relative references live under the static root.
//  5. Everything else is relative to the content root.
//
// Local references never leave their root: ".." stops at it.
func (r *Resolver) Resolve(raw string) domain.ResolvedTarget {
	src := strings.TrimSpace(raw)
	lower := strings.ToLower(src)

	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return domain.ResolvedTarget{Kind: domain.SourceRemote, Location: src, Raw: raw, Skip: r.offline}
	case strings.HasPrefix(src, "//"):
		return domain.ResolvedTarget{Kind: domain.SourceRemote, Location: "https:" + src, Raw: raw, Skip: r.offline}
	case strings.HasPrefix(lower, "file://"):
		p := path.Clean("/" + localPath(src[len("file://"):]))
		return domain.ResolvedTarget{Kind: domain.SourceLocalAbsolute, Location: filepath.FromSlash(p), Raw: raw}
	}

	p := localPath(src)
	if rel, ok := stagingPath(p); ok {
		return domain.ResolvedTarget{
			Kind:     domain.SourceLocalAbsolute,
			Location: joinRooted(r.paths.Staging, rel),
			Raw:      raw,
		}
	}

	if strings.HasPrefix(p, "/") {
		return domain.ResolvedTarget{
			Kind:     domain.SourceLocalAbsolute,
			Location: joinRooted(r.paths.Static, p),
			Raw:      raw,
		}
	}

	return domain.ResolvedTarget{
		Kind:     domain.SourceLocalRelative,
		Location: joinRooted(r.paths.Content, p),
		Raw:      raw,
	}
}

// localPath drops the query and fragment and percent-decodes what is left when possible.
func localPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if decoded, err := url.PathUnescape(p); err == nil {
		return decoded
	}
	return p
}

// stagingPath returns p from its first asset_staging segment on.
func stagingPath(p string) (string, bool) {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		if seg == domain.StagingSegment {
			return strings.Join(segments[i:], "/"), true
		}
	}
	return "", false
}

// joinRooted joins the slash-separated p below root, resolving ".." as if root were "/".
func joinRooted(root, p string) string {
	return filepath.Join(root, filepath.FromSlash(path.Clean("/"+p)))
}
