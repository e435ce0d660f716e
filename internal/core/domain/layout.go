package domain

import "path/filepath"

const (
	// StateDirName is the name of the internal project state directory.
	StateDirName = ".sitedims"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// DimensionCacheFile is the name of the asset dimension cache file.
	DimensionCacheFile = "asset_dimensions.json"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "sitedims.yaml"

	// StagingSegment is the reserved path segment for assets staged next to the content.
	StagingSegment = "asset_staging"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the project-relative path of the dimension cache.
// It joins .sitedims, cache, and asset_dimensions.json.
func DefaultCachePath() string {
	return filepath.Join(StateDirName, CacheDirName, DimensionCacheFile)
}

// JoinRoot resolves p against root unless p is already absolute.
func JoinRoot(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
