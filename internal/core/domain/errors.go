package domain

import "go.trai.ch/zerr"

var (
	// ErrAssetNotFound is returned when a local asset does not exist on disk.
	ErrAssetNotFound = zerr.New("asset not found")

	// ErrAssetReadFailed is returned when a local asset exists but cannot be read.
	ErrAssetReadFailed = zerr.New("failed to read asset")

	// ErrFetchStatus is returned when a remote asset responds with a non-2xx status.
	// It is a permanent failure and is never retried.
	ErrFetchStatus = zerr.New("remote asset returned non-success status")

	// ErrFetchRetriesExhausted is returned when every fetch attempt failed with a transient error.
	ErrFetchRetriesExhausted = zerr.New("remote asset fetch failed after all attempts")

	// ErrNoFetchAttempts is returned when the fetch attempt budget is zero.
	ErrNoFetchAttempts = zerr.New("fetch attempt budget is zero")

	// ErrAssetSkipped is returned when a remote asset is requested in offline mode.
	ErrAssetSkipped = zerr.New("remote asset skipped in offline mode")

	// ErrFetchRequestFailed is returned when the HTTP request for a remote asset cannot be built.
	ErrFetchRequestFailed = zerr.New("failed to build asset request")

	// ErrUnsupportedFileType is returned when neither header parsing nor the probe command
	// could determine the dimensions of an asset.
	ErrUnsupportedFileType = zerr.New("unsupported file type")

	// ErrProbeCommandNotFound is returned when the media probe executable cannot be located.
	ErrProbeCommandNotFound = zerr.New("probe command not found")

	// ErrProbeFailed is returned when the media probe exits with a non-zero status.
	ErrProbeFailed = zerr.New("probe command failed")

	// ErrProbeOutputInvalid is returned when the media probe output is not of the form WxH.
	ErrProbeOutputInvalid = zerr.New("probe command returned unexpected output")

	// ErrCommandNotFound is returned when an external command cannot be located on PATH.
	ErrCommandNotFound = zerr.New("command not found")

	// ErrCommandStartFailed is returned when an external command cannot be started.
	ErrCommandStartFailed = zerr.New("failed to start command")

	// ErrHeaderUndecodable is returned when in-memory header parsing cannot determine dimensions.
	ErrHeaderUndecodable = zerr.New("could not decode dimensions from asset header")

	// ErrInvalidDimension is returned when a probe yields a non-positive width or height.
	ErrInvalidDimension = zerr.New("invalid asset dimension")

	// ErrCacheFlushFailed is returned when the dimension cache cannot be persisted.
	ErrCacheFlushFailed = zerr.New("failed to flush dimension cache")

	// ErrCacheMarshalFailed is returned when the dimension cache cannot be serialized.
	ErrCacheMarshalFailed = zerr.New("failed to marshal dimension cache")

	// ErrCacheClearFailed is returned when the dimension cache file cannot be removed.
	ErrCacheClearFailed = zerr.New("failed to clear dimension cache")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when the config file contains invalid values.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrPageReadFailed is returned when a rendered page cannot be read or parsed.
	ErrPageReadFailed = zerr.New("failed to read page")

	// ErrPageWriteFailed is returned when an annotated page cannot be written.
	ErrPageWriteFailed = zerr.New("failed to write page")

	// ErrPageWalkFailed is returned when the output directory cannot be walked.
	ErrPageWalkFailed = zerr.New("failed to walk pages")

	// ErrMarkdownRenderFailed is returned when a Markdown source cannot be rendered.
	ErrMarkdownRenderFailed = zerr.New("failed to render markdown")

	// ErrAssetsFailed is returned in strict mode when at least one asset could not be annotated.
	ErrAssetsFailed = zerr.New("one or more assets could not be annotated")

	// ErrBuildInterrupted marks units of work that were still running when telemetry was closed.
	ErrBuildInterrupted = zerr.New("build interrupted")

	// ErrBuildExecutionFailed is returned when a build finishes with errors.
	ErrBuildExecutionFailed = zerr.New("build execution failed")
)
