package domain

import "time"

const (
	// DefaultFetchAttempts is the number of attempts made for a remote asset before giving up.
	DefaultFetchAttempts = 3

	// DefaultFetchTimeout bounds a single remote fetch attempt.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultProbeCommand is the media probe executable looked up on PATH.
	DefaultProbeCommand = "ffprobe"

	// ConfigVersion is the only config file schema version understood by this build.
	ConfigVersion = "1"

	// DefaultConcurrency is the number of pages and assets processed in parallel.
	DefaultConcurrency = 8
)

// Paths holds the absolute directories used to resolve asset references.
type Paths struct {
	// Project is the project root. Every other path defaults to a child of it.
	Project string
	// Content is the root for bare relative references and the Markdown sources.
	Content string
	// Output is where rendered HTML pages live.
	Output string
	// Static is the root for references starting with "/".
	Static string
	// Staging is the parent directory of the asset_staging segment.
	Staging string
}

// FetchConfig configures remote asset retrieval.
type FetchConfig struct {
	Attempts int
	Timeout  time.Duration
}

// ProbeConfig configures the media probe subprocess.
type ProbeConfig struct {
	Command string
}

// MarkdownConfig configures the Markdown render stage.
type MarkdownConfig struct {
	Extensions []string
}

// Config is the resolved build configuration.
type Config struct {
	Paths       Paths
	CachePath   string
	Offline     bool
	Strict      bool
	Concurrency int
	Fetch       FetchConfig
	Probe       ProbeConfig
	Markdown    MarkdownConfig
}

// DefaultConfig returns the configuration used when no config file is present.
// All paths are relative to root, which must be absolute.
func DefaultConfig(root string) Config {
	return Config{
		Paths: Paths{
			Project: root,
			Content: JoinRoot(root, "content"),
			Output:  JoinRoot(root, "public"),
			Static:  root,
			Staging: JoinRoot(root, "website_content"),
		},
		CachePath:   JoinRoot(root, DefaultCachePath()),
		Concurrency: DefaultConcurrency,
		Fetch: FetchConfig{
			Attempts: DefaultFetchAttempts,
			Timeout:  DefaultFetchTimeout,
		},
		Probe: ProbeConfig{
			Command: DefaultProbeCommand,
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"gfm", "footnote"},
		},
	}
}

// Overrides carries command-line values that take precedence over the config file.
// Nil fields leave the file value untouched.
type Overrides struct {
	Offline     *bool
	Strict      *bool
	Attempts    *int
	Concurrency *int
}

// Apply returns a copy of c with the overrides applied.
func (o Overrides) Apply(c Config) Config {
	if o.Offline != nil {
		c.Offline = *o.Offline
	}
	if o.Strict != nil {
		c.Strict = *o.Strict
	}
	if o.Attempts != nil {
		c.Fetch.Attempts = *o.Attempts
	}
	if o.Concurrency != nil {
		c.Concurrency = *o.Concurrency
	}
	return c
}
