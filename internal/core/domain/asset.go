package domain

// Asset is the result of fetching a ResolvedTarget.
type Asset struct {
	Target ResolvedTarget

	// ContentType is the Content-Type header for remote assets, or the type implied by the
	// extension for local ones. It may be empty.
	ContentType string

	// Kind is the probing strategy selected for this asset.
	Kind MediaKind

	// Data holds the asset bytes. It is nil when Streamed is set.
	Data []byte

	// Streamed reports that the bytes were deliberately not buffered and the probe command
	// must read the asset from Target.Location itself.
	Streamed bool
}
