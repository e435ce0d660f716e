package domain

// SourceKind classifies where an asset reference points.
type SourceKind uint8

const (
	// SourceRemote is an http(s) URL fetched over the network.
	SourceRemote SourceKind = iota
	// SourceLocalAbsolute is a filesystem path that was absolute or root-relative in the markup.
	SourceLocalAbsolute
	// SourceLocalRelative is a filesystem path that was relative to the content root.
	SourceLocalRelative
)

// String returns the string representation of the SourceKind.
func (k SourceKind) String() string {
	switch k {
	case SourceRemote:
		return "remote"
	case SourceLocalAbsolute:
		return "local-absolute"
	case SourceLocalRelative:
		return "local-relative"
	default:
		return "unknown"
	}
}

// ResolvedTarget is the result of classifying a raw asset reference.
type ResolvedTarget struct {
	// Kind tells how Location must be fetched.
	Kind SourceKind
	// Location is the URL for remote targets and an absolute, cleaned path for local ones.
	Location string
	// Raw is the reference as it appeared in the markup.
	Raw string
	// Skip is set when the target must not be fetched (remote targets in offline mode).
	Skip bool
}

// IsRemote reports whether the target is fetched over the network.
func (t ResolvedTarget) IsRemote() bool {
	return t.Kind == SourceRemote
}

// Key returns the canonical cache key: the URL for remote targets and the absolute path
// for local ones.
func (t ResolvedTarget) Key() string {
	return t.Location
}
