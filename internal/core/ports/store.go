package ports

import "go.trai.ch/sitedims/internal/core/domain"

// DimensionStore holds the asset dimension cache for one build process.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type DimensionStore interface {
	// Get returns the cached dimension for a canonical key.
	// The backing file is loaded on first access.
	Get(key string) (domain.Dimension, bool)

	// Put records a successfully probed dimension and marks the store dirty.
	Put(key string, dim domain.Dimension)

	// Flush persists the cache atomically if it is dirty.
	Flush() error

	// Reset drops the in-memory state so the next access reloads from disk.
	Reset()

	// Dirty reports whether there are unflushed changes.
	Dirty() bool

	// Snapshot returns a copy of the loaded entries.
	Snapshot() domain.DimensionMap

	// Path returns the location of the backing file.
	Path() string
}
