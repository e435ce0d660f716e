// Package cas implements the on-disk asset dimension cache.
package cas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
	"go.trai.ch/zerr"
)

// tempCounter disambiguates temp files created by one process within the same nanosecond.
var tempCounter atomic.Uint64

// Store implements ports.DimensionStore backed by a single JSON file.
//
// The file is read lazily on first access. Writers in other processes are
// reconciled only through the temp-then-rename protocol in Flush.
type Store struct {
	path   string
	logger ports.Logger

	mu      sync.Mutex
	entries domain.DimensionMap
	dirty   bool

	writeFile func(name string, data []byte, perm os.FileMode) error
	rename    func(oldpath, newpath string) error
}

// NewStore creates a Store for the cache file at path.
func NewStore(path string, logger ports.Logger) *Store {
	return &Store{
		path:      filepath.Clean(path),
		logger:    logger,
		writeFile: os.WriteFile,
		rename:    os.Rename,
	}
}

// Path returns the location of the cache file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the cached dimension for key.
func (s *Store) Get(key string) (domain.Dimension, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load()
	dim, ok := s.entries[key]
	return dim, ok
}

// Put records dim under key and marks the store dirty when the value changed.
func (s *Store) Put(key string, dim domain.Dimension) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load()
	if existing, ok := s.entries[key]; ok && existing == dim {
		return
	}
	s.entries[key] = dim
	s.dirty = true
}

// Dirty reports whether there are unflushed changes.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Snapshot returns a copy of the loaded entries.
func (s *Store) Snapshot() domain.DimensionMap {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load()
	out := make(domain.DimensionMap, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Reset drops the in-memory state. The next access reloads the file.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.dirty = false
}

// Clear removes the cache file and resets the store.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.dirty = false

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(errors.Join(domain.ErrCacheClearFailed, err), "path", s.path)
	}
	return nil
}

// load reads the cache file once. A missing file is an empty cache; an unreadable
// or malformed one is an empty cache plus a warning. Callers must hold s.mu.
func (s *Store) load() {
	if s.entries != nil {
		return
	}
	s.entries = make(domain.DimensionMap)

	//nolint:gosec // Path comes from the project configuration
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn(fmt.Sprintf("dimension cache %s unreadable, starting empty: %v", s.path, err))
		}
		return
	}

	var raw domain.DimensionMap
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn(fmt.Sprintf("dimension cache %s is corrupt, starting empty: %v", s.path, err))
		return
	}

	dropped := 0
	for key, dim := range raw {
		if !dim.Valid() {
			dropped++
			continue
		}
		s.entries[key] = dim
	}
	if dropped > 0 {
		s.logger.Warn(fmt.Sprintf("dimension cache %s: ignored %d invalid entries", s.path, dropped))
	}
}

// Flush writes the cache to a unique temp file next to the canonical path and renames it
// into place. Losing a rename race to another process counts as success.
//
// A failed temp write leaves the temp file behind for inspection. Any other rename
// failure removes the temp file and returns the rename error.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return errors.Join(domain.ErrCacheMarshalFailed, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrCacheFlushFailed, err), "path", s.path)
	}

	tmp := s.tempName()
	if err := s.writeFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.With(errors.Join(domain.ErrCacheFlushFailed, err), "temp", tmp)
	}

	if err := s.rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		if errors.Is(err, fs.ErrNotExist) {
			s.dirty = false
			return nil
		}
		return zerr.With(errors.Join(domain.ErrCacheFlushFailed, err), "path", s.path)
	}

	s.dirty = false
	return nil
}

// tempName returns <path>.<pid>.<unixnano>.<counter>.tmp.
func (s *Store) tempName() string {
	return fmt.Sprintf("%s.%d.%d.%d.tmp", s.path, os.Getpid(), time.Now().UnixNano(), tempCounter.Add(1))
}
