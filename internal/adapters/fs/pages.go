package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PageStore = (*Pages)(nil)

// Pages implements ports.PageStore on the local file system.
type Pages struct {
	walker *Walker
	hasher ports.Hasher
}

// NewPages creates a new Pages store.
func NewPages(walker *Walker, hasher ports.Hasher) *Pages {
	return &Pages{walker: walker, hasher: hasher}
}

// List returns the files below root that carry one of extensions, sorted.
func (p *Pages) List(root string, extensions ...string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrPageWalkFailed, err), "root", root)
	}
	if !info.IsDir() {
		return nil, zerr.With(zerr.Wrap(domain.ErrPageWalkFailed, "not a directory"), "root", root)
	}

	var files []string
	for path := range p.walker.WalkFiles(root, nil) {
		if hasExtension(path, extensions) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Read returns the contents of the page at path.
func (p *Pages) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from List
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrPageReadFailed, err), "path", path)
	}
	return data, nil
}

// Write stores data at path unless the file already has the same digest.
func (p *Pages) Write(path string, data []byte) (bool, error) {
	current, err := p.hasher.HashFile(path)
	switch {
	case err == nil && current == p.hasher.HashBytes(data):
		return false, nil
	case err != nil && !errors.Is(err, iofs.ErrNotExist):
		return false, zerr.With(errors.Join(domain.ErrPageWriteFailed, err), "path", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return false, zerr.With(errors.Join(domain.ErrPageWriteFailed, err), "path", path)
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return false, zerr.With(errors.Join(domain.ErrPageWriteFailed, err), "path", path)
	}
	return true, nil
}
