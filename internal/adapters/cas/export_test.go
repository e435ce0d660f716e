package cas

import "os"

// SetRename replaces the rename step of Flush.
func (s *Store) SetRename(fn func(oldpath, newpath string) error) {
	s.rename = fn
}

// SetWriteFile replaces the temp file write step of Flush.
func (s *Store) SetWriteFile(fn func(name string, data []byte, perm os.FileMode) error) {
	s.writeFile = fn
}

// TempName exposes the temp file naming scheme.
func (s *Store) TempName() string {
	return s.tempName()
}
