// Package download moves media binaries from the CMS asset host onto
// local disk and keeps the offline bookkeeping (track index, fast path
// index, proxy patches) consistent with what is actually on disk.
package download

import "os"

// FileStore abstracts the filesystem operations the offline indexes
// validate against. Paths are absolute.
type FileStore interface {
	Exists(path string) bool
	Size(path string) (int64, error)
	Remove(path string) error
}

// DiskStore is the production FileStore backed by the OS filesystem.
type DiskStore struct{}

// NewDiskStore creates a filesystem-backed FileStore.
func NewDiskStore() *DiskStore {
	return &DiskStore{}
}

// Exists reports whether a regular file exists at path.
func (DiskStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Size returns the file size in bytes.
func (DiskStore) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Remove deletes the file at path. Missing files are not an error.
func (DiskStore) Remove(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
