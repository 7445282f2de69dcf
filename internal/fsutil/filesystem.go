// Package fsutil provides the filesystem abstraction used for exposure
// selection and output-directory handling, with an in-memory implementation
// for tests.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileSystem abstracts the filesystem operations the pipeline needs.
// Use OSFileSystem in production; MemoryFileSystem in tests.
type FileSystem interface {
	// ReadDir lists the named directory.
	ReadDir(name string) ([]fs.DirEntry, error)

	// MkdirAll creates a directory and all necessary parents.
	MkdirAll(path string, perm os.FileMode) error

	// Exists checks if a file or directory exists.
	Exists(name string) bool
}

// OSFileSystem implements FileSystem using the os package.
type OSFileSystem struct{}

// ReadDir lists a directory.
func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

// MkdirAll creates a directory path.
func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Exists checks if a file exists.
func (OSFileSystem) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// MemoryFileSystem provides an in-memory filesystem for testing.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string]bool
	dirs  map[string]bool
}

// NewMemoryFileSystem creates a new in-memory filesystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{
		files: make(map[string]bool),
		dirs:  make(map[string]bool),
	}
}

// Touch records an empty file, creating parent directories.
func (m *MemoryFileSystem) Touch(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = filepath.Clean(name)
	m.files[name] = true
	for p := filepath.Dir(name); p != "." && p != "/"; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
}

// ReadDir lists the immediate children of a directory, sorted by name.
func (m *MemoryFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	if !m.dirs[name] {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	var entries []fs.DirEntry
	for f := range m.files {
		if filepath.Dir(f) == name {
			entries = append(entries, memDirEntry{name: filepath.Base(f)})
		}
	}
	for d := range m.dirs {
		if filepath.Dir(d) == name {
			entries = append(entries, memDirEntry{name: filepath.Base(d), isDir: true})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// MkdirAll creates directories.
func (m *MemoryFileSystem) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	for p := path; p != "." && p != "/"; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}

// Exists checks if a file or directory exists.
func (m *MemoryFileSystem) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	return m.files[name] || m.dirs[name]
}

// memDirEntry implements fs.DirEntry.
type memDirEntry struct {
	name  string
	isDir bool
}

func (e memDirEntry) Name() string      { return e.name }
func (e memDirEntry) IsDir() bool       { return e.isDir }
func (e memDirEntry) Type() fs.FileMode { return 0 }
func (e memDirEntry) Info() (fs.FileInfo, error) {
	return memFileInfo{name: e.name, isDir: e.isDir}, nil
}

// memFileInfo implements fs.FileInfo.
type memFileInfo struct {
	name  string
	isDir bool
}

func (i memFileInfo) Name() string       { return i.name }
func (i memFileInfo) Size() int64        { return 0 }
func (i memFileInfo) Mode() os.FileMode  { return 0 }
func (i memFileInfo) ModTime() time.Time { return time.Time{} }
func (i memFileInfo) IsDir() bool        { return i.isDir }
func (i memFileInfo) Sys() any           { return nil }
