package fsutil

import (
	"path/filepath"
	"testing"
)

func TestMemoryFileSystemTouchAndExists(t *testing.T) {
	fsys := NewMemoryFileSystem()
	fsys.Touch("/data/run1/dark_001.fits")

	if !fsys.Exists("/data/run1/dark_001.fits") {
		t.Fatal("touched file should exist")
	}
	if !fsys.Exists("/data/run1") {
		t.Fatal("parent directory should exist")
	}
	if fsys.Exists("/data/run2") {
		t.Fatal("unrelated path should not exist")
	}
}

func TestMemoryFileSystemReadDirSorted(t *testing.T) {
	fsys := NewMemoryFileSystem()
	fsys.Touch("/data/b.fits")
	fsys.Touch("/data/a.fits")
	fsys.Touch("/data/sub/c.fits")

	entries, err := fsys.ReadDir("/data")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	want := []string{"a.fits", "b.fits", "sub"}
	for i, e := range entries {
		if e.Name() != want[i] {
			t.Fatalf("entries[%d] = %q, want %q", i, e.Name(), want[i])
		}
	}
	if !entries[2].IsDir() {
		t.Fatal("sub should be a directory")
	}
}

func TestMemoryFileSystemReadDirMissing(t *testing.T) {
	fsys := NewMemoryFileSystem()
	if _, err := fsys.ReadDir("/nope"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestMemoryFileSystemMkdirAll(t *testing.T) {
	fsys := NewMemoryFileSystem()
	if err := fsys.MkdirAll(filepath.Join("/out", "run", "plots"), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if !fsys.Exists("/out/run/plots") || !fsys.Exists("/out") {
		t.Fatal("created directories should exist")
	}
}

func TestOSFileSystemExists(t *testing.T) {
	fsys := OSFileSystem{}
	dir := t.TempDir()
	if !fsys.Exists(dir) {
		t.Fatal("temp dir should exist")
	}
	if fsys.Exists(filepath.Join(dir, "missing")) {
		t.Fatal("missing path should not exist")
	}
}
