package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0640); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestOSFilesystemManager_CopyFile(t *testing.T) {
	m := NewOSFilesystemManager()
	dir := t.TempDir()

	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	writeFile(t, src, "hello")

	if err := m.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", data, "hello")
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0640 {
		t.Errorf("mode = %o, want 0640", info.Mode().Perm())
	}

	if _, err := os.Stat(src); err != nil {
		t.Error("source removed by copy")
	}
}

func TestOSFilesystemManager_CopyFile_MissingSource(t *testing.T) {
	m := NewOSFilesystemManager()
	dir := t.TempDir()

	err := m.CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Error("CopyFile() error = nil, want error for missing source")
	}
}

func TestOSFilesystemManager_MoveFile(t *testing.T) {
	m := NewOSFilesystemManager()
	dir := t.TempDir()

	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "sub", "dst.txt")
	writeFile(t, src, "hello")
	if err := m.MkdirAll(filepath.Dir(dst)); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	if err := m.MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile() error = %v", err)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still exists after move")
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", data, "hello")
	}
}

func TestOSFilesystemManager_Chtimes(t *testing.T) {
	m := NewOSFilesystemManager()
	dir := t.TempDir()

	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, "x")

	want := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := m.Chtimes(path, want, want); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	info, err := m.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !info.ModTime().Equal(want) {
		t.Errorf("ModTime = %v, want %v", info.ModTime(), want)
	}
}

func TestOSFilesystemManager_Exists(t *testing.T) {
	m := NewOSFilesystemManager()
	dir := t.TempDir()

	path := filepath.Join(dir, "f.txt")
	if m.Exists(path) {
		t.Error("Exists() = true for missing file")
	}
	writeFile(t, path, "x")
	if !m.Exists(path) {
		t.Error("Exists() = false for existing file")
	}
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "sub", "b.txt"), "b")
	writeFile(t, filepath.Join(dir, "sub", "c.tmp"), "c")
	writeFile(t, filepath.Join(dir, "node_modules", "pkg", "index.js"), "x")

	matcher := NewIgnoreMatcher([]string{"*.tmp", "node_modules"})

	paths, err := FindFiles(dir, matcher)
	if err != nil {
		t.Fatalf("FindFiles() error = %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("len(paths) = %d, want 2: %v", len(paths), paths)
	}
	for _, p := range paths {
		base := filepath.Base(p)
		if base != "a.txt" && base != "b.txt" {
			t.Errorf("unexpected path %q", p)
		}
	}
}

func TestOSFilesystemManager_DiskFree(t *testing.T) {
	m := NewOSFilesystemManager()

	free, err := m.DiskFree(t.TempDir())
	if err != nil {
		t.Fatalf("DiskFree() error = %v", err)
	}
	if free == 0 {
		t.Error("DiskFree() = 0, want positive")
	}
}
